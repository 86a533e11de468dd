// Package elkgraph models graph descriptions in the ELK JSON format.
//
// The main functionalities include:
//   - Decoding graph descriptions from JSON or YAML.
//   - Validating ids and edge endpoints before a layout run.
//   - Walking and indexing the node hierarchy.
//   - Encoding laid-out graphs back to JSON.
//
// A graph description is its root Node: children, ports and edges hang off it, and every
// coordinate of a child is relative to its parent, as produced by ELK.
package elkgraph

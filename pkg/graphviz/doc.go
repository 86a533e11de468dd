// Package graphviz provides a layout engine backed by Graphviz.
//
// The main functionalities include:
//   - Converting each level of an ELK graph description to the DOT language.
//   - Running a Graphviz layout (dot, fdp, neato, twopi, osage...) in process through go-graphviz.
//   - Reading node positions and edge routes back into ELK coordinates.
//
// Compound nodes are laid out bottom-up, one hierarchy level at a time, the same way ELK does
// when hierarchy handling is left to its default.
package graphviz

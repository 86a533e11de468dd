// Package layout defines the pluggable layout capability.
//
// An Engine takes a graph description and returns the same graph annotated with positions
// and sizes. Engines never compute layouts themselves in this repository: they delegate to
// graphviz (see package graphviz) or to an external process speaking ELK JSON on its
// standard input and output (see CommandEngine and package elkjs).
package layout

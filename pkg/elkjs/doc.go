/*
Package elkjs lays out graphs with the Eclipse Layout Kernel compiled to JavaScript (elkjs).

The engine runs an embedded driver script with node: the graph is piped as ELK JSON on the
driver's standard input and the laid-out graph is read back from its standard output. The
elkjs module is resolved by node, so it may be an installed package ("elkjs/lib/elk.bundled.js")
or a path to a bundled file ("./elk.bundled.js").
*/
package elkjs

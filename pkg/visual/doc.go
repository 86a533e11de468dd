/*
Package visual implements the operations of the visual command line: placing graph descriptions
with a layout engine and inspecting the result.

Operations take their options as plain structs hydrated from the configuration, and their inputs
as resolved source.Input values, so they can run without a terminal.
*/
package visual

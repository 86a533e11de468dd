// Package source resolves where graph descriptions are read from.
package source

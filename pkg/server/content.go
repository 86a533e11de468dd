package server

import (
	"crypto/sha256"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/wolfeidau/humanhash"
)

// Content holds the bytes being served. It can be swapped while requests are served.
type Content struct {
	current atomic.Pointer[snapshot]
}

type snapshot struct {
	data        []byte
	fingerprint string
}

// LoadContent reads the file at path.
func LoadContent(path string) (*Content, error) {
	c := &Content{}
	if err := c.Reload(path); err != nil {
		return nil, err
	}

	return c, nil
}

// NewContent returns a Content serving data.
func NewContent(data []byte) *Content {
	c := &Content{}
	c.Set(data)

	return c
}

// Reload reads the file at path again. The previous content is kept on failure.
func (c *Content) Reload(path string) error {
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("couldn't open input file %s: %w", path, err)
	}

	c.Set(data)

	return nil
}

// Set replaces the content.
func (c *Content) Set(data []byte) {
	c.current.Store(&snapshot{data: data, fingerprint: Fingerprint(data)})
}

// Bytes returns the content currently served.
func (c *Content) Bytes() []byte {
	return c.current.Load().data
}

// Fingerprint returns a human readable hash of the content currently served.
func (c *Content) Fingerprint() string {
	return c.current.Load().fingerprint
}

// Fingerprint computes a human readable hash of data, made of four words.
func Fingerprint(data []byte) string {
	sum := sha256.Sum256(data)

	words, err := humanhash.Humanize(sum[:], 4)
	if err != nil {
		return fmt.Sprintf("%x", sum[:8])
	}

	return words
}

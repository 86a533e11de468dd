package strutil_test

import (
	"testing"

	"github.com/minispec/visual/pkg/strutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKeyValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    []string
		expected map[string]string
		wantErr  bool
	}{
		{
			name:     "nothing",
			expected: map[string]string{},
		},
		{
			name:  "several options",
			input: []string{"elk.direction=DOWN", "elk.spacing.nodeNode = 40"},
			expected: map[string]string{
				"elk.direction":        "DOWN",
				"elk.spacing.nodeNode": "40",
			},
		},
		{
			name:     "value containing separators",
			input:    []string{"elk.padding=[top=1,left=2]"},
			expected: map[string]string{"elk.padding": "[top=1,left=2]"},
		},
		{
			name:     "last one wins",
			input:    []string{"elk.direction=DOWN", "elk.direction=UP"},
			expected: map[string]string{"elk.direction": "UP"},
		},
		{
			name:     "empty value",
			input:    []string{"elk.direction="},
			expected: map[string]string{"elk.direction": ""},
		},
		{name: "no separator", input: []string{"elk.direction"}, wantErr: true},
		{name: "no key", input: []string{"=DOWN"}, wantErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			actual, err := strutil.ParseKeyValues(test.input)
			if test.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expected, actual)
		})
	}
}

func TestDedupeStrSlice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "No duplicates",
			input:    []string{"a.json", "b.json"},
			expected: []string{"a.json", "b.json"},
		},
		{
			name:     "Duplicates in input",
			input:    []string{"a.json", "b.json", "a.json", "-", "-"},
			expected: []string{"a.json", "b.json", "-"},
		},
		{
			name:     "Empty input",
			input:    []string{},
			expected: nil,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, test.expected, strutil.DedupeStrSlice(test.input))
		})
	}
}

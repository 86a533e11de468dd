//nolint:paralleltest
package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withBuffer(t *testing.T) *bytes.Buffer {
	t.Helper()

	previous := Get()
	buf := &bytes.Buffer{}
	SetWriter(buf)
	t.Cleanup(func() {
		logger.Store(previous)
	})

	return buf
}

func TestLogger(t *testing.T) {
	buf := withBuffer(t)

	Infof("this is info")
	Debugf("should not be displayed")

	debugLvl := "debug"
	SetLevel(&debugLvl)
	Debugf("should be displayed")
	assert.Equal(t, LogLevelDebug, Get().Level)

	Warnf("this is a warning")
	Errorf("this is an error")

	out := buf.String()
	assert.Contains(t, out, "this is info")
	assert.NotContains(t, out, "should not be displayed")
	assert.Contains(t, out, "should be displayed")
	assert.Contains(t, out, "this is a warning")
	assert.Contains(t, out, "this is an error")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected LogLevel
		wantErr  bool
	}{
		{input: "debug", expected: LogLevelDebug},
		{input: "INFO", expected: LogLevelInfo},
		{input: "", expected: LogLevelInfo},
		{input: "warn", expected: LogLevelWarn},
		{input: "warning", expected: LogLevelWarn},
		{input: "error", expected: LogLevelError},
		{input: "fatal", expected: LogLevelFatal},
		{input: "verbose", expected: LogLevelInfo, wantErr: true},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			lvl, err := ParseLevel(test.input)
			if test.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expected, lvl)
		})
	}
}

func TestFatalfExits(t *testing.T) {
	buf := withBuffer(t)

	code := 0
	previousExit := exit
	exit = func(c int) { code = c }
	t.Cleanup(func() { exit = previousExit })

	Fatalf("couldn't open input file %s", "page.html")

	assert.Equal(t, 1, code)
	assert.Contains(t, buf.String(), "couldn't open input file page.html")
}

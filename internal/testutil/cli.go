package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"testing"
)

// CaptureOutput returns everything fn writes to os.Stdout
func CaptureOutput(t *testing.T, fn func()) string {
	t.Helper()
	return capture(t, &os.Stdout, fn)
}

// CaptureStderr returns everything fn writes to os.Stderr
func CaptureStderr(t *testing.T, fn func()) string {
	t.Helper()
	return capture(t, &os.Stderr, fn)
}

// capture swaps *stream for a pipe while fn runs. The original file is put
// back even if fn fails the test.
func capture(t *testing.T, stream **os.File, fn func()) string {
	t.Helper()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	original := *stream
	*stream = w

	copied := make(chan string, 1)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		copied <- buf.String()
	}()

	restore := func() {
		if *stream == w {
			*stream = original
			_ = w.Close()
		}
	}
	t.Cleanup(restore)

	fn()
	restore()
	return <-copied
}

// DecodeJSON unmarshals one command's JSON output into T
func DecodeJSON[T any](t *testing.T, output string) T {
	t.Helper()

	var result T
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Fatalf("failed to parse JSON output: %v\noutput: %s", err, output)
	}
	return result
}

// ParseJSON decodes a command's JSON envelope
func ParseJSON(t *testing.T, output string) map[string]any {
	t.Helper()
	return DecodeJSON[map[string]any](t, output)
}

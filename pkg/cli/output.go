package cli

import (
	"fmt"
	"io"
	"os"

	"mercator-hq/costlens/pkg/export"
)

// ResolveFormat returns the format named by flag, or the configured format
// when flag is empty.
func ResolveFormat(flag, configured string) (export.Format, error) {
	if flag != "" {
		return export.ParseFormat(flag)
	}
	return export.ParseFormat(configured)
}

// nopCloser keeps stdout open when the caller closes the output.
type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// OpenOutput opens path for writing, truncating it. An empty path or "-"
// returns stdout wrapped so that Close leaves it open.
func OpenOutput(path string, stdout io.Writer) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		if stdout == nil {
			stdout = os.Stdout
		}
		return nopCloser{stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open output file: %w", err)
	}
	return f, nil
}

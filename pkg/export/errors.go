package export

import "fmt"

// ExportError represents an error during report export.
type ExportError struct {
	Format string // Export format ("text", "json", "csv", "sqlite")
	Rows   int    // Number of rows being exported
	Cause  error  // Underlying error
}

// Error implements the error interface.
func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [format=%s, rows=%d]: %v", e.Format, e.Rows, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *ExportError) Unwrap() error {
	return e.Cause
}

// NewExportError creates a new ExportError.
func NewExportError(format string, rows int, cause error) *ExportError {
	return &ExportError{
		Format: format,
		Rows:   rows,
		Cause:  cause,
	}
}

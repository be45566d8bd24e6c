package xmlcheck

import (
	"fmt"

	"github.com/geowerk/projfile/pkg/projfile"
)

// XMLError represents a project-file XML failure with optional location
// context. Detail carries either the joined human-readable context built
// from the offending line, or the raw parser message when no context
// could be constructed.
type XMLError struct {
	Path   string // Path to the file with the error
	Line   int    // Line number (0 if unknown)
	Column int    // Column number (0 if unknown)
	Detail string // Joined context segments or the raw parser message
}

// Error implements the error interface.
func (e *XMLError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("invalid project file %s (line %d, column %d): %s",
			e.Path, e.Line, e.Column, e.Detail)
	}
	return fmt.Sprintf("invalid project file %s: %s", e.Path, e.Detail)
}

// Unwrap lets callers match the error with errors.Is(err, projfile.ErrInvalidProjectFile).
func (e *XMLError) Unwrap() error {
	return projfile.ErrInvalidProjectFile
}

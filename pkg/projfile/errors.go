package projfile

import "errors"

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	err := xmlcheck.CheckProjectFile(path, logger)
//	if errors.Is(err, projfile.ErrInvalidFileExtension) {
//	    // Handle unrecognized container format
//	}
var (
	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrProjectFileNotFound indicates the project file does not exist.
	ErrProjectFileNotFound = errors.New("project file not found")

	// ErrInvalidFileExtension indicates the project file has an
	// unrecognized container extension.
	ErrInvalidFileExtension = errors.New("invalid project file extension")

	// ErrInvalidProjectFile indicates the project file is not well-formed
	// XML, or failed the engine-level read even though syntactic
	// validation passed.
	ErrInvalidProjectFile = errors.New("invalid project file")

	// ErrThumbnailFailed indicates the project thumbnail could not be
	// generated or saved.
	ErrThumbnailFailed = errors.New("thumbnail generation failed")

	// ErrRenderTimeout indicates a render job did not complete within the
	// caller's deadline.
	ErrRenderTimeout = errors.New("render timed out")
)

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, ErrProjectFileNotFound):
		return ExitFileNotFound
	case errors.Is(err, ErrInvalidFileExtension):
		return ExitInvalidExtension
	case errors.Is(err, ErrInvalidProjectFile):
		return ExitInvalidProject
	case errors.Is(err, ErrThumbnailFailed), errors.Is(err, ErrRenderTimeout):
		return ExitThumbnailFailed
	}

	return ExitGeneralError
}

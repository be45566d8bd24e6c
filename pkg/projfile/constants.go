package projfile

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess          = 0  // Operation completed successfully
	ExitGeneralError     = 1  // Unknown or unclassified error
	ExitUsageError       = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic            = 3  // Internal panic (unexpected crash)
	ExitConfigError      = 10 // Invalid configuration or parameters
	ExitFileNotFound     = 11 // Project file does not exist
	ExitInvalidExtension = 12 // Unrecognized project file extension
	ExitInvalidProject   = 13 // Project file is not well-formed or not readable
	ExitThumbnailFailed  = 14 // Thumbnail could not be rendered or saved
)

// Recognized project file container formats.
const (
	// ExtProjectXML is the plain XML project container.
	ExtProjectXML = ".qgs"

	// ExtProjectArchive is the compressed (zip) project container.
	// Its internal well-formedness is validated by the loader, not
	// by the lightweight validity check.
	ExtProjectArchive = ".qgz"
)

const (
	// DefaultRenderTimeout bounds the wait for an asynchronous render job.
	DefaultRenderTimeout = 30 * time.Second

	// DefaultThumbnailWidth and DefaultThumbnailHeight are the output size
	// of generated project thumbnails.
	DefaultThumbnailWidth  = 100
	DefaultThumbnailHeight = 100

	// DetailsCanvasWidth and DetailsCanvasHeight are the fixed output size
	// used when recovering the canvas extent for project details. The fixed
	// size normalizes extents so they are comparable across projects
	// regardless of the authoring display.
	DetailsCanvasWidth  = 1024
	DetailsCanvasHeight = 768

	// CanvasNodeName is the name attribute of the canvas-configuration node
	// that carries the map view state applied to render settings.
	CanvasNodeName = "theMapCanvas"

	// DefaultAttachmentDir is the single-entry fallback for the project
	// attachment directory list.
	DefaultAttachmentDir = "DCIM"
)

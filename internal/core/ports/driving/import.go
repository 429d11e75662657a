package driving

import "context"

// ImportResult describes what happened to each path passed to ImportFiles.
type ImportResult struct {
	// Added lists the titles of documents added to the session.
	Added []string

	// Skipped maps a path to the reason it was not imported.
	Skipped map[string]error
}

// ImportService loads local files into the session.
type ImportService interface {
	// ImportFiles loads at most RemainingSlots paths, in order.
	// Per-file failures are reported in the result.
	ImportFiles(ctx context.Context, paths []string) (*ImportResult, error)

	// SupportedMIMETypes returns the MIME types that can be imported.
	SupportedMIMETypes() []string
}

package driven

import "context"

// ReportWriter persists an exported report.
type ReportWriter interface {
	// Write stores data under name and returns the full path written.
	// An existing file with the same name is replaced.
	Write(ctx context.Context, name string, data []byte) (string, error)
}

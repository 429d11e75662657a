package driving

import (
	"context"

	"github.com/custodia-labs/contextguard/internal/core/domain"
)

// ReportService renders and exports the session's issue report.
type ReportService interface {
	// Format renders the current issues in the given format.
	Format(format domain.ExportFormat) (string, error)

	// Export writes the rendered report to disk and returns the path.
	Export(ctx context.Context, format domain.ExportFormat) (string, error)
}

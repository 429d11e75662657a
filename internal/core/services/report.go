package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/contextguard/internal/core/domain"
	"github.com/custodia-labs/contextguard/internal/core/ports/driven"
	"github.com/custodia-labs/contextguard/internal/core/ports/driving"
	"github.com/custodia-labs/contextguard/internal/logger"
	"github.com/custodia-labs/contextguard/internal/report"
)

// Ensure ReportService implements the interface.
var _ driving.ReportService = (*ReportService)(nil)

// ReportBaseName is the file name, without extension, of exported reports.
const ReportBaseName = "ContextGuard_Report"

// ReportService renders and exports the issues of a check session.
type ReportService struct {
	session driving.CheckService
	writer  driven.ReportWriter
}

// NewReportService creates a new report service.
func NewReportService(session driving.CheckService, writer driven.ReportWriter) *ReportService {
	return &ReportService{
		session: session,
		writer:  writer,
	}
}

// Format renders the current issues in the given format.
func (s *ReportService) Format(format domain.ExportFormat) (string, error) {
	return report.Format(format, len(s.session.Documents()), s.session.Issues())
}

// Export writes the report of the last completed check and returns its path.
func (s *ReportService) Export(ctx context.Context, format domain.ExportFormat) (string, error) {
	defer logger.Stage("Export")()

	if format == "" {
		format = domain.ExportFormatText
	}
	if state := s.session.State(); state.Status != domain.CheckCompleted {
		return "", fmt.Errorf("%w: no completed check to export (state %s)", domain.ErrInvalidInput, state.Status)
	}

	content, err := s.Format(format)
	if err != nil {
		return "", err
	}

	name := ReportBaseName + "." + format.Extension()
	path, err := s.writer.Write(ctx, name, []byte(content))
	if err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}

	logger.Debug("report written to %s", path)
	return path, nil
}

package mcp

import (
	"github.com/custodia-labs/contextguard/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Check owns the session documents and runs the analysis.
	Check driving.CheckService

	// Import loads files from disk into the session.
	Import driving.ImportService

	// Report renders and exports the issue report.
	Report driving.ReportService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Check == nil {
		return ErrMissingCheckService
	}
	// Import and Report are optional; their tools fail without them.
	return nil
}

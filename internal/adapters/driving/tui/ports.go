// Package tui provides an interactive terminal user interface for contextguard.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/contextguard/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Check holds the document session and runs the analysis.
	Check driving.CheckService

	// Import loads files into the session. Optional; adding files is
	// disabled without it.
	Import driving.ImportService

	// Report renders and exports the last check. Optional; export is
	// disabled without it.
	Report driving.ReportService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(
	check driving.CheckService,
	imp driving.ImportService,
	report driving.ReportService,
) *Ports {
	return &Ports{
		Check:  check,
		Import: imp,
		Report: report,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Check == nil {
		return ErrMissingCheckService
	}
	return nil
}

// Package mcp provides an MCP (Model Context Protocol) server adapter for ContextGuard.
// It lets AI assistants load documents into a check session, run the
// consistency check and read the resulting report.
package mcp

import "errors"

// ErrMissingCheckService is returned when the check service is not provided.
var ErrMissingCheckService = errors.New("mcp: check service is required")

// ErrImportUnavailable is returned by add_document when paths are given but
// no import service is configured.
var ErrImportUnavailable = errors.New("mcp: file import is not available")

// ErrReportUnavailable is returned when no report service is configured.
var ErrReportUnavailable = errors.New("mcp: report export is not available")

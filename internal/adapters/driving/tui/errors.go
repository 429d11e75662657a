package tui

import "errors"

// ErrMissingCheckService is returned when the check service is not provided.
var ErrMissingCheckService = errors.New("tui: check service is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")

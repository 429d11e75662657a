package domain

// UnavailableReason explains why the contradiction detector cannot run.
type UnavailableReason string

// Known reasons.
const (
	// ReasonNotConfigured means no provider has been set up.
	ReasonNotConfigured UnavailableReason = "not_configured"

	// ReasonFeatureDisabled means the provider exists but the feature is switched off.
	ReasonFeatureDisabled UnavailableReason = "feature_disabled"

	// ReasonDeviceIneligible means the host cannot run the model at all.
	ReasonDeviceIneligible UnavailableReason = "device_ineligible"

	// ReasonModelNotReady means the model is still being provisioned or downloaded.
	ReasonModelNotReady UnavailableReason = "model_not_ready"

	// ReasonUnreachable means the provider did not answer.
	ReasonUnreachable UnavailableReason = "unreachable"

	// ReasonUnknown covers everything else.
	ReasonUnknown UnavailableReason = "unknown"
)

// Availability is the result of a detector capability check.
// The zero value is unavailable for an unknown reason.
type Availability struct {
	Available bool
	Reason    UnavailableReason
	Detail    string
}

// Available returns an Availability that allows the detector to run.
func Available() Availability {
	return Availability{Available: true}
}

// Unavailable returns an Availability that blocks the detector.
func Unavailable(reason UnavailableReason, detail string) Availability {
	if reason == "" {
		reason = ReasonUnknown
	}
	return Availability{Reason: reason, Detail: detail}
}

// Err converts an unavailable result into an *UnavailableError, or nil when available.
func (a Availability) Err() error {
	if a.Available {
		return nil
	}
	reason := a.Reason
	if reason == "" {
		reason = ReasonUnknown
	}
	return &UnavailableError{Reason: reason, Detail: a.Detail}
}

package dispatch

// Phase is the state of a send attempt. A send walks
// Idle -> Validating -> BuildingPayload -> AwaitingResponse and ends in
// one of the terminal phases. Terminal phases return control to Idle on
// the next user action; nothing is retried automatically.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseValidating
	PhaseBuildingPayload
	PhaseAwaitingResponse
	PhaseSucceeded
	PhaseNetworkFailed
	PhaseHttpError
	PhaseValidationFailed
	PhaseUnexpectedError
)

// String returns the phase name as stored in the send log
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseValidating:
		return "validating"
	case PhaseBuildingPayload:
		return "building_payload"
	case PhaseAwaitingResponse:
		return "awaiting_response"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseNetworkFailed:
		return "network_failed"
	case PhaseHttpError:
		return "http_error"
	case PhaseValidationFailed:
		return "validation_failed"
	case PhaseUnexpectedError:
		return "unexpected_error"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether the phase ends a send attempt
func (p Phase) IsTerminal() bool {
	switch p {
	case PhaseSucceeded, PhaseNetworkFailed, PhaseHttpError, PhaseValidationFailed, PhaseUnexpectedError:
		return true
	}
	return false
}

// IsSuccessStatus returns true if status code is 2xx
func IsSuccessStatus(status int) bool {
	return status >= 200 && status < 300
}

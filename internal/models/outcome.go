// This file defines the tri-state-style outcome value returned by
// write operations (votes, reviews, favorites). These are expected,
// recoverable conditions and are never expressed as errors.

package models

// ProviderOutcome is the result of a provider write operation.
type ProviderOutcome int

const (
	OutcomeSuccess ProviderOutcome = iota
	OutcomeFailed
	OutcomeNeedLogin
	OutcomeNotSupported
	OutcomeCanceled
)

func (o ProviderOutcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailed:
		return "failed"
	case OutcomeNeedLogin:
		return "need_login"
	case OutcomeNotSupported:
		return "not_supported"
	case OutcomeCanceled:
		return "canceled"
	}
	return "unknown"
}

// MarshalText makes outcomes readable in JSON API responses.
func (o ProviderOutcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

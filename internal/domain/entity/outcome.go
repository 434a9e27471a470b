package entity

// Outcome carries a value together with the fallbacks taken to produce it, so
// callers can tell a clean result from a degraded one.
type Outcome[T any] struct {
	Value    T        `json:"value"`
	Degraded bool     `json:"degraded"`
	Reasons  []string `json:"reasons,omitempty"`
}

// Clean wraps a value produced without any fallback.
func Clean[T any](v T) Outcome[T] {
	return Outcome[T]{Value: v}
}

// Fallback wraps a value produced through a fallback path.
func Fallback[T any](v T, reason string) Outcome[T] {
	return Outcome[T]{Value: v, Degraded: true, Reasons: []string{reason}}
}

// WithReason marks the outcome as degraded and appends the reason.
func (o Outcome[T]) WithReason(reason string) Outcome[T] {
	o.Degraded = true
	o.Reasons = append(append([]string(nil), o.Reasons...), reason)
	return o
}

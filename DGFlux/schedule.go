package DGFlux

import "fmt"

// BoundaryValue supplies a boundary input as a function of time.
type BoundaryValue interface {
	ValueAt(time float64) float64
}

// InputValue is a constant boundary input.
type InputValue float64

func (v InputValue) ValueAt(float64) float64 {
	return float64(v)
}

// RampStep is one scheduled target: the input reaches Value at the end
// of a linear transition window of width Span centered on Time.
type RampStep struct {
	Time, Value, Span float64
}

// InputSchedule is a stepwise boundary input with linear transitions.
// Before the first window the value is Initial; inside window i it
// interpolates from the previous plateau to Steps[i].Value; after the
// last window it holds the final plateau.
type InputSchedule struct {
	Initial float64
	Steps   []RampStep
}

// NewInputSchedule builds a schedule from parallel slices of target
// values, step times and transition spans. The slices must have equal
// length, times must be strictly increasing and spans positive.
func NewInputSchedule(initial float64, vals, times, spans []float64) (*InputSchedule, error) {
	if len(vals) != len(times) || len(vals) != len(spans) {
		return nil, fmt.Errorf("schedule lengths differ: %d values, %d times, %d spans",
			len(vals), len(times), len(spans))
	}
	s := &InputSchedule{Initial: initial}
	for i := range vals {
		if spans[i] <= 0 {
			return nil, fmt.Errorf("schedule span %d must be positive, got %g", i, spans[i])
		}
		if i > 0 && times[i] <= times[i-1] {
			return nil, fmt.Errorf("schedule times must be strictly increasing, got %g after %g",
				times[i], times[i-1])
		}
		s.Steps = append(s.Steps, RampStep{Time: times[i], Value: vals[i], Span: spans[i]})
	}
	return s, nil
}

func (s *InputSchedule) ValueAt(t float64) float64 {
	prev := s.Initial
	for _, step := range s.Steps {
		lo := step.Time - step.Span/2
		if t < lo {
			return prev
		}
		if t < lo+step.Span {
			return prev + (step.Value-prev)*(t-lo)/step.Span
		}
		prev = step.Value
	}
	return prev
}

package DGFlux

import "fmt"

// PenaltyScheme selects the interior penalty variant through the sign of
// the symmetrizing consistency term.
type PenaltyScheme uint8

const (
	NIPG PenaltyScheme = iota // non-symmetric, epsilon = +1
	SIPG                      // symmetric, epsilon = -1
	IIPG                      // incomplete, epsilon = 0
)

var (
	schemeNames = map[string]PenaltyScheme{
		"nipg": NIPG,
		"sipg": SIPG,
		"iipg": IIPG,
	}
	schemeLabels = map[PenaltyScheme]string{
		NIPG: "nipg",
		SIPG: "sipg",
		IIPG: "iipg",
	}
)

func ParsePenaltyScheme(label string) (PenaltyScheme, error) {
	ps, ok := schemeNames[label]
	if !ok {
		return NIPG, fmt.Errorf("unknown penalty scheme %q, want nipg, sipg or iipg", label)
	}
	return ps, nil
}

func (ps PenaltyScheme) String() string {
	return schemeLabels[ps]
}

func (ps PenaltyScheme) Epsilon() float64 {
	switch ps {
	case NIPG:
		return 1
	case SIPG:
		return -1
	}
	return 0
}

// Penalty fixes the scheme and penalty strength for one kernel. It is a
// value type passed at construction; kernels never consult mutable or
// process-global state.
type Penalty struct {
	Scheme PenaltyScheme
	Sigma  float64
}

func (pen Penalty) validate() error {
	if pen.Sigma <= 0 {
		return fmt.Errorf("penalty sigma must be positive, got %g", pen.Sigma)
	}
	return nil
}

// hFloor keeps the sigma/h penalty representable on degenerate faces.
const hFloor = 1e-20

func (pen Penalty) overH(h float64) float64 {
	if h < hFloor {
		h = hFloor
	}
	return pen.Sigma / h
}

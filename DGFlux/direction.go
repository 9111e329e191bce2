package DGFlux

// FlowDirection is the advective character of a face quadrature point.
type FlowDirection uint8

const (
	Outflow FlowDirection = iota
	Inflow
)

var flowDirectionNames = map[FlowDirection]string{
	Outflow: "outflow",
	Inflow:  "inflow",
}

func (fd FlowDirection) String() string {
	return flowDirectionNames[fd]
}

// Classify returns the flow direction for a signed normal velocity
// s = v·n with n outward from the M side. Zero takes the outflow
// branch, so a no-flow face never consumes a boundary input value.
// Classification is recomputed at every quadrature point; reversing
// flows switch branch per point with no retained state.
func Classify(vDotN float64) FlowDirection {
	if vDotN >= 0 {
		return Outflow
	}
	return Inflow
}

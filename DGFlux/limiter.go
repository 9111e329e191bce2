package DGFlux

import "math"

// dFloor keeps the Peclet ratio representable when the diffusive
// strength across the face vanishes.
const dFloor = 1e-20

// FluxLimiter blends the interior trace with a target boundary value by
// the local ratio of advective to diffusive strength. Advection
// dominated faces take the target, diffusion dominated faces relax to
// the interior value, and the blend varies continuously in between with
// a well defined derivative for Jacobian assembly.
type FluxLimiter struct{}

// Weight is the blend factor w = Pe/(1+Pe) in [0,1).
func (FluxLimiter) Weight(pe float64) float64 {
	pe = math.Abs(pe)
	return pe / (1 + pe)
}

// WeightDeriv is dw/dPe = 1/(1+Pe)^2, the blend sensitivity the
// coupled-field Jacobians chain through.
func (FluxLimiter) WeightDeriv(pe float64) float64 {
	pe = math.Abs(pe)
	return 1 / ((1 + pe) * (1 + pe))
}

// Peclet forms the ratio |s| h / (n·D·n) from the signed normal
// velocity, the face length scale and the normal diffusive strength.
func (FluxLimiter) Peclet(s, h, dn float64) float64 {
	dn = math.Abs(dn)
	if dn < dFloor {
		dn = dFloor
	}
	return math.Abs(s) * h / dn
}

// Blend returns the limited boundary value and its derivative with
// respect to the interior trace. The Peclet ratio does not depend on
// the transported variable, so the derivative is exactly 1-w.
func (l FluxLimiter) Blend(uInterior, uTarget, pe float64) (val, dValDu float64) {
	w := l.Weight(pe)
	val = uInterior + w*(uTarget-uInterior)
	dValDu = 1 - w
	return
}

package DGFlux

import (
	"fmt"
	"math"
)

// BCTag labels a set of boundary faces. The assembly engine matches face
// tags against the tags a boundary kernel was configured with.
type BCTag string

type tagSet map[BCTag]bool

func newTagSet(tags []BCTag) (tagSet, error) {
	if len(tags) == 0 {
		return nil, fmt.Errorf("boundary kernel needs at least one boundary tag")
	}
	ts := make(tagSet, len(tags))
	for _, t := range tags {
		ts[t] = true
	}
	return ts, nil
}

// BoundaryState is the per-point decision of a BoundaryFlux.
type BoundaryState uint8

const (
	OutflowNatural BoundaryState = iota
	InflowSpecified
	InflowLimited
)

var boundaryStateNames = map[BoundaryState]string{
	OutflowNatural:  "outflow-natural",
	InflowSpecified: "inflow-specified",
	InflowLimited:   "inflow-limited",
}

func (bs BoundaryState) String() string {
	return boundaryStateNames[bs]
}

// BoundaryConfig assembles an open-boundary flux kernel. Tensor nil
// yields a purely advective condition; Limited engages the flux limiter
// on inflow and requires a tensor for the Peclet ratio.
type BoundaryConfig struct {
	Variable string
	Velocity [3]string
	Porosity string
	Tensor   *TensorConfig
	Penalty  Penalty
	Input    BoundaryValue
	Limited  bool
	Tags     []BCTag
}

// BoundaryFlux composes an advective term and an optional diffusive term
// into the open-boundary policy. Outflow points carry the interior trace
// out and leave diffusion natural (zero gradient); inflow points carry
// the configured input in and emulate a Dirichlet value on the diffusive
// term through the interior penalty machinery.
type BoundaryFlux struct {
	adv     *AdvectiveFlux
	diff    *DiffusiveFlux
	in      BoundaryValue
	limited bool
	lim     FluxLimiter
	tags    tagSet
	u       FieldID
}

func NewBoundaryFlux(cfg BoundaryConfig, fields *FieldSet) (k *BoundaryFlux, err error) {
	if cfg.Input == nil {
		return nil, fmt.Errorf("boundary flux for %q needs an input value", cfg.Variable)
	}
	if cfg.Limited && cfg.Tensor == nil {
		return nil, fmt.Errorf("limited boundary flux for %q needs a diffusion tensor", cfg.Variable)
	}
	k = &BoundaryFlux{in: cfg.Input, limited: cfg.Limited}
	if k.tags, err = newTagSet(cfg.Tags); err != nil {
		return nil, err
	}
	k.adv, err = NewAdvectiveFlux(AdvectionConfig{
		Variable: cfg.Variable,
		Velocity: cfg.Velocity,
		Porosity: cfg.Porosity,
	}, fields)
	if err != nil {
		return nil, err
	}
	k.u = k.adv.u
	if cfg.Tensor != nil {
		k.diff, err = NewDiffusiveFlux(DiffusionConfig{
			Variable: cfg.Variable,
			Tensor:   *cfg.Tensor,
			Porosity: cfg.Porosity,
			Penalty:  cfg.Penalty,
		}, fields)
		if err != nil {
			return nil, err
		}
	}
	return
}

func (k *BoundaryFlux) AppliesTo(tag BCTag) bool {
	return k.tags[tag]
}

// State classifies the current quadrature point. It is recomputed per
// point, so a reversing boundary switches policy with the flow.
func (k *BoundaryFlux) State(p *FacePoint, s Sampler) BoundaryState {
	if Classify(k.adv.NormalVelocity(p, s)) == Outflow {
		return OutflowNatural
	}
	if k.limited {
		return InflowLimited
	}
	return InflowSpecified
}

// inflowValue returns the boundary value u_b used on inflow and its
// derivative with respect to the interior trace.
func (k *BoundaryFlux) inflowValue(p *FacePoint, s Sampler, vn, time float64) (ub, dUb float64) {
	target := k.in.ValueAt(time)
	if !k.limited {
		return target, 0
	}
	pe := k.lim.Peclet(vn, p.H, k.diff.normalStrengthM(p, s))
	return k.lim.Blend(s.ValueM(k.u), target, pe)
}

func (k *BoundaryFlux) Residual(p *FacePoint, s Sampler, time float64) (r float64) {
	vn := k.adv.NormalVelocity(p, s)
	if Classify(vn) == Outflow {
		return p.TestM.Val * vn * s.ValueM(k.u)
	}
	ub, _ := k.inflowValue(p, s, vn, time)
	r = p.TestM.Val * vn * ub
	if k.diff != nil {
		var (
			eps  = k.diff.pen.Scheme.Epsilon()
			jump = s.ValueM(k.u) - ub
		)
		r += -k.diff.fluxM(p, s, s.GradM(k.u)) * p.TestM.Val
		r += eps * jump * k.diff.fluxM(p, s, p.TestM.Grad)
		r += k.diff.penaltyCoeffM(p, s) * jump * p.TestM.Val
	}
	return
}

func (k *BoundaryFlux) Jacobian(p *FacePoint, s Sampler, time float64) (j float64) {
	vn := k.adv.NormalVelocity(p, s)
	if Classify(vn) == Outflow {
		return p.TestM.Val * vn * p.TrialM.Val
	}
	_, dUb := k.inflowValue(p, s, vn, time)
	j = p.TestM.Val * vn * dUb * p.TrialM.Val
	if k.diff != nil {
		var (
			eps   = k.diff.pen.Scheme.Epsilon()
			dJump = (1 - dUb) * p.TrialM.Val
		)
		j += -k.diff.fluxM(p, s, p.TrialM.Grad) * p.TestM.Val
		j += eps * dJump * k.diff.fluxM(p, s, p.TestM.Grad)
		j += k.diff.penaltyCoeffM(p, s) * dJump * p.TestM.Val
	}
	return
}

// OffDiagJacobian differentiates with respect to coupled velocity,
// porosity or tensor fields. On limited inflow the Peclet ratio moves
// with the normal velocity and the normal diffusive strength, so u_b
// picks up the chain w'(Pe) dPe (target - u_M) alongside the direct
// coefficient sensitivities, in the advective term and through the
// jump in every u_b bearing diffusive term.
func (k *BoundaryFlux) OffDiagJacobian(p *FacePoint, s Sampler, time float64, jvar FieldID) (j float64) {
	if jvar == NoField || jvar == k.u {
		return 0
	}
	vn := k.adv.NormalVelocity(p, s)
	if Classify(vn) == Outflow {
		return k.adv.OffDiagJacobian(p, s, jvar)
	}
	ub, _ := k.inflowValue(p, s, vn, time)
	var dVn, dDn float64
	for i, id := range k.adv.vel {
		if id == jvar {
			dVn = porosityM(s, k.adv.porosity) * p.Normal[i] * p.TrialM.Val
		}
	}
	if k.adv.porosity != NoField && jvar == k.adv.porosity {
		dVn = velocityM(s, k.adv.vel).Dot(p.Normal) * p.TrialM.Val
	}
	if k.diff != nil {
		if k.diff.porosity != NoField && jvar == k.diff.porosity {
			dDn = k.diff.d.NormalM(s, p.Normal) * p.TrialM.Val
		}
		if ax := k.diff.d.componentAxis(jvar); ax >= 0 {
			dDn = porosityM(s, k.diff.porosity) * p.Normal[ax] * p.Normal[ax] * p.TrialM.Val
		}
	}
	var dUb float64
	if k.limited {
		var (
			dn  = math.Abs(k.diff.normalStrengthM(p, s))
			pe  = k.lim.Peclet(vn, p.H, dn)
			dPe float64
		)
		if dn < dFloor {
			dn = dFloor // clamped: Pe no longer moves with the strength
		} else {
			dPe = -pe / dn * dDn
		}
		// inflow has vn < 0, so |vn| shrinks as vn grows
		dPe -= p.H / dn * dVn
		dUb = k.lim.WeightDeriv(pe) * dPe * (k.in.ValueAt(time) - s.ValueM(k.u))
	}
	j = p.TestM.Val * (dVn*ub + vn*dUb)
	if k.diff != nil {
		var (
			eps  = k.diff.pen.Scheme.Epsilon()
			jump = s.ValueM(k.u) - ub
		)
		if k.diff.porosity != NoField && jvar == k.diff.porosity {
			j += -k.diff.d.ApplyM(s, s.GradM(k.u)).Dot(p.Normal) * p.TrialM.Val * p.TestM.Val
			j += eps * jump * k.diff.d.ApplyM(s, p.TestM.Grad).Dot(p.Normal) * p.TrialM.Val
			j += k.diff.pen.overH(p.H) * k.diff.d.NormalM(s, p.Normal) * p.TrialM.Val * jump * p.TestM.Val
		}
		if ax := k.diff.d.componentAxis(jvar); ax >= 0 {
			epsM := porosityM(s, k.diff.porosity)
			j += -epsM * s.GradM(k.u)[ax] * p.Normal[ax] * p.TrialM.Val * p.TestM.Val
			j += eps * jump * epsM * p.TestM.Grad[ax] * p.Normal[ax] * p.TrialM.Val
			j += k.diff.pen.overH(p.H) * epsM * p.Normal[ax] * p.Normal[ax] * p.TrialM.Val * jump * p.TestM.Val
		}
		// the jump carries -dUb through the adjoint and penalty terms
		j += -dUb * (eps*k.diff.fluxM(p, s, p.TestM.Grad) + k.diff.penaltyCoeffM(p, s)*p.TestM.Val)
	}
	return
}

// WallConfig assembles a closed-wall exchange kernel: a Robin condition
// transferring the variable through the wall at a rate set by the
// transfer coefficient, the exposed area fraction and the exterior
// value.
type WallConfig struct {
	Variable     string
	Transfer     CoefConfig
	AreaFraction float64
	Exterior     BoundaryValue
	Tags         []BCTag
}

// WallFlux drains a_f h_t (u_M - u_ext) through the boundary. It never
// classifies flow direction; walls have none.
type WallFlux struct {
	u    FieldID
	ht   Coef
	af   float64
	ext  BoundaryValue
	tags tagSet
}

func NewWallFlux(cfg WallConfig, fields *FieldSet) (k *WallFlux, err error) {
	if cfg.Exterior == nil {
		return nil, fmt.Errorf("wall flux for %q needs an exterior value", cfg.Variable)
	}
	if cfg.AreaFraction <= 0 {
		return nil, fmt.Errorf("wall area fraction must be positive, got %g", cfg.AreaFraction)
	}
	k = &WallFlux{af: cfg.AreaFraction, ext: cfg.Exterior}
	if k.tags, err = newTagSet(cfg.Tags); err != nil {
		return nil, err
	}
	if k.u, err = fields.Lookup(cfg.Variable); err != nil {
		return nil, err
	}
	if cfg.Transfer.Field == "" {
		if cfg.Transfer.Value <= 0 {
			return nil, fmt.Errorf("wall transfer coefficient must be positive, got %g", cfg.Transfer.Value)
		}
		k.ht = ConstCoef(cfg.Transfer.Value)
	} else {
		id, err := fields.resolveCoupled(k.u, cfg.Transfer.Field)
		if err != nil {
			return nil, err
		}
		k.ht = FieldCoef(id)
	}
	return
}

func (k *WallFlux) AppliesTo(tag BCTag) bool {
	return k.tags[tag]
}

func (k *WallFlux) Residual(p *FacePoint, s Sampler, time float64) float64 {
	return p.TestM.Val * k.af * k.ht.ValueM(s) * (s.ValueM(k.u) - k.ext.ValueAt(time))
}

func (k *WallFlux) Jacobian(p *FacePoint, s Sampler, time float64) float64 {
	return p.TestM.Val * k.af * k.ht.ValueM(s) * p.TrialM.Val
}

func (k *WallFlux) OffDiagJacobian(p *FacePoint, s Sampler, time float64, jvar FieldID) float64 {
	if k.ht.IsField() && jvar == k.ht.Field() {
		return p.TestM.Val * k.af * p.TrialM.Val * (s.ValueM(k.u) - k.ext.ValueAt(time))
	}
	return 0
}

var (
	_ BoundaryKernel = (*BoundaryFlux)(nil)
	_ BoundaryKernel = (*WallFlux)(nil)
)

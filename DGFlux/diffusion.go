package DGFlux

import "fmt"

// CoefConfig names a diffusion tensor component: a coupled field when
// Field is set, otherwise the constant Value.
type CoefConfig struct {
	Field string
	Value float64
}

// TensorConfig assembles the diagonal diffusion tensor from per-axis
// components.
type TensorConfig struct {
	Dx, Dy, Dz CoefConfig
}

// Isotropic is the common single-coefficient tensor.
func Isotropic(d float64) TensorConfig {
	c := CoefConfig{Value: d}
	return TensorConfig{c, c, c}
}

func (tc TensorConfig) resolve(fields *FieldSet, primary FieldID) (D DiffusionTensor, err error) {
	comp := func(cc CoefConfig) (Coef, error) {
		if cc.Field == "" {
			if cc.Value < 0 {
				return Coef{}, fmt.Errorf("diffusion coefficient must be non-negative, got %g", cc.Value)
			}
			return ConstCoef(cc.Value), nil
		}
		id, err := fields.resolveCoupled(primary, cc.Field)
		if err != nil {
			return Coef{}, err
		}
		return FieldCoef(id), nil
	}
	if D.Dx, err = comp(tc.Dx); err != nil {
		return
	}
	if D.Dy, err = comp(tc.Dy); err != nil {
		return
	}
	D.Dz, err = comp(tc.Dz)
	return
}

// DiffusionConfig couples a diffusive flux kernel to its fields and
// fixes the penalty variant.
type DiffusionConfig struct {
	Variable string
	Tensor   TensorConfig
	Porosity string
	Penalty  Penalty
}

// DiffusiveFlux is the interior penalty numerical flux of the
// porosity-scaled operator del·(eps D grad(u)) on interior faces:
//
//	-1/2 (eps_M D_M grad(u_M) + eps_P D_P grad(u_P))·n phi
//	+ e/2 (u_M - u_P) (eps_M D_M grad(phi))·n
//	+ sigma/h {eps n·D·n} (u_M - u_P) phi
//
// with e = +1 (NIPG), -1 (SIPG) or 0 (IIPG). The penalty carries the
// face-averaged normal diffusive strength {eps n·D·n}, so sigma stays
// dimensionless and every term vanishes with the tensor.
type DiffusiveFlux struct {
	u        FieldID
	d        DiffusionTensor
	porosity FieldID
	pen      Penalty
}

func NewDiffusiveFlux(cfg DiffusionConfig, fields *FieldSet) (k *DiffusiveFlux, err error) {
	if err = cfg.Penalty.validate(); err != nil {
		return nil, err
	}
	k = &DiffusiveFlux{pen: cfg.Penalty}
	if k.u, err = fields.Lookup(cfg.Variable); err != nil {
		return nil, err
	}
	if k.d, err = cfg.Tensor.resolve(fields, k.u); err != nil {
		return nil, err
	}
	if k.porosity, err = fields.resolveCoupled(k.u, cfg.Porosity); err != nil {
		return nil, err
	}
	return
}

func porosityP(s Sampler, id FieldID) float64 {
	if id == NoField {
		return 1
	}
	return s.ValueP(id)
}

// fluxM is (eps D grad(g))·n with M-side traces.
func (k *DiffusiveFlux) fluxM(p *FacePoint, s Sampler, g Vec) float64 {
	return porosityM(s, k.porosity) * k.d.ApplyM(s, g).Dot(p.Normal)
}

func (k *DiffusiveFlux) fluxP(p *FacePoint, s Sampler, g Vec) float64 {
	return porosityP(s, k.porosity) * k.d.ApplyP(s, g).Dot(p.Normal)
}

// normalStrengthM is eps n·D·n with M-side traces, the diffusive
// strength seen across the face.
func (k *DiffusiveFlux) normalStrengthM(p *FacePoint, s Sampler) float64 {
	return porosityM(s, k.porosity) * k.d.NormalM(s, p.Normal)
}

func (k *DiffusiveFlux) normalStrengthP(p *FacePoint, s Sampler) float64 {
	return porosityP(s, k.porosity) * k.d.NormalP(s, p.Normal)
}

// penaltyCoeff is sigma/h times the side-averaged normal strength. It
// is invariant under the face swap, so both elements see one penalty.
func (k *DiffusiveFlux) penaltyCoeff(p *FacePoint, s Sampler) float64 {
	return k.pen.overH(p.H) * 0.5 * (k.normalStrengthM(p, s) + k.normalStrengthP(p, s))
}

// penaltyCoeffM is the boundary variant, built from the M side alone.
func (k *DiffusiveFlux) penaltyCoeffM(p *FacePoint, s Sampler) float64 {
	return k.pen.overH(p.H) * k.normalStrengthM(p, s)
}

func (k *DiffusiveFlux) Residual(p *FacePoint, s Sampler) (r float64) {
	var (
		eps  = k.pen.Scheme.Epsilon()
		jump = s.ValueM(k.u) - s.ValueP(k.u)
	)
	r = -0.5 * (k.fluxM(p, s, s.GradM(k.u)) + k.fluxP(p, s, s.GradP(k.u))) * p.TestM.Val
	r += eps * 0.5 * jump * k.fluxM(p, s, p.TestM.Grad)
	r += k.penaltyCoeff(p, s) * jump * p.TestM.Val
	return
}

func (k *DiffusiveFlux) Jacobian(p *FacePoint, s Sampler) (j float64) {
	eps := k.pen.Scheme.Epsilon()
	j = -0.5 * k.fluxM(p, s, p.TrialM.Grad) * p.TestM.Val
	j += eps * 0.5 * p.TrialM.Val * k.fluxM(p, s, p.TestM.Grad)
	j += k.penaltyCoeff(p, s) * p.TrialM.Val * p.TestM.Val
	return
}

func (k *DiffusiveFlux) NeighborJacobian(p *FacePoint, s Sampler) (j float64) {
	eps := k.pen.Scheme.Epsilon()
	j = -0.5 * k.fluxP(p, s, p.TrialP.Grad) * p.TestM.Val
	j -= eps * 0.5 * p.TrialP.Val * k.fluxM(p, s, p.TestM.Grad)
	j -= k.penaltyCoeff(p, s) * p.TrialP.Val * p.TestM.Val
	return
}

// OffDiagJacobian differentiates with respect to the M-side trial of the
// porosity or a field-backed tensor component. All three terms carry
// coefficient sensitivity, the penalty through its averaged strength.
func (k *DiffusiveFlux) OffDiagJacobian(p *FacePoint, s Sampler, jvar FieldID) (j float64) {
	if jvar == NoField || jvar == k.u {
		return 0
	}
	var (
		eps  = k.pen.Scheme.Epsilon()
		jump = s.ValueM(k.u) - s.ValueP(k.u)
	)
	if k.porosity != NoField && jvar == k.porosity {
		dnM := k.d.NormalM(s, p.Normal)
		j = -0.5 * k.d.ApplyM(s, s.GradM(k.u)).Dot(p.Normal) * p.TrialM.Val * p.TestM.Val
		j += eps * 0.5 * jump * k.d.ApplyM(s, p.TestM.Grad).Dot(p.Normal) * p.TrialM.Val
		j += k.pen.overH(p.H) * 0.5 * dnM * p.TrialM.Val * jump * p.TestM.Val
		return
	}
	if ax := k.d.componentAxis(jvar); ax >= 0 {
		epsM := porosityM(s, k.porosity)
		j = -0.5 * epsM * s.GradM(k.u)[ax] * p.Normal[ax] * p.TrialM.Val * p.TestM.Val
		j += eps * 0.5 * jump * epsM * p.TestM.Grad[ax] * p.Normal[ax] * p.TrialM.Val
		j += k.pen.overH(p.H) * 0.5 * epsM * p.Normal[ax] * p.Normal[ax] * p.TrialM.Val * jump * p.TestM.Val
		return
	}
	return 0
}

// VolumeDiffusion is the element-interior companion of DiffusiveFlux:
// (eps D grad(u))·grad(phi).
type VolumeDiffusion struct {
	u        FieldID
	d        DiffusionTensor
	porosity FieldID
}

func NewVolumeDiffusion(cfg DiffusionConfig, fields *FieldSet) (k *VolumeDiffusion, err error) {
	k = &VolumeDiffusion{}
	if k.u, err = fields.Lookup(cfg.Variable); err != nil {
		return nil, err
	}
	if k.d, err = cfg.Tensor.resolve(fields, k.u); err != nil {
		return nil, err
	}
	if k.porosity, err = fields.resolveCoupled(k.u, cfg.Porosity); err != nil {
		return nil, err
	}
	return
}

func (k *VolumeDiffusion) Residual(q *VolumePoint, s Sampler) float64 {
	eps := porosityM(s, k.porosity)
	return eps * k.d.ApplyM(s, s.GradM(k.u)).Dot(q.Test.Grad)
}

func (k *VolumeDiffusion) Jacobian(q *VolumePoint, s Sampler) float64 {
	eps := porosityM(s, k.porosity)
	return eps * k.d.ApplyM(s, q.Trial.Grad).Dot(q.Test.Grad)
}

func (k *VolumeDiffusion) OffDiagJacobian(q *VolumePoint, s Sampler, jvar FieldID) float64 {
	if jvar == NoField || jvar == k.u {
		return 0
	}
	if k.porosity != NoField && jvar == k.porosity {
		return k.d.ApplyM(s, s.GradM(k.u)).Dot(q.Test.Grad) * q.Trial.Val
	}
	if ax := k.d.componentAxis(jvar); ax >= 0 {
		return porosityM(s, k.porosity) * s.GradM(k.u)[ax] * q.Test.Grad[ax] * q.Trial.Val
	}
	return 0
}

var (
	_ FaceKernel   = (*DiffusiveFlux)(nil)
	_ VolumeKernel = (*VolumeDiffusion)(nil)
)

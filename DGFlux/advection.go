package DGFlux

// AdvectionConfig couples an advection kernel to its fields by name.
// Velocity components left empty contribute zero; an empty Porosity
// means a non-porous medium (unit scaling).
type AdvectionConfig struct {
	Variable string
	Velocity [3]string
	Porosity string
}

func (cfg AdvectionConfig) resolve(fields *FieldSet) (u FieldID, vel [3]FieldID, porosity FieldID, err error) {
	if u, err = fields.Lookup(cfg.Variable); err != nil {
		return
	}
	for i, name := range cfg.Velocity {
		if vel[i], err = fields.resolveCoupled(u, name); err != nil {
			return
		}
	}
	porosity, err = fields.resolveCoupled(u, cfg.Porosity)
	return
}

// AdvectiveFlux is the upwind numerical flux of the porosity-scaled
// advection operator del·(eps v u) on interior faces. The M-side
// residual uses the upwind trace of u selected by the sign of
// s = (eps v)·n.
type AdvectiveFlux struct {
	u        FieldID
	vel      [3]FieldID
	porosity FieldID
}

func NewAdvectiveFlux(cfg AdvectionConfig, fields *FieldSet) (k *AdvectiveFlux, err error) {
	k = &AdvectiveFlux{}
	k.u, k.vel, k.porosity, err = cfg.resolve(fields)
	if err != nil {
		return nil, err
	}
	return
}

func porosityM(s Sampler, id FieldID) float64 {
	if id == NoField {
		return 1
	}
	return s.ValueM(id)
}

func velocityM(s Sampler, vel [3]FieldID) (v Vec) {
	for i, id := range vel {
		if id != NoField {
			v[i] = s.ValueM(id)
		}
	}
	return
}

// NormalVelocity returns s = (eps v)·n at the current point using
// M-side traces.
func (k *AdvectiveFlux) NormalVelocity(p *FacePoint, s Sampler) float64 {
	return porosityM(s, k.porosity) * velocityM(s, k.vel).Dot(p.Normal)
}

// Flux returns the upwind numerical flux s·u_up. Swapping the face view
// negates it exactly: the same mass leaves M as enters P.
func (k *AdvectiveFlux) Flux(p *FacePoint, s Sampler) float64 {
	vn := k.NormalVelocity(p, s)
	if Classify(vn) == Outflow {
		return vn * s.ValueM(k.u)
	}
	return vn * s.ValueP(k.u)
}

func (k *AdvectiveFlux) Residual(p *FacePoint, s Sampler) float64 {
	return p.TestM.Val * k.Flux(p, s)
}

func (k *AdvectiveFlux) Jacobian(p *FacePoint, s Sampler) float64 {
	vn := k.NormalVelocity(p, s)
	if Classify(vn) == Outflow {
		return p.TestM.Val * vn * p.TrialM.Val
	}
	return 0
}

func (k *AdvectiveFlux) NeighborJacobian(p *FacePoint, s Sampler) float64 {
	vn := k.NormalVelocity(p, s)
	if Classify(vn) == Outflow {
		return 0
	}
	return p.TestM.Val * vn * p.TrialP.Val
}

// OffDiagJacobian differentiates with respect to the M-side trial of a
// coupled velocity component or the porosity. The upwind trace itself is
// held by its branch, so the dependence is linear and exact.
func (k *AdvectiveFlux) OffDiagJacobian(p *FacePoint, s Sampler, jvar FieldID) float64 {
	if jvar == NoField || jvar == k.u {
		return 0
	}
	var (
		vn  = k.NormalVelocity(p, s)
		uUp = s.ValueM(k.u)
	)
	if Classify(vn) == Inflow {
		uUp = s.ValueP(k.u)
	}
	for i, id := range k.vel {
		if id == jvar {
			return p.TestM.Val * porosityM(s, k.porosity) * p.Normal[i] * p.TrialM.Val * uUp
		}
	}
	if k.porosity != NoField && jvar == k.porosity {
		return p.TestM.Val * velocityM(s, k.vel).Dot(p.Normal) * p.TrialM.Val * uUp
	}
	return 0
}

// VolumeAdvection is the element-interior companion of AdvectiveFlux:
// the integrated-by-parts advection term -u (eps v)·grad(phi). Pairing
// it with the face flux recovers the conservative operator.
type VolumeAdvection struct {
	u        FieldID
	vel      [3]FieldID
	porosity FieldID
}

func NewVolumeAdvection(cfg AdvectionConfig, fields *FieldSet) (k *VolumeAdvection, err error) {
	k = &VolumeAdvection{}
	k.u, k.vel, k.porosity, err = cfg.resolve(fields)
	if err != nil {
		return nil, err
	}
	return
}

func (k *VolumeAdvection) Residual(q *VolumePoint, s Sampler) float64 {
	eps := porosityM(s, k.porosity)
	return -s.ValueM(k.u) * eps * velocityM(s, k.vel).Dot(q.Test.Grad)
}

func (k *VolumeAdvection) Jacobian(q *VolumePoint, s Sampler) float64 {
	eps := porosityM(s, k.porosity)
	return -q.Trial.Val * eps * velocityM(s, k.vel).Dot(q.Test.Grad)
}

func (k *VolumeAdvection) OffDiagJacobian(q *VolumePoint, s Sampler, jvar FieldID) float64 {
	if jvar == NoField || jvar == k.u {
		return 0
	}
	for i, id := range k.vel {
		if id == jvar {
			return -s.ValueM(k.u) * porosityM(s, k.porosity) * q.Trial.Val * q.Test.Grad[i]
		}
	}
	if k.porosity != NoField && jvar == k.porosity {
		return -s.ValueM(k.u) * velocityM(s, k.vel).Dot(q.Test.Grad) * q.Trial.Val
	}
	return 0
}

var (
	_ FaceKernel   = (*AdvectiveFlux)(nil)
	_ VolumeKernel = (*VolumeAdvection)(nil)
)

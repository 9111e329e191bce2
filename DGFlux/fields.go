package DGFlux

import "fmt"

// FieldID is a typed handle to a registered field. Handles are resolved
// from names once at setup; evaluation never performs name lookup.
type FieldID int

// NoField marks an optional coupling that was left unconfigured.
const NoField FieldID = -1

// FieldSpec describes a registered field. Order and Family identify the
// discretization of the field's basis; cross-coupled fields must share
// them with the variable they are coupled into.
type FieldSpec struct {
	Name   string
	Order  int
	Family string
}

// FieldSet is the registry of fields known to an assembly engine. All
// registration happens before kernels are constructed.
type FieldSet struct {
	specs []FieldSpec
	ids   map[string]FieldID
}

func NewFieldSet() *FieldSet {
	return &FieldSet{ids: make(map[string]FieldID)}
}

func (fs *FieldSet) Register(spec FieldSpec) (FieldID, error) {
	if spec.Name == "" {
		return NoField, fmt.Errorf("field registration requires a name")
	}
	if _, exists := fs.ids[spec.Name]; exists {
		return NoField, fmt.Errorf("field %q registered twice", spec.Name)
	}
	id := FieldID(len(fs.specs))
	fs.specs = append(fs.specs, spec)
	fs.ids[spec.Name] = id
	return id, nil
}

func (fs *FieldSet) Lookup(name string) (FieldID, error) {
	id, ok := fs.ids[name]
	if !ok {
		return NoField, fmt.Errorf("unknown field %q", name)
	}
	return id, nil
}

func (fs *FieldSet) Spec(id FieldID) FieldSpec {
	return fs.specs[id]
}

func (fs *FieldSet) Len() int {
	return len(fs.specs)
}

// resolveCoupled resolves an optional coupled-field name and enforces
// that its discretization matches the primary variable's. An empty name
// yields NoField.
func (fs *FieldSet) resolveCoupled(primary FieldID, name string) (FieldID, error) {
	if name == "" {
		return NoField, nil
	}
	id, err := fs.Lookup(name)
	if err != nil {
		return NoField, err
	}
	var (
		ps = fs.specs[primary]
		cs = fs.specs[id]
	)
	if ps.Order != cs.Order || ps.Family != cs.Family {
		return NoField, fmt.Errorf("coupled field %q is %s/%d, variable %q is %s/%d",
			cs.Name, cs.Family, cs.Order, ps.Name, ps.Family, ps.Order)
	}
	return id, nil
}

// Sampler provides two-sided field traces at the current quadrature
// point. On boundary faces the P side returns the exterior trace the
// caller chose to expose, conventionally the M-side value.
type Sampler interface {
	ValueM(id FieldID) float64
	ValueP(id FieldID) float64
	GradM(id FieldID) Vec
	GradP(id FieldID) Vec
}

// SwapSides returns a view of s with the M and P roles exchanged, the
// sampler counterpart of FacePoint.Swapped.
func SwapSides(s Sampler) Sampler {
	if w, ok := s.(swapSampler); ok {
		return w.s
	}
	return swapSampler{s}
}

type swapSampler struct{ s Sampler }

func (w swapSampler) ValueM(id FieldID) float64 { return w.s.ValueP(id) }
func (w swapSampler) ValueP(id FieldID) float64 { return w.s.ValueM(id) }
func (w swapSampler) GradM(id FieldID) Vec      { return w.s.GradP(id) }
func (w swapSampler) GradP(id FieldID) Vec      { return w.s.GradM(id) }

// PointSample is a Sampler backed by dense per-field slices, sized by
// the FieldSet. Assembly engines fill it once per quadrature point.
type PointSample struct {
	ValM, ValP           []float64
	GradientM, GradientP []Vec
}

func NewPointSample(nFields int) *PointSample {
	return &PointSample{
		ValM:      make([]float64, nFields),
		ValP:      make([]float64, nFields),
		GradientM: make([]Vec, nFields),
		GradientP: make([]Vec, nFields),
	}
}

func (ps *PointSample) ValueM(id FieldID) float64 { return ps.ValM[id] }
func (ps *PointSample) ValueP(id FieldID) float64 { return ps.ValP[id] }
func (ps *PointSample) GradM(id FieldID) Vec      { return ps.GradientM[id] }
func (ps *PointSample) GradP(id FieldID) Vec      { return ps.GradientP[id] }

// Set assigns both sides at once, the common case away from faces with
// discontinuous coefficients.
func (ps *PointSample) Set(id FieldID, val float64, grad Vec) {
	ps.ValM[id], ps.ValP[id] = val, val
	ps.GradientM[id], ps.GradientP[id] = grad, grad
}

// Coef is one diagonal component of a diffusion tensor: either a fixed
// constant or a coupled field sampled per point.
type Coef struct {
	id FieldID
	c  float64
}

func ConstCoef(v float64) Coef {
	return Coef{id: NoField, c: v}
}

func FieldCoef(id FieldID) Coef {
	return Coef{id: id}
}

func (c Coef) IsField() bool {
	return c.id != NoField
}

func (c Coef) Field() FieldID {
	return c.id
}

func (c Coef) ValueM(s Sampler) float64 {
	if c.id == NoField {
		return c.c
	}
	return s.ValueM(c.id)
}

func (c Coef) ValueP(s Sampler) float64 {
	if c.id == NoField {
		return c.c
	}
	return s.ValueP(c.id)
}

// DiffusionTensor is the axis-aligned diagonal tensor diag(Dx, Dy, Dz).
// Off-diagonal couplings are not representable.
type DiffusionTensor struct {
	Dx, Dy, Dz Coef
}

func IsotropicTensor(d float64) DiffusionTensor {
	c := ConstCoef(d)
	return DiffusionTensor{c, c, c}
}

// ApplyM returns D·g with M-side component values.
func (D DiffusionTensor) ApplyM(s Sampler, g Vec) Vec {
	return Vec{D.Dx.ValueM(s) * g[0], D.Dy.ValueM(s) * g[1], D.Dz.ValueM(s) * g[2]}
}

// ApplyP returns D·g with P-side component values.
func (D DiffusionTensor) ApplyP(s Sampler, g Vec) Vec {
	return Vec{D.Dx.ValueP(s) * g[0], D.Dy.ValueP(s) * g[1], D.Dz.ValueP(s) * g[2]}
}

// NormalM returns n·D·n with M-side values, the diffusive strength seen
// across a face of normal n.
func (D DiffusionTensor) NormalM(s Sampler, n Vec) float64 {
	return D.ApplyM(s, n).Dot(n)
}

func (D DiffusionTensor) NormalP(s Sampler, n Vec) float64 {
	return D.ApplyP(s, n).Dot(n)
}

// componentID maps a tensor field handle back to its axis, NoField when
// jvar backs none of the components.
func (D DiffusionTensor) componentAxis(jvar FieldID) int {
	switch {
	case D.Dx.IsField() && D.Dx.Field() == jvar:
		return 0
	case D.Dy.IsField() && D.Dy.Field() == jvar:
		return 1
	case D.Dz.IsField() && D.Dz.Field() == jvar:
		return 2
	}
	return -1
}

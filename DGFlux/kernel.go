/*
Package DGFlux implements the numerical face fluxes and companion volume
terms of a discontinuous Galerkin discretization of advection, diffusion
and boundary exchange in porous media.

Kernels are immutable after construction and carry no per-evaluation
state, so a single kernel instance may be shared across faces and
goroutines. All mutable inputs arrive through the FacePoint / VolumePoint
and Sampler arguments, which are owned by the caller. Kernels return
test-weighted contributions at a single quadrature point; the caller
applies the quadrature weight while accumulating.

Faces are oriented: the M side is the element whose equation is being
assembled, the P side its neighbor, and Normal points outward from M.
Assembling the P side equation is done by presenting the kernel with the
swapped view of the same face.
*/
package DGFlux

// Vec is a physical-space vector. One and two dimensional problems leave
// the trailing components zero.
type Vec [3]float64

func (v Vec) Dot(w Vec) (d float64) {
	d = v[0]*w[0] + v[1]*w[1] + v[2]*w[2]
	return
}

func (v Vec) Scale(a float64) Vec {
	return Vec{a * v[0], a * v[1], a * v[2]}
}

func (v Vec) Add(w Vec) Vec {
	return Vec{v[0] + w[0], v[1] + w[1], v[2] + w[2]}
}

// BasisSample is the value and physical gradient of one basis function
// at one quadrature point.
type BasisSample struct {
	Val  float64
	Grad Vec
}

// FacePoint carries the geometry and basis samples for one quadrature
// point on one face, viewed from the M side. On domain boundary faces
// the P-side samples are zero and OnBoundary is set.
type FacePoint struct {
	Pos            Vec
	Weight         float64
	Normal         Vec         // unit normal, outward from the M side
	H              float64     // characteristic mesh length for penalty scaling
	OnBoundary     bool
	TestM, TestP   BasisSample // test function of the assembled equation
	TrialM, TrialP BasisSample // trial function of the derivative column
}

// Swapped returns the same face point viewed from the P side: the normal
// reverses and the M and P basis samples exchange roles. Pair it with
// SwapSides on the sampler.
func (p *FacePoint) Swapped() (q FacePoint) {
	q = *p
	q.Normal = p.Normal.Scale(-1)
	q.TestM, q.TestP = p.TestP, p.TestM
	q.TrialM, q.TrialP = p.TrialP, p.TrialM
	return
}

// VolumePoint carries the basis samples for one element-interior
// quadrature point. Volume kernels read only the M side of the sampler.
type VolumePoint struct {
	Pos    Vec
	Weight float64
	Test   BasisSample
	Trial  BasisSample
}

// FaceKernel is the contract between an assembly engine and an interior
// face kernel. Jacobian and NeighborJacobian are the exact derivatives
// of Residual with respect to the M- and P-side trial functions of the
// transported variable. OffDiagJacobian is the exact derivative with
// respect to the M-side trial function of the coupled field jvar, zero
// when the residual carries no analytic dependency on it (including
// jvar equal to the transported variable itself, which is covered by
// Jacobian).
type FaceKernel interface {
	Residual(p *FacePoint, s Sampler) float64
	Jacobian(p *FacePoint, s Sampler) float64
	NeighborJacobian(p *FacePoint, s Sampler) float64
	OffDiagJacobian(p *FacePoint, s Sampler, jvar FieldID) float64
}

// BoundaryKernel is the face contract on domain boundaries. Kernels that
// consume scheduled inputs evaluate them at the supplied time.
type BoundaryKernel interface {
	Residual(p *FacePoint, s Sampler, time float64) float64
	Jacobian(p *FacePoint, s Sampler, time float64) float64
	OffDiagJacobian(p *FacePoint, s Sampler, time float64, jvar FieldID) float64
}

// VolumeKernel is the element-interior contract.
type VolumeKernel interface {
	Residual(q *VolumePoint, s Sampler) float64
	Jacobian(q *VolumePoint, s Sampler) float64
	OffDiagJacobian(q *VolumePoint, s Sampler, jvar FieldID) float64
}

// Accumulator receives additive residual and Jacobian contributions from
// an assembly loop. Implementations own the global storage and the
// mapping from rows and columns to degrees of freedom.
type Accumulator interface {
	AddResidual(row int, v float64)
	AddJacobian(row, col int, v float64)
}

package ChannelTransport

import (
	"math"
	"sync"

	"github.com/poresim/gopore/DG1D"
	"github.com/poresim/gopore/DGFlux"
	"github.com/poresim/gopore/utils"
)

// blockAccumulator maps global degree of freedom indices onto the block
// LUP storage. Degrees of freedom are numbered k*NB + f*Np + n for
// element k, unknown field f and node n, so a block row collects every
// equation of one element and workers that own disjoint element ranges
// write disjoint rows without locking.
type blockAccumulator struct {
	nb int
	J  utils.BlockMatrix
	R  []utils.Matrix
}

var _ DGFlux.Accumulator = (*blockAccumulator)(nil)

func (acc *blockAccumulator) AddResidual(row int, v float64) {
	acc.R[row/acc.nb].DataP[row%acc.nb] += v
}

func (acc *blockAccumulator) AddJacobian(row, col int, v float64) {
	acc.J.M[row/acc.nb][col/acc.nb].DataP[(row%acc.nb)*acc.nb+col%acc.nb] += v
}

// gid is the global equation index of node n of unknown field f in
// element k
func (c *Transport) gid(k, f, n int) int {
	return k*c.NB + f*c.El.Np + n
}

// assemble builds the residual and exact Jacobian of the backward Euler
// system at the current solution, fresh storage each call since the LUP
// factorization consumes the matrix in place.
func (c *Transport) assemble(Time, dt float64, qn []utils.Matrix) (acc *blockAccumulator) {
	var (
		el = c.El
		wg sync.WaitGroup
	)
	acc = &blockAccumulator{
		nb: c.NB,
		J:  utils.NewBlockMatrixUniform(el.K, el.K, c.NB),
		R:  make([]utils.Matrix, el.K),
	}
	for k := 0; k < el.K; k++ {
		acc.R[k] = utils.NewMatrix(c.NB, 1)
	}
	for np := 0; np < c.ParallelDegree; np++ {
		wg.Add(1)
		go func(np int) {
			defer wg.Done()
			c.assembleRange(np, Time, dt, qn, acc)
		}(np)
	}
	wg.Wait()
	return
}

// assembleRange covers the elements of one partition bucket and the face
// sides owned by them. Interior faces are visited by both adjacent
// buckets, each assembling only its own element's equations.
func (c *Transport) assembleRange(np int, Time, dt float64, qn []utils.Matrix, acc *blockAccumulator) {
	var (
		kMin, kMax = c.pm.GetBucketRange(np)
		samp       = c.samp[np]
	)
	owns := func(k int) bool { return k >= kMin && k < kMax }
	for k := kMin; k < kMax; k++ {
		c.assembleElement(k, dt, qn, samp, acc)
	}
	for i := range c.faces {
		fg := &c.faces[i]
		if fg.OnBoundary {
			if owns(fg.KM) {
				c.assembleBoundaryFace(fg, Time, samp, acc)
			}
			continue
		}
		if owns(fg.KM) {
			c.assembleInteriorSide(fg, false, samp, acc)
		}
		if owns(fg.KP) {
			c.assembleInteriorSide(fg, true, samp, acc)
		}
	}
}

// assembleElement adds the time, film exchange, reaction and volume
// transport terms of element k. The collocation quadrature pairs each
// node with its lumped LGL weight scaled by the local Jacobian.
func (c *Transport) assembleElement(k int, dt float64, qn []utils.Matrix,
	samp *DGFlux.PointSample, acc *blockAccumulator) {
	var (
		el     = c.El
		K      = el.K
		ns     = c.NSpecies
		params = c.Params
		eb     = params.BulkPorosity
		ewEff  = params.WashcoatPorosity * (1 - eb)
		solid  = 1 - eb
		react  = len(c.network.Rxns) > 0
	)
	var cw, src, jac, dsrcT, dq []float64
	if react {
		cw = make([]float64, ns)
		src = make([]float64, ns)
		jac = make([]float64, ns*ns)
		if c.tempID != DGFlux.NoField {
			dsrcT = make([]float64, ns)
			dq = make([]float64, ns)
		}
	}
	for n := 0; n < el.Np; n++ {
		var (
			W   = c.W.AtVec(n) * el.J.At(n, k)
			nid = n*K + k
		)
		c.samplePoint(k, n, samp)
		for s := 0; s < ns; s++ {
			var (
				rowB = c.gid(k, s, n)
				rowW = c.gid(k, ns+s, n)
				cb   = c.Q[s].DataP[nid]
				cwv  = c.Q[ns+s].DataP[nid]
				ex   = c.exch[s]
			)
			acc.AddResidual(rowB, W*(eb*(cb-qn[s].DataP[nid])/dt+ex*(cb-cwv)))
			acc.AddJacobian(rowB, rowB, W*(eb/dt+ex))
			acc.AddJacobian(rowB, rowW, -W*ex)
			acc.AddResidual(rowW, W*(ewEff*(cwv-qn[ns+s].DataP[nid])/dt-ex*(cb-cwv)))
			acc.AddJacobian(rowW, rowW, W*(ewEff/dt+ex))
			acc.AddJacobian(rowW, rowB, -W*ex)
		}
		if c.tempID != DGFlux.NoField {
			var (
				tID  = int(c.tempID)
				rowT = c.gid(k, tID, n)
			)
			acc.AddResidual(rowT, W*(c.Q[tID].DataP[nid]-qn[tID].DataP[nid])/dt)
			acc.AddJacobian(rowT, rowT, W/dt)
		}
		if react {
			Tloc := c.OpTemp
			if c.tempID != DGFlux.NoField {
				Tloc = c.Q[int(c.tempID)].DataP[nid]
			}
			// rate inputs are floored at zero so the power law orders
			// stay defined through Newton undershoots
			for j := 0; j < ns; j++ {
				cw[j] = math.Max(c.Q[ns+j].DataP[nid], 0)
			}
			c.network.Sources(Tloc, cw, src)
			c.network.SourceJacobian(Tloc, cw, jac)
			for s := 0; s < ns; s++ {
				rowW := c.gid(k, ns+s, n)
				acc.AddResidual(rowW, -W*solid*src[s])
				for j := 0; j < ns; j++ {
					acc.AddJacobian(rowW, c.gid(k, ns+j, n), -W*solid*jac[j+ns*s])
				}
			}
			if c.tempID != DGFlux.NoField {
				colT := c.gid(k, int(c.tempID), n)
				c.network.SourceDerivT(Tloc, cw, dsrcT)
				for s := 0; s < ns; s++ {
					acc.AddJacobian(c.gid(k, ns+s, n), colT, -W*solid*dsrcT[s])
				}
				if len(c.enthalpies) > 0 {
					var (
						rowT  = colT
						scale = W * solid * litersPerCm3 / c.heatCap
					)
					acc.AddResidual(rowT, -scale*c.network.HeatRelease(Tloc, cw, c.enthalpies))
					c.network.HeatReleaseDeriv(Tloc, cw, c.enthalpies, dq)
					for j := 0; j < ns; j++ {
						acc.AddJacobian(rowT, c.gid(k, ns+j, n), -scale*dq[j])
					}
					acc.AddJacobian(rowT, rowT, -scale*c.network.HeatReleaseDerivT(Tloc, cw, c.enthalpies))
				}
			}
		}
		vp := DGFlux.VolumePoint{Pos: DGFlux.Vec{el.X.At(n, k)}, Weight: 1}
		for _, op := range c.ops {
			f := int(op.id)
			for i := 0; i < el.Np; i++ {
				vp.Test = c.nodeBasis(k, n, i)
				row := c.gid(k, f, i)
				r := op.volAdv.Residual(&vp, samp)
				if op.volDiff != nil {
					r += op.volDiff.Residual(&vp, samp)
				}
				acc.AddResidual(row, W*r)
				for j := 0; j < el.Np; j++ {
					vp.Trial = c.nodeBasis(k, n, j)
					jv := op.volAdv.Jacobian(&vp, samp)
					if op.volDiff != nil {
						jv += op.volDiff.Jacobian(&vp, samp)
					}
					acc.AddJacobian(row, c.gid(k, f, j), W*jv)
				}
			}
		}
	}
}

// assembleInteriorSide adds one element's equations at an interior face.
// With swapped set the P side element is assembled: the normal flips and
// the sampler presents the exchanged traces, the kernel's M side then
// being the assembled element throughout.
func (c *Transport) assembleInteriorSide(fg *DG1D.FaceGeom, swapped bool,
	samp *DGFlux.PointSample, acc *blockAccumulator) {
	var (
		el            = c.El
		kSelf, kOther = fg.KM, fg.KP
		fSelf, fOther = fg.FM, fg.FP
	)
	var s DGFlux.Sampler = samp
	c.sampleFace(fg, samp)
	p := DGFlux.FacePoint{
		Pos:    DGFlux.Vec{fg.Pos},
		Weight: 1,
		Normal: DGFlux.Vec{fg.Normal},
		H:      fg.H,
	}
	if swapped {
		kSelf, kOther = fg.KP, fg.KM
		fSelf, fOther = fg.FP, fg.FM
		p.Normal = p.Normal.Scale(-1)
		s = DGFlux.SwapSides(samp)
	}
	for _, op := range c.ops {
		f := int(op.id)
		for i := 0; i < el.Np; i++ {
			p.TestM = c.faceBasis(kSelf, fSelf, i)
			row := c.gid(kSelf, f, i)
			r := op.adv.Residual(&p, s)
			if op.diff != nil {
				r += op.diff.Residual(&p, s)
			}
			acc.AddResidual(row, p.Weight*r)
			for j := 0; j < el.Np; j++ {
				p.TrialM = c.faceBasis(kSelf, fSelf, j)
				p.TrialP = c.faceBasis(kOther, fOther, j)
				jm := op.adv.Jacobian(&p, s)
				jp := op.adv.NeighborJacobian(&p, s)
				if op.diff != nil {
					jm += op.diff.Jacobian(&p, s)
					jp += op.diff.NeighborJacobian(&p, s)
				}
				acc.AddJacobian(row, c.gid(kSelf, f, j), p.Weight*jm)
				acc.AddJacobian(row, c.gid(kOther, f, j), p.Weight*jp)
			}
		}
	}
}

// assembleBoundaryFace classifies the face by its normal direction and
// applies the open boundary and wall kernels configured for that tag.
func (c *Transport) assembleBoundaryFace(fg *DG1D.FaceGeom, Time float64,
	samp *DGFlux.PointSample, acc *blockAccumulator) {
	var (
		el  = c.El
		tag = outletTag
	)
	if fg.Normal < 0 {
		tag = inletTag
	}
	c.sampleFace(fg, samp)
	p := DGFlux.FacePoint{
		Pos:        DGFlux.Vec{fg.Pos},
		Weight:     1,
		Normal:     DGFlux.Vec{fg.Normal},
		H:          fg.H,
		OnBoundary: true,
	}
	apply := func(f int, kern DGFlux.BoundaryKernel) {
		for i := 0; i < el.Np; i++ {
			p.TestM = c.faceBasis(fg.KM, fg.FM, i)
			row := c.gid(fg.KM, f, i)
			acc.AddResidual(row, p.Weight*kern.Residual(&p, samp, Time))
			for j := 0; j < el.Np; j++ {
				p.TrialM = c.faceBasis(fg.KM, fg.FM, j)
				acc.AddJacobian(row, c.gid(fg.KM, f, j), p.Weight*kern.Jacobian(&p, samp, Time))
			}
		}
	}
	for _, op := range c.ops {
		if op.open.AppliesTo(tag) {
			apply(int(op.id), op.open)
		}
		for _, w := range op.walls {
			if w.AppliesTo(tag) {
				apply(int(op.id), w)
			}
		}
	}
}

// samplePoint loads the sampler with every field's nodal value at node n
// of element k. Gradients are computed for the unknown fields only; the
// property fields are elementwise uniform.
func (c *Transport) samplePoint(k, n int, samp *DGFlux.PointSample) {
	var (
		nid = n*c.El.K + k
	)
	for fid := 0; fid < c.fields.Len(); fid++ {
		var g DGFlux.Vec
		if fid < c.NUnknown {
			g = c.nodeGradient(fid, k, n)
		}
		samp.Set(DGFlux.FieldID(fid), c.Q[fid].DataP[nid], g)
	}
}

// sampleFace loads the two-sided traces at a face. On boundary faces the
// geometry aliases both sides to the same node, which yields the
// exterior-equals-interior convention the boundary kernels expect.
func (c *Transport) sampleFace(fg *DG1D.FaceGeom, samp *DGFlux.PointSample) {
	var (
		el = c.El
		nM = el.FMask[fg.FM]
		nP = el.FMask[fg.FP]
	)
	for fid := 0; fid < c.fields.Len(); fid++ {
		samp.ValM[fid] = c.Q[fid].DataP[fg.NodeM]
		samp.ValP[fid] = c.Q[fid].DataP[fg.NodeP]
		if fid < c.NUnknown {
			samp.GradientM[fid] = c.nodeGradient(fid, fg.KM, nM)
			samp.GradientP[fid] = c.nodeGradient(fid, fg.KP, nP)
		} else {
			samp.GradientM[fid] = DGFlux.Vec{}
			samp.GradientP[fid] = DGFlux.Vec{}
		}
	}
}

// nodeGradient is the physical x derivative of field fid at node n of
// element k, the differentiation matrix applied along the element
func (c *Transport) nodeGradient(fid, k, n int) (g DGFlux.Vec) {
	var (
		el   = c.El
		K    = el.K
		data = c.Q[fid].DataP
		du   float64
	)
	for j := 0; j < el.Np; j++ {
		du += el.Dr.At(n, j) * data[j*K+k]
	}
	g[0] = du * el.Rx.At(n, k)
	return
}

// nodeBasis samples the Lagrange basis function i at node n of element
// k: unit value at its own node, derivative from the differentiation
// matrix
func (c *Transport) nodeBasis(k, n, i int) (b DGFlux.BasisSample) {
	var (
		el = c.El
	)
	if i == n {
		b.Val = 1
	}
	b.Grad = DGFlux.Vec{el.Dr.At(n, i) * el.Rx.At(n, k)}
	return
}

func (c *Transport) faceBasis(k, f, i int) DGFlux.BasisSample {
	return c.nodeBasis(k, c.El.FMask[f], i)
}

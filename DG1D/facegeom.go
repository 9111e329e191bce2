package DG1D

import (
	"math"

	"github.com/poresim/gopore/utils"
)

// FaceGeom is the geometry of one unique mesh face viewed from its owning
// (minus side) element. In one dimension a face is a single point, so face
// quadrature reduces to one sample of unit weight.
type FaceGeom struct {
	KM, KP       int // minus and plus side elements, KP == KM on the domain boundary
	FM, FP       int // local face ids on each side
	NodeM, NodeP int // global ids of the face nodes, row major storage
	Pos          float64
	Normal       float64 // outward from the minus side
	H            float64 // length scale for interior penalty
	OnBoundary   bool
}

// ElementWidths returns the width of each element
func (el *Elements1D) ElementWidths() (dx utils.Vector) {
	va := el.EToV.Col(0).ToIndex()
	vb := el.EToV.Col(1).ToIndex()
	dx = el.VX.SubsetIndex(vb).Subtract(el.VX.SubsetIndex(va)).Apply(math.Abs)
	return
}

// FaceGeometry enumerates the unique faces of the mesh. Each interior face
// appears once, owned by the lower numbered element, and boundary faces are
// owned by their only element. The penalty length scale is h/N^2 with h the
// smaller of the two neighbor widths.
func (el *Elements1D) FaceGeometry() (faces []FaceGeom) {
	var (
		K  = el.K
		N  = el.Np - 1
		NF = el.NFaces
		dx = el.ElementWidths()
		p2 = float64(N * N)
	)
	faces = make([]FaceGeom, 0, K+1)
	for k := 0; k < K; k++ {
		for f := 0; f < NF; f++ {
			var (
				k2       = int(el.EToE.At(k, f))
				f2       = int(el.EToF.At(k, f))
				boundary = k2 == k && f2 == f
			)
			if !boundary && k2 < k {
				// Owned by the neighbor
				continue
			}
			fid := f + NF*k
			h := dx.AtVec(k)
			if dx.AtVec(k2) < h {
				h = dx.AtVec(k2)
			}
			faces = append(faces, FaceGeom{
				KM:         k,
				KP:         k2,
				FM:         f,
				FP:         f2,
				NodeM:      el.VmapM[fid],
				NodeP:      el.VmapP[fid],
				Pos:        el.X.DataP[el.VmapM[fid]],
				Normal:     el.NX.At(f, k),
				H:          h / p2,
				OnBoundary: boundary,
			})
		}
	}
	return
}

package DG1D

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/poresim/gopore/utils"
)

func TestConnectivity(t *testing.T) {
	var (
		K = 4
		N = 2
	)
	VX, EToV := SimpleMesh1D(0, 2, K)
	el := NewElements1D(N, VX, EToV)

	// Np = 3, FMask picks the endpoint nodes of the reference element
	assert.Equal(t, utils.Index{0, 2}, el.FMask)

	// Node n of element k has global id n*K+k
	assert.Equal(t, utils.Index{0, 8, 1, 9, 2, 10, 3, 11}, el.VmapM)
	assert.Equal(t, utils.Index{0, 1, 8, 2, 9, 3, 10, 11}, el.VmapP)

	// Boundary faces are the first face of the first element and the last
	// face of the last element
	assert.Equal(t, utils.Index{0, 7}, el.MapB)
	assert.Equal(t, utils.Index{0, 11}, el.VmapB)
	assert.Equal(t, utils.Index{0}, el.MapI)
	assert.Equal(t, utils.Index{0}, el.VmapI)
	assert.Equal(t, utils.Index{7}, el.MapO)
	assert.Equal(t, utils.Index{11}, el.VmapO)

	// EToE / EToF: each element sees its neighbors, boundaries self-connect
	assert.Equal(t, 0., el.EToE.At(0, 0))
	assert.Equal(t, 1., el.EToE.At(0, 1))
	assert.Equal(t, 0., el.EToE.At(1, 0))
	assert.Equal(t, 2., el.EToE.At(1, 1))
	assert.Equal(t, 2., el.EToE.At(3, 0))
	assert.Equal(t, 3., el.EToE.At(3, 1))
	assert.Equal(t, 1., el.EToF.At(1, 0))
	assert.Equal(t, 0., el.EToF.At(1, 1))
	assert.Equal(t, 1., el.EToF.At(3, 1))

	// Affine elements of width 0.5: J = dx/2, FScale = 1/J
	assert.True(t, near(el.J.At(0, 0), 0.25))
	assert.True(t, near(el.Rx.At(0, 0), 4))
	assert.True(t, near(el.FScale.At(0, 0), 4))
	assert.True(t, near(el.FScale.At(1, 3), 4))
}

func TestFaceGeometry(t *testing.T) {
	var (
		K = 4
		N = 2
	)
	VX, EToV := SimpleMesh1D(0, 2, K)
	el := NewElements1D(N, VX, EToV)

	dx := el.ElementWidths()
	assert.Equal(t, K, dx.Len())
	assert.True(t, near(dx.AtVec(0), 0.5))
	assert.True(t, near(dx.AtVec(3), 0.5))

	faces := el.FaceGeometry()
	assert.Equal(t, K+1, len(faces))

	// Left domain boundary, outward normal points in -x
	f0 := faces[0]
	assert.True(t, f0.OnBoundary)
	assert.Equal(t, 0, f0.KM)
	assert.Equal(t, 0, f0.KP)
	assert.Equal(t, 0, f0.NodeM)
	assert.Equal(t, 0, f0.NodeP)
	assert.Equal(t, -1., f0.Normal)
	assert.Equal(t, 0., f0.Pos)

	// First interior face sits at x = 0.5 between elements 0 and 1
	f1 := faces[1]
	assert.False(t, f1.OnBoundary)
	assert.Equal(t, 0, f1.KM)
	assert.Equal(t, 1, f1.KP)
	assert.Equal(t, 8, f1.NodeM)
	assert.Equal(t, 1, f1.NodeP)
	assert.Equal(t, 1., f1.Normal)
	assert.True(t, near(f1.Pos, 0.5))

	// Riviere penalty length scale h/N^2
	for _, f := range faces {
		assert.True(t, near(f.H, 0.5/4))
	}

	// Right domain boundary
	fK := faces[K]
	assert.True(t, fK.OnBoundary)
	assert.Equal(t, K-1, fK.KM)
	assert.Equal(t, 11, fK.NodeM)
	assert.Equal(t, 1., fK.Normal)
	assert.True(t, near(fK.Pos, 2))
}

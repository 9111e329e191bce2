package DG1D

import (
	"fmt"
	"math"

	"github.com/poresim/gopore/utils"
)

type Elements1D struct {
	K, Np, Nfp, NFaces          int
	R, VX                       utils.Vector
	EToV, EToE, EToF            utils.Matrix
	X, Dr, Rx, FScale, NX, LIFT utils.Matrix
	V, Vinv, MassMatrix         utils.Matrix
	J                           utils.Matrix
	FMask                       utils.Index
	VmapM, VmapP, MapB, VmapB   utils.Index
	MapI, VmapI, MapO, VmapO    utils.Index
}

func NewElements1D(N int, VX utils.Vector, EToV utils.Matrix) (el *Elements1D) {
	var (
		K, _ = EToV.Dims()
	)
	if N < 1 {
		panic(fmt.Errorf("polynomial order must be at least 1, have %d", N))
	}
	// Np = number of nodes per element, Nfp = number of nodes per face
	el = &Elements1D{
		K:      K,
		Np:     N + 1,
		Nfp:    1,
		NFaces: 2,
		VX:     VX,
		EToV:   EToV,
	}
	el.Startup1D()
	el.Connect1D()
	el.BuildMaps1D()
	return
}

// SimpleMesh1D generates a uniform mesh of K elements on [xmin,xmax]
func SimpleMesh1D(xmin, xmax float64, K int) (VX utils.Vector, EToV utils.Matrix) {
	VX = utils.NewVector(K + 1).Linspace(xmin, xmax)
	EToV = utils.NewMatrix(K, 2)
	for k := 0; k < K; k++ {
		EToV.Set(k, 0, float64(k))
		EToV.Set(k, 1, float64(k+1))
	}
	return
}

func (el *Elements1D) Startup1D() {
	var (
		err error
		N   = el.Np - 1
	)
	el.R = JacobiGL(0, 0, N)
	el.V = Vandermonde1D(N, el.R)
	if el.Vinv, err = el.V.Inverse(); err != nil {
		panic(err)
	}
	Vr := GradVandermonde1D(el.R, N)
	el.Dr = Vr.Mul(el.Vinv)
	if el.MassMatrix, err = el.V.Mul(el.V.Transpose()).Inverse(); err != nil {
		panic(err)
	}
	el.LIFT = Lift1D(el.V, el.Np, el.NFaces, el.Nfp)
	el.NX = Normals1D(el.NFaces, el.Nfp, el.K)

	va := el.EToV.Col(0).ToIndex()
	vb := el.EToV.Col(1).ToIndex()
	sT := el.VX.SubsetIndex(vb).Subtract(el.VX.SubsetIndex(va))
	// x = ones(Np)*VX(va) + 0.5*(r+1)*(VX(vb)-VX(va))
	mm := utils.NewVectorConstant(el.Np, 1).Mul(el.VX.SubsetIndex(va))
	el.X = el.R.Copy().AddScalar(1).Scale(0.5).Mul(sT).Add(mm)

	el.J, el.Rx = GeometricFactors1D(el.Dr, el.X)

	fmask1 := el.R.Copy().AddScalar(1).Find(utils.Less, utils.NODETOL, true)
	fmask2 := el.R.Copy().AddScalar(-1).Find(utils.Less, utils.NODETOL, true)
	el.FMask = append(fmask1, fmask2...)
	el.FScale = el.J.SliceRows(el.FMask).POW(-1)
	return
}

// Connect1D builds the element to element and element to face connectivity
// from the element to vertex description of the mesh
func (el *Elements1D) Connect1D() {
	var (
		NFaces     = el.NFaces
		K, _       = el.EToV.Dims()
		Nv         = K + 1
		TotalFaces = NFaces * K
		vn         = [2]int{0, 1} // local face to vertex connections
	)
	// Global face to vertex sparse connectivity
	SpFToV := utils.NewDOK(TotalFaces, Nv)
	var sk int
	for k := 0; k < K; k++ {
		for face := 0; face < NFaces; face++ {
			SpFToV.Set(sk, int(el.EToV.At(k, vn[face])), 1)
			sk++
		}
	}
	// Face to face connectivity: two faces sharing a vertex
	SpFToF := utils.NewCSR(TotalFaces, TotalFaces)
	FToV := SpFToV.ToCSR()
	SpFToF.Mul(FToV.M, FToV.T())
	for i := 0; i < TotalFaces; i++ {
		SpFToF.Set(i, i, SpFToF.At(i, i)-2)
	}

	FacesIndex := SpFToF.Find(utils.Equal, 1)
	element1 := FacesIndex.RI.Apply(func(val int) int { return val / NFaces })
	face1 := FacesIndex.RI.Apply(func(val int) int { return val % NFaces })
	element2 := FacesIndex.CI.Apply(func(val int) int { return val / NFaces })
	face2 := FacesIndex.CI.Apply(func(val int) int { return val % NFaces })

	// Default to self-connection, then overwrite with the connected faces
	el.EToE = utils.NewRange(0, K-1).Outer(utils.NewOnes(NFaces))
	el.EToF = utils.NewOnes(K).Outer(utils.NewRange(0, NFaces-1))
	I2D, err := utils.NewIndex2D(element1, face1)
	if err != nil {
		panic(err)
	}
	if err = el.EToE.IndexedAssign(I2D, element2); err != nil {
		panic(err)
	}
	if err = el.EToF.IndexedAssign(I2D, face2); err != nil {
		panic(err)
	}
	return
}

// BuildMaps1D finds the global node ids of the face nodes on both sides of
// each face. Storage is row major, so node n of element k has global id n*K+k
func (el *Elements1D) BuildMaps1D() {
	var (
		K  = el.K
		NF = el.NFaces
	)
	el.VmapM = utils.NewIndex(NF * K)
	el.VmapP = utils.NewIndex(NF * K)
	for k := 0; k < K; k++ {
		for f := 0; f < NF; f++ {
			el.VmapM[f+NF*k] = el.FMask[f]*K + k
		}
	}
	for k1 := 0; k1 < K; k1++ {
		for f1 := 0; f1 < NF; f1++ {
			k2 := int(el.EToE.At(k1, f1))
			f2 := int(el.EToF.At(k1, f1))
			vidM := el.FMask[f1]*K + k1
			vidP := el.FMask[f2]*K + k2
			if k2 != k1 || f2 != f1 {
				// Interior face: the paired nodes must coincide
				v1 := int(el.EToV.At(k1, 0))
				v2 := int(el.EToV.At(k1, 1))
				refd := math.Abs(el.VX.AtVec(v2) - el.VX.AtVec(v1))
				if math.Abs(el.X.DataP[vidM]-el.X.DataP[vidP]) > utils.NODETOL*refd {
					panic(fmt.Errorf("connectivity error: face nodes %d and %d do not coincide", vidM, vidP))
				}
			}
			el.VmapP[f1+NF*k1] = vidP
		}
	}
	// Boundary faces are the self-connected ones
	el.MapB = el.VmapP.Compare(utils.Equal, el.VmapM)
	el.VmapB = el.VmapM.Subset(el.MapB)
	el.MapI = utils.Index{0}
	el.VmapI = utils.Index{0}
	el.MapO = utils.Index{K*NF - 1}
	el.VmapO = utils.Index{K*el.Np - 1}
	return
}

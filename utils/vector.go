package utils

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/mat"
)

type Vector struct {
	V     *mat.VecDense
	DataP []float64 // Aliases the raw storage of V
}

func NewVector(n int, dataO ...[]float64) (R Vector) {
	var (
		data []float64
	)
	if len(dataO) != 0 {
		if len(dataO[0]) < n {
			err := fmt.Errorf("mismatch: NewVector n = %v, dimension of data = %v",
				n, len(dataO[0]))
			panic(err)
		}
		data = dataO[0][0:n]
	} else {
		data = make([]float64, n)
	}
	R = Vector{
		V: mat.NewVecDense(n, data),
	}
	R.DataP = R.V.RawVector().Data
	return
}

func NewVectorConstant(n int, val float64) (R Vector) {
	R = NewVector(n, ConstArray(n, val))
	return
}

// Dims, At and T satisfy the mat.Matrix interface.
func (v Vector) Dims() (r, c int)         { return v.V.Dims() }
func (v Vector) At(i, j int) float64      { return v.V.At(i, j) }
func (v Vector) T() mat.Matrix            { return v.V.T() }
func (v Vector) AtVec(i int) float64      { return v.V.AtVec(i) }
func (v Vector) RawVector() blas64.Vector { return v.V.RawVector() }
func (v Vector) Len() int                 { return v.V.Len() }

func (v Vector) Print(msgO ...string) (o string) {
	var (
		label string
	)
	if len(msgO) != 0 {
		label = msgO[0]
	}
	o = fmt.Sprintf("%s = \n%8.5f\n", label, mat.Formatted(v.V, mat.Squeeze()))
	return
}

func (v Vector) Copy() (R Vector) { // Does not change receiver
	R = NewVector(v.Len())
	copy(R.DataP, v.DataP)
	return
}

// Set sets all elements to val
func (v Vector) Set(val float64) Vector { // Changes receiver
	for i := range v.DataP {
		v.DataP[i] = val
	}
	return v
}

// Linspace fills the vector with evenly spaced values over [xmin, xmax]
func (v Vector) Linspace(xmin, xmax float64) Vector { // Changes receiver
	var (
		n  = v.Len()
		dx = (xmax - xmin) / float64(n-1)
	)
	for i := range v.DataP {
		v.DataP[i] = xmin + float64(i)*dx
	}
	v.DataP[n-1] = xmax
	return v
}

func (v Vector) Scale(a float64) Vector { // Changes receiver
	for i := range v.DataP {
		v.DataP[i] *= a
	}
	return v
}

func (v Vector) AddScalar(a float64) Vector { // Changes receiver
	for i := range v.DataP {
		v.DataP[i] += a
	}
	return v
}

func (v Vector) Add(a Vector) Vector { // Changes receiver
	for i, val := range a.DataP {
		v.DataP[i] += val
	}
	return v
}

func (v Vector) Subtract(a Vector) Vector { // Changes receiver
	for i, val := range a.DataP {
		v.DataP[i] -= val
	}
	return v
}

func (v Vector) ElMul(a Vector) Vector { // Changes receiver
	for i, val := range a.DataP {
		v.DataP[i] *= val
	}
	return v
}

func (v Vector) Apply(f func(float64) float64) Vector { // Changes receiver
	for i, val := range v.DataP {
		v.DataP[i] = f(val)
	}
	return v
}

func (v Vector) POW(p int) Vector { // Changes receiver
	for i, val := range v.DataP {
		v.DataP[i] = POW(val, p)
	}
	return v
}

func (v Vector) Min() (min float64) {
	min = v.DataP[0]
	for _, val := range v.DataP {
		if val < min {
			min = val
		}
	}
	return
}

func (v Vector) Max() (max float64) {
	max = v.DataP[0]
	for _, val := range v.DataP {
		if val > max {
			max = val
		}
	}
	return
}

func (v Vector) Sum() (sum float64) {
	for _, val := range v.DataP {
		sum += val
	}
	return
}

func (v Vector) Dot(a Vector) (dot float64) {
	for i, val := range v.DataP {
		dot += val * a.DataP[i]
	}
	return
}

// Mul computes the outer product of v and a, a matrix of dimension len(v) x len(a)
func (v Vector) Mul(a Vector) (R Matrix) { // Does not change receiver
	var (
		nr, nc = v.Len(), a.Len()
	)
	R = NewMatrix(nr, nc)
	for i, vval := range v.DataP {
		for j, aval := range a.DataP {
			R.DataP[j+nc*i] = vval * aval
		}
	}
	return
}

func (v Vector) Outer(a Vector) (R Matrix) { // Does not change receiver
	return v.Mul(a)
}

// ToMatrix returns the vector as an Nx1 column matrix
func (v Vector) ToMatrix() (R Matrix) {
	R = NewMatrix(v.Len(), 1, v.Copy().DataP)
	return
}

// Transpose returns the vector as a 1xN row matrix
func (v Vector) Transpose() (R Matrix) {
	R = NewMatrix(1, v.Len(), v.Copy().DataP)
	return
}

func (v Vector) ToIndex() (I Index) {
	I = NewFromFloat(v.DataP)
	return
}

func (v Vector) SubsetIndex(I Index) (R Vector) { // Does not change receiver
	R = NewVector(len(I))
	for i, ind := range I {
		R.DataP[i] = v.DataP[ind]
	}
	return
}

func (v Vector) Concat(a Vector) (R Vector) { // Does not change receiver
	var (
		n = v.Len() + a.Len()
	)
	R = NewVector(n)
	copy(R.DataP, v.DataP)
	copy(R.DataP[v.Len():], a.DataP)
	return
}

func (v Vector) Find(op EvalOp, val float64, abs bool) (I Index) {
	var (
		target = val
	)
	if abs {
		target = math.Abs(val)
	}
	for i, vval := range v.DataP {
		if abs {
			vval = math.Abs(vval)
		}
		var hit bool
		switch op {
		case Equal:
			hit = vval == target
		case Less:
			hit = vval < target
		case LessOrEqual:
			hit = vval <= target
		case Greater:
			hit = vval > target
		case GreaterOrEqual:
			hit = vval >= target
		}
		if hit {
			I = append(I, i)
		}
	}
	return
}

package utils

import (
	"fmt"

	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/mat"
)

type Matrix struct {
	M        *mat.Dense
	DataP    []float64 // Aliases the raw row-major storage of M
	readOnly bool
	name     string
}

func NewMatrix(nr, nc int, dataO ...[]float64) (R Matrix) {
	var (
		data []float64
	)
	if len(dataO) != 0 {
		if len(dataO[0]) < nr*nc {
			err := fmt.Errorf("mismatch: NewMatrix nr,nc = %v,%v, dimension of data = %v",
				nr, nc, len(dataO[0]))
			panic(err)
		}
		data = dataO[0][0 : nr*nc]
	} else {
		data = make([]float64, nr*nc)
	}
	R = Matrix{
		M:    mat.NewDense(nr, nc, data),
		name: "unnamed - hint: pass a variable name to SetReadOnly()",
	}
	R.DataP = R.M.RawMatrix().Data
	return
}

// Dims, At and T satisfy the mat.Matrix interface.
func (m Matrix) Dims() (r, c int)          { return m.M.Dims() }
func (m Matrix) At(i, j int) float64       { return m.M.At(i, j) }
func (m Matrix) T() mat.Matrix             { return m.M.T() }
func (m Matrix) RawMatrix() blas64.General { return m.M.RawMatrix() }
func (m Matrix) Data() []float64           { return m.DataP }

func (m Matrix) IsEmpty() bool { return m.M == nil }

func (m Matrix) IsScalar() bool {
	if m.IsEmpty() {
		return false
	}
	nr, nc := m.Dims()
	return nr == 1 && nc == 1
}

func (m *Matrix) SetReadOnly(name ...string) Matrix {
	if len(name) != 0 {
		m.name = name[0]
	}
	m.readOnly = true
	return *m
}

func (m *Matrix) SetWritable() Matrix {
	m.readOnly = false
	return *m
}

func (m Matrix) Print(msgO ...string) (o string) {
	var (
		label string
	)
	if len(msgO) != 0 {
		label = msgO[0]
	}
	o = fmt.Sprintf("%s = \n%8.5f\n", label, mat.Formatted(m.M, mat.Squeeze()))
	return
}

func (m Matrix) Copy() (R Matrix) { // Does not change receiver
	var (
		nr, nc = m.Dims()
	)
	R = NewMatrix(nr, nc)
	copy(R.DataP, m.DataP)
	return
}

func (m Matrix) Transpose() (R Matrix) { // Does not change receiver
	var (
		nr, nc = m.Dims()
	)
	R = NewMatrix(nc, nr)
	R.M.Copy(m.M.T())
	return
}

func (m Matrix) Mul(A Matrix) (R Matrix) { // Does not change receiver
	var (
		nrM, _ = m.M.Dims()
		_, ncA = A.M.Dims()
	)
	R = NewMatrix(nrM, ncA)
	R.M.Mul(m.M, A.M)
	return
}

func (m Matrix) Add(A Matrix) Matrix { // Changes receiver
	m.checkWritable()
	m.M.Add(m.M, A.M)
	return m
}

func (m Matrix) Subtract(A Matrix) Matrix { // Changes receiver
	m.checkWritable()
	for i, val := range A.DataP {
		m.DataP[i] -= val
	}
	return m
}

func (m Matrix) Scale(a float64) Matrix { // Changes receiver
	m.checkWritable()
	for i := range m.DataP {
		m.DataP[i] *= a
	}
	return m
}

func (m Matrix) AddScalar(a float64) Matrix { // Changes receiver
	m.checkWritable()
	for i := range m.DataP {
		m.DataP[i] += a
	}
	return m
}

func (m Matrix) Apply(f func(float64) float64) Matrix { // Changes receiver
	m.checkWritable()
	for i, val := range m.DataP {
		m.DataP[i] = f(val)
	}
	return m
}

func (m Matrix) Apply2(A Matrix, f func(float64, float64) float64) Matrix { // Changes receiver
	m.checkWritable()
	for i, val := range m.DataP {
		m.DataP[i] = f(val, A.DataP[i])
	}
	return m
}

func (m Matrix) POW(p int) Matrix { // Changes receiver
	m.checkWritable()
	for i, val := range m.DataP {
		m.DataP[i] = POW(val, p)
	}
	return m
}

func (m Matrix) ElMul(A Matrix) Matrix { // Changes receiver
	m.checkWritable()
	for i, val := range A.DataP {
		m.DataP[i] *= val
	}
	return m
}

func (m Matrix) ElDiv(A Matrix) Matrix { // Changes receiver
	m.checkWritable()
	for i, val := range A.DataP {
		m.DataP[i] /= val
	}
	return m
}

func (m Matrix) Set(i, j int, val float64) Matrix { // Changes receiver
	m.checkWritable()
	m.M.Set(i, j, val)
	return m
}

func (m Matrix) SetCol(j int, data []float64) Matrix { // Changes receiver
	m.checkWritable()
	m.M.SetCol(j, data)
	return m
}

func (m Matrix) SetRow(i int, data []float64) Matrix { // Changes receiver
	m.checkWritable()
	m.M.SetRow(i, data)
	return m
}

func (m Matrix) Inverse() (R Matrix, err error) {
	var (
		nr, nc = m.Dims()
	)
	R = NewMatrix(nr, nc)
	err = R.M.Inverse(m.M)
	return
}

func (m Matrix) Col(j int) (V Vector) {
	var (
		nr, _ = m.Dims()
		data  = make([]float64, nr)
	)
	for i := 0; i < nr; i++ {
		data[i] = m.M.At(i, j)
	}
	V = NewVector(nr, data)
	return
}

func (m Matrix) Row(i int) (V Vector) {
	var (
		_, nc = m.Dims()
		data  = make([]float64, nc)
	)
	copy(data, m.M.RawRowView(i))
	V = NewVector(nc, data)
	return
}

func (m Matrix) Min() (min float64) {
	min = m.DataP[0]
	for _, val := range m.DataP {
		if val < min {
			min = val
		}
	}
	return
}

func (m Matrix) Max() (max float64) {
	max = m.DataP[0]
	for _, val := range m.DataP {
		if val > max {
			max = val
		}
	}
	return
}

// SumRows sums the columns within each row, returning a vector of dimension nr
func (m Matrix) SumRows() (V Vector) {
	var (
		nr, nc = m.Dims()
	)
	V = NewVector(nr)
	for i := 0; i < nr; i++ {
		var sum float64
		for j := 0; j < nc; j++ {
			sum += m.M.At(i, j)
		}
		V.DataP[i] = sum
	}
	return
}

// SumCols sums the rows within each column, returning a vector of dimension nc
func (m Matrix) SumCols() (V Vector) {
	var (
		nr, nc = m.Dims()
	)
	V = NewVector(nc)
	for j := 0; j < nc; j++ {
		var sum float64
		for i := 0; i < nr; i++ {
			sum += m.M.At(i, j)
		}
		V.DataP[j] = sum
	}
	return
}

func (m Matrix) SliceRows(I Index) (R Matrix) { // Does not change receiver
	var (
		mnr, nc = m.Dims()
	)
	R = NewMatrix(len(I), nc)
	for i, row := range I {
		if row > mnr-1 || row < 0 {
			err := fmt.Errorf("row index out of bounds: index, max = %v, %v", row, mnr-1)
			panic(err)
		}
		R.M.SetRow(i, m.M.RawRowView(row))
	}
	return
}

func (m Matrix) SliceCols(I Index) (R Matrix) { // Does not change receiver
	var (
		nr, nc = m.Dims()
	)
	R = NewMatrix(nr, len(I))
	for jj, col := range I {
		if col > nc-1 || col < 0 {
			err := fmt.Errorf("column index out of bounds: index, max = %v, %v", col, nc-1)
			panic(err)
		}
		for i := 0; i < nr; i++ {
			R.M.Set(i, jj, m.M.At(i, col))
		}
	}
	return
}

// SubsetVector extracts a vector from the matrix by a global index into the
// row-major storage
func (m Matrix) SubsetVector(I Index) (V Vector) {
	V = NewVector(len(I))
	for i, ind := range I {
		V.DataP[i] = m.DataP[ind]
	}
	return
}

func (m Matrix) Find(op EvalOp, val float64, abs bool) (I2 Index2D) {
	var (
		nr, nc = m.Dims()
		RI, CI Index
	)
	target := val
	if abs {
		target = mabs(val)
	}
	test := func(mval float64) float64 {
		if abs {
			return mabs(mval)
		}
		return mval
	}
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			mval := test(m.M.At(i, j))
			var hit bool
			switch op {
			case Equal:
				hit = mval == target
			case Less:
				hit = mval < target
			case LessOrEqual:
				hit = mval <= target
			case Greater:
				hit = mval > target
			case GreaterOrEqual:
				hit = mval >= target
			}
			if hit {
				RI = append(RI, i)
				CI = append(CI, j)
			}
		}
	}
	I2, _ = NewIndex2D(RI, CI)
	return
}

// IndexedAssign assigns values at the (RI, CI) coordinate pairs of I2
func (m Matrix) IndexedAssign(I2 Index2D, Val Index) (err error) { // Changes receiver
	m.checkWritable()
	if I2.Len != len(Val) {
		err = fmt.Errorf("length of index and values are not equal: len(I2) = %v, len(Val) = %v", I2.Len, len(Val))
		return
	}
	for i, val := range Val {
		m.M.Set(I2.RI[i], I2.CI[i], float64(val))
	}
	return
}

func (m Matrix) checkWritable() {
	if m.readOnly {
		err := fmt.Errorf("attempt to write to a read only matrix named: \"%v\"", m.name)
		panic(err)
	}
}

func mabs(a float64) float64 {
	if a < 0 {
		return -a
	}
	return a
}

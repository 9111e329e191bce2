package utils

import (
	"fmt"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"
)

type DOK struct {
	M        *sparse.DOK
	readOnly bool
	name     string
}

func NewDOK(nr, nc int) (R DOK) {
	R = DOK{
		sparse.NewDOK(nr, nc),
		false,
		"unnamed - hint: pass a variable name to SetReadOnly()",
	}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m DOK) Dims() (r, c int)    { return m.M.Dims() }
func (m DOK) At(i, j int) float64 { return m.M.At(i, j) }
func (m DOK) T() mat.Matrix       { return m.M.T() }

func (m DOK) Set(i, j int, val float64) DOK { // Changes receiver
	m.checkWritable()
	m.M.Set(i, j, val)
	return m
}

func (m DOK) checkWritable() {
	if m.readOnly {
		err := fmt.Errorf("attempt to write to a read only matrix named: \"%v\"", m.name)
		panic(err)
	}
}

func (m DOK) ToCSR() CSR {
	return CSR{
		M:        m.M.ToCSR(),
		readOnly: m.readOnly,
		name:     m.name,
	}
}

type CSR struct {
	M        *sparse.CSR
	readOnly bool
	name     string
}

func NewCSR(nr, nc int) (R CSR) {
	R = CSR{
		sparse.NewCSR(nr, nc, nil, nil, nil),
		false,
		"unnamed - hint: pass a variable name to SetReadOnly()",
	}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m CSR) Dims() (r, c int)    { return m.M.Dims() }
func (m CSR) At(i, j int) float64 { return m.M.At(i, j) }
func (m CSR) T() mat.Matrix       { return m.M.T() }

func (m CSR) Set(i, j int, val float64) CSR { // Changes receiver
	m.checkWritable()
	m.M.Set(i, j, val)
	return m
}

// Mul stores the product of a and b into the receiver
func (m CSR) Mul(a, b mat.Matrix) CSR {
	m.checkWritable()
	m.M.Mul(a, b)
	return m
}

// Find returns the (row, col) coordinates of all stored entries satisfying
// (value op val)
func (m CSR) Find(op EvalOp, val float64) (I2 Index2D) {
	var (
		RI, CI Index
	)
	m.M.DoNonZero(func(i, j int, v float64) {
		var hit bool
		switch op {
		case Equal:
			hit = v == val
		case Less:
			hit = v < val
		case LessOrEqual:
			hit = v <= val
		case Greater:
			hit = v > val
		case GreaterOrEqual:
			hit = v >= val
		}
		if hit {
			RI = append(RI, i)
			CI = append(CI, j)
		}
	})
	I2, _ = NewIndex2D(RI, CI)
	return
}

func (m CSR) checkWritable() {
	if m.readOnly {
		err := fmt.Errorf("attempt to write to a read only matrix named: \"%v\"", m.name)
		panic(err)
	}
}

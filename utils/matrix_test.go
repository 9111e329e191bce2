package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatrix(t *testing.T) {
	// Transpose
	{
		M := NewMatrix(2, 3, []float64{
			1, 2, 3,
			4, 5, 6,
		})
		mNr, mNc := M.Dims()
		A := M.Transpose()
		aNr, aNc := A.Dims()
		assert.Equal(t, aNc, mNr)
		assert.Equal(t, aNr, mNc)
		assert.Equal(t, []float64{1, 4, 2, 5, 3, 6}, A.DataP)
	}
	// SliceRows
	{
		M := NewMatrix(2, 3, []float64{
			1, 2, 3,
			4, 5, 6,
		})
		I := NewIndex(2)
		I[0] = 1
		I[1] = 0
		A := M.SliceRows(I)
		assert.Equal(t, NewMatrix(2, 3, []float64{
			4, 5, 6,
			1, 2, 3,
		}), A)
	}
	// SliceCols
	{
		M := NewMatrix(2, 3, []float64{
			1, 2, 3,
			4, 5, 6,
		})
		I := NewIndex(2)
		I[0] = 1
		I[1] = 0
		A := M.SliceCols(I)
		assert.Equal(t, NewMatrix(2, 2, []float64{
			2, 1,
			5, 4,
		}), A)
	}
	// Mul
	{
		M := NewMatrix(2, 3, []float64{
			1, 2, 3,
			4, 5, 6,
		})
		A := M.Mul(M.Transpose())
		assert.Equal(t, NewMatrix(2, 2, []float64{
			14, 32,
			32, 77,
		}), A)
	}
	// SumRows / SumCols
	{
		M := NewMatrix(2, 3, []float64{
			1, 2, 3,
			4, 5, 6,
		})
		assert.Equal(t, []float64{6, 15}, M.SumRows().DataP)
		assert.Equal(t, []float64{5, 7, 9}, M.SumCols().DataP)
	}
	// Inverse
	{
		M := NewMatrix(2, 2, []float64{
			4, 7,
			2, 6,
		})
		Minv, err := M.Inverse()
		assert.Nil(t, err)
		assert.InDeltaSlice(t, []float64{0.6, -0.7, -0.2, 0.4}, Minv.DataP, 0.000001)
		// M * Minv = I
		I := M.Mul(Minv)
		assert.InDeltaSlice(t, []float64{1, 0, 0, 1}, I.DataP, 0.000001)
	}
	// SubsetVector indexes the row-major storage directly
	{
		M := NewMatrix(2, 3, []float64{
			1, 2, 3,
			4, 5, 6,
		})
		V := M.SubsetVector(Index{0, 3, 5})
		assert.Equal(t, []float64{1, 4, 6}, V.DataP)
	}
	// Chained elementwise operations change the receiver
	{
		M := NewMatrix(2, 2, []float64{
			1, 2,
			3, 4,
		})
		M.Scale(2).AddScalar(-1)
		assert.Equal(t, []float64{1, 3, 5, 7}, M.DataP)
		M.POW(2)
		assert.Equal(t, []float64{1, 9, 25, 49}, M.DataP)
	}
	// Find with absolute value comparison
	{
		M := NewMatrix(2, 2, []float64{
			-1, 0.5,
			2, -0.25,
		})
		I2 := M.Find(Less, 0.6, true)
		assert.Equal(t, Index{0, 1}, I2.RI)
		assert.Equal(t, Index{1, 1}, I2.CI)
	}
	// Read only protection
	{
		M := NewMatrix(2, 2)
		M.SetReadOnly("M")
		assert.Panics(t, func() { M.Set(0, 0, 1) })
		M.SetWritable()
		assert.NotPanics(t, func() { M.Set(0, 0, 1) })
	}
}

package utils

import (
	"fmt"
)

type Index []int

func NewIndex(N int) (I Index) {
	return make(Index, N)
}

func NewRange(rmin, rmax int) (r Index) {
	var (
		size = rmax - rmin + 1 // INCLUSIVE RANGE
	)
	r = make(Index, size)
	for i := range r {
		r[i] = i + rmin
	}
	return
}

func NewRangeOffset(rmin, rmax int) (r Index) {
	// Input range is "1 based" and converted to zero based index
	return NewRange(rmin-1, rmax-1)
}

func NewOnes(N int) (r Index) {
	r = make(Index, N)
	for i := 0; i < N; i++ {
		r[i] = 1
	}
	return
}

func NewFromFloat(IF []float64) (r Index) {
	r = make(Index, len(IF))
	for i, val := range IF {
		r[i] = int(val)
	}
	return
}

func (I Index) Copy() (r Index) {
	r = make(Index, len(I))
	copy(r, I)
	return
}

func (I Index) Add(val int) (r Index) {
	r = make(Index, len(I))
	for i, ival := range I {
		r[i] = val + ival
	}
	return r
}

func (I Index) AddInPlace(val int) (r Index) {
	for i := range I {
		I[i] += val
	}
	return I
}

func (I Index) Subset(J Index) (r Index) {
	r = make(Index, len(J))
	for j, val := range J {
		r[j] = I[val]
	}
	return
}

func (I Index) Apply(f func(val int) int) (r Index) {
	r = make(Index, len(I))
	for i, val := range I {
		r[i] = f(val)
	}
	return
}

// Compare returns the positions i where (I[i] op J[i]) holds
func (I Index) Compare(op EvalOp, J Index) (r Index) {
	for i, val := range I {
		var hit bool
		switch op {
		case Equal:
			hit = val == J[i]
		case Less:
			hit = val < J[i]
		case LessOrEqual:
			hit = val <= J[i]
		case Greater:
			hit = val > J[i]
		case GreaterOrEqual:
			hit = val >= J[i]
		}
		if hit {
			r = append(r, i)
		}
	}
	return
}

// Outer forms the outer product matrix of two index vectors
func (I Index) Outer(J Index) (A Matrix) {
	var (
		ni = len(I)
		nj = len(J)
	)
	A = NewMatrix(ni, nj)
	for i := 0; i < ni; i++ {
		for j := 0; j < nj; j++ {
			A.DataP[j+nj*i] = float64(I[i] * J[j])
		}
	}
	return
}

type Index2D struct {
	RI, CI Index
	Len    int
}

func NewIndex2D(RI, CI Index) (I2 Index2D, err error) {
	if len(RI) != len(CI) {
		err = fmt.Errorf("lengths of row and column indices must be the same: nr, nc = %v, %v", len(RI), len(CI))
		return
	}
	return Index2D{
		RI:  RI,
		CI:  CI,
		Len: len(RI),
	}, nil
}

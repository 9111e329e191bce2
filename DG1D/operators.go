package DG1D

import (
	"math"

	"github.com/poresim/gopore/utils"
)

// Minmod returns the elementwise minmod of the argument vectors: the common
// sign times the minimum magnitude when all arguments agree in sign, else zero
func Minmod(vecs ...utils.Vector) (R utils.Vector) {
	var (
		n = vecs[0].Len()
	)
	R = utils.NewVector(n)
	for i := 0; i < n; i++ {
		var (
			neg, pos int
			min      = math.MaxFloat64
		)
		for _, v := range vecs {
			val := v.AtVec(i)
			if val < 0 {
				neg++
			} else if val > 0 {
				pos++
			}
			if math.Abs(val) < min {
				min = math.Abs(val)
			}
		}
		switch {
		case neg == len(vecs):
			R.DataP[i] = -min
		case pos == len(vecs):
			R.DataP[i] = min
		}
	}
	return
}

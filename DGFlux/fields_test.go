package DGFlux

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldSet(t *testing.T) {
	{ // Registration and lookup
		fs := NewFieldSet()
		id, err := fs.Register(FieldSpec{Name: "conc", Order: 3, Family: "monomial"})
		assert.NoError(t, err)
		got, err := fs.Lookup("conc")
		assert.NoError(t, err)
		assert.Equal(t, id, got)
		assert.Equal(t, "conc", fs.Spec(id).Name)
		_, err = fs.Register(FieldSpec{Name: "conc", Order: 3, Family: "monomial"})
		assert.Error(t, err)
		_, err = fs.Register(FieldSpec{})
		assert.Error(t, err)
		_, err = fs.Lookup("other")
		assert.Error(t, err)
	}
	{ // Coupling resolution: empty is optional, mismatches are fatal
		fs := NewFieldSet()
		u, _ := fs.Register(FieldSpec{Name: "conc", Order: 3, Family: "monomial"})
		fs.Register(FieldSpec{Name: "vel_x", Order: 3, Family: "monomial"})
		fs.Register(FieldSpec{Name: "nodal", Order: 1, Family: "lagrange"})
		id, err := fs.resolveCoupled(u, "")
		assert.NoError(t, err)
		assert.Equal(t, NoField, id)
		id, err = fs.resolveCoupled(u, "vel_x")
		assert.NoError(t, err)
		assert.NotEqual(t, NoField, id)
		_, err = fs.resolveCoupled(u, "nodal")
		assert.Error(t, err)
		_, err = fs.resolveCoupled(u, "absent")
		assert.Error(t, err)
	}
	{ // Side swap views exchange M and P and invert cleanly
		fs := NewFieldSet()
		id, _ := fs.Register(FieldSpec{Name: "conc", Order: 3, Family: "monomial"})
		ps := NewPointSample(fs.Len())
		ps.ValM[id], ps.ValP[id] = 1.0, 2.0
		ps.GradientM[id], ps.GradientP[id] = Vec{1, 0, 0}, Vec{0, 1, 0}
		sw := SwapSides(ps)
		assert.Equal(t, 2.0, sw.ValueM(id))
		assert.Equal(t, 1.0, sw.ValueP(id))
		assert.Equal(t, Vec{0, 1, 0}, sw.GradM(id))
		back := SwapSides(sw)
		assert.Equal(t, 1.0, back.ValueM(id))
	}
	{ // Tensor components: constants and fields, normal strength
		fs := NewFieldSet()
		dx, _ := fs.Register(FieldSpec{Name: "disp_x", Order: 3, Family: "monomial"})
		ps := NewPointSample(fs.Len())
		ps.Set(dx, 2.0, Vec{})
		D := DiffusionTensor{Dx: FieldCoef(dx), Dy: ConstCoef(0.5), Dz: ConstCoef(0)}
		g := D.ApplyM(ps, Vec{1, 2, 3})
		assert.True(t, nearVec([]float64{2.0, 1.0, 0}, g[:], 1.e-08))
		assert.True(t, near(2.0, D.NormalM(ps, Vec{1, 0, 0})))
		assert.True(t, near(0.5, D.NormalM(ps, Vec{0, 1, 0})))
		assert.Equal(t, 0, D.componentAxis(dx))
		assert.Equal(t, -1, D.componentAxis(FieldID(99)))
	}
}

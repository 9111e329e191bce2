package DGFlux

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoundaryFlux(t *testing.T) {
	var (
		fields, ids = testFields()
		pen         = Penalty{Scheme: NIPG, Sigma: 1.0}
		tensor      = Isotropic(2.0)
	)
	newBC := func(limited bool, withTensor bool, in BoundaryValue) *BoundaryFlux {
		cfg := BoundaryConfig{
			Variable: "conc",
			Velocity: [3]string{"vel_x", "", ""},
			Porosity: "porosity",
			Penalty:  pen,
			Input:    in,
			Limited:  limited,
			Tags:     []BCTag{"inlet"},
		}
		if withTensor {
			cfg.Tensor = &tensor
		}
		k, err := NewBoundaryFlux(cfg, fields)
		assert.NoError(t, err)
		return k
	}
	loadBoundary := func(ps *PointSample, vx float64) {
		// boundary faces mirror the interior trace on the P side
		ps.Set(ids["conc"], 1.0, Vec{-0.4, 0, 0})
		ps.Set(ids["porosity"], 0.4, Vec{})
		ps.Set(ids["vel_x"], vx, Vec{})
	}
	{ // State machine: classification plus configuration, per point
		var (
			plain   = newBC(false, true, InputValue(2.0))
			limited = newBC(true, true, InputValue(2.0))
			p, ps   = faceCase(fields)
		)
		loadBoundary(ps, 3.0)
		assert.Equal(t, OutflowNatural, plain.State(&p, ps))
		assert.Equal(t, OutflowNatural, limited.State(&p, ps))
		loadBoundary(ps, -3.0)
		assert.Equal(t, InflowSpecified, plain.State(&p, ps))
		assert.Equal(t, InflowLimited, limited.State(&p, ps))
		loadBoundary(ps, 0)
		assert.Equal(t, OutflowNatural, plain.State(&p, ps))
		assert.True(t, plain.AppliesTo("inlet"))
		assert.False(t, plain.AppliesTo("outlet"))
	}
	{ // Outflow carries the interior value out and leaves diffusion
		// natural: the tensor-bearing kernel matches the advective one
		var (
			advOnly = newBC(false, false, InputValue(2.0))
			withDif = newBC(false, true, InputValue(2.0))
			p, ps   = faceCase(fields)
		)
		loadBoundary(ps, 3.0)
		vn := 0.4 * 3.0
		assert.True(t, near(p.TestM.Val*vn*1.0, advOnly.Residual(&p, ps, 0)))
		assert.True(t, near(advOnly.Residual(&p, ps, 0), withDif.Residual(&p, ps, 0)))
		assert.True(t, near(p.TestM.Val*vn*p.TrialM.Val, withDif.Jacobian(&p, ps, 0)))
	}
	{ // Specified inflow carries the input value in; the advective part
		// has no interior dependence
		var (
			k     = newBC(false, false, InputValue(2.0))
			p, ps = faceCase(fields)
		)
		loadBoundary(ps, -3.0)
		vn := 0.4 * -3.0
		assert.True(t, near(p.TestM.Val*vn*2.0, k.Residual(&p, ps, 0)))
		assert.Equal(t, 0.0, k.Jacobian(&p, ps, 0))
	}
	{ // Limited inflow blends the carried value strictly between the
		// interior trace and the target, with the exact blend derivative
		var (
			k     = newBC(true, true, InputValue(2.0))
			p, ps = faceCase(fields)
		)
		loadBoundary(ps, -3.0)
		var (
			vn      = 0.4 * -3.0
			pe      = k.lim.Peclet(vn, p.H, k.diff.normalStrengthM(&p, ps))
			ub, dUb = k.lim.Blend(1.0, 2.0, pe)
		)
		assert.True(t, ub > 1.0 && ub < 2.0)
		assert.True(t, near(1-pe/(1+pe), dUb))
		// Jacobian consistency with the blend in play
		assert.True(t, near(fdBoundaryM(k, &p, ps, ids["conc"], p.TrialM), k.Jacobian(&p, ps, 0), 1.e-06))
	}
	{ // Jacobian consistency for the specified-inflow Dirichlet emulation
		var (
			k     = newBC(false, true, InputValue(2.0))
			p, ps = faceCase(fields)
		)
		loadBoundary(ps, -3.0)
		assert.True(t, near(fdBoundaryM(k, &p, ps, ids["conc"], p.TrialM), k.Jacobian(&p, ps, 0), 1.e-06))
		assert.True(t, near(fdBoundaryM(k, &p, ps, ids["vel_x"], p.TrialM),
			k.OffDiagJacobian(&p, ps, 0, ids["vel_x"]), 1.e-06))
		assert.True(t, near(fdBoundaryM(k, &p, ps, ids["porosity"], p.TrialM),
			k.OffDiagJacobian(&p, ps, 0, ids["porosity"]), 1.e-06))
	}
	{ // Limited-inflow off-diagonals carry the blend-weight chain: the
		// Peclet ratio moves with the velocity and the diffusive
		// strength, and cancels exactly in the porosity
		var (
			k     = newBC(true, true, InputValue(2.0))
			p, ps = faceCase(fields)
		)
		loadBoundary(ps, -3.0)
		assert.True(t, near(fdBoundaryM(k, &p, ps, ids["vel_x"], p.TrialM),
			k.OffDiagJacobian(&p, ps, 0, ids["vel_x"]), 1.e-06))
		assert.True(t, near(fdBoundaryM(k, &p, ps, ids["porosity"], p.TrialM),
			k.OffDiagJacobian(&p, ps, 0, ids["porosity"]), 1.e-06))
		// a field-backed tensor component moves the Peclet ratio too
		fieldTensor := TensorConfig{Dx: CoefConfig{Field: "disp_x"}}
		kd, err := NewBoundaryFlux(BoundaryConfig{
			Variable: "conc",
			Velocity: [3]string{"vel_x", "", ""},
			Porosity: "porosity",
			Tensor:   &fieldTensor,
			Penalty:  pen,
			Input:    InputValue(2.0),
			Limited:  true,
			Tags:     []BCTag{"inlet"},
		}, fields)
		assert.NoError(t, err)
		ps.Set(ids["disp_x"], 2.0, Vec{})
		assert.True(t, near(fdBoundaryM(kd, &p, ps, ids["disp_x"], p.TrialM),
			kd.OffDiagJacobian(&p, ps, 0, ids["disp_x"]), 1.e-06))
	}
	{ // Outflow off-diagonals reduce to the interior advective ones
		var (
			k     = newBC(false, true, InputValue(2.0))
			p, ps = faceCase(fields)
		)
		loadBoundary(ps, 3.0)
		assert.True(t, near(fdBoundaryM(k, &p, ps, ids["vel_x"], p.TrialM),
			k.OffDiagJacobian(&p, ps, 0, ids["vel_x"]), 1.e-06))
	}
	{ // A scheduled input follows the ramp, the constant stays put
		sched, err := NewInputSchedule(1.0, []float64{5.0}, []float64{10.0}, []float64{2.0})
		assert.NoError(t, err)
		var (
			k     = newBC(false, false, sched)
			p, ps = faceCase(fields)
		)
		loadBoundary(ps, -3.0)
		vn := 0.4 * -3.0
		assert.True(t, near(p.TestM.Val*vn*1.0, k.Residual(&p, ps, 0)))
		assert.True(t, near(p.TestM.Val*vn*5.0, k.Residual(&p, ps, 20)))
	}
	{ // Setup failures
		_, err := NewBoundaryFlux(BoundaryConfig{Variable: "conc", Input: nil, Tags: []BCTag{"inlet"}}, fields)
		assert.Error(t, err)
		_, err = NewBoundaryFlux(BoundaryConfig{Variable: "conc", Input: InputValue(1), Limited: true, Tags: []BCTag{"inlet"}}, fields)
		assert.Error(t, err)
		_, err = NewBoundaryFlux(BoundaryConfig{Variable: "conc", Input: InputValue(1)}, fields)
		assert.Error(t, err)
	}
}

func TestWallFlux(t *testing.T) {
	fields, ids := testFields()
	{ // Robin exchange against literals plus derivative consistency
		k, err := NewWallFlux(WallConfig{
			Variable:     "temp",
			Transfer:     CoefConfig{Field: "porosity"}, // any coupled scalar serves as h_t
			AreaFraction: 0.6,
			Exterior:     InputValue(300.0),
			Tags:         []BCTag{"wall"},
		}, fields)
		assert.NoError(t, err)
		p, ps := faceCase(fields)
		ps.Set(ids["temp"], 400.0, Vec{})
		ps.Set(ids["porosity"], 2.5, Vec{})
		assert.True(t, near(p.TestM.Val*0.6*2.5*100.0, k.Residual(&p, ps, 0)))
		assert.True(t, near(p.TestM.Val*0.6*2.5*p.TrialM.Val, k.Jacobian(&p, ps, 0)))
		assert.True(t, near(fdBoundaryM(k, &p, ps, ids["porosity"], p.TrialM),
			k.OffDiagJacobian(&p, ps, 0, ids["porosity"]), 1.e-06))
		assert.True(t, k.AppliesTo("wall"))
	}
	{ // Constant transfer coefficient, and validation
		k, err := NewWallFlux(WallConfig{
			Variable:     "temp",
			Transfer:     CoefConfig{Value: 5.0},
			AreaFraction: 1.0,
			Exterior:     InputValue(300.0),
			Tags:         []BCTag{"wall"},
		}, fields)
		assert.NoError(t, err)
		p, ps := faceCase(fields)
		ps.Set(ids["temp"], 250.0, Vec{})
		assert.True(t, near(p.TestM.Val*5.0*-50.0, k.Residual(&p, ps, 0)))
		_, err = NewWallFlux(WallConfig{Variable: "temp", Transfer: CoefConfig{Value: -1},
			AreaFraction: 1, Exterior: InputValue(0), Tags: []BCTag{"wall"}}, fields)
		assert.Error(t, err)
		_, err = NewWallFlux(WallConfig{Variable: "temp", Transfer: CoefConfig{Value: 1},
			AreaFraction: 0, Exterior: InputValue(0), Tags: []BCTag{"wall"}}, fields)
		assert.Error(t, err)
	}
}

func fdBoundaryM(k BoundaryKernel, p *FacePoint, ps *PointSample, id FieldID, b BasisSample) float64 {
	const delta = 1.e-07
	r0 := k.Residual(p, ps, 0)
	ps.ValM[id] += b.Val * delta
	ps.GradientM[id] = ps.GradientM[id].Add(b.Grad.Scale(delta))
	r1 := k.Residual(p, ps, 0)
	ps.ValM[id] -= b.Val * delta
	ps.GradientM[id] = ps.GradientM[id].Add(b.Grad.Scale(-delta))
	return (r1 - r0) / delta
}

package ChannelTransport

import (
	"math"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/poresim/gopore/DGFlux"
	"github.com/poresim/gopore/InputParameters"
	"github.com/poresim/gopore/utils"
)

// testParams builds a minimal single species configuration that passes
// validation; tests override what they exercise.
func testParams() *InputParameters.TransportParameters {
	params := InputParameters.DefaultParameters()
	params.PolynomialOrder = 3
	params.ElementCount = 4
	params.ChannelLength = 2
	params.TimeStep = 0.01
	params.Velocity = 100
	params.BulkPorosity = 0.5
	params.WashcoatPorosity = 0.4
	params.MassTransfer = 1.2
	params.SurfaceToVolume = 40
	params.Species = []InputParameters.SpeciesSpec{
		{Name: "A", MW: 28.01, Initial: 1.e-03, Inlet: 1.e-03},
	}
	return params
}

// A state matching its inlet everywhere is a steady state of the pure
// transport system: the first Newton residual must vanish to roundoff
// and the step must return without touching the solution.
func TestSteadyUniformState(t *testing.T) {
	params := testParams()
	c, err := NewTransport(params)
	assert.NoError(t, err)
	iters := c.Step(params.TimeStep, params.TimeStep)
	assert.Equal(t, 0, iters)
	for f := 0; f < c.NUnknown; f++ {
		for _, v := range c.Q[f].DataP {
			assert.True(t, near(1.e-03, v, 1.e-12))
		}
	}
}

// The assembled Jacobian is checked column by column against central
// finite differences of the residual, with every coupling active:
// dispersion, limited inflow, film exchange, wall losses, reaction and
// the energy balance.
func TestJacobianFiniteDifference(t *testing.T) {
	params := testParams()
	params.PolynomialOrder = 2
	params.ElementCount = 3
	params.ChannelLength = 1.5
	params.Velocity = 80
	params.BulkPorosity = 0.4
	params.WashcoatPorosity = 0.3
	params.MassTransfer = 0.5
	params.SurfaceToVolume = 100
	params.Dispersion = "constant"
	params.DispersionCoef = 2.0
	params.Temperature = 350
	params.Species = []InputParameters.SpeciesSpec{
		{Name: "A", MW: 28.01, Initial: 0.4, Inlet: 0.5},
		{Name: "B", MW: 31.998, Initial: 0.2, Inlet: 0.1},
	}
	params.Reactions = []InputParameters.ReactionSpec{{
		Name:      "A+B",
		A:         5,
		E:         5000,
		Reactants: map[string]float64{"A": 1, "B": 1},
		Stoich:    map[string]float64{"A": -1, "B": -1},
	}}
	params.Wall = &InputParameters.WallSpec{Transfer: 0.6, AreaFraction: 0.25, Value: 0.05}
	params.Energy = &InputParameters.EnergySpec{
		HeatCapacity:     2,
		Conductivity:     1.5,
		WallTransfer:     0.8,
		WallAreaFraction: 0.1,
		WallTemperature:  300,
		InletTemperature: 350,
		Enthalpies:       []float64{-5000},
	}
	c, err := NewTransport(params)
	assert.NoError(t, err)
	// deform the state so no gradient or coupling degenerates
	for f := 0; f < c.NUnknown; f++ {
		data := c.Q[f].DataP
		for i := range data {
			data[i] *= 1 + 0.1*math.Sin(float64(3*f+i))
		}
	}
	var (
		el   = c.El
		NB   = c.NB
		rows = el.K * NB
		dt   = params.TimeStep
		qn   = make([]utils.Matrix, c.NUnknown)
	)
	for f := range qn {
		qn[f] = c.Q[f].Copy()
	}
	resid := func() []float64 {
		acc := c.assemble(0.05, dt, qn)
		r := make([]float64, rows)
		for k := 0; k < el.K; k++ {
			copy(r[k*NB:], acc.R[k].DataP)
		}
		return r
	}
	acc := c.assemble(0.05, dt, qn)
	for h := 0; h < rows; h++ {
		var (
			k   = h / NB
			f   = (h % NB) / el.Np
			n   = (h % NB) % el.Np
			nid = n*el.K + k
			q0  = c.Q[f].DataP[nid]
			dc  = 1.e-06 * (1 + math.Abs(q0))
		)
		c.Q[f].DataP[nid] = q0 + dc
		rp := resid()
		c.Q[f].DataP[nid] = q0 - dc
		rm := resid()
		c.Q[f].DataP[nid] = q0
		for g := 0; g < rows; g++ {
			var (
				fd   = (rp[g] - rm[g]) / (2 * dc)
				jval = acc.J.M[g/NB][h/NB].DataP[(g%NB)*NB+h%NB]
			)
			assert.InDeltaf(t, jval, fd, 1.e-06*(1+math.Abs(jval)),
				"row %d, col %d", g, h)
		}
	}
}

// The discrete balance: the change of total hold-up per step equals the
// net advective in/outflow, with the interior face fluxes and the film
// exchange cancelling identically. Linearity also forces convergence in
// exactly one Newton update.
func TestMassBalance(t *testing.T) {
	params := testParams()
	params.ChannelLength = 1
	params.TimeStep = 0.002
	params.MassTransfer = 0.5
	params.Species = []InputParameters.SpeciesSpec{
		{Name: "A", MW: 28.01, Initial: 0, Inlet: 1},
	}
	c, err := NewTransport(params)
	assert.NoError(t, err)
	c.NewtonTol = 1.e-11
	var (
		el    = c.El
		eb    = params.BulkPorosity
		ewEff = params.WashcoatPorosity * (1 - eb)
		dt    = params.TimeStep
	)
	massOf := func() (m float64) {
		for k := 0; k < el.K; k++ {
			for n := 0; n < el.Np; n++ {
				var (
					W   = c.W.AtVec(n) * el.J.At(n, k)
					nid = n*el.K + k
				)
				m += W * (eb*c.Q[0].DataP[nid] + ewEff*c.Q[1].DataP[nid])
			}
		}
		return
	}
	for step := 1; step <= 25; step++ {
		m0 := massOf()
		iters := c.Step(float64(step)*dt, dt)
		assert.Equal(t, 1, iters)
		var (
			influx  = eb * params.Velocity * 1.0
			outflux = eb * params.Velocity * c.Q[0].DataP[el.VmapO[0]]
		)
		assert.InDelta(t, influx-outflux, (massOf()-m0)/dt, 1.e-08)
	}
}

// A first order washcoat reaction in series with the film has the closed
// form steady solution c_out/c_in = exp(-k_eff L / (eb v)) with
// k_eff = Ga km (1-eb) k / (Ga km + (1-eb) k), and the washcoat to bulk
// ratio Ga km / (Ga km + (1-eb) k) pointwise.
func TestChannelReaction(t *testing.T) {
	params := testParams()
	params.ElementCount = 8
	params.ChannelLength = 1
	params.FinalTime = 1
	params.TimeStep = 0.05
	params.MassTransfer = 0.5
	params.SurfaceToVolume = 200
	params.Species = []InputParameters.SpeciesSpec{
		{Name: "A", MW: 28.01, Initial: 0, Inlet: 1},
	}
	params.Reactions = []InputParameters.ReactionSpec{{
		Name:      "consume",
		A:         100,
		Reactants: map[string]float64{"A": 1},
		Stoich:    map[string]float64{"A": -1},
	}}
	c, err := NewTransport(params)
	assert.NoError(t, err)
	c.Run(false)
	// Ga km = 100, (1-eb) k = 50: k_eff L / (eb v) = 2/3
	var (
		el    = c.El
		ratio = c.Q[0].DataP[el.VmapO[0]] / c.Q[0].DataP[el.VmapI[0]]
		frac  = c.Q[1].DataP[el.VmapO[0]] / c.Q[0].DataP[el.VmapO[0]]
	)
	assert.InDelta(t, math.Exp(-2.0/3.0), ratio, 0.01)
	assert.InDelta(t, 2.0/3.0, frac, 1.e-03)
}

// Ramping the feed temperature through the ignition range of an
// exothermic reaction: the channel starts cold and unreactive, lights
// off as the hot front arrives, and Newton stays comfortably convergent
// through the transition.
func TestEnergyLightoff(t *testing.T) {
	params := testParams()
	params.PolynomialOrder = 2
	params.TimeStep = 0.01
	params.MassTransfer = 0.5
	params.SurfaceToVolume = 200
	params.Temperature = 300
	params.TempRamp = &InputParameters.TempRampSpec{StartTime: 0.05, EndTime: 0.15, Target: 700}
	params.Species = []InputParameters.SpeciesSpec{
		{Name: "A", MW: 28.01, Initial: 1.e-02, Inlet: 1.e-02},
	}
	params.Reactions = []InputParameters.ReactionSpec{{
		Name:      "ignition",
		A:         1.e+08,
		E:         60000,
		Reactants: map[string]float64{"A": 1},
		Stoich:    map[string]float64{"A": -1},
	}}
	params.Energy = &InputParameters.EnergySpec{
		HeatCapacity:     2,
		Conductivity:     2,
		WallTransfer:     0.5,
		WallAreaFraction: 0.2,
		WallTemperature:  300,
		InletTemperature: 300,
		Enthalpies:       []float64{-80000},
	}
	c, err := NewTransport(params)
	assert.NoError(t, err)
	var (
		el       = c.El
		dt       = params.TimeStep
		maxIters int
		coldOut  float64
	)
	for step := 1; step <= 30; step++ {
		Time := float64(step) * dt
		c.updateProperties(Time)
		if iters := c.Step(Time, dt); iters > maxIters {
			maxIters = iters
		}
		if step == 5 {
			coldOut = c.Q[0].DataP[el.VmapO[0]] / c.Q[0].DataP[el.VmapI[0]]
		}
	}
	var (
		hotOut = c.Q[0].DataP[el.VmapO[0]] / c.Q[0].DataP[el.VmapI[0]]
		Tmax   = c.Q[int(c.tempID)].Max()
	)
	assert.True(t, maxIters < c.MaxNewton)
	assert.True(t, coldOut > 0.9)
	assert.True(t, hotOut < 0.5)
	assert.True(t, Tmax > 600)
	for f := 0; f < c.NUnknown; f++ {
		for _, v := range c.Q[f].DataP {
			assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
		}
	}
}

// The shipped example drives the film and dispersion correlations: the
// derived exchange coefficients must be positive, grow with the ramped
// operating temperature, and fill the per species dispersion fields.
func TestShippedConfigProperties(t *testing.T) {
	data, err := os.ReadFile("../../examples/monolith_co.yaml")
	assert.NoError(t, err)
	params := &InputParameters.TransportParameters{}
	assert.NoError(t, params.Parse(data))
	params.PolynomialOrder = 2
	params.ElementCount = 4
	c, err := NewTransport(params)
	assert.NoError(t, err)
	assert.InDelta(t, 393.15, c.OpTemp, 1.e-09)
	cold := append([]float64{}, c.exch...)
	for i := range cold {
		assert.True(t, cold[i] > 0)
		assert.True(t, c.daxID[i] != DGFlux.NoField)
		assert.True(t, c.Q[int(c.daxID[i])].DataP[0] > 0)
	}
	c.updateProperties(12)
	assert.InDelta(t, 603.15, c.OpTemp, 1.e-09)
	for i := range cold {
		assert.True(t, c.exch[i] > cold[i])
	}
}

func TestSetupErrors(t *testing.T) {
	{ // unknown penalty scheme
		params := testParams()
		params.PenaltyScheme = "central"
		_, err := NewTransport(params)
		assert.Error(t, err)
	}
	{ // reaction referencing an unconfigured species
		params := testParams()
		params.Reactions = []InputParameters.ReactionSpec{{
			Name:      "bad",
			A:         1,
			Reactants: map[string]float64{"Z": 1},
			Stoich:    map[string]float64{"Z": -1},
		}}
		_, err := NewTransport(params)
		assert.Error(t, err)
	}
	{ // constant dispersion without a coefficient
		params := testParams()
		params.Dispersion = "constant"
		_, err := NewTransport(params)
		assert.Error(t, err)
	}
}

func near(a, b float64, tolI ...float64) (l bool) {
	var (
		tol float64
	)
	if len(tolI) == 0 {
		tol = 1.e-08
	} else {
		tol = tolI[0]
	}
	bound := math.Max(tol, tol*math.Abs(a))
	if math.Abs(a-b) <= bound {
		l = true
	}
	return
}

/*
Package ChannelTransport solves transient advection, dispersion, film
exchange and washcoat reaction in a single monolith channel with a nodal
discontinuous Galerkin discretization in one dimension.

Each gas phase species carries two unknowns per node, the bulk channel
concentration and the washcoat concentration, optionally joined by the
temperature when the energy balance is active. Bulk concentrations are
transported by the DGFlux upwind and interior penalty kernels; washcoat
concentrations exchange with the bulk through the film coefficient and
feed the reaction network. Time integration is backward Euler with a
Newton solve per step; the Jacobian is assembled exactly from the kernel
derivatives and the reaction network derivatives and factored with the
block LUP solver.
*/
package ChannelTransport

import (
	"fmt"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/notargets/avs/chart2d"
	utils2 "github.com/notargets/avs/utils"

	"github.com/poresim/gopore/DG1D"
	"github.com/poresim/gopore/DGFlux"
	"github.com/poresim/gopore/InputParameters"
	"github.com/poresim/gopore/reaction"
	"github.com/poresim/gopore/utils"
)

const (
	velocityField = "velocity"
	porosityField = "porosity"

	inletTag  DGFlux.BCTag = "inlet"
	outletTag DGFlux.BCTag = "outlet"

	// tempFloor keeps Arrhenius evaluation defined through Newton
	// overshoots
	tempFloor = 1.0
)

// transportOps bundles the flux kernels of one transported variable.
// Washcoat concentrations are pointwise and carry no ops entry.
type transportOps struct {
	id      DGFlux.FieldID
	adv     *DGFlux.AdvectiveFlux
	volAdv  *DGFlux.VolumeAdvection
	diff    *DGFlux.DiffusiveFlux
	volDiff *DGFlux.VolumeDiffusion
	open    *DGFlux.BoundaryFlux
	walls   []*DGFlux.WallFlux
}

// rampInput adapts the configured temperature ramp to a scheduled
// boundary input.
type rampInput struct {
	base float64
	ramp *InputParameters.TempRampSpec
}

func (r rampInput) ValueAt(t float64) float64 {
	if r.ramp == nil {
		return r.base
	}
	return r.ramp.Temperature(r.base, t)
}

type Transport struct {
	// Input parameters
	Params *InputParameters.TransportParameters
	El     *DG1D.Elements1D
	// Q holds one Np x K nodal matrix per registered field: bulk species
	// first, then washcoat species, then temperature, then the frozen
	// property fields
	Q              []utils.Matrix
	NSpecies       int
	NUnknown       int // unknown fields per node: 2*NSpecies plus temperature
	NB             int // block dimension, Np*NUnknown
	OpTemp         float64
	W              utils.Vector // reference element quadrature weights
	ParallelDegree int
	NewtonTol      float64
	MaxNewton      int
	fields         *DGFlux.FieldSet
	network        *reaction.Network
	faces          []DG1D.FaceGeom
	ops            []transportOps
	inlets         []DGFlux.BoundaryValue
	exch           []float64 // film exchange Ga*km per species (1/min)
	tempID         DGFlux.FieldID
	daxID          []DGFlux.FieldID
	enthalpies     []float64
	heatCap        float64
	pm             *utils.PartitionMap
	samp           []*DGFlux.PointSample
	plotOnce       sync.Once
	chart          *chart2d.Chart2D
	colorMap       *utils2.ColorMap
}

func NewTransport(params *InputParameters.TransportParameters) (c *Transport, err error) {
	if err = params.Validate(); err != nil {
		return nil, err
	}
	var (
		N  = params.PolynomialOrder
		K  = params.ElementCount
		ns = len(params.Species)
	)
	VX, EToV := DG1D.SimpleMesh1D(0, params.ChannelLength, K)
	c = &Transport{
		Params:    params,
		El:        DG1D.NewElements1D(N, VX, EToV),
		NSpecies:  ns,
		fields:    DGFlux.NewFieldSet(),
		tempID:    DGFlux.NoField,
		NewtonTol: 1.e-10,
		MaxNewton: 12,
	}
	fmt.Printf("Polynomial Degree N = %d (1 is linear), Num Elements K = %d, Species = %d\n",
		N, K, ns)
	fmt.Printf("Penalty = %s, Sigma = %8.4f, Velocity = %8.2f, Bulk Porosity = %6.4f\n",
		params.PenaltyScheme, params.PenaltySigma, params.Velocity, params.BulkPorosity)
	register := func(name string) (id DGFlux.FieldID) {
		if err != nil {
			return DGFlux.NoField
		}
		id, err = c.fields.Register(DGFlux.FieldSpec{Name: name, Order: N, Family: "lagrange"})
		return
	}
	for _, s := range params.Species {
		register(s.Name)
	}
	for _, s := range params.Species {
		register(s.Name + "_w")
	}
	c.NUnknown = 2 * ns
	if params.Energy != nil {
		c.tempID = register("T")
		c.NUnknown++
	}
	register(velocityField)
	register(porosityField)
	c.daxID = make([]DGFlux.FieldID, ns)
	for i := range c.daxID {
		c.daxID[i] = DGFlux.NoField
	}
	if params.Dispersion == "correlation" {
		for i, s := range params.Species {
			c.daxID[i] = register("dax_" + s.Name)
		}
	}
	if err != nil {
		return nil, err
	}
	c.NB = c.El.Np * c.NUnknown
	c.Q = make([]utils.Matrix, c.fields.Len())
	for fid := range c.Q {
		c.Q[fid] = utils.NewMatrix(c.El.Np, K)
	}
	for i, s := range params.Species {
		c.Q[i].AddScalar(s.Initial)
		c.Q[ns+i].AddScalar(s.Initial)
	}
	if c.tempID != DGFlux.NoField {
		c.Q[int(c.tempID)].AddScalar(params.Temperature)
	}
	velID, _ := c.fields.Lookup(velocityField)
	porID, _ := c.fields.Lookup(porosityField)
	c.Q[int(velID)].AddScalar(params.Velocity)
	c.Q[int(porID)].AddScalar(params.BulkPorosity)
	rxns := make([]reaction.Reaction, 0, len(params.Reactions))
	for i := range params.Reactions {
		rxn, e := params.Reactions[i].Build(params.SpeciesIndex)
		if e != nil {
			return nil, e
		}
		rxns = append(rxns, rxn)
	}
	if c.network, err = reaction.NewNetwork(ns, rxns...); err != nil {
		return nil, err
	}
	scheme, err := DGFlux.ParsePenaltyScheme(params.PenaltyScheme)
	if err != nil {
		return nil, err
	}
	pen := DGFlux.Penalty{Scheme: scheme, Sigma: params.PenaltySigma}
	c.inlets = make([]DGFlux.BoundaryValue, ns)
	c.exch = make([]float64, ns)
	for i, s := range params.Species {
		if c.inlets[i], err = s.BoundaryValue(); err != nil {
			return nil, err
		}
		var tensor *DGFlux.TensorConfig
		switch params.Dispersion {
		case "constant":
			t := DGFlux.Isotropic(params.DispersionCoef)
			tensor = &t
		case "correlation":
			tensor = &DGFlux.TensorConfig{Dx: DGFlux.CoefConfig{Field: "dax_" + s.Name}}
		}
		op, e := c.newOps(DGFlux.FieldID(i), tensor, pen, c.inlets[i])
		if e != nil {
			return nil, e
		}
		c.ops = append(c.ops, op)
	}
	if en := params.Energy; en != nil {
		var tensor *DGFlux.TensorConfig
		if en.Conductivity > 0 {
			t := DGFlux.Isotropic(en.Conductivity)
			tensor = &t
		}
		op, e := c.newOps(c.tempID, tensor, pen,
			rampInput{base: en.InletTemperature, ramp: params.TempRamp})
		if e != nil {
			return nil, e
		}
		c.ops = append(c.ops, op)
		c.heatCap = en.HeatCapacity
		if len(en.Enthalpies) == len(params.Reactions) {
			c.enthalpies = en.Enthalpies
		}
	}
	if err = c.buildWalls(); err != nil {
		return nil, err
	}
	c.faces = c.El.FaceGeometry()
	c.W = c.El.MassMatrix.SumRows()
	c.SetParallelDegree(0, K)
	c.updateProperties(0)
	return
}

// newOps assembles the advective, diffusive and open boundary kernels of
// one transported variable. A nil tensor leaves the variable purely
// advective and switches the inflow condition to the unlimited form.
func (c *Transport) newOps(id DGFlux.FieldID, tensor *DGFlux.TensorConfig,
	pen DGFlux.Penalty, input DGFlux.BoundaryValue) (op transportOps, err error) {
	var (
		name = c.fields.Spec(id).Name
		adv  = DGFlux.AdvectionConfig{
			Variable: name,
			Velocity: [3]string{velocityField},
			Porosity: porosityField,
		}
	)
	op.id = id
	if op.adv, err = DGFlux.NewAdvectiveFlux(adv, c.fields); err != nil {
		return
	}
	if op.volAdv, err = DGFlux.NewVolumeAdvection(adv, c.fields); err != nil {
		return
	}
	if tensor != nil {
		dcfg := DGFlux.DiffusionConfig{
			Variable: name,
			Tensor:   *tensor,
			Porosity: porosityField,
			Penalty:  pen,
		}
		if op.diff, err = DGFlux.NewDiffusiveFlux(dcfg, c.fields); err != nil {
			return
		}
		if op.volDiff, err = DGFlux.NewVolumeDiffusion(dcfg, c.fields); err != nil {
			return
		}
	}
	op.open, err = DGFlux.NewBoundaryFlux(DGFlux.BoundaryConfig{
		Variable: name,
		Velocity: [3]string{velocityField},
		Porosity: porosityField,
		Tensor:   tensor,
		Penalty:  pen,
		Input:    input,
		Limited:  tensor != nil,
		Tags:     []DGFlux.BCTag{inletTag, outletTag},
	}, c.fields)
	return
}

// buildWalls attaches the configured wall exchange kernels. The only
// boundary faces of the channel are its two ends, so wall losses drain
// through the outlet face, leaving the specified inflow clean.
func (c *Transport) buildWalls() (err error) {
	var (
		params = c.Params
		tags   = []DGFlux.BCTag{outletTag}
	)
	attach := func(opIdx int, cfg DGFlux.WallConfig) error {
		w, err := DGFlux.NewWallFlux(cfg, c.fields)
		if err != nil {
			return err
		}
		c.ops[opIdx].walls = append(c.ops[opIdx].walls, w)
		return nil
	}
	if wall := params.Wall; wall != nil {
		for i, s := range params.Species {
			err = attach(i, DGFlux.WallConfig{
				Variable:     s.Name,
				Transfer:     DGFlux.CoefConfig{Value: wall.Transfer},
				AreaFraction: wall.AreaFraction,
				Exterior:     DGFlux.InputValue(wall.Value),
				Tags:         tags,
			})
			if err != nil {
				return
			}
		}
	}
	if en := params.Energy; en != nil && en.WallTransfer > 0 {
		err = attach(len(c.ops)-1, DGFlux.WallConfig{
			Variable:     "T",
			Transfer:     DGFlux.CoefConfig{Value: en.WallTransfer},
			AreaFraction: en.WallAreaFraction,
			Exterior:     DGFlux.InputValue(en.WallTemperature),
			Tags:         tags,
		})
	}
	return
}

func (c *Transport) SetParallelDegree(ProcLimit, Kmax int) {
	if ProcLimit != 0 {
		c.ParallelDegree = ProcLimit
	} else {
		c.ParallelDegree = runtime.NumCPU()
	}
	runtime.GOMAXPROCS(runtime.NumCPU())
	if c.ParallelDegree > Kmax {
		c.ParallelDegree = 1
	}
	c.pm = utils.NewPartitionMap(c.ParallelDegree, Kmax)
	c.samp = make([]*DGFlux.PointSample, c.ParallelDegree)
	for np := range c.samp {
		c.samp[np] = DGFlux.NewPointSample(c.fields.Len())
	}
}

func (c *Transport) Run(showGraph bool, graphDelay ...time.Duration) {
	var (
		params       = c.Params
		el           = c.El
		dt           = params.TimeStep
		logFrequency = params.LogFrequency
	)
	if logFrequency <= 0 {
		logFrequency = 10
	}
	Nsteps := int(math.Ceil(params.FinalTime / dt))
	dt = params.FinalTime / float64(Nsteps)
	fmt.Printf("FinalTime = %8.4f, Nsteps = %d, dt = %8.6f\n", params.FinalTime, Nsteps, dt)
	var Time float64
	for tstep := 1; tstep <= Nsteps; tstep++ {
		Time = float64(tstep) * dt
		c.updateProperties(Time)
		iter := c.Step(Time, dt)
		if showGraph {
			c.Plot(graphDelay)
		}
		if tstep%logFrequency == 0 || tstep == Nsteps {
			fmt.Printf("Time = %8.4f, newton = %d, T_op = %8.2f", Time, iter, c.OpTemp)
			for i, s := range params.Species {
				fmt.Printf(", %s = %8.6f", s.Name, c.Q[i].DataP[el.VmapO[0]])
			}
			if c.tempID != DGFlux.NoField {
				fmt.Printf(", Tmax = %8.2f", c.Q[int(c.tempID)].Max())
			}
			fmt.Printf("\n")
		}
	}
	fmt.Printf("Final Time = %8.4f\n", Time)
	for i, s := range params.Species {
		fmt.Printf("%-8s inlet = %10.6g, outlet = %10.6g\n",
			s.Name, c.Q[i].DataP[el.VmapI[0]], c.Q[i].DataP[el.VmapO[0]])
	}
}

// Step advances the solution one backward Euler step, returning the
// number of Newton updates it took
func (c *Transport) Step(Time, dt float64) (iter int) {
	var (
		el = c.El
		qn = make([]utils.Matrix, c.NUnknown)
	)
	for f := 0; f < c.NUnknown; f++ {
		qn[f] = c.Q[f].Copy()
	}
	for iter = 0; iter < c.MaxNewton; iter++ {
		acc := c.assemble(Time, dt, qn)
		var resMax float64
		for k := 0; k < el.K; k++ {
			for _, v := range acc.R[k].DataP {
				if math.Abs(v) > resMax {
					resMax = math.Abs(v)
				}
			}
		}
		if resMax < c.NewtonTol {
			return
		}
		for k := 0; k < el.K; k++ {
			acc.R[k].Scale(-1)
		}
		if err := acc.J.LUPDecompose(); err != nil {
			panic(err)
		}
		dU, err := acc.J.LUPSolve(acc.R)
		if err != nil {
			panic(err)
		}
		c.applyUpdate(dU)
	}
	fmt.Printf("Newton stalled at Time = %8.4f after %d iterations\n", Time, c.MaxNewton)
	return
}

func (c *Transport) applyUpdate(dU utils.BlockMatrix) {
	var (
		el = c.El
	)
	for k := 0; k < el.K; k++ {
		data := dU.M[k][0].DataP
		for f := 0; f < c.NUnknown; f++ {
			for n := 0; n < el.Np; n++ {
				c.Q[f].DataP[n*el.K+k] += data[f*el.Np+n]
			}
		}
	}
	if c.tempID != DGFlux.NoField {
		data := c.Q[int(c.tempID)].DataP
		for i, v := range data {
			if v < tempFloor {
				data[i] = tempFloor
			}
		}
	}
}

func (c *Transport) Plot(graphDelay []time.Duration) {
	var (
		el         = c.El
		fmin, fmax float32
	)
	for i := 0; i < c.NSpecies; i++ {
		if lo := float32(c.Q[i].Min()); i == 0 || lo < fmin {
			fmin = lo
		}
		if hi := float32(c.Q[i].Max()); i == 0 || hi > fmax {
			fmax = hi
		}
	}
	c.plotOnce.Do(func() {
		c.chart = chart2d.NewChart2D(1920, 1280, float32(el.X.Min()), float32(el.X.Max()), fmin, fmax)
		c.colorMap = utils2.NewColorMap(-1, 1, 1)
		go c.chart.Plot()
	})
	pSeries := func(field utils.Matrix, name string, color float32, gl chart2d.GlyphType) {
		if err := c.chart.AddSeries(name, el.X.Transpose().RawMatrix().Data, field.Transpose().RawMatrix().Data,
			gl, chart2d.Solid, c.colorMap.GetRGB(color)); err != nil {
			panic("unable to add graph series")
		}
	}
	for i, s := range c.Params.Species {
		color := -0.7 + 1.4*float32(i)/float32(c.NSpecies)
		pSeries(c.Q[i], s.Name, color, chart2d.NoGlyph)
	}
	if len(graphDelay) != 0 {
		time.Sleep(graphDelay[0])
	}
}

package ChannelTransport

import (
	"github.com/poresim/gopore/gasprops"
)

// Unit conversions between the channel system (cm, min, mol/L) and the
// SI inputs of the gas property correlations
const (
	cmToM             = 0.01
	cm2ToM2           = 1.e-04
	poiseToPaSec      = 0.1
	cmPerMinToMPerS   = 0.01 / 60
	cm2PerMinToM2PerS = 1.e-04 / 60
	litersPerCm3      = 1.e-03
)

// updateProperties refreshes the operating temperature, the film
// exchange coefficients and the axial dispersion fields at time t. With
// a fixed mass transfer coefficient and without correlated dispersion
// this reduces to the temperature ramp; otherwise the film and
// dispersion correlations are evaluated at the feed composition and the
// current operating temperature.
func (c *Transport) updateProperties(t float64) {
	var (
		params   = c.Params
		ns       = c.NSpecies
		needFilm = params.MassTransfer == 0
		needDax  = params.Dispersion == "correlation"
	)
	c.OpTemp = params.Temperature
	if params.TempRamp != nil {
		c.OpTemp = params.TempRamp.Temperature(params.Temperature, t)
	}
	if !needFilm {
		for s := range c.exch {
			c.exch[s] = params.SurfaceToVolume * params.MassTransfer
		}
		if !needDax {
			return
		}
	}
	var (
		T  = c.OpTemp
		y  = c.inletFractions(t)
		mu = make([]float64, ns)
		mw = make([]float64, ns)
		D  = make([]float64, ns)
		dh = gasprops.MonolithHydraulicDiameter(params.CellDensity, params.BulkPorosity)
	)
	var meanMW float64
	for i, s := range params.Species {
		mw[i] = s.MW
		meanMW += y[i] * s.MW
		D[i] = gasprops.DiffusivityRef{DRef: s.DiffRef, TRef: s.DiffTemp, PRef: s.DiffPress}.
			At(T, params.Pressure)
		if needFilm {
			mu[i] = gasprops.Sutherland{MuRef: s.SuthVis, TRef: s.SuthTemp, C: s.SuthConst}.
				Viscosity(T)
		}
	}
	if needFilm {
		var (
			muMix = gasprops.MixtureViscosity(y, mu, mw) * poiseToPaSec
			rho   = gasprops.IdealGasDensity(params.Pressure, T, meanMW)
			re    = gasprops.Reynolds(rho, params.Velocity*cmPerMinToMPerS, dh*cmToM, muMix)
		)
		for i := range D {
			var (
				sc = gasprops.Schmidt(muMix, rho, D[i]*cm2PerMinToM2PerS)
				sh = gasprops.Sherwood(re, sc)
				km = gasprops.FilmMassTransfer(sh, D[i]*cm2ToM2, dh*cmToM)
			)
			c.exch[i] = params.SurfaceToVolume * km
		}
	}
	if needDax {
		for i := range D {
			var (
				dax  = gasprops.AxialDispersion(D[i], params.Velocity, dh)
				data = c.Q[int(c.daxID[i])].DataP
			)
			for n := range data {
				data[n] = dax
			}
		}
	}
}

// inletFractions estimates the feed mole fractions from the scheduled
// inlet concentrations, falling back to a uniform mixture when the feed
// is all zeros
func (c *Transport) inletFractions(t float64) (y []float64) {
	var (
		tot float64
	)
	y = make([]float64, c.NSpecies)
	for i := range y {
		if v := c.inlets[i].ValueAt(t); v > 0 {
			y[i] = v
			tot += v
		}
	}
	if tot == 0 {
		for i := range y {
			y[i] = 1 / float64(len(y))
		}
		return
	}
	for i := range y {
		y[i] /= tot
	}
	return
}

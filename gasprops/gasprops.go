/*
Package gasprops provides gas-phase property correlations for channel
transport models: Sutherland viscosity, mixture viscosity, ideal gas
density, temperature and pressure scaled molecular diffusivity, the
dimensionless groups Re/Sc/Sh, film mass transfer, Edwards-Richardson
axial dispersion and the monolith hydraulic diameter.

All correlations are unit-agnostic except where noted; callers supply a
consistent unit system.
*/
package gasprops

import (
	"fmt"
	"math"
)

// RGas is the universal gas constant (J/mol/K)
const RGas = 8.3145

// Sutherland holds the three-parameter Sutherland viscosity model for
// one species: mu(T) = MuRef * (TRef+C)/(T+C) * (T/TRef)^1.5
type Sutherland struct {
	MuRef float64 // reference viscosity
	TRef  float64 // reference temperature (K)
	C     float64 // Sutherland constant (K)
}

func (s Sutherland) Viscosity(T float64) (mu float64) {
	mu = s.MuRef * (s.TRef + s.C) / (T + s.C) * math.Pow(T/s.TRef, 1.5)
	return
}

// MixtureViscosity combines pure component viscosities with the
// Herning-Zipperer square root molecular weight weighting:
// muMix = sum(y_i*mu_i*sqrt(MW_i)) / sum(y_i*sqrt(MW_i))
func MixtureViscosity(y, mu, mw []float64) (muMix float64) {
	if len(y) != len(mu) || len(y) != len(mw) {
		panic(fmt.Errorf("mixture arrays must have equal lengths: %d, %d, %d",
			len(y), len(mu), len(mw)))
	}
	var num, den float64
	for i, yi := range y {
		rootMW := math.Sqrt(mw[i])
		num += yi * mu[i] * rootMW
		den += yi * rootMW
	}
	muMix = num / den
	return
}

// IdealGasDensity returns the mass density (kg/m3) from pressure (Pa),
// temperature (K) and molecular weight (g/mol)
func IdealGasDensity(P, T, MW float64) (rho float64) {
	rho = P * MW * 1.e-3 / (RGas * T)
	return
}

// DiffusivityRef is a molecular diffusivity anchored at a reference
// state, rescaled to other states by the Fuller temperature and pressure
// dependence: D(T,P) = DRef * (T/TRef)^1.75 * (PRef/P)
type DiffusivityRef struct {
	DRef, TRef, PRef float64
}

func (d DiffusivityRef) At(T, P float64) (D float64) {
	D = d.DRef * math.Pow(T/d.TRef, 1.75) * d.PRef / P
	return
}

// Reynolds number rho*v*d/mu based on the hydraulic diameter
func Reynolds(rho, v, dh, mu float64) float64 {
	return rho * math.Abs(v) * dh / mu
}

// Schmidt number mu/(rho*D)
func Schmidt(mu, rho, D float64) float64 {
	return mu / (rho * D)
}

// Sherwood returns the Wakao-Funazkri correlation
// Sh = 2 + 1.1*Re^0.6*Sc^(1/3)
func Sherwood(re, sc float64) float64 {
	return 2. + 1.1*math.Pow(re, 0.6)*math.Cbrt(sc)
}

// FilmMassTransfer returns the film coefficient km = Sh*D/dh
func FilmMassTransfer(sh, D, dh float64) float64 {
	return sh * D / dh
}

// AxialDispersion returns the Edwards-Richardson axial dispersion
// coefficient Dax = 0.73*Dm + 0.5*v*dh/(1 + 9.49*Dm/(v*dh)), written in
// the algebraically equal form that stays finite as v goes to zero
func AxialDispersion(Dm, v, dh float64) (Dax float64) {
	var (
		vd = math.Abs(v) * dh
	)
	Dax = 0.73*Dm + 0.5*vd*vd/(vd+9.49*Dm)
	return
}

// MonolithHydraulicDiameter treats the open area of one monolith cell as
// a circle: dh = 2*sqrt(A/pi) with A = bulkPorosity/cellDensity.
// cellDensity is cells per unit face area in the working length units.
func MonolithHydraulicDiameter(cellDensity, bulkPorosity float64) (dh float64) {
	var (
		A = bulkPorosity / cellDensity
	)
	dh = 2. * math.Sqrt(A/math.Pi)
	return
}

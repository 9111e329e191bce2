package gasprops

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSutherlandViscosity(t *testing.T) {
	// Air, reference 1.716e-5 Pa*s at 273.15 K with C = 110.4 K
	air := Sutherland{MuRef: 1.716e-5, TRef: 273.15, C: 110.4}
	assert.True(t, near(air.Viscosity(273.15), 1.716e-5))
	assert.True(t, near(air.Viscosity(373.15), 2.173307829723e-5))
	// Viscosity of a gas increases with temperature
	assert.True(t, air.Viscosity(600) > air.Viscosity(300))
}

func TestMixtureViscosity(t *testing.T) {
	// A mixture of one species is that species
	mu := MixtureViscosity([]float64{1}, []float64{1.8e-5}, []float64{28.97})
	assert.True(t, near(mu, 1.8e-5))
	// N2/O2 at air composition
	mu = MixtureViscosity(
		[]float64{0.79, 0.21},
		[]float64{1.78e-5, 2.06e-5},
		[]float64{28.014, 31.998})
	assert.True(t, near(mu, 1.8419478714857e-5))
	assert.Panics(t, func() {
		MixtureViscosity([]float64{1}, []float64{1, 2}, []float64{1})
	})
}

func TestIdealGasDensity(t *testing.T) {
	// Air at standard conditions
	rho := IdealGasDensity(101325, 298.15, 28.97)
	assert.True(t, near(rho, 1.18411574606))
}

func TestDiffusivityScaling(t *testing.T) {
	// NH3 in air anchored at 298.15 K, 1 atm
	d := DiffusivityRef{DRef: 2.296e-5, TRef: 298.15, PRef: 101325}
	assert.True(t, near(d.At(298.15, 101325), 2.296e-5))
	assert.True(t, near(d.At(598.15, 101325), 7.764770914062e-5))
	// Doubling pressure halves the diffusivity
	assert.True(t, near(d.At(298.15, 202650), 1.148e-5))
}

func TestDimensionlessGroups(t *testing.T) {
	var (
		rho = 1.1845
		v   = 1.0
		dh  = 1.0e-3
		mu  = 1.8e-5
		D   = 2.296e-5
	)
	re := Reynolds(rho, v, dh, mu)
	assert.True(t, near(re, 65.805555555556))
	// Direction of flow does not matter
	assert.True(t, near(Reynolds(rho, -v, dh, mu), re))

	sc := Schmidt(mu, rho, D)
	assert.True(t, near(sc, 0.661859118139))

	sh := Sherwood(re, sc)
	assert.True(t, near(sh, 13.819671501439))
	// Stagnant limit recovers Sh = 2
	assert.True(t, near(Sherwood(0, sc), 2))

	km := FilmMassTransfer(sh, D, dh)
	assert.True(t, near(km, 0.317299657673))
}

func TestAxialDispersion(t *testing.T) {
	var (
		Dm = 2.296e-5
		dh = 1.0e-3
	)
	assert.True(t, near(AxialDispersion(Dm, 1, dh), 4.273067735950e-4))
	// Zero velocity limit is pure molecular spreading
	assert.True(t, near(AxialDispersion(Dm, 0, dh), 0.73*Dm))
	// Dispersion grows with velocity
	assert.True(t, AxialDispersion(Dm, 2, dh) > AxialDispersion(Dm, 1, dh))
}

func TestMonolithHydraulicDiameter(t *testing.T) {
	// 600 cpsi monolith is about 93 cells/cm2; lengths in cm
	dh := MonolithHydraulicDiameter(93, 0.3309)
	assert.True(t, near(dh, 0.067307268884))
	// More cells per area means narrower channels
	assert.True(t, MonolithHydraulicDiameter(150, 0.3309) < dh)
}

func near(a, b float64) (l bool) {
	if math.Abs(a-b) < 1.e-08*math.Abs(b)+1.e-14 {
		l = true
	}
	return
}

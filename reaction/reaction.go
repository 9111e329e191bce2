/*
Package reaction provides Arrhenius rate constants, power law reaction
rates and reaction networks with exact concentration Jacobians for use
in implicit solvers.
*/
package reaction

import (
	"fmt"
	"math"
)

// RGas is the universal gas constant (J/mol/K)
const RGas = 8.3145

// Arrhenius is the rate constant k(T) = A * T^Beta * exp(-E/(RGas*T))
type Arrhenius struct {
	A    float64 // pre-exponential factor, units set the rate units
	Beta float64 // temperature exponent
	E    float64 // activation energy (J/mol)
}

func (a Arrhenius) K(T float64) (k float64) {
	k = a.A * math.Pow(T, a.Beta) * math.Exp(-a.E/RGas/T)
	return
}

// KDerivT returns dk/dT, used when temperature is a solved variable
func (a Arrhenius) KDerivT(T float64) (dk float64) {
	dk = a.K(T) * (a.Beta/T + a.E/RGas/T/T)
	return
}

// EquilibriumArrhenius couples a forward Arrhenius rate to reaction
// thermodynamics. The reverse constants follow from the enthalpy and
// entropy of reaction: Ar = Af*exp(-dS/RGas), Er = Ef - dH
type EquilibriumArrhenius struct {
	Af float64 // forward pre-exponential
	Ef float64 // forward activation energy (J/mol)
	DH float64 // reaction enthalpy (J/mol)
	DS float64 // reaction entropy (J/K/mol)
}

func (e EquilibriumArrhenius) Forward() Arrhenius {
	return Arrhenius{A: e.Af, E: e.Ef}
}

func (e EquilibriumArrhenius) Reverse() Arrhenius {
	return Arrhenius{A: e.Af * math.Exp(-e.DS/RGas), E: e.Ef - e.DH}
}

// Term is one species' participation in a power law rate expression
type Term struct {
	Species int     // index into the concentration slice
	Order   float64 // power law exponent
}

// InhibitionTerm is one adsorbing species occupying sites: its
// concentration weighted by the Arrhenius adsorption constant K(T).
type InhibitionTerm struct {
	Species int
	K       Arrhenius
}

// Inhibition is a Langmuir type rate inhibition factor
// R(T,C) = (1 + sum_i K_i(T) C_i)^-Power. With nonnegative
// concentrations the site sum stays at least 1 and the factor in (0,1].
type Inhibition struct {
	Terms []InhibitionTerm
	Power float64
}

// siteSum is 1 + sum K_i(T) C_i, the occupied-site denominator base
func (h *Inhibition) siteSum(T float64, C []float64) (s float64) {
	s = 1
	for _, t := range h.Terms {
		s += t.K.K(T) * C[t.Species]
	}
	return
}

func (h *Inhibition) Factor(T float64, C []float64) float64 {
	return math.Pow(h.siteSum(T, C), -h.Power)
}

// FactorDeriv returns the exact partial derivative of Factor with
// respect to C[j]
func (h *Inhibition) FactorDeriv(T float64, C []float64, j int) (d float64) {
	var kj float64
	for _, t := range h.Terms {
		if t.Species == j {
			kj += t.K.K(T)
		}
	}
	if kj == 0 {
		return 0
	}
	return -h.Power * kj * math.Pow(h.siteSum(T, C), -h.Power-1)
}

// FactorDerivT returns the exact temperature derivative of Factor
// through the adsorption constants
func (h *Inhibition) FactorDerivT(T float64, C []float64) (d float64) {
	var ds float64
	for _, t := range h.Terms {
		ds += t.K.KDerivT(T) * C[t.Species]
	}
	return -h.Power * ds * math.Pow(h.siteSum(T, C), -h.Power-1)
}

// Reaction is a power law rate over the reactant terms, optionally
// reversible with the product terms entering the reverse rate, and
// optionally divided by a Langmuir inhibition denominator. Stoich maps
// species index to its net stoichiometric coefficient, negative for
// consumed species.
type Reaction struct {
	Name       string
	Forward    Arrhenius
	Reverse    Arrhenius
	Reversible bool
	Reactants  []Term
	Products   []Term
	Inhibit    *Inhibition
	Stoich     map[int]float64
}

// NewEquilibriumReaction builds a reversible reaction whose reverse rate
// constant is thermodynamically consistent with the forward one
func NewEquilibriumReaction(name string, eq EquilibriumArrhenius, reactants, products []Term, stoich map[int]float64) Reaction {
	return Reaction{
		Name:       name,
		Forward:    eq.Forward(),
		Reverse:    eq.Reverse(),
		Reversible: true,
		Reactants:  reactants,
		Products:   products,
		Stoich:     stoich,
	}
}

// Rate returns the net volumetric rate at temperature T and
// concentrations C
func (r Reaction) Rate(T float64, C []float64) (rate float64) {
	rate = r.powerRate(T, C)
	if r.Inhibit != nil {
		rate *= r.Inhibit.Factor(T, C)
	}
	return
}

// RateDeriv returns the exact partial derivative of Rate with respect
// to C[j], the inhibition factor entering by the product rule
func (r Reaction) RateDeriv(T float64, C []float64, j int) (d float64) {
	d = r.Forward.K(T) * powProductDeriv(r.Reactants, C, j)
	if r.Reversible {
		d -= r.Reverse.K(T) * powProductDeriv(r.Products, C, j)
	}
	if r.Inhibit != nil {
		d = d*r.Inhibit.Factor(T, C) + r.powerRate(T, C)*r.Inhibit.FactorDeriv(T, C, j)
	}
	return
}

// RateDerivT returns the exact partial derivative of Rate with respect
// to temperature
func (r Reaction) RateDerivT(T float64, C []float64) (d float64) {
	d = r.Forward.KDerivT(T) * powProduct(r.Reactants, C)
	if r.Reversible {
		d -= r.Reverse.KDerivT(T) * powProduct(r.Products, C)
	}
	if r.Inhibit != nil {
		d = d*r.Inhibit.Factor(T, C) + r.powerRate(T, C)*r.Inhibit.FactorDerivT(T, C)
	}
	return
}

// powerRate is the uninhibited power law rate
func (r Reaction) powerRate(T float64, C []float64) (rate float64) {
	rate = r.Forward.K(T) * powProduct(r.Reactants, C)
	if r.Reversible {
		rate -= r.Reverse.K(T) * powProduct(r.Products, C)
	}
	return
}

func powProduct(terms []Term, C []float64) (p float64) {
	p = 1
	for _, t := range terms {
		p *= math.Pow(C[t.Species], t.Order)
	}
	return
}

func powProductDeriv(terms []Term, C []float64, j int) (d float64) {
	// Product rule over the terms involving species j
	for i, ti := range terms {
		if ti.Species != j || ti.Order == 0 {
			continue
		}
		g := ti.Order * math.Pow(C[j], ti.Order-1)
		for m, tm := range terms {
			if m == i {
				continue
			}
			g *= math.Pow(C[tm.Species], tm.Order)
		}
		d += g
	}
	return
}

// Network is a set of reactions over a fixed species indexing
type Network struct {
	NSpecies int
	Rxns     []Reaction
}

func NewNetwork(nSpecies int, rxns ...Reaction) (n *Network, err error) {
	for _, r := range rxns {
		for sp := range r.Stoich {
			if sp < 0 || sp >= nSpecies {
				err = fmt.Errorf("reaction %q: stoichiometry references species %d of %d",
					r.Name, sp, nSpecies)
				return
			}
		}
		for _, t := range append(append([]Term{}, r.Reactants...), r.Products...) {
			if t.Species < 0 || t.Species >= nSpecies {
				err = fmt.Errorf("reaction %q: rate term references species %d of %d",
					r.Name, t.Species, nSpecies)
				return
			}
		}
		if r.Inhibit != nil {
			for _, t := range r.Inhibit.Terms {
				if t.Species < 0 || t.Species >= nSpecies {
					err = fmt.Errorf("reaction %q: inhibition term references species %d of %d",
						r.Name, t.Species, nSpecies)
					return
				}
			}
		}
	}
	n = &Network{NSpecies: nSpecies, Rxns: rxns}
	return
}

// Sources accumulates the net volumetric production of each species into
// src, which must have length NSpecies. src is zeroed first.
func (n *Network) Sources(T float64, C, src []float64) {
	for i := range src {
		src[i] = 0
	}
	for _, r := range n.Rxns {
		rate := r.Rate(T, C)
		for sp, nu := range r.Stoich {
			src[sp] += nu * rate
		}
	}
}

// SourceJacobian fills jac, a row major NSpecies x NSpecies slice, with
// the exact derivatives d src[i] / d C[j]
func (n *Network) SourceJacobian(T float64, C []float64, jac []float64) {
	var (
		ns = n.NSpecies
	)
	for i := range jac {
		jac[i] = 0
	}
	for _, r := range n.Rxns {
		for j := 0; j < ns; j++ {
			d := r.RateDeriv(T, C, j)
			if d == 0 {
				continue
			}
			for sp, nu := range r.Stoich {
				jac[j+ns*sp] += nu * d
			}
		}
	}
}

// SourceDerivT fills dsrc with the exact derivatives d src[i] / dT
func (n *Network) SourceDerivT(T float64, C, dsrc []float64) {
	for i := range dsrc {
		dsrc[i] = 0
	}
	for _, r := range n.Rxns {
		d := r.RateDerivT(T, C)
		for sp, nu := range r.Stoich {
			dsrc[sp] += nu * d
		}
	}
}

// HeatRelease returns the volumetric heat release of the network, the
// sum over reactions of -dH*rate with one caller supplied enthalpy per
// reaction. Thermally neutral reactions carry a zero entry.
func (n *Network) HeatRelease(T float64, C []float64, dH []float64) (q float64) {
	if len(dH) != len(n.Rxns) {
		panic(fmt.Errorf("enthalpy list length %d does not match reaction count %d",
			len(dH), len(n.Rxns)))
	}
	for i, r := range n.Rxns {
		q += -dH[i] * r.Rate(T, C)
	}
	return
}

// HeatReleaseDeriv fills dq, length NSpecies, with the exact derivatives
// d q / d C[j] of the volumetric heat release
func (n *Network) HeatReleaseDeriv(T float64, C, dH, dq []float64) {
	if len(dH) != len(n.Rxns) {
		panic(fmt.Errorf("enthalpy list length %d does not match reaction count %d",
			len(dH), len(n.Rxns)))
	}
	for j := range dq {
		dq[j] = 0
	}
	for i, r := range n.Rxns {
		for j := 0; j < n.NSpecies; j++ {
			if d := r.RateDeriv(T, C, j); d != 0 {
				dq[j] += -dH[i] * d
			}
		}
	}
}

// HeatReleaseDerivT returns the exact temperature derivative of the
// volumetric heat release
func (n *Network) HeatReleaseDerivT(T float64, C, dH []float64) (dq float64) {
	if len(dH) != len(n.Rxns) {
		panic(fmt.Errorf("enthalpy list length %d does not match reaction count %d",
			len(dH), len(n.Rxns)))
	}
	for i, r := range n.Rxns {
		dq += -dH[i] * r.RateDerivT(T, C)
	}
	return
}

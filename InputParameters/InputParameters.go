package InputParameters

import (
	"fmt"
	"sort"

	"github.com/ghodss/yaml"

	"github.com/poresim/gopore/DGFlux"
	"github.com/poresim/gopore/reaction"
)

// TransportParameters is the YAML run configuration for the monolith
// channel transport model. The unit system follows the original monolith
// balance: lengths in cm, time in min, concentrations in mol/L,
// temperature in K, pressure in Pa.
type TransportParameters struct {
	Title            string         `yaml:"Title"`
	PolynomialOrder  int            `yaml:"PolynomialOrder"`
	ElementCount     int            `yaml:"ElementCount"`
	ChannelLength    float64        `yaml:"ChannelLength"` // cm
	FinalTime        float64        `yaml:"FinalTime"`     // min
	TimeStep         float64        `yaml:"TimeStep"`      // min
	LogFrequency     int            `yaml:"LogFrequency"`  // steps between progress lines
	PenaltyScheme    string         `yaml:"PenaltyScheme"` // nipg, sipg or iipg
	PenaltySigma     float64        `yaml:"PenaltySigma"`
	BulkPorosity     float64        `yaml:"BulkPorosity"`     // eb, channel volume fraction
	WashcoatPorosity float64        `yaml:"WashcoatPorosity"` // ew
	Velocity         float64        `yaml:"Velocity"`         // interstitial, cm/min
	Pressure         float64        `yaml:"Pressure"`         // Pa
	Temperature      float64        `yaml:"Temperature"`      // K
	TempRamp         *TempRampSpec  `yaml:"TempRamp"`
	MassTransfer     float64        `yaml:"MassTransfer"`    // km (m/min); 0 computes from correlations
	SurfaceToVolume  float64        `yaml:"SurfaceToVolume"` // Ga (m^-1)
	CellDensity      float64        `yaml:"CellDensity"`     // cells/cm2, for the correlation path
	Dispersion       string         `yaml:"Dispersion"`      // none, constant or correlation
	DispersionCoef   float64        `yaml:"DispersionCoef"`  // cm2/min when Dispersion is constant
	Species          []SpeciesSpec  `yaml:"Species"`
	Reactions        []ReactionSpec `yaml:"Reactions"`
	Wall             *WallSpec      `yaml:"Wall"`
	Energy           *EnergySpec    `yaml:"Energy"`
}

// TempRampSpec ramps the operating temperature linearly from the value
// at StartTime to Target at EndTime, holding constant outside
type TempRampSpec struct {
	StartTime float64 `yaml:"StartTime"`
	EndTime   float64 `yaml:"EndTime"`
	Target    float64 `yaml:"Target"`
}

// Temperature returns the ramped temperature at time t, base being the
// configured operating temperature
func (r *TempRampSpec) Temperature(base, t float64) float64 {
	switch {
	case t <= r.StartTime:
		return base
	case t >= r.EndTime:
		return r.Target
	}
	return base + (r.Target-base)*(t-r.StartTime)/(r.EndTime-r.StartTime)
}

// SpeciesSpec is one transported gas species
type SpeciesSpec struct {
	Name      string  `yaml:"Name"`
	MW        float64 `yaml:"MW"`        // g/mol
	SuthVis   float64 `yaml:"SuthVis"`   // reference viscosity (g/cm/s)
	SuthTemp  float64 `yaml:"SuthTemp"`  // Sutherland reference temperature (K)
	SuthConst float64 `yaml:"SuthConst"` // Sutherland constant (K)
	DiffRef   float64 `yaml:"DiffRef"`   // molecular diffusivity at the reference state (cm2/min)
	DiffTemp  float64 `yaml:"DiffTemp"`  // diffusivity reference temperature (K)
	DiffPress float64 `yaml:"DiffPress"` // diffusivity reference pressure (Pa)
	Initial   float64 `yaml:"Initial"`   // initial concentration (mol/L)
	Inlet     float64 `yaml:"Inlet"`     // constant inlet concentration (mol/L)
	// Optional ramp schedule; when present it overrides Inlet
	InputVals  []float64 `yaml:"InputVals"`
	InputTimes []float64 `yaml:"InputTimes"`
	TimeSpans  []float64 `yaml:"TimeSpans"`
}

// BoundaryValue builds the species inlet input: a constant when no ramp
// is configured, otherwise an InputSchedule starting from Inlet
func (s *SpeciesSpec) BoundaryValue() (DGFlux.BoundaryValue, error) {
	if len(s.InputVals) == 0 && len(s.InputTimes) == 0 && len(s.TimeSpans) == 0 {
		return DGFlux.InputValue(s.Inlet), nil
	}
	sched, err := DGFlux.NewInputSchedule(s.Inlet, s.InputVals, s.InputTimes, s.TimeSpans)
	if err != nil {
		return nil, fmt.Errorf("species %q: %w", s.Name, err)
	}
	return sched, nil
}

// ReactionSpec is one reaction over species names. Irreversible
// reactions use A/Beta/E; setting Reversible selects the equilibrium
// pair Af/Ef/DH/DS instead. Inhibition optionally divides the rate by
// a Langmuir denominator.
type ReactionSpec struct {
	Name       string             `yaml:"Name"`
	A          float64            `yaml:"A"`
	Beta       float64            `yaml:"Beta"`
	E          float64            `yaml:"E"`
	Reversible bool               `yaml:"Reversible"`
	Af         float64            `yaml:"Af"`
	Ef         float64            `yaml:"Ef"`
	DH         float64            `yaml:"DH"`
	DS         float64            `yaml:"DS"`
	Reactants  map[string]float64 `yaml:"Reactants"` // species name -> rate order
	Products   map[string]float64 `yaml:"Products"`  // species name -> rate order (reverse rate)
	Inhibition *InhibitionSpec    `yaml:"Inhibition"`
	Stoich     map[string]float64 `yaml:"Stoich"` // species name -> net coefficient
}

// InhibitionSpec scales a reaction rate by the Langmuir factor
// 1/(1 + sum K_i(T)*C_i)^Power over the adsorbing species, the
// adsorption constants K_i Arrhenius in temperature.
type InhibitionSpec struct {
	Power      float64                  `yaml:"Power"`
	Adsorption map[string]ArrheniusSpec `yaml:"Adsorption"` // species name -> K(T)
}

// ArrheniusSpec is a named rate-constant triple A*T^Beta*exp(-E/RT)
type ArrheniusSpec struct {
	A    float64 `yaml:"A"`
	Beta float64 `yaml:"Beta"`
	E    float64 `yaml:"E"`
}

// Build resolves the species names through lookup and produces the rate
// form consumed by the solver
func (r *ReactionSpec) Build(lookup func(name string) (int, error)) (rxn reaction.Reaction, err error) {
	terms := func(m map[string]float64) (ts []reaction.Term, err error) {
		names := make([]string, 0, len(m))
		for name := range m {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			var sp int
			if sp, err = lookup(name); err != nil {
				return
			}
			ts = append(ts, reaction.Term{Species: sp, Order: m[name]})
		}
		return
	}
	var reactants, products []reaction.Term
	if reactants, err = terms(r.Reactants); err != nil {
		err = fmt.Errorf("reaction %q: %w", r.Name, err)
		return
	}
	if products, err = terms(r.Products); err != nil {
		err = fmt.Errorf("reaction %q: %w", r.Name, err)
		return
	}
	stoich := make(map[int]float64, len(r.Stoich))
	for name, nu := range r.Stoich {
		var sp int
		if sp, err = lookup(name); err != nil {
			err = fmt.Errorf("reaction %q: %w", r.Name, err)
			return
		}
		stoich[sp] = nu
	}
	var inhibit *reaction.Inhibition
	if h := r.Inhibition; h != nil {
		if h.Power <= 0 {
			err = fmt.Errorf("reaction %q: inhibition power must be positive, got %g", r.Name, h.Power)
			return
		}
		if len(h.Adsorption) == 0 {
			err = fmt.Errorf("reaction %q: inhibition needs at least one adsorbing species", r.Name)
			return
		}
		inhibit = &reaction.Inhibition{Power: h.Power}
		names := make([]string, 0, len(h.Adsorption))
		for name := range h.Adsorption {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			var sp int
			if sp, err = lookup(name); err != nil {
				err = fmt.Errorf("reaction %q: %w", r.Name, err)
				return
			}
			ks := h.Adsorption[name]
			inhibit.Terms = append(inhibit.Terms, reaction.InhibitionTerm{
				Species: sp,
				K:       reaction.Arrhenius{A: ks.A, Beta: ks.Beta, E: ks.E},
			})
		}
	}
	if r.Reversible {
		eq := reaction.EquilibriumArrhenius{Af: r.Af, Ef: r.Ef, DH: r.DH, DS: r.DS}
		rxn = reaction.NewEquilibriumReaction(r.Name, eq, reactants, products, stoich)
		rxn.Inhibit = inhibit
		return
	}
	rxn = reaction.Reaction{
		Name:      r.Name,
		Forward:   reaction.Arrhenius{A: r.A, Beta: r.Beta, E: r.E},
		Reactants: reactants,
		Inhibit:   inhibit,
		Stoich:    stoich,
	}
	return
}

// WallSpec configures a Robin exchange with the channel wall
type WallSpec struct {
	Transfer     float64 `yaml:"Transfer"`     // transfer coefficient
	AreaFraction float64 `yaml:"AreaFraction"` // exchanging area fraction
	Value        float64 `yaml:"Value"`        // wall side value
}

// EnergySpec enables the temperature equation
type EnergySpec struct {
	HeatCapacity     float64   `yaml:"HeatCapacity"`     // volumetric rho*cp (J/cm3/K)
	Conductivity     float64   `yaml:"Conductivity"`     // axial thermal dispersion (cm2/min scaled)
	WallTransfer     float64   `yaml:"WallTransfer"`     // wall heat loss coefficient
	WallAreaFraction float64   `yaml:"WallAreaFraction"` // exchanging area fraction
	WallTemperature  float64   `yaml:"WallTemperature"`  // K
	InletTemperature float64   `yaml:"InletTemperature"` // K
	Enthalpies       []float64 `yaml:"Enthalpies"`       // J/mol per reaction, heat release source
}

// DefaultParameters carries the monolith base case values; Parse on top
// of it overrides only what the file names
func DefaultParameters() *TransportParameters {
	return &TransportParameters{
		Title:            "monolith channel",
		PolynomialOrder:  2,
		ElementCount:     20,
		ChannelLength:    5,
		FinalTime:        1,
		TimeStep:         0.01,
		LogFrequency:     10,
		PenaltyScheme:    "nipg",
		PenaltySigma:     10,
		BulkPorosity:     0.3309,
		WashcoatPorosity: 0.2,
		Velocity:         15110,
		Pressure:         101325,
		Temperature:      298.15,
		MassTransfer:     1.12,
		SurfaceToVolume:  5757.541,
		Dispersion:       "none",
	}
}

func (tp *TransportParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, tp)
}

// SpeciesIndex resolves a species name to its position in Species
func (tp *TransportParameters) SpeciesIndex(name string) (int, error) {
	for i, s := range tp.Species {
		if s.Name == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("unknown species %q", name)
}

func (tp *TransportParameters) Validate() (err error) {
	if tp.PolynomialOrder < 1 {
		return fmt.Errorf("polynomial order must be at least 1, got %d", tp.PolynomialOrder)
	}
	if tp.ElementCount < 1 {
		return fmt.Errorf("element count must be at least 1, got %d", tp.ElementCount)
	}
	if tp.ChannelLength <= 0 {
		return fmt.Errorf("channel length must be positive, got %g", tp.ChannelLength)
	}
	if tp.FinalTime <= 0 || tp.TimeStep <= 0 {
		return fmt.Errorf("final time and time step must be positive, got %g and %g",
			tp.FinalTime, tp.TimeStep)
	}
	if _, err = DGFlux.ParsePenaltyScheme(tp.PenaltyScheme); err != nil {
		return err
	}
	if tp.PenaltySigma <= 0 {
		return fmt.Errorf("penalty sigma must be positive, got %g", tp.PenaltySigma)
	}
	if tp.BulkPorosity <= 0 || tp.BulkPorosity > 1 {
		return fmt.Errorf("bulk porosity must lie in (0,1], got %g", tp.BulkPorosity)
	}
	if tp.WashcoatPorosity <= 0 || tp.WashcoatPorosity > 1 {
		return fmt.Errorf("washcoat porosity must lie in (0,1], got %g", tp.WashcoatPorosity)
	}
	if tp.Temperature <= 0 {
		return fmt.Errorf("temperature must be positive, got %g", tp.Temperature)
	}
	if tp.Pressure <= 0 {
		return fmt.Errorf("pressure must be positive, got %g", tp.Pressure)
	}
	switch tp.Dispersion {
	case "", "none", "constant", "correlation":
	default:
		return fmt.Errorf("dispersion must be none, constant or correlation, got %q", tp.Dispersion)
	}
	if tp.Dispersion == "constant" && tp.DispersionCoef <= 0 {
		return fmt.Errorf("constant dispersion requires a positive coefficient, got %g", tp.DispersionCoef)
	}
	if (tp.MassTransfer == 0 || tp.Dispersion == "correlation") && tp.CellDensity <= 0 {
		return fmt.Errorf("property correlations require a positive cell density, got %g", tp.CellDensity)
	}
	if tp.TempRamp != nil && tp.TempRamp.EndTime <= tp.TempRamp.StartTime {
		return fmt.Errorf("temperature ramp must end after it starts, got [%g, %g]",
			tp.TempRamp.StartTime, tp.TempRamp.EndTime)
	}
	if len(tp.Species) == 0 {
		return fmt.Errorf("at least one species is required")
	}
	needDiff := tp.MassTransfer == 0 || tp.Dispersion == "correlation"
	seen := make(map[string]bool)
	for i := range tp.Species {
		s := &tp.Species[i]
		if s.Name == "" {
			return fmt.Errorf("species %d has no name", i)
		}
		if seen[s.Name] {
			return fmt.Errorf("species %q configured twice", s.Name)
		}
		seen[s.Name] = true
		if s.MW <= 0 {
			return fmt.Errorf("species %q: molecular weight must be positive, got %g", s.Name, s.MW)
		}
		if needDiff && (s.DiffRef <= 0 || s.DiffTemp <= 0 || s.DiffPress <= 0) {
			return fmt.Errorf("species %q: property correlations require positive DiffRef, DiffTemp and DiffPress", s.Name)
		}
		if tp.MassTransfer == 0 && (s.SuthVis <= 0 || s.SuthTemp <= 0) {
			return fmt.Errorf("species %q: film correlations require Sutherland viscosity data", s.Name)
		}
		if _, err = s.BoundaryValue(); err != nil {
			return err
		}
	}
	for i := range tp.Reactions {
		if _, err = tp.Reactions[i].Build(tp.SpeciesIndex); err != nil {
			return err
		}
	}
	if tp.Energy != nil {
		if tp.Energy.HeatCapacity <= 0 {
			return fmt.Errorf("energy equation requires a positive heat capacity, got %g",
				tp.Energy.HeatCapacity)
		}
		if tp.Energy.InletTemperature <= 0 {
			return fmt.Errorf("energy equation requires a positive inlet temperature, got %g",
				tp.Energy.InletTemperature)
		}
		if len(tp.Energy.Enthalpies) != 0 && len(tp.Energy.Enthalpies) != len(tp.Reactions) {
			return fmt.Errorf("enthalpy list length %d does not match reaction count %d",
				len(tp.Energy.Enthalpies), len(tp.Reactions))
		}
	}
	return nil
}

func (tp *TransportParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", tp.Title)
	fmt.Printf("[%d]\t\t\t\t= Polynomial Order\n", tp.PolynomialOrder)
	fmt.Printf("[%d]\t\t\t\t= Element Count\n", tp.ElementCount)
	fmt.Printf("%8.5f\t\t= Channel Length\n", tp.ChannelLength)
	fmt.Printf("%8.5f\t\t= Final Time\n", tp.FinalTime)
	fmt.Printf("%8.5f\t\t= Time Step\n", tp.TimeStep)
	fmt.Printf("[%s]\t\t\t= Penalty Scheme\n", tp.PenaltyScheme)
	fmt.Printf("%8.5f\t\t= Penalty Sigma\n", tp.PenaltySigma)
	fmt.Printf("%8.5f\t\t= Bulk Porosity\n", tp.BulkPorosity)
	fmt.Printf("%8.5f\t\t= Washcoat Porosity\n", tp.WashcoatPorosity)
	fmt.Printf("%8.3f\t\t= Velocity\n", tp.Velocity)
	fmt.Printf("%8.3f\t\t= Temperature\n", tp.Temperature)
	for _, s := range tp.Species {
		fmt.Printf("Species[%s] = MW %8.4f, initial %v, inlet %v\n",
			s.Name, s.MW, s.Initial, s.Inlet)
	}
	for _, r := range tp.Reactions {
		keys := make([]string, 0, len(r.Stoich))
		for k := range r.Stoich {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Printf("Reaction[%s] =", r.Name)
		for _, k := range keys {
			fmt.Printf(" %s:%v", k, r.Stoich[k])
		}
		fmt.Printf("\n")
	}
}

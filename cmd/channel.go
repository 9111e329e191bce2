/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/pkg/profile"

	"github.com/poresim/gopore/InputParameters"

	"github.com/poresim/gopore/model_problems/ChannelTransport"

	"github.com/spf13/cobra"
)

type ModelChannel struct {
	ICFile  string
	Graph   bool
	Delay   time.Duration
	K, N    int
	Profile bool
	Perf    bool
}

// exampleChannelFile is printed when no input file is supplied. The
// command test parses it, which keeps the help text aligned with the
// input schema.
const exampleChannelFile = `
########################################
Title: "CO oxidation channel"
PolynomialOrder: 2
ElementCount: 40
ChannelLength: 5.0     # cm
FinalTime: 10.0        # min
TimeStep: 0.05         # min
PenaltyScheme: nipg
PenaltySigma: 10.0
BulkPorosity: 0.3309
WashcoatPorosity: 0.2
Velocity: 15110.0      # cm/min
Pressure: 101325.0     # Pa
Temperature: 393.15    # K
MassTransfer: 1.12     # m/min; zero computes km from the film correlations
SurfaceToVolume: 5757.541
Species:
  - Name: CO
    MW: 28.01
    Initial: 1.0e-20
    Inlet: 5.0e-5
Reactions:
  - Name: CO oxidation
    A: 1.0e+13
    E: 90000.0
    Reactants: {CO: 1.0}
    Stoich: {CO: -1.0}
########################################
`

// ChannelCmd represents the channel command
var ChannelCmd = &cobra.Command{
	Use:   "channel",
	Short: "Transient reactive transport in a washcoated monolith channel",
	Long: `
Executes the Nodal Discontinuous Galerkin advection diffusion reaction
solver for a single monolith channel: upwind advective fluxes, interior
penalty diffusion, washcoat film exchange and implicit Euler stepping
with analytic Jacobians.

gopore channel -I examples/monolith_co.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
		)
		fmt.Println("channel called")
		mc := &ModelChannel{}
		if mc.ICFile, err = cmd.Flags().GetString("inputFile"); err != nil {
			panic(err)
		}
		mc.Graph, _ = cmd.Flags().GetBool("graph")
		mc.K, _ = cmd.Flags().GetInt("k")
		mc.N, _ = cmd.Flags().GetInt("n")
		dr, _ := cmd.Flags().GetInt("delay")
		mc.Delay = time.Duration(dr) * time.Millisecond
		mc.Profile, _ = cmd.Flags().GetBool("profile")
		mc.Perf, _ = cmd.Flags().GetBool("perf")
		ip := processChannelInput(mc)
		RunChannel(mc, ip)
	},
}

func processChannelInput(mc *ModelChannel) (ip *InputParameters.TransportParameters) {
	var (
		err error
	)
	if len(mc.ICFile) == 0 {
		err = fmt.Errorf("must supply an input parameters file (-I, --inputFile) in YAML format")
		fmt.Printf("error: %s\n", err.Error())
		fmt.Printf("Example File:%s\n", exampleChannelFile)
		os.Exit(1)
	}
	var data []byte
	if data, err = os.ReadFile(mc.ICFile); err != nil {
		panic(err)
	}
	ip = InputParameters.DefaultParameters()
	if err = ip.Parse(data); err != nil {
		panic(err)
	}
	if mc.K != 0 {
		ip.ElementCount = mc.K
	}
	if mc.N != 0 {
		ip.PolynomialOrder = mc.N
	}
	ip.Print()
	return
}

func init() {
	rootCmd.AddCommand(ChannelCmd)
	ChannelCmd.Flags().StringP("inputFile", "I", "", "YAML file of transport parameters: geometry, species, reactions, schedules")
	ChannelCmd.Flags().IntP("k", "k", 0, "Number of elements in the channel, overrides the input file")
	ChannelCmd.Flags().IntP("n", "n", 0, "polynomial degree, overrides the input file")
	ChannelCmd.Flags().BoolP("graph", "g", false, "display a graph while computing solution")
	ChannelCmd.Flags().IntP("delay", "d", 0, "milliseconds of delay for plotting")
	ChannelCmd.Flags().Bool("profile", false, "write a CPU profile of the run to the current directory")
	ChannelCmd.Flags().Bool("perf", false, "report hardware counters for the run, linux only")
}

func RunChannel(mc *ModelChannel, ip *InputParameters.TransportParameters) {
	if mc.Profile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}
	c, err := ChannelTransport.NewTransport(ip)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	run := func() { c.Run(mc.Graph, mc.Delay) }
	if mc.Perf {
		countedRun(run)
		return
	}
	run()
}

package cmd

import (
	"testing"

	"github.com/magiconair/properties/assert"

	"github.com/poresim/gopore/InputParameters"
)

func TestChannelExampleInput(t *testing.T) {
	var (
		err error
	)
	ip := InputParameters.DefaultParameters()
	if err = ip.Parse([]byte(exampleChannelFile)); err != nil {
		panic(err)
	}
	if err = ip.Validate(); err != nil {
		panic(err)
	}
	assert.Equal(t, ip.Title, "CO oxidation channel")
	assert.Equal(t, ip.ElementCount, 40)
	// Defaults fill what the example leaves out
	assert.Equal(t, ip.LogFrequency, 10)
	assert.Equal(t, ip.Dispersion, "none")
	assert.Equal(t, ip.Species[0].Name, "CO")
	assert.Equal(t, ip.Reactions[0].Stoich["CO"], -1.)
	ip.Print()
	assert.Equal(t, ip.FinalTime, 10.)
}

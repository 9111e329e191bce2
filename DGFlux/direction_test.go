package DGFlux

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	assert.Equal(t, Outflow, Classify(2.0))
	assert.Equal(t, Inflow, Classify(-1.5))
	// zero is outflow by convention: no boundary input is consumed on a
	// no-flow face
	assert.Equal(t, Outflow, Classify(0))
	assert.Equal(t, "outflow", Outflow.String())
	assert.Equal(t, "inflow", Inflow.String())
}

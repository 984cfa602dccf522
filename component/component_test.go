package component

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeIDDeterministic(t *testing.T) {
	a := TypeID("github.com/forgelogic/reconcile/examplepkg", "Counter")
	b := TypeID("github.com/forgelogic/reconcile/examplepkg", "Counter")
	assert.Equal(t, a, b)
}

func TestTypeIDDiffersByTypeName(t *testing.T) {
	a := TypeID("pkg", "Counter")
	b := TypeID("pkg", "Timer")
	assert.NotEqual(t, a, b)
}

func TestPriorityString(t *testing.T) {
	cases := map[Priority]string{
		PriorityImmediate: "immediate",
		PriorityHigh:      "high",
		PriorityNormal:    "normal",
		PriorityLow:       "low",
		PriorityIdle:      "idle",
	}
	for p, want := range cases {
		assert.Equal(t, want, p.String())
	}
}

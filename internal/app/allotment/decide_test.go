package allotment

import (
	"testing"

	"backend/internal/app/ds"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestDecide(t *testing.T) {
	cases := []struct {
		name      string
		requested int
		remaining int
		want      string
	}{
		{"fits exactly", 10, 10, ds.StatusPending},
		{"fits with margin", 3, 10, ds.StatusPending},
		{"exceeds by one", 11, 10, ds.StatusRejected},
		{"nothing left", 1, 0, ds.StatusRejected},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Decide(tc.requested, tc.remaining))
		})
	}
}

func TestDecideProperty(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("rejected exactly when request exceeds remaining", prop.ForAll(
		func(requested, remaining int) bool {
			rejected := Decide(requested, remaining) == ds.StatusRejected
			return rejected == (requested > remaining)
		},
		gen.IntRange(1, 10000),
		gen.IntRange(0, 10000),
	))

	properties.TestingRun(t)
}

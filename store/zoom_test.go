package store

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestZoom_WithFactorStaysInBounds(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("factor is clamped to [min, max]", prop.ForAll(
		func(f float64) bool {
			z := DefaultZoom().WithFactor(f)
			return z.Factor >= z.Min && z.Factor <= z.Max
		},
		gen.Float64Range(-1000, 1000),
	))

	properties.Property("repeated zoom in never passes max", prop.ForAll(
		func(steps int) bool {
			z := DefaultZoom()
			for i := 0; i < steps; i++ {
				z = z.WithFactor(z.Factor + ZoomStep)
			}
			return z.Factor <= z.Max
		},
		gen.IntRange(0, 50),
	))

	properties.TestingRun(t)
}

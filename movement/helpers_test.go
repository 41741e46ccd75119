package movement

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/grapple/grapple"
)

const tick = 1.0 / 60

type fakeEnv struct {
	floor   bool
	normal  cp.Vector
	blocked bool
	probes  [][2]cp.Vector
}

func (f *fakeEnv) FloorContact() (cp.Vector, bool) {
	if !f.floor {
		return cp.Vector{}, false
	}
	if f.normal == (cp.Vector{}) {
		return Up, true
	}
	return f.normal, true
}

func (f *fakeEnv) Obstructed(from, to cp.Vector) bool {
	f.probes = append(f.probes, [2]cp.Vector{from, to})
	return f.blocked
}

func newTestController(env *fakeEnv) (*Controller, *grapple.Arbiter) {
	arb := grapple.NewArbiter()
	return NewController(DefaultConfig(), cp.Vector{X: 100, Y: 100}, arb, env), arb
}

func approxEqual(t *testing.T, got, want, tol float64, field string) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Fatalf("%s = %.8f, want %.8f (tol=%.8f)", field, got, want, tol)
	}
}

func hasEffect(effects []Effect, kind EffectKind) bool {
	for _, e := range effects {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

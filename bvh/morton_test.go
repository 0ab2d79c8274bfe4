package bvh

import (
	"math"
	"testing"

	"github.com/achilleasa/lbvh/types"
)

func TestExpandBits(t *testing.T) {
	specs := []struct {
		in, exp uint32
	}{
		{0, 0},
		{1, 1},
		{2, 8},
		{3, 9},
		{512, 1 << 27},
		{1023, 0x09249249},
	}

	for specIndex, spec := range specs {
		if got := ExpandBits(spec.in); got != spec.exp {
			t.Fatalf("[spec %d] expected ExpandBits(%d) to be 0x%08x; got 0x%08x", specIndex, spec.in, spec.exp, got)
		}
	}
}

func TestEncodeMorton(t *testing.T) {
	const step = 1.0 / 1024
	nan := float32(math.NaN())

	specs := []struct {
		in  types.Vec3
		exp MortonCode
	}{
		{types.XYZ(0, 0, 0), 0},
		{types.XYZ(step, 0, 0), 4},
		{types.XYZ(0, step, 0), 2},
		{types.XYZ(0, 0, step), 1},
		{types.XYZ(step, step, step), 7},
		{types.XYZ(0.5, 0, 0), 1 << 29},
		{types.XYZ(1, 1, 1), 0x3FFFFFFF},
		// Out of range coordinates are clamped.
		{types.XYZ(-3, 7, 1.5), 0x1B6DB6DB},
		{types.XYZ(nan, 0, 0), 0},
	}

	for specIndex, spec := range specs {
		if got := EncodeMorton(spec.in); got != spec.exp {
			t.Fatalf("[spec %d] expected EncodeMorton(%v) to be 0x%08x; got 0x%08x", specIndex, spec.in, spec.exp, got)
		}
	}
}

func TestMortonOrderFollowsZCurve(t *testing.T) {
	// The 8 octants of the unit cube are visited in z, y, x bit order.
	var prev MortonCode
	for octant := 0; octant < 8; octant++ {
		p := types.XYZ(
			float32(octant>>2&1)*0.5,
			float32(octant>>1&1)*0.5,
			float32(octant&1)*0.5,
		)
		code := EncodeMorton(p)
		if octant > 0 && code <= prev {
			t.Fatalf("expected octant %d code 0x%08x to be greater than 0x%08x", octant, code, prev)
		}
		prev = code
	}
}

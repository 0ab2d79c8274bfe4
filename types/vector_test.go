package types

import (
	"math"
	"testing"
)

func TestMinMaxVec3(t *testing.T) {
	a := XYZ(1, -2, 3)
	b := XYZ(-1, 5, 3)

	if got, exp := MinVec3(a, b), XYZ(-1, -2, 3); got != exp {
		t.Fatalf("expected min to be %v; got %v", exp, got)
	}
	if got, exp := MaxVec3(a, b), XYZ(1, 5, 3); got != exp {
		t.Fatalf("expected max to be %v; got %v", exp, got)
	}
}

func TestVec3Arithmetic(t *testing.T) {
	v := XYZ(1, 2, 3).Add(XYZ(1, 1, 1)).Sub(XYZ(0, 1, 2)).Mul(2)
	if exp := XYZ(4, 4, 4); v != exp {
		t.Fatalf("expected %v; got %v", exp, v)
	}
}

func TestIsFinite(t *testing.T) {
	if !XYZ(0, -1, 1e30).IsFinite() {
		t.Fatal("expected vector to be finite")
	}

	nan := float32(math.NaN())
	inf := float32(math.Inf(-1))
	for _, v := range []Vec3{XYZ(nan, 0, 0), XYZ(0, inf, 0)} {
		if v.IsFinite() {
			t.Fatalf("expected %v to be reported as non-finite", v)
		}
	}
}

package bvh

import (
	"errors"
	"slices"
	"testing"

	"github.com/achilleasa/lbvh/asset/mesh"
	"github.com/achilleasa/lbvh/types"
)

func TestNormalizeUsesTriangleBBoxCenter(t *testing.T) {
	// The bbox center of this triangle lies at x=0.5 whereas its centroid
	// lies at x=1/3.
	m := mesh.New("tri")
	m.AddVertex(types.XYZ(0, 0, 0))
	m.AddVertex(types.XYZ(0, 0, 0))
	m.AddVertex(types.XYZ(1, 0, 0))
	m.AddTriangle(0, 1, 2)

	codes, err := NormalizeAndEncode(m)
	if err != nil {
		t.Fatal(err)
	}

	if exp := []MortonCode{1 << 29}; !slices.Equal(codes, exp) {
		t.Fatalf("expected codes %v; got %v", exp, codes)
	}
}

func TestNormalizeKeepsTriangleOrder(t *testing.T) {
	m := pointMesh(
		types.XYZ(1, 1, 1),
		types.XYZ(0, 0, 1),
		types.XYZ(1, 0, 1),
		types.XYZ(0, 1, 1),
	)

	codes, err := NormalizeAndEncode(m)
	if err != nil {
		t.Fatal(err)
	}

	if exp := []MortonCode{7, 1, 5, 3}; !slices.Equal(codes, exp) {
		t.Fatalf("expected codes %v; got %v", exp, codes)
	}
}

func TestNormalizeDegenerateAxis(t *testing.T) {
	// A flat mesh: z has zero extent and must normalize to 0.
	m := mesh.New("flat")
	m.AddVertex(types.XYZ(0, 0, 5))
	m.AddVertex(types.XYZ(2, 0, 5))
	m.AddVertex(types.XYZ(2, 2, 5))
	m.AddTriangle(0, 1, 2)
	m.AddTriangle(2, 2, 2)

	codes, err := NormalizeAndEncode(m)
	if err != nil {
		t.Fatal(err)
	}

	// tri 0 center: (1, 1) -> (0.5, 0.5); tri 1 center: (2, 2) -> (1, 1)
	exp := []MortonCode{1<<29 | 1<<28, 0x09249249*4 + 0x09249249*2}
	if !slices.Equal(codes, exp) {
		t.Fatalf("expected codes %v; got %v", exp, codes)
	}

	// A fully degenerate mesh maps everything to the origin.
	m = pointMesh()
	m.Vertices = m.Vertices[:1]
	m.AddTriangle(0, 0, 0)
	m.AddTriangle(0, 0, 0)
	codes, err = NormalizeAndEncode(m)
	if err != nil {
		t.Fatal(err)
	}
	if exp := []MortonCode{0, 0}; !slices.Equal(codes, exp) {
		t.Fatalf("expected codes %v; got %v", exp, codes)
	}
}

func TestNormalizeGlobalBBoxUsesAllVertices(t *testing.T) {
	m := mesh.New("unreferenced")
	m.AddVertex(types.XYZ(512, 512, 512))
	m.AddVertex(types.XYZ(0, 0, 0))
	m.AddVertex(types.XYZ(1024, 1024, 1024))
	m.AddTriangle(0, 0, 0)

	codes, err := NormalizeAndEncode(m)
	if err != nil {
		t.Fatal(err)
	}

	if exp := MortonCode(7 << 27); codes[0] != exp {
		t.Fatalf("expected code 0x%08x; got 0x%08x", exp, codes[0])
	}
}

func TestNormalizeErrors(t *testing.T) {
	if _, err := NormalizeAndEncode(mesh.New("empty")); !errors.Is(err, ErrEmptyMesh) {
		t.Fatalf("expected ErrEmptyMesh; got %v", err)
	}

	m := pointMesh(types.XYZ(1, 1, 1))
	m.AddTriangle(0, 1, 99)
	var idxErr *IndexOutOfRangeError
	if _, err := NormalizeAndEncode(m); !errors.As(err, &idxErr) {
		t.Fatalf("expected IndexOutOfRangeError; got %v", err)
	}
	if idxErr.Index != 99 || idxErr.Triangle != 1 {
		t.Fatalf("unexpected error details: %+v", idxErr)
	}
}

func TestParallelEncodingMatchesSequential(t *testing.T) {
	m := randomMesh(42, 3*minTrianglesPerChunk+17)

	seq, err := NormalizeAndEncode(m)
	if err != nil {
		t.Fatal(err)
	}

	for _, workers := range []int{2, 4, 16} {
		par, err := NormalizeAndEncodeParallel(m, workers)
		if err != nil {
			t.Fatal(err)
		}
		if !slices.Equal(seq, par) {
			t.Fatalf("expected parallel encoding with %d workers to match the sequential output", workers)
		}
	}
}

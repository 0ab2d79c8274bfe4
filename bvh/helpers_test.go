package bvh

import (
	"math/rand/v2"

	"github.com/achilleasa/lbvh/asset/mesh"
	"github.com/achilleasa/lbvh/types"
)

// Create a mesh with one degenerate (single point) triangle per point. Two
// unreferenced vertices pin the global bbox to [0, 1024]^3 so that integer
// point coordinates quantize to themselves.
func pointMesh(points ...types.Vec3) *mesh.Mesh {
	m := mesh.New("points")
	m.AddVertex(types.XYZ(0, 0, 0))
	m.AddVertex(types.XYZ(1024, 1024, 1024))
	for _, p := range points {
		v := m.AddVertex(p)
		m.AddTriangle(v, v, v)
	}
	return m
}

// Create a mesh with count random triangles inside [-10, 10]^3.
func randomMesh(seed uint64, count int) *mesh.Mesh {
	rng := rand.New(rand.NewPCG(seed, seed))
	coord := func() float32 { return rng.Float32()*20 - 10 }

	m := mesh.New("random")
	for range count {
		a := m.AddVertex(types.XYZ(coord(), coord(), coord()))
		b := m.AddVertex(types.XYZ(coord(), coord(), coord()))
		c := m.AddVertex(types.XYZ(coord(), coord(), coord()))
		m.AddTriangle(a, b, c)
	}
	return m
}

package bvh

import (
	"github.com/achilleasa/lbvh/asset/mesh"
	"github.com/achilleasa/lbvh/types"
	"golang.org/x/sync/errgroup"
)

// Triangles per work chunk when encoding in parallel.
const minTrianglesPerChunk = 4096

// Calculate one Morton code per mesh triangle, in triangle order. See
// NormalizeAndEncodeParallel.
func NormalizeAndEncode(m *mesh.Mesh) ([]MortonCode, error) {
	return NormalizeAndEncodeParallel(m, 1)
}

// Calculate one Morton code per mesh triangle, in triangle order.
//
// The code of each triangle is derived from the center of the triangle's own
// AABB, normalized into the unit cube using the AABB of all mesh vertices.
// Axes with zero extent normalize to 0. When workers > 1, triangles are
// encoded concurrently in contiguous chunks; the output does not depend on
// the number of workers.
func NormalizeAndEncodeParallel(m *mesh.Mesh, workers int) ([]MortonCode, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	globalBBox := EmptyAABB()
	for _, v := range m.Vertices {
		globalBBox = globalBBox.Extend(v)
	}

	origin := globalBBox.Min()
	extent := globalBBox.Extent()

	codes := make([]MortonCode, len(m.Triangles))
	encodeRange := func(from, to int) {
		for i := from; i < to; i++ {
			center := TriangleBBox(m, m.Triangles[i]).Center()
			codes[i] = EncodeMorton(normalize(center, origin, extent))
		}
	}

	if workers <= 1 || len(m.Triangles) <= minTrianglesPerChunk {
		encodeRange(0, len(codes))
		return codes, nil
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for from := 0; from < len(codes); from += minTrianglesPerChunk {
		to := min(from+minTrianglesPerChunk, len(codes))
		g.Go(func() error {
			encodeRange(from, to)
			return nil
		})
	}
	return codes, g.Wait()
}

// Map p into the unit cube. Axes with zero extent map to 0.
func normalize(p, origin, extent types.Vec3) types.Vec3 {
	var out types.Vec3
	for axis := range out {
		if extent[axis] > 0 {
			out[axis] = (p[axis] - origin[axis]) / extent[axis]
		}
	}
	return out
}

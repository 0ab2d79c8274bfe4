package bvh

import (
	"math"

	"github.com/achilleasa/lbvh/asset/mesh"
	"github.com/achilleasa/lbvh/types"
)

// An axis-aligned bounding box stored as [xmin, xmax, ymin, ymax, zmin, zmax].
type AABB [6]float32

// Create an inverted box that acts as the identity for Union and Extend.
func EmptyAABB() AABB {
	return AABB{
		math.MaxFloat32, -math.MaxFloat32,
		math.MaxFloat32, -math.MaxFloat32,
		math.MaxFloat32, -math.MaxFloat32,
	}
}

// Calculate the bounding box of a mesh triangle.
func TriangleBBox(m *mesh.Mesh, tri mesh.Triangle) AABB {
	v0 := m.Vertices[tri[0]]
	v1 := m.Vertices[tri[1]]
	v2 := m.Vertices[tri[2]]

	return AABB{
		min(v0[0], v1[0], v2[0]), max(v0[0], v1[0], v2[0]),
		min(v0[1], v1[1], v2[1]), max(v0[1], v1[1], v2[1]),
		min(v0[2], v1[2], v2[2]), max(v0[2], v1[2], v2[2]),
	}
}

// Get the min corner.
func (b AABB) Min() types.Vec3 {
	return types.Vec3{b[0], b[2], b[4]}
}

// Get the max corner.
func (b AABB) Max() types.Vec3 {
	return types.Vec3{b[1], b[3], b[5]}
}

// Get the box center.
func (b AABB) Center() types.Vec3 {
	return b.Min().Add(b.Max()).Mul(0.5)
}

// Get the box side lengths.
func (b AABB) Extent() types.Vec3 {
	return b.Max().Sub(b.Min())
}

// Return the smallest box that encloses both b and o.
func (b AABB) Union(o AABB) AABB {
	return AABB{
		min(b[0], o[0]), max(b[1], o[1]),
		min(b[2], o[2]), max(b[3], o[3]),
		min(b[4], o[4]), max(b[5], o[5]),
	}
}

// Return the smallest box that encloses both b and p.
func (b AABB) Extend(p types.Vec3) AABB {
	return AABB{
		min(b[0], p[0]), max(b[1], p[0]),
		min(b[2], p[1]), max(b[3], p[1]),
		min(b[4], p[2]), max(b[5], p[2]),
	}
}

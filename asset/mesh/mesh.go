// Package mesh defines the triangle mesh snapshot consumed by the BVH builder.
package mesh

import (
	"math"

	"github.com/achilleasa/lbvh/types"
	"github.com/go-gl/mathgl/mgl32"
)

// A triangle is an index triple into the mesh vertex list.
type Triangle [3]uint32

// A triangle mesh. Vertices and triangles are owned by the mesh and treated as
// read-only by the BVH builder.
type Mesh struct {
	Name      string
	Vertices  []types.Vec3
	Triangles []Triangle
}

// Create a new empty mesh.
func New(name string) *Mesh {
	return &Mesh{
		Name:      name,
		Vertices:  make([]types.Vec3, 0),
		Triangles: make([]Triangle, 0),
	}
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Triangles)
}

// Append a vertex and return its index.
func (m *Mesh) AddVertex(v types.Vec3) uint32 {
	m.Vertices = append(m.Vertices, v)
	return uint32(len(m.Vertices) - 1)
}

// Append a triangle.
func (m *Mesh) AddTriangle(a, b, c uint32) {
	m.Triangles = append(m.Triangles, Triangle{a, b, c})
}

// Calculate the AABB of all mesh vertices. Vertices not referenced by any
// triangle still contribute to the box.
func (m *Mesh) BBox() [2]types.Vec3 {
	bbox := [2]types.Vec3{
		{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32},
		{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32},
	}
	for _, v := range m.Vertices {
		bbox[0] = types.MinVec3(bbox[0], v)
		bbox[1] = types.MaxVec3(bbox[1], v)
	}
	return bbox
}

// Apply a transformation matrix to all mesh vertices.
func (m *Mesh) Transform(mat mgl32.Mat4) {
	for i, v := range m.Vertices {
		m.Vertices[i] = types.Vec3(mat.Mul4x1(mgl32.Vec3(v).Vec4(1)).Vec3())
	}
}

// Append the vertices and triangles of another mesh to this one, re-basing
// the appended triangle indices.
func (m *Mesh) Merge(other *Mesh) {
	base := uint32(len(m.Vertices))
	m.Vertices = append(m.Vertices, other.Vertices...)
	for _, tri := range other.Triangles {
		m.Triangles = append(m.Triangles, Triangle{tri[0] + base, tri[1] + base, tri[2] + base})
	}
}

// Validate checks that the mesh is non-empty, that every triangle references
// existing vertices and that all vertex coordinates are finite.
func (m *Mesh) Validate() error {
	if len(m.Triangles) == 0 {
		return ErrEmptyMesh
	}

	for triIndex, tri := range m.Triangles {
		for corner, vIndex := range tri {
			if int(vIndex) >= len(m.Vertices) {
				return &IndexOutOfRangeError{
					Triangle:    triIndex,
					Corner:      corner,
					Index:       vIndex,
					VertexCount: len(m.Vertices),
				}
			}
		}
	}

	for vIndex, v := range m.Vertices {
		if !v.IsFinite() {
			return &NonFiniteVertexError{Vertex: vIndex, Value: v}
		}
	}

	return nil
}

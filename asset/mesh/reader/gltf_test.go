package reader

import (
	"path/filepath"
	"testing"

	"github.com/achilleasa/lbvh/asset/mesh"
	"github.com/achilleasa/lbvh/types"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTriangleDocument() *gltf.Document {
	doc := gltf.NewDocument()
	posAcc := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	idxAcc := modeler.WriteIndices(doc, []uint16{0, 1, 2})
	doc.Meshes = []*gltf.Mesh{{
		Name: "tri",
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(idxAcc),
			Attributes: map[string]int{gltf.POSITION: posAcc},
		}},
	}}
	return doc
}

func TestGltfReaderAppliesNodeTransforms(t *testing.T) {
	doc := newTriangleDocument()
	doc.Nodes = []*gltf.Node{
		{Name: "root", Translation: [3]float64{10, 0, 0}, Children: []int{1}},
		{Name: "child", Mesh: gltf.Index(0), Scale: [3]float64{2, 2, 2}},
		{Name: "unused", Mesh: gltf.Index(0)},
	}
	doc.Scenes[0].Nodes = []int{0}

	path := filepath.Join(t.TempDir(), "scene.glb")
	require.NoError(t, gltf.SaveBinary(doc, path))

	m, err := ReadMesh(path)
	require.NoError(t, err)

	assert.Equal(t, "scene.glb", m.Name)
	assert.Equal(t, []types.Vec3{{10, 0, 0}, {12, 0, 0}, {10, 2, 0}}, m.Vertices)
	assert.Equal(t, []mesh.Triangle{{0, 1, 2}}, m.Triangles)
}

func TestGltfReaderInstancedMesh(t *testing.T) {
	doc := newTriangleDocument()
	doc.Nodes = []*gltf.Node{
		{Mesh: gltf.Index(0)},
		{Mesh: gltf.Index(0), Translation: [3]float64{0, 0, 5}},
	}
	doc.Scenes[0].Nodes = []int{0, 1}

	path := filepath.Join(t.TempDir(), "instances.glb")
	require.NoError(t, gltf.SaveBinary(doc, path))

	m, err := ReadMesh(path)
	require.NoError(t, err)

	require.Len(t, m.Vertices, 6)
	assert.Equal(t, types.XYZ(0, 1, 5), m.Vertices[5])
	assert.Equal(t, []mesh.Triangle{{0, 1, 2}, {3, 4, 5}}, m.Triangles)
}

func TestGltfReaderWithoutScene(t *testing.T) {
	doc := newTriangleDocument()
	doc.Scene = nil
	doc.Scenes = nil

	path := filepath.Join(t.TempDir(), "meshes.glb")
	require.NoError(t, gltf.SaveBinary(doc, path))

	m, err := ReadMesh(path)
	require.NoError(t, err)

	assert.Equal(t, []types.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, m.Vertices)
	assert.Equal(t, []mesh.Triangle{{0, 1, 2}}, m.Triangles)
}

func TestGltfReaderSkipsNonTrianglePrimitives(t *testing.T) {
	doc := newTriangleDocument()
	doc.Meshes[0].Primitives[0].Mode = gltf.PrimitiveLines

	path := filepath.Join(t.TempDir(), "lines.glb")
	require.NoError(t, gltf.SaveBinary(doc, path))

	m, err := ReadMesh(path)
	require.NoError(t, err)
	assert.Empty(t, m.Triangles)
	assert.ErrorIs(t, m.Validate(), mesh.ErrEmptyMesh)
}

func TestAssembleTriangles(t *testing.T) {
	indices := []uint32{0, 1, 2, 3, 4}

	assert.Equal(t, []mesh.Triangle{{0, 1, 2}}, assembleTriangles(gltf.PrimitiveTriangles, indices))
	assert.Equal(t, []mesh.Triangle{{0, 1, 2}, {2, 1, 3}, {2, 3, 4}}, assembleTriangles(gltf.PrimitiveTriangleStrip, indices))
	assert.Equal(t, []mesh.Triangle{{0, 1, 2}, {0, 2, 3}, {0, 3, 4}}, assembleTriangles(gltf.PrimitiveTriangleFan, indices))
}

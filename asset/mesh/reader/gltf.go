package reader

import (
	"fmt"
	"os"
	"time"

	"github.com/achilleasa/lbvh/asset"
	"github.com/achilleasa/lbvh/asset/mesh"
	"github.com/achilleasa/lbvh/log"
	"github.com/achilleasa/lbvh/types"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

type gltfReader struct {
	logger log.Logger
}

// Create a new glTF/GLB reader.
func newGltfReader() *gltfReader {
	return &gltfReader{
		logger: log.New("gltf reader"),
	}
}

// A node waiting to be visited together with its parent's world transform.
type gltfNodeTask struct {
	node   int
	parent mgl32.Mat4
}

// Read a glTF or GLB document and merge all triangle primitives reachable from
// its default scene into a single mesh. Vertex positions are transformed into
// world space. Documents without scenes have their meshes merged untransformed.
func (r *gltfReader) Read(res *asset.Resource) (*mesh.Mesh, error) {
	r.logger.Noticef(`parsing mesh from "%s"`, res.Path())
	start := time.Now()

	doc, err := r.open(res)
	if err != nil {
		return nil, fmt.Errorf("gltf reader: could not decode %q: %w", res.Path(), err)
	}

	m := mesh.New(res.Name())

	var sceneNodes []int
	switch {
	case doc.Scene != nil && *doc.Scene < len(doc.Scenes):
		sceneNodes = doc.Scenes[*doc.Scene].Nodes
	case len(doc.Scenes) > 0:
		sceneNodes = doc.Scenes[0].Nodes
	}

	if len(sceneNodes) == 0 {
		for meshIndex := range doc.Meshes {
			if err = r.appendMesh(doc, meshIndex, mgl32.Ident4(), m); err != nil {
				return nil, err
			}
		}
	} else {
		stack := make([]gltfNodeTask, 0, len(sceneNodes))
		for i := len(sceneNodes) - 1; i >= 0; i-- {
			stack = append(stack, gltfNodeTask{node: sceneNodes[i], parent: mgl32.Ident4()})
		}

		visited := make([]bool, len(doc.Nodes))
		for len(stack) > 0 {
			task := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if task.node < 0 || task.node >= len(doc.Nodes) {
				return nil, fmt.Errorf("gltf reader: scene references unknown node %d", task.node)
			}
			if visited[task.node] {
				return nil, fmt.Errorf("gltf reader: node %d is referenced more than once", task.node)
			}
			visited[task.node] = true

			node := doc.Nodes[task.node]
			world := task.parent.Mul4(nodeTransform(node))
			if node.Mesh != nil {
				if err = r.appendMesh(doc, *node.Mesh, world, m); err != nil {
					return nil, err
				}
			}
			for i := len(node.Children) - 1; i >= 0; i-- {
				stack = append(stack, gltfNodeTask{node: node.Children[i], parent: world})
			}
		}
	}

	r.logger.Noticef("parsed %d vertices and %d triangles in %d ms", m.VertexCount(), m.TriangleCount(), time.Since(start).Milliseconds())
	return m, nil
}

// Decode the document. Local files are opened by path so that external
// buffers can be resolved relative to the document.
func (r *gltfReader) open(res *asset.Resource) (*gltf.Document, error) {
	if !res.IsRemote() {
		if _, err := os.Stat(res.Path()); err == nil {
			return gltf.Open(res.Path())
		}
	}

	doc := new(gltf.Document)
	if err := gltf.NewDecoder(res).Decode(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Calculate the local transformation of a node. glTF nodes specify either a
// matrix or a translation/rotation/scale triple; the unused form is the
// identity.
func nodeTransform(node *gltf.Node) mgl32.Mat4 {
	var mat mgl32.Mat4
	for i, v := range node.MatrixOrDefault() {
		mat[i] = float32(v)
	}

	t := node.TranslationOrDefault()
	rot := node.RotationOrDefault()
	s := node.ScaleOrDefault()

	q := mgl32.Quat{
		W: float32(rot[3]),
		V: mgl32.Vec3{float32(rot[0]), float32(rot[1]), float32(rot[2])},
	}

	return mat.
		Mul4(mgl32.Translate3D(float32(t[0]), float32(t[1]), float32(t[2]))).
		Mul4(q.Mat4()).
		Mul4(mgl32.Scale3D(float32(s[0]), float32(s[1]), float32(s[2])))
}

// Append the triangle primitives of a glTF mesh to m.
func (r *gltfReader) appendMesh(doc *gltf.Document, meshIndex int, world mgl32.Mat4, m *mesh.Mesh) error {
	if meshIndex < 0 || meshIndex >= len(doc.Meshes) {
		return fmt.Errorf("gltf reader: unknown mesh %d", meshIndex)
	}
	gm := doc.Meshes[meshIndex]

	for primIndex, prim := range gm.Primitives {
		switch prim.Mode {
		case gltf.PrimitiveTriangles, gltf.PrimitiveTriangleStrip, gltf.PrimitiveTriangleFan:
		default:
			r.logger.Warningf("mesh %q primitive %d: skipping non-triangle primitive", gm.Name, primIndex)
			continue
		}

		posIndex, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			r.logger.Warningf("mesh %q primitive %d: skipping primitive without positions", gm.Name, primIndex)
			continue
		}
		if posIndex < 0 || posIndex >= len(doc.Accessors) {
			return fmt.Errorf("gltf reader: mesh %q primitive %d: unknown position accessor %d", gm.Name, primIndex, posIndex)
		}

		positions, err := modeler.ReadPosition(doc, doc.Accessors[posIndex], nil)
		if err != nil {
			return fmt.Errorf("gltf reader: mesh %q primitive %d: read positions: %w", gm.Name, primIndex, err)
		}

		var indices []uint32
		if prim.Indices != nil {
			if *prim.Indices < 0 || *prim.Indices >= len(doc.Accessors) {
				return fmt.Errorf("gltf reader: mesh %q primitive %d: unknown index accessor %d", gm.Name, primIndex, *prim.Indices)
			}
			if indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil); err != nil {
				return fmt.Errorf("gltf reader: mesh %q primitive %d: read indices: %w", gm.Name, primIndex, err)
			}
		} else {
			// Non-indexed primitives consume vertices sequentially.
			indices = make([]uint32, len(positions))
			for i := range indices {
				indices[i] = uint32(i)
			}
		}

		primMesh := mesh.New(gm.Name)
		for _, p := range positions {
			primMesh.AddVertex(types.Vec3(p))
		}
		primMesh.Triangles = assembleTriangles(prim.Mode, indices)
		primMesh.Transform(world)
		m.Merge(primMesh)
	}

	return nil
}

// Convert a primitive index list into triangles according to the primitive mode.
func assembleTriangles(mode gltf.PrimitiveMode, indices []uint32) []mesh.Triangle {
	var tris []mesh.Triangle
	switch mode {
	case gltf.PrimitiveTriangleStrip:
		for i := 0; i+2 < len(indices); i++ {
			// Keep a consistent winding for every other triangle.
			if i%2 == 0 {
				tris = append(tris, mesh.Triangle{indices[i], indices[i+1], indices[i+2]})
			} else {
				tris = append(tris, mesh.Triangle{indices[i+1], indices[i], indices[i+2]})
			}
		}
	case gltf.PrimitiveTriangleFan:
		for i := 1; i+1 < len(indices); i++ {
			tris = append(tris, mesh.Triangle{indices[0], indices[i], indices[i+1]})
		}
	default:
		for i := 0; i+2 < len(indices); i += 3 {
			tris = append(tris, mesh.Triangle{indices[i], indices[i+1], indices[i+2]})
		}
	}
	return tris
}

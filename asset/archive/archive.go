// Package archive stores compiled BVH trees together with the mesh they were
// built for.
//
// An archive is a zip file with the following entries:
//
//	manifest.bin  gob encoded Manifest
//	mesh.bin      gob encoded mesh
//	bvh.bin       gob encoded node list
//	nodes.raw     node list in the packed little-endian layout
package archive

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/achilleasa/lbvh/asset/mesh"
	"github.com/achilleasa/lbvh/bvh"
	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
)

const (
	manifestFile    = "manifest.bin"
	meshFile        = "mesh.bin"
	nodesFile       = "bvh.bin"
	packedNodesFile = "nodes.raw"
)

var (
	ErrMissingEntry = errors.New("archive: missing entry")
	ErrCorrupted    = errors.New("archive: corrupted archive")
)

// Manifest describes the archive contents.
type Manifest struct {
	// Unique build identifier.
	ID uuid.UUID

	// Path to the mesh file the tree was built from.
	Source string

	Created time.Time

	Triangles int
	Nodes     int
	Root      uint32

	Stats bvh.Stats
}

// A compiled BVH archive.
type Archive struct {
	Manifest Manifest
	Mesh     *mesh.Mesh
	Nodes    []bvh.Node
}

// Create an archive for a built tree.
func New(m *mesh.Mesh, tree *bvh.Tree, source string) *Archive {
	return &Archive{
		Manifest: Manifest{
			ID:        uuid.New(),
			Source:    source,
			Created:   time.Now().UTC(),
			Triangles: len(m.Triangles),
			Nodes:     len(tree.Nodes),
			Root:      tree.Root(),
			Stats:     tree.Stats,
		},
		Mesh:  m,
		Nodes: tree.Nodes,
	}
}

// Verify the stored tree against the stored mesh.
func (a *Archive) Verify() error {
	return bvh.Validate(a.Mesh, a.Nodes)
}

// Check that the manifest agrees with the stored mesh and nodes.
func (a *Archive) checkManifest() error {
	switch {
	case a.Manifest.Triangles != len(a.Mesh.Triangles):
		return fmt.Errorf("%w: manifest lists %d triangles; mesh contains %d", ErrCorrupted, a.Manifest.Triangles, len(a.Mesh.Triangles))
	case a.Manifest.Nodes != len(a.Nodes):
		return fmt.Errorf("%w: manifest lists %d nodes; tree contains %d", ErrCorrupted, a.Manifest.Nodes, len(a.Nodes))
	case len(a.Nodes) != 0 && a.Manifest.Root != uint32(len(a.Nodes)-1):
		return fmt.Errorf("%w: manifest root %d does not match the last node %d", ErrCorrupted, a.Manifest.Root, len(a.Nodes)-1)
	}
	return nil
}

// Build a tabular representation of the archive manifest.
func (a *Archive) Table() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Field", "Value"})
	table.Append([]string{"ID", a.Manifest.ID.String()})
	table.Append([]string{"Source", a.Manifest.Source})
	table.Append([]string{"Created", a.Manifest.Created.Format(time.RFC3339)})
	table.Append([]string{"Mesh", a.Mesh.Name})
	table.Append([]string{"Vertices", fmt.Sprint(len(a.Mesh.Vertices))})
	table.Append([]string{"Triangles", fmt.Sprint(a.Manifest.Triangles)})
	table.Append([]string{"Nodes", fmt.Sprint(a.Manifest.Nodes)})
	table.Append([]string{"Root", fmt.Sprint(a.Manifest.Root)})
	table.Render()
	return buf.String()
}

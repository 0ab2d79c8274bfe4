// Package reader loads triangle meshes from PLY, Wavefront OBJ and glTF files.
package reader

import (
	"errors"
	"fmt"

	"github.com/achilleasa/lbvh/asset"
	"github.com/achilleasa/lbvh/asset/mesh"
)

var (
	ErrUnsupportedFormat = errors.New("reader: unsupported mesh format")
)

// The Reader interface is implemented by all mesh readers.
type Reader interface {
	// Read a mesh from a resource.
	Read(*asset.Resource) (*mesh.Mesh, error)
}

// Read mesh from a local file or an http/https URL. The reader is selected
// based on the file extension.
func ReadMesh(filename string) (*mesh.Mesh, error) {
	res, err := asset.NewResource(filename, nil)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	return Read(res)
}

// Read mesh from an already opened resource.
func Read(res *asset.Resource) (*mesh.Mesh, error) {
	reader, err := readerFor(res.Ext())
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, res.Path())
	}
	return reader.Read(res)
}

// Returns true if a reader is available for files with the given extension.
func Supports(ext string) bool {
	_, err := readerFor(ext)
	return err == nil
}

func readerFor(ext string) (Reader, error) {
	switch ext {
	case ".ply":
		return newPlyReader(), nil
	case ".obj":
		return newWavefrontReader(), nil
	case ".gltf", ".glb":
		return newGltfReader(), nil
	}
	return nil, ErrUnsupportedFormat
}

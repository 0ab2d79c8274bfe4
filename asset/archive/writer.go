package archive

import (
	"archive/zip"
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/achilleasa/lbvh/asset/mesh"
	"github.com/achilleasa/lbvh/bvh"
	"github.com/achilleasa/lbvh/log"
)

// Write a mesh and its BVH tree to a zip archive.
func Write(filename string, m *mesh.Mesh, tree *bvh.Tree, source string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}

	err = Encode(f, New(m, tree, source))
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(filename)
		return err
	}
	return nil
}

// Encode an archive to w.
func Encode(w io.Writer, a *Archive) error {
	logger := log.New("archive writer")
	logger.Noticef("writing archive %s", a.Manifest.ID)
	start := time.Now()

	packed, err := bvh.PackNodes(a.Nodes)
	if err != nil {
		return fmt.Errorf("archive: could not pack nodes: %w", err)
	}

	zw := zip.NewWriter(w)
	if err = writeGobEntry(zw, manifestFile, a.Manifest); err != nil {
		return err
	}
	if err = writeGobEntry(zw, meshFile, a.Mesh); err != nil {
		return err
	}
	if err = writeGobEntry(zw, nodesFile, a.Nodes); err != nil {
		return err
	}
	if err = writeRawEntry(zw, packedNodesFile, packed); err != nil {
		return err
	}
	if err = zw.Close(); err != nil {
		return err
	}

	logger.Noticef("wrote archive in %d ms", time.Since(start).Milliseconds())
	return nil
}

func writeGobEntry(zw *zip.Writer, name string, v interface{}) error {
	fw, err := zw.Create(name)
	if err != nil {
		return err
	}
	if err = gob.NewEncoder(fw).Encode(v); err != nil {
		return fmt.Errorf("archive: failed to write %s: %w", name, err)
	}
	return nil
}

func writeRawEntry(zw *zip.Writer, name string, data []byte) error {
	fw, err := zw.Create(name)
	if err != nil {
		return err
	}
	if _, err = fw.Write(data); err != nil {
		return fmt.Errorf("archive: failed to write %s: %w", name, err)
	}
	return nil
}

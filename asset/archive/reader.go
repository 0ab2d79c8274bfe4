package archive

import (
	"archive/zip"
	"bytes"
	"encoding/gob"
	"fmt"
	"io"
	"time"

	"github.com/achilleasa/lbvh/asset"
	"github.com/achilleasa/lbvh/bvh"
	"github.com/achilleasa/lbvh/log"
)

// Read an archive from a local file or an http/https URL.
func Read(path string) (*Archive, error) {
	res, err := asset.NewResource(path, nil)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	return Decode(res)
}

// Decode an archive from a zip stream. Unknown entries are skipped. If the
// packed node list is present it must match the gob encoded node list.
func Decode(r io.Reader) (*Archive, error) {
	logger := log.New("archive reader")
	start := time.Now()

	// zip package requires a reader implementing ReaderAt. To work around
	// this requirement we read the entire zip file into memory and create
	// a reader from the bytes package that implements ReaderAt
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	a := &Archive{}
	var packed []byte
	found := make(map[string]bool)
	for _, f := range zr.File {
		switch f.Name {
		case manifestFile:
			err = readGobEntry(f, &a.Manifest)
		case meshFile:
			err = readGobEntry(f, &a.Mesh)
		case nodesFile:
			err = readGobEntry(f, &a.Nodes)
		case packedNodesFile:
			packed, err = readRawEntry(f)
		default:
			logger.Warningf("unknown file %s in archive; skipping", f.Name)
			continue
		}
		if err != nil {
			return nil, err
		}
		found[f.Name] = true
	}

	for _, name := range []string{manifestFile, meshFile, nodesFile} {
		if !found[name] {
			return nil, fmt.Errorf("%w: %s", ErrMissingEntry, name)
		}
	}
	if err = a.checkManifest(); err != nil {
		return nil, err
	}

	if found[packedNodesFile] {
		nodes, err := bvh.UnpackNodes(packed)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %s", ErrCorrupted, packedNodesFile, err.Error())
		}
		if len(nodes) != len(a.Nodes) {
			return nil, fmt.Errorf("%w: %s contains %d nodes; expected %d", ErrCorrupted, packedNodesFile, len(nodes), len(a.Nodes))
		}
		for i := range nodes {
			if nodes[i] != a.Nodes[i] {
				return nil, fmt.Errorf("%w: %s: node %d does not match %s", ErrCorrupted, packedNodesFile, i, nodesFile)
			}
		}
	}

	logger.Noticef("loaded archive %s in %d ms", a.Manifest.ID, time.Since(start).Milliseconds())
	return a, nil
}

func readGobEntry(f *zip.File, v interface{}) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	if err = gob.NewDecoder(rc).Decode(v); err != nil {
		return fmt.Errorf("archive: failed to load %s: %w", f.Name, err)
	}
	return nil
}

func readRawEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("archive: failed to load %s: %w", f.Name, err)
	}
	return data, nil
}

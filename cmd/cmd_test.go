package cmd

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/achilleasa/lbvh/asset/archive"
	"github.com/urfave/cli"
)

const testMesh = `ply
format ascii 1.0
element vertex 4
property float x
property float y
property float z
element face 2
property list uchar int vertex_indices
end_header
0 0 0
1 0 0
1 1 0
0 1 1
3 0 1 2
3 0 2 3
`

func buildContext(args []string) *cli.Context {
	set := flag.NewFlagSet("build", flag.ContinueOnError)
	set.Int("workers", 2, "")
	set.String("out", "", "")
	set.Bool("no-validate", false, "")
	set.Parse(args)
	return cli.NewContext(cli.NewApp(), set, nil)
}

func argsContext(args []string) *cli.Context {
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	set.Parse(args)
	return cli.NewContext(cli.NewApp(), set, nil)
}

func TestArchiveName(t *testing.T) {
	specs := []struct {
		in, exp string
	}{
		{"bunny.ply", "bunny.bvh.zip"},
		{"models/scene.v2.obj", "models/scene.v2.bvh.zip"},
		{"https://example.com/models/ship.glb", "ship.bvh.zip"},
	}

	for _, spec := range specs {
		if got := archiveName(spec.in); got != spec.exp {
			t.Errorf("expected archive name for %q to be %q; got %q", spec.in, spec.exp, got)
		}
	}
}

func TestBuildInfoVerify(t *testing.T) {
	dir := t.TempDir()
	meshFile := filepath.Join(dir, "quad.ply")
	if err := os.WriteFile(meshFile, []byte(testMesh), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := BuildBVH(buildContext([]string{meshFile})); err != nil {
		t.Fatal(err)
	}

	archiveFile := filepath.Join(dir, "quad.bvh.zip")
	a, err := archive.Read(archiveFile)
	if err != nil {
		t.Fatal(err)
	}
	if len(a.Nodes) != 3 {
		t.Fatalf("expected archive to contain 3 nodes; got %d", len(a.Nodes))
	}
	if a.Manifest.Source != meshFile {
		t.Fatalf("expected archive source to be %q; got %q", meshFile, a.Manifest.Source)
	}

	if err = ArchiveInfo(argsContext([]string{archiveFile})); err != nil {
		t.Fatal(err)
	}
	if err = VerifyArchive(argsContext([]string{archiveFile})); err != nil {
		t.Fatal(err)
	}
}

func TestBuildWithExplicitOutput(t *testing.T) {
	dir := t.TempDir()
	meshFile := filepath.Join(dir, "quad.ply")
	if err := os.WriteFile(meshFile, []byte(testMesh), 0o644); err != nil {
		t.Fatal(err)
	}

	outFile := filepath.Join(dir, "custom.zip")
	if err := BuildBVH(buildContext([]string{"--out", outFile, "--no-validate", meshFile})); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(outFile); err != nil {
		t.Fatalf("expected archive %q to exist: %v", outFile, err)
	}
}

func TestBuildErrors(t *testing.T) {
	dir := t.TempDir()
	stlFile := filepath.Join(dir, "mesh.stl")
	if err := os.WriteFile(stlFile, []byte("solid"), 0o644); err != nil {
		t.Fatal(err)
	}

	specs := [][]string{
		{},
		{stlFile},
		{filepath.Join(dir, "missing.ply")},
		{"--out", "x.zip", "a.ply", "b.ply"},
	}
	for _, args := range specs {
		if err := BuildBVH(buildContext(args)); err == nil {
			t.Errorf("expected build with args %v to fail", args)
		}
	}

	if err := VerifyArchive(argsContext(nil)); err == nil {
		t.Error("expected verify without arguments to fail")
	}
	if err := ArchiveInfo(argsContext([]string{stlFile})); err == nil {
		t.Error("expected info on a non-archive file to fail")
	}
}

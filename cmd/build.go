package cmd

import (
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/achilleasa/lbvh/asset/archive"
	"github.com/achilleasa/lbvh/asset/mesh/reader"
	"github.com/achilleasa/lbvh/bvh"
	"github.com/urfave/cli"
)

// Build a BVH for each mesh argument and write it to a zip archive.
func BuildBVH(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	if ctx.NArg() == 0 {
		return cli.NewExitError("build: no mesh files specified", 1)
	}
	if ctx.NArg() > 1 && ctx.String("out") != "" {
		return cli.NewExitError("build: --out can only be used with a single mesh file", 1)
	}

	opts := bvh.DefaultOptions()
	if workers := ctx.Int("workers"); workers > 0 {
		opts.Workers = workers
	}

	for _, meshFile := range ctx.Args() {
		if !reader.Supports(strings.ToLower(filepath.Ext(meshFile))) {
			logger.Errorf("skipping unsupported file %s", meshFile)
			return cli.NewExitError("build: unsupported mesh format", 1)
		}

		m, err := reader.ReadMesh(meshFile)
		if err != nil {
			logger.Error(err)
			return cli.NewExitError(err.Error(), 1)
		}

		tree, err := bvh.Build(m, opts)
		if err != nil {
			logger.Error(err)
			return cli.NewExitError(err.Error(), 1)
		}

		if !ctx.Bool("no-validate") {
			if err = bvh.Validate(m, tree.Nodes); err != nil {
				logger.Error(err)
				return cli.NewExitError(err.Error(), 1)
			}
			logger.Info("tree passed validation")
		}

		logger.Noticef("build statistics\n%s", tree.Stats.Table())

		outFile := ctx.String("out")
		if outFile == "" {
			outFile = archiveName(meshFile)
		}
		if err = archive.Write(outFile, m, tree, meshFile); err != nil {
			logger.Error(err)
			return cli.NewExitError(err.Error(), 1)
		}
		logger.Noticef("wrote %s", outFile)
	}

	return nil
}

// Generate the default archive name for a mesh file by replacing its
// extension with ".bvh.zip". Remote meshes are written to the current folder.
func archiveName(meshFile string) string {
	if u, err := url.Parse(meshFile); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		meshFile = path.Base(u.Path)
	}
	return strings.TrimSuffix(meshFile, filepath.Ext(meshFile)) + ".bvh.zip"
}

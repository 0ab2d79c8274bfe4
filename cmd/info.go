package cmd

import (
	"github.com/achilleasa/lbvh/asset/archive"
	"github.com/urfave/cli"
)

// Display the manifest and build statistics of a BVH archive.
func ArchiveInfo(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	if ctx.NArg() != 1 {
		return cli.NewExitError("info: expected a single archive argument", 1)
	}

	a, err := archive.Read(ctx.Args().First())
	if err != nil {
		logger.Error(err)
		return cli.NewExitError(err.Error(), 1)
	}

	logger.Noticef("archive manifest\n%s", a.Table())
	logger.Noticef("build statistics\n%s", a.Manifest.Stats.Table())
	return nil
}

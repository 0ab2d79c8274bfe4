package cmd

import (
	"github.com/achilleasa/lbvh/asset/archive"
	"github.com/urfave/cli"
)

// Check the structural invariants of the trees stored in BVH archives.
func VerifyArchive(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	if ctx.NArg() == 0 {
		return cli.NewExitError("verify: no archives specified", 1)
	}

	for _, archiveFile := range ctx.Args() {
		a, err := archive.Read(archiveFile)
		if err != nil {
			logger.Error(err)
			return cli.NewExitError(err.Error(), 1)
		}

		if err = a.Verify(); err != nil {
			logger.Errorf("%s: %s", archiveFile, err.Error())
			return cli.NewExitError(err.Error(), 1)
		}
		logger.Noticef("%s: tree with %d nodes is valid", archiveFile, len(a.Nodes))
	}

	return nil
}

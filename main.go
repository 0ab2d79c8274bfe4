package main

import (
	"os"
	"runtime"

	"github.com/achilleasa/lbvh/cmd"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "lbvh"
	app.Usage = "build linear bounding volume hierarchies for triangle meshes"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "set log level (debug, info, notice, warning, error)",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "build",
			Usage: "build a BVH for one or more meshes",
			Description: `
Load a triangle mesh (PLY, wavefront obj, glTF or GLB), sort its triangles
along a Z-order curve and build a linear BVH over them.

The mesh and the flattened tree are written to a zip archive which can be
inspected with the info and verify commands.`,
			ArgsUsage: "mesh1.ply mesh2.obj ...",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "workers, w",
					Value: runtime.NumCPU(),
					Usage: "number of goroutines used for Morton encoding",
				},
				cli.StringFlag{
					Name:  "out, o",
					Usage: "archive filename; defaults to the mesh filename with a .bvh.zip extension",
				},
				cli.BoolFlag{
					Name:  "no-validate",
					Usage: "skip the validation pass after building the tree",
				},
			},
			Action: cmd.BuildBVH,
		},
		{
			Name:      "info",
			Usage:     "display archive manifest and build statistics",
			ArgsUsage: "archive.bvh.zip",
			Action:    cmd.ArchiveInfo,
		},
		{
			Name:      "verify",
			Usage:     "validate the trees stored in one or more archives",
			ArgsUsage: "archive1.bvh.zip archive2.bvh.zip ...",
			Action:    cmd.VerifyArchive,
		},
	}

	if err := app.Run(os.Args); err != nil {
		os.Exit(1)
	}
}

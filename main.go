package main

import (
	"os"

	"github.com/jLantxa/PathTracer/cmd"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "pathtracer"
	app.Usage = "render scenes using Monte-Carlo path tracing"
	app.Version = "0.1.0"
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
			Usage: "set the log level (debug, info, notice, warning, error)",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a single frame",
			Description: `
Read a scene from a text (.scene, .obj, .txt) or xml file, or build one of the
built-in presets, and render it on the CPU. The frame is split into blocks
that are traced in parallel; the image is written when all passes complete.`,
			ArgsUsage: "[scene_file]",
			Flags:     cmd.RenderFlags,
			Action:    cmd.RenderFrame,
		},
		{
			Name:      "scene-info",
			Usage:     "display scene information",
			ArgsUsage: "[scene_file]",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "preset",
					Usage: "display a built-in scene",
				},
			},
			Action: cmd.ShowSceneInfo,
		},
		{
			Name:   "presets",
			Usage:  "list the built-in scenes",
			Action: cmd.ListPresets,
		},
	}

	if err := app.Run(os.Args); err != nil {
		cmd.Fatal(err)
	}
}

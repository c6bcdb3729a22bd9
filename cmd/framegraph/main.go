// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Command framegraph runs, inspects and validates frame graph pipelines.
//
//	framegraph render pipeline.hcl
//	framegraph validate --shaders pipeline.hcl
//	framegraph capabilities
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"

	_ "github.com/gogpu/framegraph/backend/headless"
)

func newApp() *cli.App {
	// -v selects verbose logging.
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "framegraph"
	app.Usage = "run frame graph pipelines"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable debug logging",
		},
	}
	varFlag := cli.StringSliceFlag{
		Name:  "var",
		Value: &cli.StringSlice{},
		Usage: "set a pipeline variable as name=value",
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a pipeline for a number of frames",
			Description: `
Load a pipeline file, open the backend it names and render frames until the
frame limit is reached or the backend stops. Frame statistics are printed
when the backend records them.`,
			ArgsUsage: "pipeline.hcl",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "frames, n",
					Usage: "number of frames to render, overriding the file (0 renders until interrupted)",
				},
				varFlag,
			},
			Action: renderPipeline,
		},
		{
			Name:  "validate",
			Usage: "set a pipeline up without rendering",
			Description: `
Build every node of a pipeline and list what each node publishes. With
--shaders every embedded WGSL shader is compiled and validated as well; the
pipeline file may then be omitted.`,
			ArgsUsage: "[pipeline.hcl]",
			Flags: []cli.Flag{
				cli.BoolFlag{
					Name:  "shaders",
					Usage: "compile and validate all shaders",
				},
				varFlag,
			},
			Action: validatePipeline,
		},
		{
			Name:  "capabilities",
			Usage: "list the capabilities of a backend",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "backend, b",
					Usage: "backend to open (default: best available)",
				},
			},
			Action: listCapabilities,
		},
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "framegraph:", err)
		os.Exit(1)
	}
}

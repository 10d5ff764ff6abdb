package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/df07/go-distributed-raytracer/cmd"
	"github.com/df07/go-distributed-raytracer/pkg/config"
	"github.com/df07/go-distributed-raytracer/pkg/tonemap"
	"github.com/urfave/cli"
)

func main() {
	envFile := config.DefaultEnvFile
	if path, ok := os.LookupEnv("RAYTRACER_ENV_FILE"); ok {
		envFile = path
	}

	cfg, err := config.Load(envFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := newApp(cfg).Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// newApp builds the command line interface with flag defaults taken from cfg
func newApp(cfg config.Config) *cli.App {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "raytracer"
	app.Usage = "render scenes with Whitted-style ray tracing, locally or across workers"
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
			Value: cfg.LogLevel,
			Usage: "log level: debug, info, notice, warning or error",
		},
	}

	frameFlags := []cli.Flag{
		cli.StringFlag{
			Name:  "scene, s",
			Value: cfg.Scene,
			Usage: "built-in scene to render (see list-scenes)",
		},
		cli.StringFlag{
			Name:  "mesh, m",
			Value: cfg.Mesh,
			Usage: "PLY file providing the triangles of the mesh scene",
		},
		cli.IntFlag{
			Name:  "width",
			Value: cfg.Width,
			Usage: "frame width",
		},
		cli.IntFlag{
			Name:  "height",
			Value: cfg.Height,
			Usage: "frame height",
		},
		cli.IntFlag{
			Name:  "samples, spp",
			Value: cfg.Samples,
			Usage: "jittered samples per pixel",
		},
		cli.Int64Flag{
			Name:  "seed",
			Value: cfg.Seed,
			Usage: "base seed for pixel jitter",
		},
		cli.StringFlag{
			Name:  "tonemap",
			Value: cfg.Tonemap,
			Usage: "tone mapping operator: " + strings.Join(tonemap.Names(), ", "),
		},
		cli.Float64Flag{
			Name:  "bias",
			Value: cfg.Bias,
			Usage: "bias for the adaptive logarithmic operator, in (0, 1)",
		},
		cli.StringFlag{
			Name:  "out, o",
			Value: cfg.Output,
			Usage: "output image; .png writes PNG, anything else PPM",
		},
		cli.IntFlag{
			Name:  "preview",
			Value: cfg.Preview,
			Usage: "also write a PNG preview this many pixels on its longest edge, 0 disables",
		},
	}

	renderFlags := []cli.Flag{
		cli.IntFlag{
			Name:  "threads, t",
			Value: cfg.Threads,
			Usage: "render goroutines, 0 uses every logical core",
		},
		cli.IntFlag{
			Name:  "chunk-size",
			Usage: "pixels per render task, 0 uses the default",
		},
	}

	app.Commands = []cli.Command{
		{
			Name:   "list-scenes",
			Usage:  "list built-in scenes and tone mapping operators",
			Action: cmd.ListScenes,
		},
		{
			Name:  "render",
			Usage: "render a frame on this machine",
			Description: `
Build the selected scene, render every pixel with a pool of goroutines, tone map
the radiance buffer and write the image.`,
			Flags:  append(append([]cli.Flag{}, frameFlags...), renderFlags...),
			Action: cmd.RenderFrame,
		},
		{
			Name:  "dispatch",
			Usage: "render a frame across remote workers",
			Description: `
Build the selected scene and send it to every worker together with a contiguous
pixel range. Pixels left over after an even split are not rendered. Any worker
failure fails the frame.`,
			ArgsUsage: "[host:port ...]",
			Flags: append(append([]cli.Flag{}, frameFlags...), cli.StringFlag{
				Name:  "workers, w",
				Value: strings.Join(cfg.Workers, ","),
				Usage: "comma-separated worker addresses",
			}),
			Action: cmd.DispatchFrame,
		},
		{
			Name:  "worker",
			Usage: "serve render jobs over TCP",
			Flags: append([]cli.Flag{
				cli.IntFlag{
					Name:  "port, p",
					Value: cfg.Port,
					Usage: "port to listen on",
				},
				cli.StringFlag{
					Name:  "bind",
					Value: "0.0.0.0",
					Usage: "address to listen on",
				},
			}, renderFlags...),
			Action: cmd.ServeWorker,
		},
	}

	return app
}

package cmd

import (
	"time"

	"github.com/df07/go-distributed-raytracer/pkg/renderer"
	"github.com/urfave/cli"
)

const progressInterval = 2 * time.Second

// Render a frame on this machine.
func RenderFrame(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	opts, err := parseFrameOptions(ctx)
	if err != nil {
		return err
	}
	displayHostInfo(renderer.DescribeHost())

	s, camera, err := buildScene(opts)
	if err != nil {
		return err
	}

	integrator, err := renderer.NewIntegrator(s, camera, opts.Width, opts.Height, opts.Samples)
	if err != nil {
		return err
	}

	progress := renderer.NewProgress(integrator.PixelCount())
	stop := progress.Report(logger, progressInterval)
	pixels, stats, err := integrator.Render(renderer.RenderOptions{
		Workers:   ctx.Int("threads"),
		ChunkSize: ctx.Int("chunk-size"),
		Seed:      opts.Seed,
		Progress:  progress,
	})
	stop()
	if err != nil {
		return err
	}

	displayRenderStats(stats)
	return writeFrame(opts, pixels)
}

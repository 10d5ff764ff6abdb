package cmd

import (
	"errors"
	"time"

	"github.com/df07/go-distributed-raytracer/pkg/config"
	"github.com/df07/go-distributed-raytracer/pkg/dispatch"
	"github.com/urfave/cli"
)

// Render a frame on a fixed list of remote workers.
func DispatchFrame(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	opts, err := parseFrameOptions(ctx)
	if err != nil {
		return err
	}

	workers := config.SplitList(ctx.String("workers"))
	for _, arg := range ctx.Args() {
		workers = append(workers, config.SplitList(arg)...)
	}
	if len(workers) == 0 {
		return errors.New("no workers given; use --workers or list host:port arguments")
	}

	s, camera, err := buildScene(opts)
	if err != nil {
		return err
	}

	job := dispatch.RenderJob{
		Camera:  *camera,
		Scene:   s,
		Width:   opts.Width,
		Height:  opts.Height,
		Samples: opts.Samples,
		Seed:    opts.Seed,
	}

	logger.Noticef("dispatching %dx%d frame at %d spp to %d workers", opts.Width, opts.Height, opts.Samples, len(workers))
	started := time.Now()
	pixels, stats, err := dispatch.NewDispatcher().Dispatch(job, workers)
	displayDispatchStats(stats, time.Since(started))
	if err != nil {
		return err
	}

	return writeFrame(opts, pixels)
}

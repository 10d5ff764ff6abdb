package cmd

import (
	"errors"
	"fmt"

	"github.com/df07/go-distributed-raytracer/pkg/core"
	"github.com/df07/go-distributed-raytracer/pkg/geometry"
	"github.com/df07/go-distributed-raytracer/pkg/loaders"
	"github.com/df07/go-distributed-raytracer/pkg/scene"
	"github.com/df07/go-distributed-raytracer/pkg/tonemap"
	"github.com/urfave/cli"
)

// frameOptions holds the flags shared by the render and dispatch commands
type frameOptions struct {
	Width, Height, Samples int
	Seed                   int64
	Scene, Mesh, Output    string
	Tonemap                tonemap.Operator
	Preview                int // Longest preview edge, 0 disables
}

func parseFrameOptions(ctx *cli.Context) (frameOptions, error) {
	opts := frameOptions{
		Width:   ctx.Int("width"),
		Height:  ctx.Int("height"),
		Samples: ctx.Int("samples"),
		Seed:    ctx.Int64("seed"),
		Scene:   ctx.String("scene"),
		Mesh:    ctx.String("mesh"),
		Output:  ctx.String("out"),
		Preview: ctx.Int("preview"),
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return opts, fmt.Errorf("invalid frame size %dx%d", opts.Width, opts.Height)
	}
	if opts.Samples <= 0 {
		return opts, errors.New("samples must be positive")
	}
	if opts.Preview < 0 {
		return opts, fmt.Errorf("invalid preview size %d", opts.Preview)
	}
	if opts.Output == "" {
		return opts, errors.New("missing output filename")
	}

	op, err := tonemap.ParseOperator(ctx.String("tonemap"), ctx.Float64("bias"))
	if err != nil {
		return opts, err
	}
	opts.Tonemap = op
	return opts, nil
}

// buildScene creates the selected preset, loads its mesh when required and
// builds the spatial index
func buildScene(opts frameOptions) (*scene.Scene, *geometry.Camera, error) {
	info, err := scene.Lookup(opts.Scene)
	if err != nil {
		return nil, nil, err
	}

	var triangles []geometry.Primitive
	if info.NeedsMesh {
		if opts.Mesh == "" {
			return nil, nil, fmt.Errorf("scene %q requires --mesh", info.ID)
		}
		if triangles, err = loaders.LoadPLY(opts.Mesh); err != nil {
			return nil, nil, err
		}
	} else if opts.Mesh != "" {
		logger.Warningf("scene %q ignores mesh %s", info.ID, opts.Mesh)
	}

	aspect := float64(opts.Width) / float64(opts.Height)
	s, cameraConfig, err := scene.NewByName(info.ID, triangles, aspect)
	if err != nil {
		return nil, nil, err
	}
	if err := s.BuildIndex(); err != nil {
		return nil, nil, err
	}

	displaySceneStats(info.DisplayName, s.Stats())
	return s, geometry.NewCamera(cameraConfig), nil
}

// writeFrame tone maps the raw buffer and writes it to the output file,
// plus a downscaled PNG when a preview size is set
func writeFrame(opts frameOptions, pixels []core.Vec3) error {
	logger.Infof("tone mapping with %s", opts.Tonemap)
	mapped := opts.Tonemap.Apply(pixels)
	if err := loaders.SaveImage(opts.Output, mapped, opts.Width, opts.Height); err != nil {
		return err
	}
	if opts.Preview > 0 {
		return loaders.SavePreview(loaders.PreviewPath(opts.Output), mapped, opts.Width, opts.Height, uint(opts.Preview))
	}
	return nil
}

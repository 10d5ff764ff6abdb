package renderer

import (
	"fmt"
	"math/rand"

	"github.com/df07/go-distributed-raytracer/pkg/core"
	"github.com/df07/go-distributed-raytracer/pkg/geometry"
)

// Tracer is the scene entry point used by the integrator. Declared here to
// avoid a circular import with the scene package.
type Tracer interface {
	Fire(ray core.Ray, depth int) core.Vec3
}

// Integrator estimates pixel colors by averaging jittered camera samples
type Integrator struct {
	tracer  Tracer
	camera  *geometry.Camera
	width   int
	height  int
	samples int
}

// NewIntegrator creates an integrator for a width x height image
func NewIntegrator(tracer Tracer, camera *geometry.Camera, width, height, samples int) (*Integrator, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if samples <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSamples, samples)
	}
	if tracer == nil || camera == nil {
		return nil, ErrMissingScene
	}
	return &Integrator{
		tracer:  tracer,
		camera:  camera,
		width:   width,
		height:  height,
		samples: samples,
	}, nil
}

// Width returns the image width in pixels
func (in *Integrator) Width() int { return in.width }

// Height returns the image height in pixels
func (in *Integrator) Height() int { return in.height }

// Samples returns the samples taken per pixel
func (in *Integrator) Samples() int { return in.samples }

// PixelCount returns width * height
func (in *Integrator) PixelCount() int { return in.width * in.height }

// SamplePixel returns the mean color of pixel index i. Pixels are numbered
// row-major from the top-left corner.
func (in *Integrator) SamplePixel(i int, random *rand.Rand) core.Vec3 {
	x := i % in.width
	y := i / in.width

	w := float64(in.width)
	h := float64(in.height)
	xJitter := 1.0 / w / 2.0
	yJitter := 1.0 / h / 2.0

	var sum core.Vec3
	for s := 0; s < in.samples; s++ {
		cx := float64(x)/w + (random.Float64()*2-1)*xJitter
		cy := 1.0 - float64(y)/h + (random.Float64()*2-1)*yJitter
		sum = sum.Add(in.tracer.Fire(in.camera.GetRay(cx, cy), 0))
	}
	return sum.Divide(float64(in.samples))
}

// RenderChunk fills out[k] with pixel start+k
func (in *Integrator) RenderChunk(start int, out []core.Vec3, random *rand.Rand) {
	for k := range out {
		out[k] = in.SamplePixel(start+k, random)
	}
}

// checkRange validates a contiguous pixel range against the image
func (in *Integrator) checkRange(start, count int) error {
	if start < 0 || count < 0 || start+count > in.PixelCount() {
		return fmt.Errorf("%w: [%d, %d) outside %d pixels", ErrInvalidRange, start, start+count, in.PixelCount())
	}
	return nil
}

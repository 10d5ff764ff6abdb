package dispatch

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/df07/go-distributed-raytracer/pkg/core"
	"github.com/df07/go-distributed-raytracer/pkg/geometry"
	"github.com/df07/go-distributed-raytracer/pkg/scene"
)

// RenderJob is everything a worker needs to render one pixel range. A job
// is never modified after it has been sent.
type RenderJob struct {
	Camera  geometry.Camera
	Scene   *scene.Scene
	Width   int
	Height  int
	Samples int
	Start   int   // First pixel index
	Count   int   // Number of pixels
	Seed    int64 // Base seed for sample jitter
}

// WithRange returns a copy of the job covering r
func (j RenderJob) WithRange(r Range) RenderJob {
	j.Start = r.Start
	j.Count = r.Count
	return j
}

// Validate checks the job fields a worker relies on
func (j RenderJob) Validate() error {
	if j.Scene == nil {
		return fmt.Errorf("%w: missing scene", ErrInvalidJob)
	}
	if j.Width <= 0 || j.Height <= 0 {
		return fmt.Errorf("%w: image %dx%d", ErrInvalidJob, j.Width, j.Height)
	}
	if j.Samples <= 0 {
		return fmt.Errorf("%w: %d samples", ErrInvalidJob, j.Samples)
	}
	if j.Start < 0 || j.Count < 0 || j.Start+j.Count > j.Width*j.Height {
		return fmt.Errorf("%w: range [%d, %d) outside %d pixels", ErrInvalidJob, j.Start, j.Start+j.Count, j.Width*j.Height)
	}
	return nil
}

// EncodeJob serializes a job with encoding/gob
func EncodeJob(job RenderJob) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(job); err != nil {
		return nil, fmt.Errorf("dispatch: encode job: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeJob deserializes a job produced by EncodeJob
func DecodeJob(data []byte) (RenderJob, error) {
	var job RenderJob
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&job); err != nil {
		return RenderJob{}, fmt.Errorf("dispatch: decode job: %w", err)
	}
	return job, nil
}

// EncodeBuffer serializes a slice of pixel colors
func EncodeBuffer(pixels []core.Vec3) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(pixels); err != nil {
		return nil, fmt.Errorf("dispatch: encode buffer: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeBuffer deserializes a slice of pixel colors
func DecodeBuffer(data []byte) ([]core.Vec3, error) {
	var pixels []core.Vec3
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&pixels); err != nil {
		return nil, fmt.Errorf("dispatch: decode buffer: %w", err)
	}
	return pixels, nil
}

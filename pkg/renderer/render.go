package renderer

import (
	"time"

	"github.com/df07/go-distributed-raytracer/pkg/core"
	"github.com/df07/go-distributed-raytracer/pkg/log"
)

// DefaultChunkSize is the number of pixels per worker task
const DefaultChunkSize = 256

var logger = log.New("renderer")

// RenderOptions controls how a pixel range is spread over the worker pool
type RenderOptions struct {
	Workers   int       // Goroutines; <= 0 uses DefaultParallelism
	ChunkSize int       // Pixels per task; <= 0 uses DefaultChunkSize
	Seed      int64     // Base seed; chunk k uses Seed + k
	Progress  *Progress // Optional shared counter
}

// RenderRange renders pixels [start, start+count) and returns their colors in
// order. The output does not depend on the number of workers.
func (in *Integrator) RenderRange(start, count int, opts RenderOptions) ([]core.Vec3, RenderStats, error) {
	if err := in.checkRange(start, count); err != nil {
		return nil, RenderStats{}, err
	}

	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	numChunks := (count + chunkSize - 1) / chunkSize

	out := make([]core.Vec3, count)
	pool := NewWorkerPool(in, opts.Progress, opts.Workers, numChunks)

	logger.Debugf("rendering %d pixels from %d in %d chunks on %d workers",
		count, start, numChunks, pool.GetNumWorkers())

	started := time.Now()
	pool.Start()
	for k := 0; k < numChunks; k++ {
		lo := k * chunkSize
		hi := min(lo+chunkSize, count)
		pool.SubmitTask(ChunkTask{
			TaskID: k,
			Start:  start + lo,
			Out:    out[lo:hi],
			Seed:   opts.Seed + int64(k),
		})
	}

	stats := RenderStats{
		Start:   start,
		Pixels:  count,
		Samples: count * in.samples,
		Workers: pool.GetNumWorkers(),
		Chunks:  numChunks,
	}
	for k := 0; k < numChunks; k++ {
		result, ok := pool.GetResult()
		if !ok {
			break
		}
		stats.addChunk(result)
	}
	pool.Stop()
	stats.Duration = time.Since(started)

	logger.Infof("rendered %d pixels (%d samples) in %v", stats.Pixels, stats.Samples, stats.Duration)
	return out, stats, nil
}

// Render renders the whole image
func (in *Integrator) Render(opts RenderOptions) ([]core.Vec3, RenderStats, error) {
	return in.RenderRange(0, in.PixelCount(), opts)
}

package dispatch

import (
	"errors"
	"fmt"
	"io"
	"net"
	"sync/atomic"
	"time"

	"github.com/df07/go-distributed-raytracer/pkg/core"
	"github.com/df07/go-distributed-raytracer/pkg/renderer"
)

// progressInterval is how often a running job logs its progress
const progressInterval = 5 * time.Second

// Worker renders jobs received over connections, one job per connection
type Worker struct {
	Threads   int // Render goroutines; <= 0 uses renderer.DefaultParallelism
	ChunkSize int // Pixels per render task; <= 0 uses renderer.DefaultChunkSize

	served atomic.Int64
}

// NewWorker creates a worker rendering on the given number of goroutines
func NewWorker(threads int) *Worker {
	return &Worker{Threads: threads}
}

// Served returns the number of jobs completed by Serve
func (w *Worker) Served() int64 {
	return w.served.Load()
}

// Serve accepts connections one at a time until the listener is closed. A
// failing job is logged and its connection closed; serving continues.
func (w *Worker) Serve(listener net.Listener) error {
	logger.Noticef("worker listening on %s", listener.Addr())

	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				logger.Notice("listener closed, worker exiting")
				return nil
			}
			return fmt.Errorf("dispatch: accept: %w", err)
		}

		remote := conn.RemoteAddr()
		stats, err := w.HandleConn(conn)
		conn.Close()
		if err != nil {
			logger.Errorf("job from %v failed: %v", remote, err)
			continue
		}

		w.served.Add(1)
		logger.Noticef("job from %v: rendered [%d, %d) in %v (%.0f samples/s)",
			remote, stats.Start, stats.Start+stats.Pixels, stats.Duration, stats.SamplesPerSecond())
	}
}

// HandleConn reads one job, renders its range and writes back the pixels
func (w *Worker) HandleConn(conn io.ReadWriter) (renderer.RenderStats, error) {
	payload, err := ReadFrame(conn)
	if err != nil {
		return renderer.RenderStats{}, err
	}

	job, err := DecodeJob(payload)
	if err != nil {
		return renderer.RenderStats{}, err
	}
	logger.Debugf("received %d byte job: %dx%d, %d samples, range [%d, %d)",
		len(payload), job.Width, job.Height, job.Samples, job.Start, job.Start+job.Count)

	pixels, stats, err := w.Render(job)
	if err != nil {
		return stats, err
	}

	reply, err := EncodeBuffer(pixels)
	if err != nil {
		return stats, err
	}
	if _, err := WriteFrame(conn, reply); err != nil {
		return stats, err
	}
	return stats, nil
}

// Render renders a decoded job locally
func (w *Worker) Render(job RenderJob) ([]core.Vec3, renderer.RenderStats, error) {
	if err := job.Validate(); err != nil {
		return nil, renderer.RenderStats{}, err
	}
	if err := job.Scene.EnsureIndex(); err != nil {
		return nil, renderer.RenderStats{}, fmt.Errorf("%w: %v", ErrInvalidJob, err)
	}

	camera := job.Camera
	integrator, err := renderer.NewIntegrator(job.Scene, &camera, job.Width, job.Height, job.Samples)
	if err != nil {
		return nil, renderer.RenderStats{}, fmt.Errorf("%w: %v", ErrInvalidJob, err)
	}

	progress := renderer.NewProgress(job.Count)
	stop := progress.Report(logger, progressInterval)
	defer stop()

	return integrator.RenderRange(job.Start, job.Count, renderer.RenderOptions{
		Workers:   w.Threads,
		ChunkSize: w.ChunkSize,
		Seed:      job.Seed,
		Progress:  progress,
	})
}

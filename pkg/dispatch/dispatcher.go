package dispatch

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/df07/go-distributed-raytracer/pkg/core"
	"github.com/df07/go-distributed-raytracer/pkg/log"
)

var logger = log.New("dispatch")

// WorkerStats records one worker's share of a dispatched frame
type WorkerStats struct {
	Address       string
	Range         Range
	BytesSent     int64
	BytesReceived int64
	Duration      time.Duration
	Err           error
}

// Dispatcher sends render jobs to remote workers and composites the results
type Dispatcher struct {
	// Dial opens a connection to a worker; defaults to net.Dial
	Dial func(network, address string) (net.Conn, error)
}

// NewDispatcher creates a dispatcher that dials workers over TCP
func NewDispatcher() *Dispatcher {
	return &Dispatcher{Dial: net.Dial}
}

// Dispatch splits the job's image across workers, one connection each, and
// returns the composited width*height buffer. The job's own Start and Count
// are ignored. Any worker failure fails the whole frame.
func (d *Dispatcher) Dispatch(job RenderJob, workers []string) ([]core.Vec3, []WorkerStats, error) {
	if len(workers) == 0 {
		return nil, nil, ErrNoWorkers
	}

	total := job.Width * job.Height
	ranges, err := Partition(total, len(workers))
	if err != nil {
		return nil, nil, err
	}
	if err := job.WithRange(Range{}).Validate(); err != nil {
		return nil, nil, err
	}
	if covered := ranges[len(ranges)-1].End(); covered < total {
		logger.Warningf("%d trailing pixels are not assigned to any worker", total-covered)
	}

	stats := make([]WorkerStats, len(workers))
	results := make([][]core.Vec3, len(workers))

	var wg sync.WaitGroup
	for i, address := range workers {
		wg.Add(1)
		go func(i int, address string) {
			defer wg.Done()
			results[i], stats[i] = d.run(job.WithRange(ranges[i]), address)
		}(i, address)
	}
	wg.Wait()

	var errs []error
	for _, s := range stats {
		if s.Err != nil {
			errs = append(errs, fmt.Errorf("worker %s: %w", s.Address, s.Err))
		}
	}
	if len(errs) > 0 {
		return nil, stats, errors.Join(errs...)
	}

	buffer := make([]core.Vec3, total)
	for i, r := range ranges {
		copy(buffer[r.Start:r.End()], results[i])
	}
	return buffer, stats, nil
}

// run sends one job and waits for its pixels
func (d *Dispatcher) run(job RenderJob, address string) ([]core.Vec3, WorkerStats) {
	stats := WorkerStats{
		Address: address,
		Range:   Range{Start: job.Start, Count: job.Count},
	}
	started := time.Now()

	pixels, err := d.exchange(job, address, &stats)
	stats.Err = err
	stats.Duration = time.Since(started)
	if err != nil {
		logger.Errorf("worker %s failed: %v", address, err)
		return nil, stats
	}

	logger.Infof("worker %s rendered [%d, %d) in %v", address, job.Start, job.Start+job.Count, stats.Duration)
	return pixels, stats
}

func (d *Dispatcher) exchange(job RenderJob, address string, stats *WorkerStats) ([]core.Vec3, error) {
	dial := d.Dial
	if dial == nil {
		dial = net.Dial
	}

	conn, err := dial("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	payload, err := EncodeJob(job)
	if err != nil {
		return nil, err
	}
	logger.Debugf("sending %d byte job to %s", len(payload), address)

	sent, err := WriteFrame(conn, payload)
	stats.BytesSent = sent
	if err != nil {
		return nil, err
	}

	reply, err := ReadFrame(conn)
	if err != nil {
		return nil, err
	}
	stats.BytesReceived = int64(HeaderSize + len(reply))

	pixels, err := DecodeBuffer(reply)
	if err != nil {
		return nil, err
	}
	if len(pixels) != job.Count {
		return nil, fmt.Errorf("%w: expected %d pixels, got %d", ErrShortBuffer, job.Count, len(pixels))
	}
	return pixels, nil
}

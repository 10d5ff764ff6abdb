package renderer

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/df07/go-distributed-raytracer/pkg/log"
)

// Progress counts finished pixels. It is the only state render goroutines
// share for writing.
type Progress struct {
	total int64
	done  atomic.Int64
}

// NewProgress creates a counter for total pixels
func NewProgress(total int) *Progress {
	return &Progress{total: int64(total)}
}

// Add records n finished pixels and returns the new count
func (p *Progress) Add(n int) int64 {
	return p.done.Add(int64(n))
}

// Done returns the finished pixel count
func (p *Progress) Done() int64 {
	return p.done.Load()
}

// Total returns the expected pixel count
func (p *Progress) Total() int64 {
	return p.total
}

// Fraction returns Done / Total in [0, 1]
func (p *Progress) Fraction() float64 {
	if p.total <= 0 {
		return 1
	}
	return min(1, float64(p.Done())/float64(p.total))
}

// Report logs the progress every interval until the returned stop function
// is called. Stop blocks until the reporter has exited.
func (p *Progress) Report(logger log.Logger, interval time.Duration) (stop func()) {
	quit := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				logger.Infof("progress: %d/%d pixels (%.1f%%)", p.Done(), p.Total(), p.Fraction()*100)
			case <-quit:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(quit)
			wg.Wait()
		})
	}
}

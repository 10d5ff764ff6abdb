package renderer

import (
	"math/rand"
	"sync"
	"time"

	"github.com/df07/go-distributed-raytracer/pkg/core"
)

// ChunkTask is a contiguous run of pixels rendered by one worker
type ChunkTask struct {
	TaskID int         // For deterministic ordering
	Start  int         // First pixel index
	Out    []core.Vec3 // Destination slots, one per pixel
	Seed   int64       // Seeds the chunk's own random source
}

// ChunkResult reports a finished chunk
type ChunkResult struct {
	TaskID   int
	WorkerID int
	Pixels   int
	Duration time.Duration
}

// WorkerPool renders chunks in parallel. Workers only read the integrator's
// scene and write their own chunk's slots.
type WorkerPool struct {
	taskQueue   chan ChunkTask
	resultQueue chan ChunkResult
	workers     []*Worker
	numWorkers  int
	wg          sync.WaitGroup
}

// Worker handles individual chunk tasks
type Worker struct {
	ID          int
	integrator  *Integrator
	progress    *Progress
	taskQueue   chan ChunkTask
	resultQueue chan ChunkResult
}

// NewWorkerPool creates a pool sized for maxTasks queued chunks. A
// non-positive numWorkers uses DefaultParallelism.
func NewWorkerPool(integrator *Integrator, progress *Progress, numWorkers, maxTasks int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = DefaultParallelism()
	}
	if maxTasks < 1 {
		maxTasks = 1
	}

	wp := &WorkerPool{
		taskQueue:   make(chan ChunkTask, maxTasks),
		resultQueue: make(chan ChunkResult, maxTasks),
		numWorkers:  numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		wp.workers = append(wp.workers, &Worker{
			ID:          i,
			integrator:  integrator,
			progress:    progress,
			taskQueue:   wp.taskQueue,
			resultQueue: wp.resultQueue,
		})
	}

	return wp
}

// Start begins all workers
func (wp *WorkerPool) Start() {
	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(&wp.wg)
	}
}

// Stop waits for queued tasks to drain and shuts down all workers
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
}

// SubmitTask queues a chunk
func (wp *WorkerPool) SubmitTask(task ChunkTask) {
	wp.taskQueue <- task
}

// GetResult retrieves a completed chunk result
func (wp *WorkerPool) GetResult() (ChunkResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

func (w *Worker) run(wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		started := time.Now()
		random := rand.New(rand.NewSource(task.Seed))
		w.integrator.RenderChunk(task.Start, task.Out, random)

		// One atomic add per chunk
		if w.progress != nil {
			w.progress.Add(len(task.Out))
		}

		w.resultQueue <- ChunkResult{
			TaskID:   task.TaskID,
			WorkerID: w.ID,
			Pixels:   len(task.Out),
			Duration: time.Since(started),
		}
	}
}

package renderer

import "time"

// RenderStats contains statistics about a rendered range
type RenderStats struct {
	Start    int           // First pixel index
	Pixels   int           // Pixels rendered
	Samples  int           // Camera rays fired
	Workers  int           // Goroutines used
	Chunks   int           // Tasks submitted
	Duration time.Duration // Wall-clock time

	// Per-worker busy time and pixel counts, indexed by worker ID
	WorkerPixels []int
	WorkerBusy   []time.Duration
}

func (s *RenderStats) addChunk(result ChunkResult) {
	if len(s.WorkerPixels) < s.Workers {
		s.WorkerPixels = make([]int, s.Workers)
		s.WorkerBusy = make([]time.Duration, s.Workers)
	}
	s.WorkerPixels[result.WorkerID] += result.Pixels
	s.WorkerBusy[result.WorkerID] += result.Duration
}

// SamplesPerSecond returns the sampling throughput
func (s RenderStats) SamplesPerSecond() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.Samples) / s.Duration.Seconds()
}

// Merge combines stats of disjoint ranges rendered one after another
func (s RenderStats) Merge(other RenderStats) RenderStats {
	merged := RenderStats{
		Start:    min(s.Start, other.Start),
		Pixels:   s.Pixels + other.Pixels,
		Samples:  s.Samples + other.Samples,
		Workers:  max(s.Workers, other.Workers),
		Chunks:   s.Chunks + other.Chunks,
		Duration: s.Duration + other.Duration,
	}
	if s.Pixels == 0 {
		merged.Start = other.Start
	} else if other.Pixels == 0 {
		merged.Start = s.Start
	}
	return merged
}

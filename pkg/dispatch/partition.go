package dispatch

import "fmt"

// Range is a contiguous run of pixel indices
type Range struct {
	Start int
	Count int
}

// End returns one past the last pixel index
func (r Range) End() int {
	return r.Start + r.Count
}

// Partition splits total pixels into n equal contiguous ranges. The last
// total % n pixels are not covered.
func Partition(total, n int) ([]Range, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: cannot split into %d ranges", ErrNoWorkers, n)
	}
	if total < 0 {
		return nil, fmt.Errorf("%w: %d pixels", ErrInvalidJob, total)
	}

	count := total / n
	ranges := make([]Range, n)
	for i := range ranges {
		ranges[i] = Range{Start: i * count, Count: count}
	}
	return ranges, nil
}

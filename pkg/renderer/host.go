package renderer

import (
	"runtime"

	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
)

// HostInfo describes the machine a render runs on
type HostInfo struct {
	CPUModel     string
	LogicalCores int
	TotalMemory  uint64 // Bytes, 0 if unknown
}

// DefaultParallelism returns the logical CPU count, falling back to the Go
// runtime's view when the host cannot be queried
func DefaultParallelism() int {
	if n, err := cpu.Counts(true); err == nil && n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// DescribeHost collects CPU and memory information. Missing details are left
// at their zero value.
func DescribeHost() HostInfo {
	info := HostInfo{
		CPUModel:     "unknown",
		LogicalCores: DefaultParallelism(),
	}

	if cpus, err := cpu.Info(); err == nil && len(cpus) > 0 && cpus[0].ModelName != "" {
		info.CPUModel = cpus[0].ModelName
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		info.TotalMemory = vm.Total
	}

	return info
}

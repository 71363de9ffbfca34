package main

import "runtime"

// Worker bounds. Conversions are CPU-bound apart from image downloads.
const (
	MinWorkers = 1
	MaxWorkers = 32
	autoMax    = 8
	cpuDivisor = 2
)

// resolveWorkers returns the number of parallel conversions.
// An explicit count wins; otherwise half of GOMAXPROCS (set from the
// container quota by automaxprocs), clamped to MinWorkers..autoMax.
func resolveWorkers(workers int) int {
	if workers > 0 {
		return workers
	}
	n := runtime.GOMAXPROCS(0) / cpuDivisor
	return min(max(n, MinWorkers), autoMax)
}

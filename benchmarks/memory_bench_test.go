// Package benchmarks provides memory footprint benchmarks.
package benchmarks

import (
	"runtime"
	"testing"

	"github.com/bryanbartow/reactor"
)

func BenchmarkMemoryFootprint(b *testing.B) {
	numCores := 1000
	var before runtime.MemStats
	runtime.ReadMemStats(&before)
	cores := make([]*reactor.Core[gauge], numCores)
	for i := 0; i < numCores; i++ {
		cores[i] = reactor.New(gauge{})
	}
	runtime.GC()
	var after runtime.MemStats
	runtime.ReadMemStats(&after)
	bytesPerCore := (after.TotalAlloc - before.TotalAlloc) / uint64(numCores)
	b.ReportMetric(float64(bytesPerCore), "B/core")
	runtime.KeepAlive(cores)

	for i := 0; i < b.N; i++ {
		cores[i%numCores].Fire(tick{})
	}
	for _, c := range cores {
		drain(b, c)
	}
}

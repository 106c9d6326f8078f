package stats

import (
	"context"
	"runtime"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	BYTE = 1 << (10 * iota)
	KILOBYTE
	MEGABYTE
)

// EnableMemoryStatistics starts a goroutine that periodically logs the
// memory usage and the number of goroutines of the process, until ctx is
// done. A non positive interval disables it.
func EnableMemoryStatistics(ctx context.Context, interval time.Duration) bool {
	if interval <= 0 {
		return false
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				PrintMemoryStatistics()
			case <-ctx.Done():
				return
			}
		}
	}()
	return true
}

func toMegabytes(bytes uint64) float64 {
	return float64(bytes) / MEGABYTE
}

// PrintMemoryStatistics logs memory statistics read from the go runtime.
func PrintMemoryStatistics() {
	log.WithFields(MemoryStatistics()).Info("memory statistics")
}

// MemoryStatistics returns the current memory statistics as log fields.
func MemoryStatistics() log.Fields {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return log.Fields{
		"total_alloc_mb": toMegabytes(memStats.TotalAlloc),
		"heap_alloc_mb":  toMegabytes(memStats.HeapAlloc),
		"mallocs":        memStats.Mallocs,
		"frees":          memStats.Frees,
		"goroutines":     runtime.NumGoroutine(),
	}
}

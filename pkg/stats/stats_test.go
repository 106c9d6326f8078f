package stats_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/tdex-signer/pkg/stats"
)

func TestMemoryStatistics(t *testing.T) {
	fields := stats.MemoryStatistics()
	for _, key := range []string{
		"total_alloc_mb", "heap_alloc_mb", "mallocs", "frees", "goroutines",
	} {
		require.Contains(t, fields, key)
	}
	require.Greater(t, fields["goroutines"], 0)
}

func TestEnableMemoryStatistics(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.False(t, stats.EnableMemoryStatistics(ctx, 0))
	require.True(t, stats.EnableMemoryStatistics(ctx, 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)
}

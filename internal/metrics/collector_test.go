package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorRecordsTimings(t *testing.T) {
	c := NewCollector()

	c.RecordTiming(OpClone, 100*time.Millisecond)
	c.RecordTiming(OpClone, 300*time.Millisecond)
	c.RecordFailure(OpClone, 200*time.Millisecond)

	snap := c.Snapshot()
	require.NotNil(t, snap.Clone)
	assert.Equal(t, int64(3), snap.Clone.Count)
	assert.Equal(t, int64(1), snap.Clone.Failures)
	assert.Equal(t, int64(600), snap.Clone.TotalTimeMs)
	assert.Equal(t, int64(100), snap.Clone.MinTimeMs)
	assert.Equal(t, int64(300), snap.Clone.MaxTimeMs)
	assert.InDelta(t, 200.0, snap.Clone.AvgTimeMs, 0.001)
}

func TestSnapshotOmitsUnusedOperations(t *testing.T) {
	c := NewCollector()
	c.RecordTiming(OpSummarize, time.Millisecond)

	snap := c.Snapshot()
	assert.NotNil(t, snap.Summarize)
	assert.Nil(t, snap.Clone)
	assert.Nil(t, snap.Upload)
	assert.Nil(t, snap.Jobs)
	assert.GreaterOrEqual(t, snap.UptimeSeconds, 0.0)
}

func TestCollectorConcurrentUse(t *testing.T) {
	c := NewCollector()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.RecordTiming(OpJob, time.Millisecond)
				_ = c.Snapshot()
			}
		}()
	}
	wg.Wait()

	snap := c.Snapshot()
	require.NotNil(t, snap.Jobs)
	assert.Equal(t, int64(1000), snap.Jobs.Count)
}

package stats

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollector(t *testing.T) {
	c := NewCollector()

	snapshot := c.Snapshot()
	assert.Zero(t, snapshot.TotalRequests)
	assert.Zero(t, snapshot.LastActivityTs)
	assert.Greater(t, snapshot.StartedTs, int64(0))

	c.RecordRequest()
	c.RecordRequest()
	c.RecordGraphSession()
	c.RecordAIQuery()

	snapshot = c.Snapshot()
	assert.Equal(t, int64(2), snapshot.TotalRequests)
	assert.Equal(t, int64(1), snapshot.GraphSessions)
	assert.Equal(t, int64(1), snapshot.AIQueries)
	assert.Greater(t, snapshot.LastActivityTs, int64(0))
}

func TestCollectorConcurrent(t *testing.T) {
	c := NewCollector()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.RecordRequest()
			c.RecordAIQuery()
		}()
	}
	wg.Wait()

	snapshot := c.Snapshot()
	assert.Equal(t, int64(50), snapshot.TotalRequests)
	assert.Equal(t, int64(50), snapshot.AIQueries)
}

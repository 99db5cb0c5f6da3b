package projects

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLister struct {
	calls    atomic.Int32
	projects []Project
}

func (f *fakeLister) ListByUser(ctx context.Context, userID string) ([]Project, error) {
	f.calls.Add(1)
	return f.projects, nil
}

func setupSummaryCache(t *testing.T, lister Lister, delay time.Duration) (*SummaryCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewSummaryCache(client, lister, delay), mr
}

func glassProject(t *testing.T, id string, widthMM, heightMM, qty float64) Project {
	t.Helper()
	data, err := json.Marshal(map[string]any{
		"glasses": []map[string]any{
			{"width": widthMM, "height": heightMM, "quantity": qty},
		},
	})
	require.NoError(t, err)
	return Project{ID: id, Payload: data}
}

func TestSummaryCache_GetComputesOnMiss(t *testing.T) {
	lister := &fakeLister{projects: []Project{
		glassProject(t, "p1", 1000, 2000, 3),
		glassProject(t, "p2", 500, 1000, 2),
	}}
	cache, _ := setupSummaryCache(t, lister, time.Hour)

	s, err := cache.Get(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, 2, s.ProjectCount)
	assert.InDelta(t, 7.0, s.TotalGlassArea, 1e-9)
	assert.Equal(t, int32(1), lister.calls.Load())
}

func TestSummaryCache_GetServesFromCache(t *testing.T) {
	lister := &fakeLister{projects: []Project{glassProject(t, "p1", 1000, 1000, 1)}}
	cache, _ := setupSummaryCache(t, lister, time.Hour)

	_, err := cache.Get(context.Background(), "u1")
	require.NoError(t, err)
	_, err = cache.Get(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, int32(1), lister.calls.Load())
}

func TestSummaryCache_SkipsMalformedPayloads(t *testing.T) {
	lister := &fakeLister{projects: []Project{
		{ID: "p1", Payload: []byte(`{broken`)},
		glassProject(t, "p2", 1000, 1000, 1),
	}}
	cache, _ := setupSummaryCache(t, lister, time.Hour)

	s, err := cache.Get(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, 2, s.ProjectCount)
	assert.InDelta(t, 1.0, s.TotalGlassArea, 1e-9)
}

func TestSummaryCache_ScheduleRefreshDebounces(t *testing.T) {
	lister := &fakeLister{}
	cache, _ := setupSummaryCache(t, lister, 50*time.Millisecond)

	// burst of saves: only the trailing one should recompute
	for i := 0; i < 5; i++ {
		cache.ScheduleRefresh("u1")
		time.Sleep(5 * time.Millisecond)
	}

	assert.Eventually(t, func() bool {
		return lister.calls.Load() == 1
	}, time.Second, 10*time.Millisecond)

	// stays at one: no further refresh without a new trigger
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), lister.calls.Load())
}

func TestSummaryCache_EvictsIdleDebouncers(t *testing.T) {
	lister := &fakeLister{}
	cache, _ := setupSummaryCache(t, lister, 10*time.Millisecond)

	cache.ScheduleRefresh("u1")
	cache.ScheduleRefresh("u2")

	assert.Eventually(t, func() bool {
		return lister.calls.Load() == 2
	}, time.Second, 10*time.Millisecond)

	cache.evictIdle(0)

	cache.mu.Lock()
	remaining := len(cache.debouncers)
	cache.mu.Unlock()
	assert.Zero(t, remaining)

	// eviction must not break later bursts for the same user
	cache.ScheduleRefresh("u1")
	assert.Eventually(t, func() bool {
		return lister.calls.Load() == 3
	}, time.Second, 10*time.Millisecond)
}

func TestSummaryCache_EvictKeepsRecentlyActiveUsers(t *testing.T) {
	lister := &fakeLister{}
	cache, _ := setupSummaryCache(t, lister, time.Hour)

	cache.ScheduleRefresh("u1")
	cache.evictIdle(time.Minute)

	cache.mu.Lock()
	_, ok := cache.debouncers["u1"]
	cache.mu.Unlock()
	assert.True(t, ok, "recently triggered debouncer must survive eviction")
}

func TestSummaryCache_Invalidate(t *testing.T) {
	lister := &fakeLister{}
	cache, mr := setupSummaryCache(t, lister, time.Hour)

	_, err := cache.Get(context.Background(), "u1")
	require.NoError(t, err)
	require.True(t, mr.Exists(summaryKeyPrefix+"u1"))

	require.NoError(t, cache.Invalidate(context.Background(), "u1"))
	assert.False(t, mr.Exists(summaryKeyPrefix+"u1"))
}

package projects

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/filmcut/filmcut-backend/internal/debounce"
)

const (
	summaryKeyPrefix = "filmcut:user:summary:" // filmcut:user:summary:{user_id}
	summaryTTL       = 7 * 24 * time.Hour
)

// Summary aggregates a user's projects for the dashboard header.
type Summary struct {
	ProjectCount   int       `json:"project_count"`
	TotalGlassArea float64   `json:"total_glass_area"`
	TotalFilmArea  float64   `json:"total_film_area"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// SummaryCache keeps per-user summaries in Redis. Saves and deletes arrive in
// bursts (save-and-new, repeated saves while editing), so refreshes are
// debounced per user: only the trailing write in a burst triggers a
// recompute, and that trailing write always does. Debouncers for idle users
// are pruned so the map does not grow with every user ever seen.
type SummaryCache struct {
	client *redis.Client
	repo   Lister
	delay  time.Duration

	mu         sync.Mutex
	debouncers map[string]*summaryDebouncer
}

type summaryDebouncer struct {
	d        *debounce.Debouncer
	lastSeen time.Time
}

// Lister is the slice of the project store the summary needs.
type Lister interface {
	ListByUser(ctx context.Context, userID string) ([]Project, error)
}

func NewSummaryCache(client *redis.Client, repo Lister, delay time.Duration) *SummaryCache {
	if delay <= 0 {
		delay = debounce.DefaultDelay
	}
	c := &SummaryCache{
		client:     client,
		repo:       repo,
		delay:      delay,
		debouncers: make(map[string]*summaryDebouncer),
	}
	go c.prune()
	return c
}

// Get returns the cached summary, recomputing on a miss.
func (c *SummaryCache) Get(ctx context.Context, userID string) (*Summary, error) {
	data, err := c.client.Get(ctx, summaryKeyPrefix+userID).Bytes()
	if err == nil {
		var s Summary
		if err := json.Unmarshal(data, &s); err == nil {
			return &s, nil
		}
		// unreadable cache entry, fall through to recompute
	} else if !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("summary get: %w", err)
	}

	return c.Refresh(ctx, userID)
}

// Refresh recomputes the summary from the store and writes it back.
func (c *SummaryCache) Refresh(ctx context.Context, userID string) (*Summary, error) {
	recs, err := c.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("summary refresh: %w", err)
	}

	s := Summary{ProjectCount: len(recs), UpdatedAt: time.Now().UTC()}
	for i := range recs {
		p, err := ParsePayload(recs[i].Payload)
		if err != nil {
			continue
		}
		stats := ExtractStats(p)
		s.TotalGlassArea += stats.GlassArea
		s.TotalFilmArea += stats.FilmArea
	}

	data, err := json.Marshal(&s)
	if err != nil {
		return nil, fmt.Errorf("summary encode: %w", err)
	}
	if err := c.client.Set(ctx, summaryKeyPrefix+userID, data, summaryTTL).Err(); err != nil {
		return nil, fmt.Errorf("summary set: %w", err)
	}
	return &s, nil
}

// ScheduleRefresh queues a debounced recompute for the user. Safe to call on
// every save/delete.
func (c *SummaryCache) ScheduleRefresh(userID string) {
	c.mu.Lock()
	e, ok := c.debouncers[userID]
	if !ok {
		e = &summaryDebouncer{d: debounce.New(c.delay)}
		c.debouncers[userID] = e
	}
	e.lastSeen = time.Now()
	c.mu.Unlock()

	e.d.Trigger(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if _, err := c.Refresh(ctx, userID); err != nil {
			log.Printf("[summary] refresh user=%s: %v", userID, err)
		}
	})
}

func (c *SummaryCache) prune() {
	for range time.Tick(10 * time.Minute) {
		c.evictIdle(30 * time.Minute)
	}
}

// evictIdle drops debouncers that have not been triggered within maxIdle. An
// idle entry has no pending fire (lastSeen trails the debounce delay), so
// stopping it loses nothing.
func (c *SummaryCache) evictIdle(maxIdle time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for userID, e := range c.debouncers {
		if time.Since(e.lastSeen) > maxIdle {
			e.d.Stop()
			delete(c.debouncers, userID)
		}
	}
}

// Invalidate drops the cached summary without recomputing.
func (c *SummaryCache) Invalidate(ctx context.Context, userID string) error {
	return c.client.Del(ctx, summaryKeyPrefix+userID).Err()
}

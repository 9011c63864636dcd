package metrics

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/reviewpulse/reviewpulse/store"
)

// RecordSource is the record-fetch collaborator. The store facade satisfies
// it; tests substitute an in-memory implementation.
type RecordSource interface {
	ListReviewRequests(ctx context.Context, find *store.FindReviewRequest) ([]*store.ReviewRequest, error)
}

type snapshotKey struct {
	userID int32
	kind   RangeKind
}

type snapshot struct {
	result    *Result
	fetchedAt time.Time
}

// Collector computes dashboard snapshots and keeps the named-range ones warm
// in the background. Aggregation is cheap and idempotent, so a refresh that
// races a foreground request needs no coordination beyond last-writer-wins
// on the cached snapshot.
type Collector struct {
	source   RecordSource
	interval time.Duration

	mu        sync.RWMutex
	snapshots map[snapshotKey]*snapshot

	tickStop chan struct{}
}

// NewCollector creates a collector refreshing cached snapshots every interval.
func NewCollector(source RecordSource, interval time.Duration) *Collector {
	return &Collector{
		source:    source,
		interval:  interval,
		snapshots: make(map[snapshotKey]*snapshot),
		tickStop:  make(chan struct{}),
	}
}

// Start begins the periodic background refresh of every snapshot that has
// been requested at least once.
func (c *Collector) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.refresh(ctx)
			case <-ctx.Done():
				return
			case <-c.tickStop:
				return
			}
		}
	}()
}

// Stop stops the background refresh.
func (c *Collector) Stop() {
	select {
	case <-c.tickStop:
	default:
		close(c.tickStop)
	}
}

// Get returns the metrics for one account and range. Named ranges are served
// from the snapshot cache when fresh; custom ranges have an unbounded key
// space and always compute directly.
func (c *Collector) Get(ctx context.Context, userID int32, kind RangeKind, custom *Window, now time.Time) (*Result, error) {
	window, err := ResolveWindow(kind, custom, now)
	if err != nil {
		return nil, err
	}

	if kind == RangeCustom {
		return c.compute(ctx, userID, window)
	}

	key := snapshotKey{userID: userID, kind: kind}
	c.mu.RLock()
	cached, ok := c.snapshots[key]
	c.mu.RUnlock()
	if ok && now.Sub(cached.fetchedAt) < c.interval {
		return cached.result, nil
	}

	result, err := c.compute(ctx, userID, window)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.snapshots[key] = &snapshot{result: result, fetchedAt: now}
	c.mu.Unlock()
	return result, nil
}

// compute fetches the current and previous windows concurrently and feeds
// both into the aggregator. The two fetches are read-only and target
// disjoint time ranges, so they can run in parallel.
func (c *Collector) compute(ctx context.Context, userID int32, window Window) (*Result, error) {
	previousWindow := window.Previous()

	var current, previous []*store.ReviewRequest
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		current, err = c.fetch(ctx, userID, window)
		return err
	})
	g.Go(func() error {
		var err error
		previous, err = c.fetch(ctx, userID, previousWindow)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return Aggregate(current, previous, window), nil
}

func (c *Collector) fetch(ctx context.Context, userID int32, window Window) ([]*store.ReviewRequest, error) {
	after := window.From.Unix()
	before := window.To.Unix()
	return c.source.ListReviewRequests(ctx, &store.FindReviewRequest{
		CreatorID:       &userID,
		CreatedTsAfter:  &after,
		CreatedTsBefore: &before,
	})
}

// refresh recomputes every tracked snapshot. Failures keep the previous
// snapshot in place; the next tick retries.
func (c *Collector) refresh(ctx context.Context) {
	c.mu.RLock()
	keys := make([]snapshotKey, 0, len(c.snapshots))
	for key := range c.snapshots {
		keys = append(keys, key)
	}
	c.mu.RUnlock()

	now := time.Now()
	for _, key := range keys {
		window, err := ResolveWindow(key.kind, nil, now)
		if err != nil {
			continue
		}
		result, err := c.compute(ctx, key.userID, window)
		if err != nil {
			slog.Warn("failed to refresh metrics snapshot", "user", key.userID, "range", key.kind, "error", err)
			continue
		}
		c.mu.Lock()
		c.snapshots[key] = &snapshot{result: result, fetchedAt: now}
		c.mu.Unlock()
	}
}

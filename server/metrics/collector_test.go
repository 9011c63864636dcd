package metrics

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/reviewpulse/reviewpulse/store"
)

// fakeSource is an in-memory RecordSource that counts fetches and applies
// the creator and created-ts filters the way the datastore would.
type fakeSource struct {
	mu      sync.Mutex
	records []*store.ReviewRequest
	fetches int
}

func (f *fakeSource) ListReviewRequests(_ context.Context, find *store.FindReviewRequest) ([]*store.ReviewRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++

	matched := []*store.ReviewRequest{}
	for _, record := range f.records {
		if find.CreatorID != nil && record.CreatorID != *find.CreatorID {
			continue
		}
		if find.CreatedTsAfter != nil && record.CreatedTs < *find.CreatedTsAfter {
			continue
		}
		if find.CreatedTsBefore != nil && record.CreatedTs > *find.CreatedTsBefore {
			continue
		}
		matched = append(matched, record)
	}
	return matched, nil
}

func (f *fakeSource) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches
}

func TestCollectorGet(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	source := &fakeSource{
		records: []*store.ReviewRequest{
			{CreatorID: 1, CreatedTs: now.Add(-2 * time.Hour).Unix(), Status: store.ReviewRequestStatusCompleted},
			{CreatorID: 1, CreatedTs: now.Add(-30 * time.Hour).Unix(), Status: store.ReviewRequestStatusSent},
			{CreatorID: 2, CreatedTs: now.Add(-1 * time.Hour).Unix(), Status: store.ReviewRequestStatusSent},
		},
	}
	collector := NewCollector(source, 30*time.Second)

	result, err := collector.Get(context.Background(), 1, RangeLast24Hours, nil, now)
	require.NoError(t, err)
	require.Equal(t, 1, result.TotalSent)
	require.Equal(t, 1, result.TotalCompleted)
	// One record of user 1 falls into the preceding 24 hours.
	require.Equal(t, 1, result.PreviousPeriod.TotalSent)
}

func TestCollectorGetServesCachedSnapshot(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	source := &fakeSource{}
	collector := NewCollector(source, 30*time.Second)

	first, err := collector.Get(context.Background(), 1, RangeLast7Days, nil, now)
	require.NoError(t, err)
	fetchesAfterFirst := source.fetchCount()
	require.Equal(t, 2, fetchesAfterFirst)

	// Within the freshness interval the snapshot is reused.
	second, err := collector.Get(context.Background(), 1, RangeLast7Days, nil, now.Add(10*time.Second))
	require.NoError(t, err)
	require.Same(t, first, second)
	require.Equal(t, fetchesAfterFirst, source.fetchCount())

	// Past the interval it is recomputed.
	_, err = collector.Get(context.Background(), 1, RangeLast7Days, nil, now.Add(31*time.Second))
	require.NoError(t, err)
	require.Equal(t, fetchesAfterFirst+2, source.fetchCount())
}

func TestCollectorGetCustomRangeBypassesCache(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	source := &fakeSource{}
	collector := NewCollector(source, 30*time.Second)

	custom := &Window{
		From: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	}
	_, err := collector.Get(context.Background(), 1, RangeCustom, custom, now)
	require.NoError(t, err)
	_, err = collector.Get(context.Background(), 1, RangeCustom, custom, now)
	require.NoError(t, err)
	require.Equal(t, 4, source.fetchCount())
}

func TestCollectorGetInvalidCustomRange(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	collector := NewCollector(&fakeSource{}, 30*time.Second)

	custom := &Window{
		From: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	_, err := collector.Get(context.Background(), 1, RangeCustom, custom, now)
	require.ErrorIs(t, err, ErrInvalidWindow)
}

func TestCollectorStopIsIdempotent(t *testing.T) {
	collector := NewCollector(&fakeSource{}, time.Minute)
	collector.Start(context.Background())
	collector.Stop()
	collector.Stop()
}

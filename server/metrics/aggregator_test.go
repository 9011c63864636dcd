package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/reviewpulse/reviewpulse/store"
)

func newRecord(createdAt time.Time, status string) *store.ReviewRequest {
	return &store.ReviewRequest{
		CreatedTs: createdAt.Unix(),
		Status:    status,
	}
}

func withProvider(r *store.ReviewRequest, name string) *store.ReviewRequest {
	r.ProviderName = &name
	return r
}

func withPhysician(r *store.ReviewRequest, name string) *store.ReviewRequest {
	r.PhysicianName = &name
	return r
}

func withResponseTime(r *store.ReviewRequest, minutes float64) *store.ReviewRequest {
	r.ResponseTimeMinutes = &minutes
	return r
}

func twoDayWindow() Window {
	return Window{
		From: time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 3, 15, 23, 59, 59, 0, time.UTC),
	}
}

func TestAggregateCounts(t *testing.T) {
	window := twoDayWindow()
	day1 := time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)

	current := []*store.ReviewRequest{
		newRecord(day1, store.ReviewRequestStatusSent),
		newRecord(day1, store.ReviewRequestStatusClicked),
		withResponseTime(newRecord(day2, store.ReviewRequestStatusCompleted), 45),
	}

	result := Aggregate(current, nil, window)

	require.Equal(t, 3, result.TotalSent)
	// A completed request implies a click.
	require.Equal(t, 2, result.TotalClicked)
	require.Equal(t, 1, result.TotalCompleted)
	require.InDelta(t, 100.0/3, result.ResponseRate, 1e-9)
	require.InDelta(t, 45, result.AverageResponseTime, 1e-9)
}

func TestAggregateEmpty(t *testing.T) {
	window := twoDayWindow()
	result := Aggregate(nil, nil, window)

	require.Zero(t, result.TotalSent)
	require.Zero(t, result.ResponseRate)
	require.Zero(t, result.AverageResponseTime)
	// The chart axis is still seeded with every day of the window.
	require.Len(t, result.ChartData, 2)
	require.Equal(t, "2024-03-14", result.ChartData[0].Date)
	require.Equal(t, "2024-03-15", result.ChartData[1].Date)
	require.Empty(t, result.ProviderStats)
	require.Len(t, result.HourlyDistribution, 24)
}

func TestAggregateChartData(t *testing.T) {
	window := twoDayWindow()
	day1 := time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)

	current := []*store.ReviewRequest{
		newRecord(day1, store.ReviewRequestStatusSent),
		newRecord(day1, store.ReviewRequestStatusCompleted),
		newRecord(day2, store.ReviewRequestStatusClicked),
	}

	result := Aggregate(current, nil, window)
	require.Len(t, result.ChartData, 2)

	require.Equal(t, ChartPoint{Date: "2024-03-14", Sent: 2, Completed: 1}, result.ChartData[0])
	require.Equal(t, ChartPoint{Date: "2024-03-15", Sent: 1, Clicked: 1}, result.ChartData[1])
}

func TestAggregatePreviousPeriodSummary(t *testing.T) {
	window := twoDayWindow()
	previousDay := time.Date(2024, 3, 12, 9, 0, 0, 0, time.UTC)

	previous := []*store.ReviewRequest{
		newRecord(previousDay, store.ReviewRequestStatusSent),
		newRecord(previousDay, store.ReviewRequestStatusCompleted),
	}

	result := Aggregate(nil, previous, window)
	require.Equal(t, 2, result.PreviousPeriod.TotalSent)
	require.Equal(t, 1, result.PreviousPeriod.TotalCompleted)
	require.InDelta(t, 50, result.PreviousPeriod.ResponseRate, 1e-9)
}

func TestAggregateProviderStats(t *testing.T) {
	window := twoDayWindow()
	at := time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC)

	t.Run("groups by provider then physician then unknown", func(t *testing.T) {
		current := []*store.ReviewRequest{
			withProvider(newRecord(at, store.ReviewRequestStatusCompleted), "North Clinic"),
			withProvider(newRecord(at, store.ReviewRequestStatusSent), "North Clinic"),
			withPhysician(newRecord(at, store.ReviewRequestStatusSent), "Dr. Lee"),
			newRecord(at, store.ReviewRequestStatusSent),
		}

		stats := Aggregate(current, nil, window).ProviderStats
		require.Len(t, stats, 3)
		require.Equal(t, ProviderStat{Name: "North Clinic", Sent: 2, Completed: 1, ResponseRate: 50}, stats[0])

		names := []string{stats[1].Name, stats[2].Name}
		require.Contains(t, names, "Dr. Lee")
		require.Contains(t, names, "Unknown")
	})

	t.Run("ties keep first-appearance order", func(t *testing.T) {
		current := []*store.ReviewRequest{
			withProvider(newRecord(at, store.ReviewRequestStatusSent), "Alpha"),
			withProvider(newRecord(at, store.ReviewRequestStatusSent), "Beta"),
		}

		stats := Aggregate(current, nil, window).ProviderStats
		require.Equal(t, "Alpha", stats[0].Name)
		require.Equal(t, "Beta", stats[1].Name)
	})

	t.Run("leaderboard is capped at ten entries", func(t *testing.T) {
		current := []*store.ReviewRequest{}
		for i := 0; i < 15; i++ {
			name := fmt.Sprintf("Provider %02d", i)
			for j := 0; j <= i; j++ {
				current = append(current, withProvider(newRecord(at, store.ReviewRequestStatusCompleted), name))
			}
		}

		stats := Aggregate(current, nil, window).ProviderStats
		require.Len(t, stats, 10)
		require.Equal(t, "Provider 14", stats[0].Name)
		require.Equal(t, 15, stats[0].Completed)
		require.Equal(t, "Provider 05", stats[9].Name)
	})
}

func TestAggregateHourlyDistribution(t *testing.T) {
	window := twoDayWindow()

	current := []*store.ReviewRequest{
		newRecord(time.Date(2024, 3, 14, 9, 15, 0, 0, time.UTC), store.ReviewRequestStatusSent),
		newRecord(time.Date(2024, 3, 15, 9, 45, 0, 0, time.UTC), store.ReviewRequestStatusSent),
		newRecord(time.Date(2024, 3, 15, 23, 5, 0, 0, time.UTC), store.ReviewRequestStatusSent),
	}

	buckets := Aggregate(current, nil, window).HourlyDistribution
	require.Len(t, buckets, 24)
	for hour, bucket := range buckets {
		require.Equal(t, hour, bucket.Hour)
	}
	require.Equal(t, 2, buckets[9].Count)
	require.Equal(t, 1, buckets[23].Count)
	require.Zero(t, buckets[0].Count)
}

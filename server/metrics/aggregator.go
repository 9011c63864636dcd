package metrics

import (
	"sort"
	"time"

	"github.com/reviewpulse/reviewpulse/store"
)

const (
	// unknownProviderLabel groups records that carry no staff attribution.
	unknownProviderLabel = "Unknown"
	// providerStatsLimit caps the leaderboard length.
	providerStatsLimit = 10
	// dayFormat is the calendar-day key used by the chart series.
	dayFormat = "2006-01-02"
)

// Result is the full dashboard metrics structure for one window.
type Result struct {
	TotalSent           int     `json:"totalSent"`
	TotalClicked        int     `json:"totalClicked"`
	TotalCompleted      int     `json:"totalCompleted"`
	ResponseRate        float64 `json:"responseRate"`
	AverageResponseTime float64 `json:"averageResponseTime"`

	PreviousPeriod PeriodSummary `json:"previousPeriod"`

	ChartData          []ChartPoint   `json:"chartData"`
	ProviderStats      []ProviderStat `json:"providerStats"`
	HourlyDistribution []HourBucket   `json:"hourlyDistribution"`
}

// PeriodSummary is the reduced comparison view of the preceding period.
type PeriodSummary struct {
	TotalSent      int     `json:"totalSent"`
	TotalCompleted int     `json:"totalCompleted"`
	ResponseRate   float64 `json:"responseRate"`
}

// ChartPoint is one calendar day of the time series.
type ChartPoint struct {
	Date      string `json:"date"`
	Sent      int    `json:"sent"`
	Completed int    `json:"completed"`
	Clicked   int    `json:"clicked"`
}

// ProviderStat is one leaderboard entry.
type ProviderStat struct {
	Name         string  `json:"name"`
	Sent         int     `json:"sent"`
	Completed    int     `json:"completed"`
	ResponseRate float64 `json:"responseRate"`
}

// HourBucket is one slot of the hour-of-day histogram.
type HourBucket struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

// Aggregate computes the metrics for the current window, with the previous
// window's records reduced to a comparison summary. It is a pure function:
// records are never mutated, and identical inputs produce identical output.
// The window is assumed well-formed (see ResolveWindow); records are assumed
// to fall inside it, which the record fetcher guarantees.
func Aggregate(current, previous []*store.ReviewRequest, window Window) *Result {
	result := &Result{
		TotalSent:      len(current),
		PreviousPeriod: summarize(previous),
	}

	var responseTimeSum float64
	var responseTimeCount int
	for _, record := range current {
		switch record.Status {
		case store.ReviewRequestStatusCompleted:
			// Completion implies the link was clicked.
			result.TotalClicked++
			result.TotalCompleted++
		case store.ReviewRequestStatusClicked:
			result.TotalClicked++
		}
		if record.ResponseTimeMinutes != nil {
			responseTimeSum += *record.ResponseTimeMinutes
			responseTimeCount++
		}
	}
	result.ResponseRate = rate(result.TotalCompleted, result.TotalSent)
	if responseTimeCount > 0 {
		result.AverageResponseTime = responseTimeSum / float64(responseTimeCount)
	}

	result.ChartData = buildChartData(current, window)
	result.ProviderStats = buildProviderStats(current)
	result.HourlyDistribution = buildHourlyDistribution(current, window.From.Location())

	return result
}

// summarize runs the counting pass over the previous period's records.
func summarize(records []*store.ReviewRequest) PeriodSummary {
	summary := PeriodSummary{TotalSent: len(records)}
	for _, record := range records {
		if record.Status == store.ReviewRequestStatusCompleted {
			summary.TotalCompleted++
		}
	}
	summary.ResponseRate = rate(summary.TotalCompleted, summary.TotalSent)
	return summary
}

// buildChartData produces one point per calendar day from window.From to
// window.To inclusive, in chronological order. Days with no activity are
// kept as zero-valued points so consumers can render a continuous axis.
func buildChartData(records []*store.ReviewRequest, window Window) []ChartPoint {
	points := []ChartPoint{}
	index := map[string]int{}
	for day := startOfDay(window.From); !day.After(window.To); day = day.AddDate(0, 0, 1) {
		key := day.Format(dayFormat)
		index[key] = len(points)
		points = append(points, ChartPoint{Date: key})
	}

	loc := window.From.Location()
	for _, record := range records {
		key := time.Unix(record.CreatedTs, 0).In(loc).Format(dayFormat)
		i, ok := index[key]
		if !ok {
			continue
		}
		points[i].Sent++
		switch record.Status {
		case store.ReviewRequestStatusClicked:
			points[i].Clicked++
		case store.ReviewRequestStatusCompleted:
			points[i].Completed++
		}
	}
	return points
}

// buildProviderStats groups records by staff attribution and returns the top
// entries by completed count. The sort is stable, so providers tied on
// completed count keep their first-appearance order.
func buildProviderStats(records []*store.ReviewRequest) []ProviderStat {
	stats := []ProviderStat{}
	index := map[string]int{}
	for _, record := range records {
		name := unknownProviderLabel
		if record.ProviderName != nil && *record.ProviderName != "" {
			name = *record.ProviderName
		} else if record.PhysicianName != nil && *record.PhysicianName != "" {
			name = *record.PhysicianName
		}

		i, ok := index[name]
		if !ok {
			i = len(stats)
			index[name] = i
			stats = append(stats, ProviderStat{Name: name})
		}
		stats[i].Sent++
		if record.Status == store.ReviewRequestStatusCompleted {
			stats[i].Completed++
		}
	}

	for i := range stats {
		stats[i].ResponseRate = rate(stats[i].Completed, stats[i].Sent)
	}
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Completed > stats[j].Completed
	})
	if len(stats) > providerStatsLimit {
		stats = stats[:providerStatsLimit]
	}
	return stats
}

// buildHourlyDistribution counts records per hour-of-day across the whole
// window. Always 24 buckets, hours 0 through 23.
func buildHourlyDistribution(records []*store.ReviewRequest, loc *time.Location) []HourBucket {
	buckets := make([]HourBucket, 24)
	for hour := range buckets {
		buckets[hour].Hour = hour
	}
	for _, record := range records {
		hour := time.Unix(record.CreatedTs, 0).In(loc).Hour()
		buckets[hour].Count++
	}
	return buckets
}

// rate returns completed/sent as a percentage, 0 when sent is 0.
func rate(completed, sent int) float64 {
	if sent == 0 {
		return 0
	}
	return float64(completed) / float64(sent) * 100
}

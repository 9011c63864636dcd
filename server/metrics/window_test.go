package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestResolveWindowNamedRanges(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	endOfToday := time.Date(2024, 3, 15, 23, 59, 59, int(999*time.Millisecond), time.UTC)

	tests := []struct {
		kind RangeKind
		from time.Time
		to   time.Time
	}{
		{
			kind: RangeLast24Hours,
			from: now.Add(-24 * time.Hour),
			to:   now,
		},
		{
			kind: RangeLast7Days,
			from: time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC),
			to:   endOfToday,
		},
		{
			kind: RangeLast30Days,
			from: time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC),
			to:   endOfToday,
		},
		{
			kind: RangeLast90Days,
			from: time.Date(2023, 12, 16, 0, 0, 0, 0, time.UTC),
			to:   endOfToday,
		},
		{
			kind: RangeLastYear,
			from: time.Date(2023, 3, 16, 0, 0, 0, 0, time.UTC),
			to:   endOfToday,
		},
	}
	for _, test := range tests {
		t.Run(string(test.kind), func(t *testing.T) {
			window, err := ResolveWindow(test.kind, nil, now)
			require.NoError(t, err)
			require.True(t, window.From.Equal(test.from), "from: got %v, want %v", window.From, test.from)
			require.True(t, window.To.Equal(test.to), "to: got %v, want %v", window.To, test.to)
		})
	}
}

func TestResolveWindowUnknownKindFallsBackToSevenDays(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

	window, err := ResolveWindow(RangeKind("14d"), nil, now)
	require.NoError(t, err)

	expected, err := ResolveWindow(RangeLast7Days, nil, now)
	require.NoError(t, err)
	require.Equal(t, expected, window)
}

func TestResolveWindowCustom(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

	t.Run("both endpoints used verbatim", func(t *testing.T) {
		custom := &Window{
			From: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			To:   time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC),
		}
		window, err := ResolveWindow(RangeCustom, custom, now)
		require.NoError(t, err)
		require.Equal(t, *custom, window)
	})

	t.Run("missing endpoint falls back to thirty days", func(t *testing.T) {
		custom := &Window{From: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
		window, err := ResolveWindow(RangeCustom, custom, now)
		require.NoError(t, err)

		expected, err := ResolveWindow(RangeLast30Days, nil, now)
		require.NoError(t, err)
		require.Equal(t, expected, window)
	})

	t.Run("end before start is rejected", func(t *testing.T) {
		custom := &Window{
			From: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			To:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		}
		_, err := ResolveWindow(RangeCustom, custom, now)
		require.ErrorIs(t, err, ErrInvalidWindow)
	})
}

func TestWindowPrevious(t *testing.T) {
	window := Window{
		From: time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
	}
	previous := window.Previous()

	require.True(t, previous.To.Equal(window.From))
	require.Equal(t, window.To.Sub(window.From), previous.To.Sub(previous.From))
	require.True(t, previous.From.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
}

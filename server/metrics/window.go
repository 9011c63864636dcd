// Package metrics computes dashboard analytics over review-request records.
// Everything in here is pure computation over already-fetched rows; record
// fetching and rendering live elsewhere.
package metrics

import (
	"time"

	"github.com/pkg/errors"
)

// RangeKind names a dashboard time range.
type RangeKind string

const (
	RangeLast24Hours RangeKind = "24h"
	RangeLast7Days   RangeKind = "7d"
	RangeLast30Days  RangeKind = "30d"
	RangeLast90Days  RangeKind = "90d"
	RangeLastYear    RangeKind = "1y"
	RangeCustom      RangeKind = "custom"
)

// ErrInvalidWindow is returned for a custom range whose end precedes its start.
var ErrInvalidWindow = errors.New("window end precedes window start")

// Window is a concrete [From, To] instant range scoping a metrics query.
type Window struct {
	From time.Time
	To   time.Time
}

// Previous returns the contiguous window of equal duration immediately
// preceding w, used for period-over-period comparison.
func (w Window) Previous() Window {
	duration := w.To.Sub(w.From)
	return Window{
		From: w.From.Add(-duration),
		To:   w.From,
	}
}

// Validate rejects malformed windows.
func (w Window) Validate() error {
	if w.To.Before(w.From) {
		return ErrInvalidWindow
	}
	return nil
}

// ResolveWindow maps a named range to a concrete window relative to now.
//
// The 24h range is instant-based; the day ranges snap to local calendar
// days, ending at the last instant of today. A custom range is used verbatim
// when both endpoints are given, otherwise the 30-day default applies. An
// unknown token falls back to the 7-day default rather than failing, so a
// stale or mistyped range parameter still renders a dashboard.
func ResolveWindow(kind RangeKind, custom *Window, now time.Time) (Window, error) {
	today := endOfDay(now)

	var window Window
	switch kind {
	case RangeLast24Hours:
		window = Window{From: now.Add(-24 * time.Hour), To: now}
	case RangeLast7Days:
		window = Window{From: startOfDay(today.AddDate(0, 0, -7)), To: today}
	case RangeLast30Days:
		window = Window{From: startOfDay(today.AddDate(0, 0, -30)), To: today}
	case RangeLast90Days:
		window = Window{From: startOfDay(today.AddDate(0, 0, -90)), To: today}
	case RangeLastYear:
		window = Window{From: startOfDay(today.AddDate(0, 0, -365)), To: today}
	case RangeCustom:
		if custom != nil && !custom.From.IsZero() && !custom.To.IsZero() {
			window = *custom
		} else {
			window = Window{From: startOfDay(today.AddDate(0, 0, -30)), To: today}
		}
	default:
		window = Window{From: startOfDay(today.AddDate(0, 0, -7)), To: today}
	}

	if err := window.Validate(); err != nil {
		return Window{}, err
	}
	return window, nil
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

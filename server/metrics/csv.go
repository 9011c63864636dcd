package metrics

import (
	"strconv"
	"strings"
)

// CSV renders the export consumed by the dashboard's download button: a
// Metric,Value summary header followed by one date,sent row per chart point.
// Values are joined bare; dates and counts cannot contain commas, so no
// quoting is needed.
func (r *Result) CSV(kind RangeKind) string {
	rows := [][]string{
		{"Metric", "Value"},
		{"Total Sent", strconv.Itoa(r.TotalSent)},
		{"Period", string(kind)},
	}
	for _, point := range r.ChartData {
		rows = append(rows, []string{point.Date, strconv.Itoa(point.Sent)})
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, strings.Join(row, ","))
	}
	return strings.Join(lines, "\n")
}

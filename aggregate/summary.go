package aggregate

import (
	"github.com/eringen/visitordash/dataset"
)

// Summary holds everything one recomputation pass produces for the dashboard.
type Summary struct {
	Interval      DateInterval         `json:"interval"`
	Labels        []string             `json:"labels"`
	Daily         DailyVisitorTotals   `json:"daily"`
	Countries     CountryVisitorTotals `json:"countries"`
	Adults        []int                `json:"adults"`
	Children      []int                `json:"children"`
	TotalVisitors int                  `json:"total_visitors"`
	RecordCount   int                  `json:"record_count"`
}

// Compute runs the full pipeline over records for iv: bucket, filter, total.
func Compute(records []dataset.BookingRecord, iv DateInterval) Summary {
	buckets := BucketizeInterval(iv)
	filtered := FilterByInterval(records, iv)
	daily := TotalsPerDay(filtered, buckets)

	return Summary{
		Interval:      iv,
		Labels:        daily.Labels(),
		Daily:         daily,
		Countries:     TotalsPerCountry(filtered),
		Adults:        PerRecordCounts(filtered, Adults),
		Children:      PerRecordCounts(filtered, Children),
		TotalVisitors: daily.Sum(),
		RecordCount:   len(filtered),
	}
}

// Series returns the sparkline sequence for field.
func (s Summary) Series(field Field) []int {
	if field == Children {
		return s.Children
	}
	return s.Adults
}

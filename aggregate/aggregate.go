package aggregate

import (
	"fmt"
	"iter"
	"strings"

	"github.com/eringen/visitordash/dataset"
)

// Field selects a per-record guest count for sparklines.
type Field string

const (
	Adults   Field = "adults"
	Children Field = "children"
)

// ParseField accepts "adults" or "children", ignoring case.
func ParseField(s string) (Field, error) {
	switch f := Field(strings.ToLower(strings.TrimSpace(s))); f {
	case Adults, Children:
		return f, nil
	}
	return "", fmt.Errorf("unknown field %q", s)
}

// FilterByInterval returns the records arriving within iv, keeping their
// relative order. Records whose arrival date cannot be resolved are dropped.
func FilterByInterval(records []dataset.BookingRecord, iv DateInterval) []dataset.BookingRecord {
	if iv.Inverted() {
		return []dataset.BookingRecord{}
	}
	out := make([]dataset.BookingRecord, 0)
	for _, r := range records {
		t, err := r.ArrivalDate()
		if err != nil {
			continue
		}
		if iv.Contains(t) {
			out = append(out, r)
		}
	}
	return out
}

// TotalsPerDay zero-fills every label, then adds each record's visitors to the
// bucket of its arrival date. Records falling outside the labels are ignored.
func TotalsPerDay(records []dataset.BookingRecord, dayLabels iter.Seq[string]) DailyVisitorTotals {
	totals := DailyVisitorTotals{}
	index := make(map[string]int)
	for label := range dayLabels {
		if _, dup := index[label]; dup {
			continue
		}
		index[label] = len(totals)
		totals = append(totals, DayTotal{Label: label})
	}
	for _, r := range records {
		t, err := r.ArrivalDate()
		if err != nil {
			continue
		}
		if i, ok := index[Label(t)]; ok {
			totals[i].Count += r.Visitors()
		}
	}
	return totals
}

// TotalsPerCountry sums visitors by country code in first-seen order.
func TotalsPerCountry(records []dataset.BookingRecord) CountryVisitorTotals {
	totals := newCountryTotals()
	for _, r := range records {
		totals.add(r.Country, r.Visitors())
	}
	return totals
}

// PerRecordCounts returns the selected guest count of every record in order.
func PerRecordCounts(records []dataset.BookingRecord, field Field) []int {
	out := make([]int, len(records))
	for i, r := range records {
		switch field {
		case Adults:
			out[i] = r.Adults
		case Children:
			out[i] = r.Children
		}
	}
	return out
}

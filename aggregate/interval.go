// Package aggregate turns a booking record set and a selected date range into
// the series the dashboard charts display. Every function here is pure.
package aggregate

import (
	"iter"
	"time"
)

// LabelLayout formats a day bucket as two-digit day plus abbreviated month, e.g. "01-Jul".
const LabelLayout = "02-Jan"

// DateLayout is the wire format for interval endpoints.
const DateLayout = "2006-01-02"

const secondsPerDay = 24 * 60 * 60

// DateInterval is an inclusive range of calendar days.
type DateInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewInterval truncates start and end to their UTC calendar day.
func NewInterval(start, end time.Time) DateInterval {
	return DateInterval{Start: day(start), End: day(end)}
}

// ParseInterval parses two YYYY-MM-DD dates. An inverted pair is returned as is.
func ParseInterval(start, end string) (DateInterval, error) {
	s, err := time.Parse(DateLayout, start)
	if err != nil {
		return DateInterval{}, err
	}
	e, err := time.Parse(DateLayout, end)
	if err != nil {
		return DateInterval{}, err
	}
	return NewInterval(s, e), nil
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Inverted reports whether Start is after End.
func (iv DateInterval) Inverted() bool {
	return day(iv.Start).After(day(iv.End))
}

// Days returns the number of calendar days covered, or 0 when inverted.
func (iv DateInterval) Days() int {
	if iv.Inverted() {
		return 0
	}
	// Unix seconds rather than Sub: a Duration overflows past ~292 years.
	return int((day(iv.End).Unix()-day(iv.Start).Unix())/secondsPerDay) + 1
}

// Contains reports whether t falls on a day within the interval, both ends inclusive.
func (iv DateInterval) Contains(t time.Time) bool {
	d := day(t)
	return !d.Before(day(iv.Start)) && !d.After(day(iv.End))
}

// String renders the interval as "start to end".
func (iv DateInterval) String() string {
	return iv.Start.Format(DateLayout) + " to " + iv.End.Format(DateLayout)
}

// Label formats t as a day bucket label.
func Label(t time.Time) string {
	return t.Format(LabelLayout)
}

// BucketizeInterval yields one label per calendar day from Start to End inclusive.
// The sequence is lazy and can be ranged over any number of times. An inverted
// interval yields nothing.
func BucketizeInterval(iv DateInterval) iter.Seq[string] {
	start, end := day(iv.Start), day(iv.End)
	return func(yield func(string) bool) {
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			if !yield(Label(d)) {
				return
			}
		}
	}
}

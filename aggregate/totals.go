package aggregate

import (
	"encoding/json"
	"iter"
)

// DayTotal is the visitor count for one day bucket.
type DayTotal struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// DailyVisitorTotals is ordered chronologically, one entry per day of the interval.
type DailyVisitorTotals []DayTotal

// Get returns the count for label.
func (d DailyVisitorTotals) Get(label string) (int, bool) {
	for _, t := range d {
		if t.Label == label {
			return t.Count, true
		}
	}
	return 0, false
}

// Labels returns the bucket labels in order.
func (d DailyVisitorTotals) Labels() []string {
	out := make([]string, len(d))
	for i, t := range d {
		out[i] = t.Label
	}
	return out
}

// Counts returns the bucket counts in order.
func (d DailyVisitorTotals) Counts() []int {
	out := make([]int, len(d))
	for i, t := range d {
		out[i] = t.Count
	}
	return out
}

// Sum returns the total across all buckets.
func (d DailyVisitorTotals) Sum() int {
	n := 0
	for _, t := range d {
		n += t.Count
	}
	return n
}

// CountryTotal is the visitor count for one country code.
type CountryTotal struct {
	Country  string `json:"country"`
	Visitors int    `json:"visitors"`
}

// CountryVisitorTotals maps country code to visitor count and remembers the
// order in which countries were first seen.
type CountryVisitorTotals struct {
	keys   []string
	counts map[string]int
}

func newCountryTotals() CountryVisitorTotals {
	return CountryVisitorTotals{counts: make(map[string]int)}
}

func (c *CountryVisitorTotals) add(country string, n int) {
	if _, ok := c.counts[country]; !ok {
		c.keys = append(c.keys, country)
		c.counts[country] = 0
	}
	c.counts[country] += n
}

// Get returns the count for country.
func (c CountryVisitorTotals) Get(country string) (int, bool) {
	n, ok := c.counts[country]
	return n, ok
}

// Len returns the number of distinct countries.
func (c CountryVisitorTotals) Len() int {
	return len(c.keys)
}

// Keys returns country codes in first-seen order.
func (c CountryVisitorTotals) Keys() []string {
	return append([]string(nil), c.keys...)
}

// Counts returns the counts aligned with Keys.
func (c CountryVisitorTotals) Counts() []int {
	out := make([]int, len(c.keys))
	for i, k := range c.keys {
		out[i] = c.counts[k]
	}
	return out
}

// Sum returns the total across all countries.
func (c CountryVisitorTotals) Sum() int {
	n := 0
	for _, v := range c.counts {
		n += v
	}
	return n
}

// Map returns a copy of the totals as a plain map.
func (c CountryVisitorTotals) Map() map[string]int {
	out := make(map[string]int, len(c.counts))
	for k, v := range c.counts {
		out[k] = v
	}
	return out
}

// All yields country and count pairs in first-seen order.
func (c CountryVisitorTotals) All() iter.Seq2[string, int] {
	return func(yield func(string, int) bool) {
		for _, k := range c.keys {
			if !yield(k, c.counts[k]) {
				return
			}
		}
	}
}

// MarshalJSON encodes the totals as an ordered array so display order survives.
func (c CountryVisitorTotals) MarshalJSON() ([]byte, error) {
	out := make([]CountryTotal, 0, len(c.keys))
	for k, v := range c.All() {
		out = append(out, CountryTotal{Country: k, Visitors: v})
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the ordered array form written by MarshalJSON.
func (c *CountryVisitorTotals) UnmarshalJSON(b []byte) error {
	var in []CountryTotal
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	*c = newCountryTotals()
	for _, t := range in {
		c.add(t.Country, t.Visitors)
	}
	return nil
}

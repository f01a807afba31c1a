package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// jsonRecord mirrors one entry of a data.json export. Counts are lenient
// because spreadsheet exports write children as 0.0, null or "NA".
type jsonRecord struct {
	ArrivalYear       count  `json:"arrival_date_year"`
	ArrivalMonth      string `json:"arrival_date_month"`
	ArrivalDayOfMonth count  `json:"arrival_date_day_of_month"`
	Adults            count  `json:"adults"`
	Children          count  `json:"children"`
	Babies            count  `json:"babies"`
	Country           string `json:"country"`
}

// count is an integer that also accepts whole floats, null and "NA".
type count int

func (c *count) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*c = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		n, err := parseCount(s)
		if err != nil {
			return err
		}
		*c = count(n)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	if f != math.Trunc(f) {
		return fmt.Errorf("count %v is not a whole number", f)
	}
	*c = count(f)
	return nil
}

// parseCount parses a textual guest count; blank and NA mean zero.
func parseCount(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "NA") || strings.EqualFold(s, "null") {
		return 0, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, fmt.Errorf("invalid count %q", s)
	}
	return int(f), nil
}

// LoadJSON reads an array of booking objects keyed like the hotel_bookings export.
func LoadJSON(r io.Reader) ([]BookingRecord, error) {
	var raw []jsonRecord
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode bookings json: %w", err)
	}
	records := make([]BookingRecord, 0, len(raw))
	for i, jr := range raw {
		rec := BookingRecord{
			ArrivalYear:       int(jr.ArrivalYear),
			ArrivalMonth:      jr.ArrivalMonth,
			ArrivalDayOfMonth: int(jr.ArrivalDayOfMonth),
			Adults:            int(jr.Adults),
			Children:          int(jr.Children),
			Babies:            int(jr.Babies),
			Country:           strings.TrimSpace(jr.Country),
		}
		if err := rec.resolve(); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// csvColumns are the hotel_bookings.csv headers a record is built from.
var csvColumns = []string{
	"arrival_date_year",
	"arrival_date_month",
	"arrival_date_day_of_month",
	"adults",
	"children",
	"babies",
	"country",
}

// LoadCSV reads a CSV file whose header row names the booking columns.
// Extra columns are ignored.
func LoadCSV(r io.Reader) ([]BookingRecord, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read csv header: empty input")
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	cols := make([]int, len(csvColumns))
	for i, name := range csvColumns {
		pos, ok := index[name]
		if !ok {
			return nil, fmt.Errorf("csv header missing column %q", name)
		}
		cols[i] = pos
	}

	var records []BookingRecord
	line := 1
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}
		rec, err := csvRecord(row, cols)
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func csvRecord(row []string, cols []int) (BookingRecord, error) {
	field := func(i int) string {
		if cols[i] >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[cols[i]])
	}

	year, err := strconv.Atoi(field(0))
	if err != nil {
		return BookingRecord{}, fmt.Errorf("arrival_date_year: %w", err)
	}
	day, err := strconv.Atoi(field(2))
	if err != nil {
		return BookingRecord{}, fmt.Errorf("arrival_date_day_of_month: %w", err)
	}
	var counts [3]int
	for i := range counts {
		n, err := parseCount(field(3 + i))
		if err != nil {
			return BookingRecord{}, fmt.Errorf("%s: %w", csvColumns[3+i], err)
		}
		counts[i] = n
	}

	rec := BookingRecord{
		ArrivalYear:       year,
		ArrivalMonth:      field(1),
		ArrivalDayOfMonth: day,
		Adults:            counts[0],
		Children:          counts[1],
		Babies:            counts[2],
		Country:           field(6),
	}
	if err := rec.resolve(); err != nil {
		return BookingRecord{}, err
	}
	return rec, nil
}

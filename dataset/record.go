// Package dataset loads the hotel-booking records the dashboard aggregates.
//
// Records come from JSON, CSV or SQLite sources and are validated once at load
// time. After loading they are read-only: every aggregation pass reads a
// Snapshot and never mutates it.
package dataset

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrInvalidMonth is returned when an arrival month name cannot be resolved.
	ErrInvalidMonth = errors.New("invalid arrival month")
	// ErrInvalidDate is returned when the arrival fields do not form a calendar date.
	ErrInvalidDate = errors.New("invalid arrival date")
	// ErrNegativeCount is returned when a guest count is below zero.
	ErrNegativeCount = errors.New("negative guest count")
)

// BookingRecord is one booking entry with arrival date components and guest counts.
type BookingRecord struct {
	ArrivalYear       int    `json:"arrival_date_year"`
	ArrivalMonth      string `json:"arrival_date_month"`
	ArrivalDayOfMonth int    `json:"arrival_date_day_of_month"`
	Adults            int    `json:"adults"`
	Children          int    `json:"children"`
	Babies            int    `json:"babies"`
	Country           string `json:"country"`

	arrival time.Time // resolved once by resolve()
}

// NewRecord builds a record and resolves its arrival date eagerly.
func NewRecord(year int, month string, day, adults, children, babies int, country string) (BookingRecord, error) {
	r := BookingRecord{
		ArrivalYear:       year,
		ArrivalMonth:      month,
		ArrivalDayOfMonth: day,
		Adults:            adults,
		Children:          children,
		Babies:            babies,
		Country:           country,
	}
	if err := r.resolve(); err != nil {
		return BookingRecord{}, err
	}
	return r, nil
}

// ArrivalDate returns the arrival date at midnight UTC.
func (r BookingRecord) ArrivalDate() (time.Time, error) {
	if !r.arrival.IsZero() {
		return r.arrival, nil
	}
	return arrivalDate(r.ArrivalYear, r.ArrivalMonth, r.ArrivalDayOfMonth)
}

// Visitors returns the total number of guests on the booking.
func (r BookingRecord) Visitors() int {
	return r.Adults + r.Children + r.Babies
}

// resolve validates the record and memoizes its arrival date.
func (r *BookingRecord) resolve() error {
	if r.Adults < 0 || r.Children < 0 || r.Babies < 0 {
		return ErrNegativeCount
	}
	t, err := arrivalDate(r.ArrivalYear, r.ArrivalMonth, r.ArrivalDayOfMonth)
	if err != nil {
		return err
	}
	r.arrival = t
	return nil
}

func arrivalDate(year int, month string, day int) (time.Time, error) {
	m, err := ParseMonth(month)
	if err != nil {
		return time.Time{}, err
	}
	t := time.Date(year, m, day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (31-Jun becomes 01-Jul), so check it round-trips.
	if t.Year() != year || t.Month() != m || t.Day() != day {
		return time.Time{}, fmt.Errorf("%w: %d %s %d", ErrInvalidDate, year, month, day)
	}
	return t, nil
}

// ParseMonth resolves a full or three-letter English month name, ignoring case.
func ParseMonth(name string) (time.Month, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if len(n) >= 3 {
		for m := time.January; m <= time.December; m++ {
			full := strings.ToLower(m.String())
			if n == full || n == full[:3] {
				return m, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidMonth, name)
}

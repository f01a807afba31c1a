package dataset

import (
	"context"
	"errors"
	"slices"
	"sync/atomic"
	"time"
)

// Snapshot is an immutable view of the loaded records.
type Snapshot struct {
	Records    []BookingRecord
	Generation uint64
	LoadedAt   time.Time
}

// Dataset holds the current Snapshot and swaps it atomically on reload.
// Readers keep whatever snapshot they fetched for the whole aggregation pass.
type Dataset struct {
	paths   []string
	current atomic.Pointer[Snapshot]
	gen     atomic.Uint64
	now     func() time.Time
}

// New returns a Dataset that reloads from paths. It starts empty.
func New(paths ...string) *Dataset {
	d := &Dataset{paths: slices.Clone(paths), now: time.Now}
	d.current.Store(&Snapshot{LoadedAt: d.now()})
	return d
}

// FromRecords returns a Dataset seeded with records and no reload sources.
func FromRecords(records []BookingRecord) *Dataset {
	d := New()
	d.Replace(records)
	return d
}

// Paths returns the configured source paths.
func (d *Dataset) Paths() []string {
	return slices.Clone(d.paths)
}

// Snapshot returns the current snapshot.
func (d *Dataset) Snapshot() *Snapshot {
	return d.current.Load()
}

// Replace installs records as a new generation and returns the new snapshot.
func (d *Dataset) Replace(records []BookingRecord) *Snapshot {
	s := &Snapshot{
		Records:    slices.Clip(records),
		Generation: d.gen.Add(1),
		LoadedAt:   d.now(),
	}
	d.current.Store(s)
	return s
}

// Reload re-reads every configured path. On error the previous snapshot stays.
func (d *Dataset) Reload(ctx context.Context) (*Snapshot, error) {
	if len(d.paths) == 0 {
		return nil, errors.New("dataset has no source paths")
	}
	records, err := Load(ctx, d.paths...)
	if err != nil {
		return nil, err
	}
	return d.Replace(records), nil
}

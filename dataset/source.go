package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

// ErrUnsupportedSource is returned for a dataset path with an unknown extension.
var ErrUnsupportedSource = errors.New("unsupported dataset source")

// maxParallelLoads bounds how many sources are read at once.
const maxParallelLoads = 4

// Load reads every path concurrently and concatenates the records in argument order.
func Load(ctx context.Context, paths ...string) ([]BookingRecord, error) {
	parts := make([][]BookingRecord, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelLoads)
	for i, p := range paths {
		g.Go(func() error {
			recs, err := LoadFile(ctx, p)
			if err != nil {
				return err
			}
			parts[i] = recs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, p := range parts {
		total += len(p)
	}
	records := make([]BookingRecord, 0, total)
	for _, p := range parts {
		records = append(records, p...)
	}
	return records, nil
}

// LoadFile reads a single source, picking the decoder from its extension.
func LoadFile(ctx context.Context, path string) ([]BookingRecord, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return loadWith(path, LoadJSON)
	case ".csv":
		return loadWith(path, LoadCSV)
	case ".db", ".sqlite", ".sqlite3":
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		store, err := NewStore(path)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		defer store.Close()
		recs, err := store.ListBookings(ctx)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		return recs, nil
	default:
		return nil, fmt.Errorf("load %s: %w %q", path, ErrUnsupportedSource, ext)
	}
}

func loadWith(path string, decode func(io.Reader) ([]BookingRecord, error)) ([]BookingRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	defer f.Close()
	recs, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return recs, nil
}

package dataset

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatasetStartsEmpty(t *testing.T) {
	d := New("bookings.json")
	s := d.Snapshot()
	assert.Empty(t, s.Records)
	assert.Zero(t, s.Generation)
	assert.Equal(t, []string{"bookings.json"}, d.Paths())
}

func TestDatasetReplaceBumpsGeneration(t *testing.T) {
	recs, err := LoadJSON(strings.NewReader(sampleJSON))
	require.NoError(t, err)

	d := FromRecords(recs)
	first := d.Snapshot()
	assert.Equal(t, uint64(1), first.Generation)
	assert.Len(t, first.Records, 2)

	second := d.Replace(recs[:1])
	assert.Equal(t, uint64(2), second.Generation)
	assert.Len(t, first.Records, 2, "earlier snapshot must not change")
}

func TestDatasetReload(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "bookings.json")
	require.NoError(t, os.WriteFile(p, []byte(sampleJSON), 0o644))

	d := New(p)
	s, err := d.Reload(context.Background())
	require.NoError(t, err)
	assert.Len(t, s.Records, 2)
	assert.Equal(t, s, d.Snapshot())
}

func TestDatasetReloadKeepsSnapshotOnError(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "bookings.json")
	require.NoError(t, os.WriteFile(p, []byte(sampleJSON), 0o644))

	d := New(p)
	good, err := d.Reload(context.Background())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(p, []byte("{not json"), 0o644))
	_, err = d.Reload(context.Background())
	require.Error(t, err)
	assert.Same(t, good, d.Snapshot())
}

func TestDatasetReloadWithoutPaths(t *testing.T) {
	_, err := FromRecords(nil).Reload(context.Background())
	assert.Error(t, err)
}

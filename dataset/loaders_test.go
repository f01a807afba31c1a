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

const sampleJSON = `[
  {"hotel": "Resort Hotel", "arrival_date_year": 2015, "arrival_date_month": "July",
   "arrival_date_day_of_month": 1, "adults": 2, "children": 1.0, "babies": 0, "country": "PRT"},
  {"hotel": "City Hotel", "arrival_date_year": 2015, "arrival_date_month": "July",
   "arrival_date_day_of_month": 3, "adults": 1, "children": null, "babies": 0, "country": "GBR"}
]`

const sampleCSV = `hotel,is_canceled,lead_time,arrival_date_year,arrival_date_month,arrival_date_week_number,arrival_date_day_of_month,adults,children,babies,meal,country
Resort Hotel,0,342,2015,July,27,1,2,1,0,BB,PRT
City Hotel,0,7,2015,July,27,3,1,NA,0,BB,GBR
`

func TestLoadJSON(t *testing.T) {
	recs, err := LoadJSON(strings.NewReader(sampleJSON))
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, "PRT", recs[0].Country)
	assert.Equal(t, 3, recs[0].Visitors())
	assert.Equal(t, 0, recs[1].Children)
	assert.False(t, recs[1].arrival.IsZero(), "arrival date should be memoized at load")
}

func TestLoadJSONRejectsBadMonth(t *testing.T) {
	_, err := LoadJSON(strings.NewReader(`[{"arrival_date_year": 2015, "arrival_date_month": "Smarch",
		"arrival_date_day_of_month": 1, "adults": 1, "children": 0, "babies": 0, "country": "PRT"}]`))
	assert.ErrorIs(t, err, ErrInvalidMonth)
	assert.Contains(t, err.Error(), "record 0")
}

func TestLoadJSONRejectsFractionalCount(t *testing.T) {
	_, err := LoadJSON(strings.NewReader(`[{"arrival_date_year": 2015, "arrival_date_month": "July",
		"arrival_date_day_of_month": 1, "adults": 1.5, "children": 0, "babies": 0, "country": "PRT"}]`))
	assert.Error(t, err)
}

func TestLoadCSV(t *testing.T) {
	recs, err := LoadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, 2, recs[0].Adults)
	assert.Equal(t, 1, recs[0].Children)
	assert.Equal(t, 0, recs[1].Children)
	assert.Equal(t, "GBR", recs[1].Country)
}

func TestLoadCSVMissingColumn(t *testing.T) {
	_, err := LoadCSV(strings.NewReader("arrival_date_year,adults\n2015,2\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "arrival_date_month")
}

func TestLoadCSVReportsLine(t *testing.T) {
	input := "arrival_date_year,arrival_date_month,arrival_date_day_of_month,adults,children,babies,country\n" +
		"2015,July,1,2,0,0,PRT\n" +
		"2015,July,32,2,0,0,PRT\n"
	_, err := LoadCSV(strings.NewReader(input))
	assert.ErrorIs(t, err, ErrInvalidDate)
	assert.Contains(t, err.Error(), "line 3")
}

func TestLoadCSVEmpty(t *testing.T) {
	_, err := LoadCSV(strings.NewReader(""))
	assert.Error(t, err)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoadConcatenatesInArgumentOrder(t *testing.T) {
	dir := t.TempDir()
	csvPath := writeFile(t, dir, "bookings.csv", sampleCSV)
	jsonPath := writeFile(t, dir, "bookings.json", sampleJSON)

	recs, err := Load(context.Background(), csvPath, jsonPath)
	require.NoError(t, err)
	require.Len(t, recs, 4)
	assert.Equal(t, "PRT", recs[0].Country)
	assert.Equal(t, "GBR", recs[1].Country)
	assert.Equal(t, "PRT", recs[2].Country)
	assert.Equal(t, 0, recs[3].Children)
}

func TestLoadUnsupportedExtension(t *testing.T) {
	p := writeFile(t, t.TempDir(), "bookings.xlsx", "")
	_, err := Load(context.Background(), p)
	assert.ErrorIs(t, err, ErrUnsupportedSource)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadMissingDatabaseIsNotCreated(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nope.db")
	_, err := Load(context.Background(), p)
	assert.ErrorIs(t, err, os.ErrNotExist)
	_, statErr := os.Stat(p)
	assert.True(t, os.IsNotExist(statErr))
}

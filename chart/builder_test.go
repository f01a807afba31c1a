package chart

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/visitordash/aggregate"
	"github.com/eringen/visitordash/dataset"
)

func scenarioSummary(t *testing.T) aggregate.Summary {
	t.Helper()
	a, err := dataset.NewRecord(2015, "July", 1, 2, 1, 0, "PRT")
	require.NoError(t, err)
	b, err := dataset.NewRecord(2015, "July", 3, 1, 0, 0, "GBR")
	require.NoError(t, err)
	iv := aggregate.NewInterval(
		time.Date(2015, time.July, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2015, time.July, 9, 0, 0, 0, 0, time.UTC),
	)
	return aggregate.Compute([]dataset.BookingRecord{a, b}, iv)
}

func TestTimeSeries(t *testing.T) {
	cfg := TimeSeries(scenarioSummary(t).Daily)

	assert.Equal(t, "area", cfg.Type)
	assert.Equal(t, 350, cfg.Height)
	require.NotNil(t, cfg.Options.XAxis)
	assert.Len(t, cfg.Options.XAxis.Categories, 9)
	assert.Equal(t, "01-Jul", cfg.Options.XAxis.Categories[0])
	require.Len(t, cfg.Series, 1)
	assert.Equal(t, []int{3, 0, 1, 0, 0, 0, 0, 0, 0}, cfg.Series[0].Data)
	assert.Equal(t, []string{"#FF5733"}, cfg.Options.Colors)
	assert.True(t, cfg.Options.Chart.Zoom.Enabled)
}

func TestCountryBar(t *testing.T) {
	cfg := CountryBar(scenarioSummary(t).Countries)

	assert.Equal(t, "bar", cfg.Type)
	assert.Equal(t, "visitors-country", cfg.Options.Chart.ID)
	assert.Equal(t, []string{"PRT", "GBR"}, cfg.Options.XAxis.Categories)
	assert.Equal(t, []int{3, 1}, cfg.Series[0].Data)
}

func TestSparkline(t *testing.T) {
	cfg := Sparkline("Adult Visitors", []int{2, 1})

	assert.Equal(t, "line", cfg.Type)
	assert.Equal(t, 150, cfg.Height)
	assert.True(t, cfg.Options.Chart.Sparkline.Enabled)
	assert.Equal(t, "Adult Visitors", cfg.Options.Title.Text)
	assert.Empty(t, cfg.Series[0].Name)
}

func TestDashboardEmptySummaryEncodesArrays(t *testing.T) {
	set := Dashboard(aggregate.Summary{})
	b, err := json.Marshal(set)
	require.NoError(t, err)

	s := string(b)
	assert.Contains(t, s, `"categories":[]`)
	assert.Contains(t, s, `"data":[]`)
	assert.NotContains(t, s, "null")
}

func TestDashboardSparklineTitles(t *testing.T) {
	set := Dashboard(scenarioSummary(t))
	assert.Equal(t, "Adult Visitors", set.Adults.Options.Title.Text)
	assert.Equal(t, "Children Visitors", set.Children.Options.Title.Text)
	assert.Equal(t, []int{1, 0}, set.Children.Series[0].Data)
}

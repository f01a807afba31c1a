package aggregate

import (
	"math/rand/v2"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/visitordash/dataset"
)

func july(d int) time.Time {
	return time.Date(2015, time.July, d, 0, 0, 0, 0, time.UTC)
}

func mustRecord(t *testing.T, year int, month string, day, adults, children, babies int, country string) dataset.BookingRecord {
	t.Helper()
	r, err := dataset.NewRecord(year, month, day, adults, children, babies, country)
	require.NoError(t, err)
	return r
}

func sampleRecords(t *testing.T) []dataset.BookingRecord {
	return []dataset.BookingRecord{
		mustRecord(t, 2015, "July", 1, 2, 1, 0, "PRT"),
		mustRecord(t, 2015, "July", 3, 1, 0, 0, "GBR"),
	}
}

func collect(seq func(func(string) bool)) []string {
	var out []string
	for s := range seq {
		out = append(out, s)
	}
	return out
}

func TestBucketizeIntervalJuly(t *testing.T) {
	labels := collect(BucketizeInterval(NewInterval(july(1), july(9))))
	require.Len(t, labels, 9)
	assert.Equal(t, "01-Jul", labels[0])
	assert.Equal(t, "09-Jul", labels[8])
}

func TestBucketizeIntervalSingleDay(t *testing.T) {
	labels := collect(BucketizeInterval(NewInterval(july(1), july(1))))
	assert.Equal(t, []string{"01-Jul"}, labels)
}

func TestBucketizeIntervalInverted(t *testing.T) {
	labels := collect(BucketizeInterval(NewInterval(july(9), july(1))))
	assert.Empty(t, labels)
}

func TestBucketizeIntervalRestartable(t *testing.T) {
	seq := BucketizeInterval(NewInterval(july(1), july(4)))
	first := collect(seq)
	second := collect(seq)
	assert.Equal(t, first, second)
	assert.Len(t, first, 4)
}

func TestBucketizeIntervalStopsEarly(t *testing.T) {
	n := 0
	for range BucketizeInterval(NewInterval(july(1), july(31))) {
		n++
		if n == 3 {
			break
		}
	}
	assert.Equal(t, 3, n)
}

func TestBucketizeIntervalCrossesMonthAndLeapDay(t *testing.T) {
	iv := NewInterval(time.Date(2016, time.February, 27, 0, 0, 0, 0, time.UTC),
		time.Date(2016, time.March, 2, 0, 0, 0, 0, time.UTC))
	labels := collect(BucketizeInterval(iv))
	assert.Equal(t, []string{"27-Feb", "28-Feb", "29-Feb", "01-Mar", "02-Mar"}, labels)
	assert.Equal(t, 5, iv.Days())
}

func TestBucketizeIntervalProperties(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	base := time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 200; i++ {
		start := base.AddDate(0, 0, rng.IntN(700))
		end := start.AddDate(0, 0, rng.IntN(365))
		iv := NewInterval(start, end)

		labels := collect(BucketizeInterval(iv))
		require.Len(t, labels, iv.Days(), "interval %s", iv)

		seen := make(map[string]bool, len(labels))
		for j, l := range labels {
			require.False(t, seen[l], "duplicate label %s in %s", l, iv)
			seen[l] = true
			require.Equal(t, Label(start.AddDate(0, 0, j)), l)
		}
	}
}

func TestIntervalDays(t *testing.T) {
	assert.Equal(t, 9, NewInterval(july(1), july(9)).Days())
	assert.Equal(t, 1, NewInterval(july(5), july(5)).Days())
	assert.Equal(t, 0, NewInterval(july(9), july(1)).Days())
}

func TestIntervalDaysBeyondDurationRange(t *testing.T) {
	date := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

	// 400 Gregorian years hold exactly 146097 days.
	assert.Equal(t, 146097, NewInterval(date(2000, time.January, 1), date(2399, time.December, 31)).Days())
	assert.Equal(t, 3652059, NewInterval(date(1, time.January, 1), date(9999, time.December, 31)).Days())
}

func TestNewIntervalTruncatesTime(t *testing.T) {
	iv := NewInterval(july(1).Add(15*time.Hour), july(2).Add(time.Minute))
	assert.Equal(t, july(1), iv.Start)
	assert.Equal(t, july(2), iv.End)
	assert.True(t, iv.Contains(july(2).Add(23*time.Hour)))
}

func TestParseInterval(t *testing.T) {
	iv, err := ParseInterval("2015-07-01", "2015-07-09")
	require.NoError(t, err)
	assert.Equal(t, 9, iv.Days())

	iv, err = ParseInterval("2015-07-09", "2015-07-01")
	require.NoError(t, err)
	assert.True(t, iv.Inverted())

	_, err = ParseInterval("07/01/2015", "2015-07-09")
	assert.Error(t, err)
}

func TestFilterByInterval(t *testing.T) {
	records := append(sampleRecords(t),
		mustRecord(t, 2015, "June", 30, 1, 0, 0, "ESP"),
		mustRecord(t, 2015, "July", 9, 2, 0, 0, "FRA"),
		mustRecord(t, 2015, "July", 10, 2, 0, 0, "DEU"),
	)
	got := FilterByInterval(records, NewInterval(july(1), july(9)))

	countries := make([]string, len(got))
	for i, r := range got {
		countries[i] = r.Country
	}
	assert.Equal(t, []string{"PRT", "GBR", "FRA"}, countries)
}

func TestFilterByIntervalDoesNotMutateInput(t *testing.T) {
	records := sampleRecords(t)
	before := slices.Clone(records)
	_ = FilterByInterval(records, NewInterval(july(3), july(3)))
	assert.Equal(t, before, records)
}

func TestFilterByIntervalDropsUnresolvableRecords(t *testing.T) {
	records := []dataset.BookingRecord{
		{ArrivalYear: 2015, ArrivalMonth: "Julember", ArrivalDayOfMonth: 1, Adults: 2, Country: "PRT"},
		{ArrivalYear: 2015, ArrivalMonth: "July", ArrivalDayOfMonth: 2, Adults: 1, Country: "GBR"},
	}
	got := FilterByInterval(records, NewInterval(july(1), july(9)))
	require.Len(t, got, 1)
	assert.Equal(t, "GBR", got[0].Country)
}

func TestFilterByIntervalBoundProperty(t *testing.T) {
	records := randomRecords(t, rand.New(rand.NewPCG(3, 4)), 500)
	rng := rand.New(rand.NewPCG(5, 6))
	for i := 0; i < 50; i++ {
		start := july(1).AddDate(0, 0, rng.IntN(60)-30)
		iv := NewInterval(start, start.AddDate(0, 0, rng.IntN(40)))

		kept := FilterByInterval(records, iv)
		for _, r := range kept {
			d, err := r.ArrivalDate()
			require.NoError(t, err)
			require.True(t, iv.Contains(d))
		}
		excluded := 0
		for _, r := range records {
			d, _ := r.ArrivalDate()
			if !iv.Contains(d) {
				excluded++
			}
		}
		require.Equal(t, len(records), len(kept)+excluded)
	}
}

func TestTotalsPerDayScenario(t *testing.T) {
	iv := NewInterval(july(1), july(9))
	daily := TotalsPerDay(FilterByInterval(sampleRecords(t), iv), BucketizeInterval(iv))

	require.Len(t, daily, 9)
	for _, d := range daily {
		switch d.Label {
		case "01-Jul":
			assert.Equal(t, 3, d.Count)
		case "03-Jul":
			assert.Equal(t, 1, d.Count)
		default:
			assert.Zero(t, d.Count, d.Label)
		}
	}
	n, ok := daily.Get("01-Jul")
	assert.True(t, ok)
	assert.Equal(t, 3, n)
}

func TestTotalsPerDayIgnoresUnknownBuckets(t *testing.T) {
	daily := TotalsPerDay(sampleRecords(t), BucketizeInterval(NewInterval(july(2), july(3))))
	assert.Equal(t, DailyVisitorTotals{{"02-Jul", 0}, {"03-Jul", 1}}, daily)
}

func TestTotalsPerDayConservesVisitors(t *testing.T) {
	records := randomRecords(t, rand.New(rand.NewPCG(7, 8)), 1000)
	iv := NewInterval(july(1).AddDate(0, 0, -10), july(20))
	filtered := FilterByInterval(records, iv)

	want := 0
	for _, r := range filtered {
		want += r.Visitors()
	}
	daily := TotalsPerDay(filtered, BucketizeInterval(iv))
	assert.Equal(t, want, daily.Sum())
}

func TestTotalsPerDayFoldsRepeatedLabels(t *testing.T) {
	records := []dataset.BookingRecord{
		mustRecord(t, 2015, "July", 1, 2, 1, 0, "PRT"),
		mustRecord(t, 2016, "February", 29, 2, 0, 0, "ESP"),
		mustRecord(t, 2016, "July", 1, 1, 0, 0, "GBR"),
	}
	// 2015-07-01 through 2016-07-01 spans 367 days, so 01-Jul appears twice.
	iv := NewInterval(july(1), time.Date(2016, time.July, 1, 0, 0, 0, 0, time.UTC))
	require.Equal(t, 367, iv.Days())

	daily := TotalsPerDay(FilterByInterval(records, iv), BucketizeInterval(iv))
	require.Len(t, daily, 366)
	assert.Equal(t, "01-Jul", daily[0].Label)
	assert.Equal(t, 4, daily[0].Count)
	n, ok := daily.Get("29-Feb")
	assert.True(t, ok)
	assert.Equal(t, 2, n)
	assert.Equal(t, 6, daily.Sum())
}

func TestTotalsPerCountryScenario(t *testing.T) {
	totals := TotalsPerCountry(sampleRecords(t))
	assert.Equal(t, map[string]int{"PRT": 3, "GBR": 1}, totals.Map())
	assert.Equal(t, []string{"PRT", "GBR"}, totals.Keys())
	assert.Equal(t, []int{3, 1}, totals.Counts())
}

func TestTotalsPerCountryKeysMatchFilteredCountries(t *testing.T) {
	records := randomRecords(t, rand.New(rand.NewPCG(9, 10)), 300)
	filtered := FilterByInterval(records, NewInterval(july(5), july(15)))

	want := map[string]bool{}
	for _, r := range filtered {
		want[r.Country] = true
	}
	totals := TotalsPerCountry(filtered)
	got := map[string]bool{}
	for k := range totals.All() {
		got[k] = true
	}
	assert.Equal(t, want, got)
	assert.Equal(t, len(want), totals.Len())
}

func TestPerRecordCounts(t *testing.T) {
	records := sampleRecords(t)
	assert.Equal(t, []int{2, 1}, PerRecordCounts(records, Adults))
	assert.Equal(t, []int{1, 0}, PerRecordCounts(records, Children))
	assert.Empty(t, PerRecordCounts(nil, Adults))
}

func TestParseField(t *testing.T) {
	f, err := ParseField("Adults")
	require.NoError(t, err)
	assert.Equal(t, Adults, f)

	_, err = ParseField("babies")
	assert.Error(t, err)
}

// randomRecords spreads bookings over June to August 2015.
func randomRecords(t *testing.T, rng *rand.Rand, n int) []dataset.BookingRecord {
	t.Helper()
	countries := []string{"PRT", "GBR", "ESP", "FRA", "DEU", "IRL"}
	start := time.Date(2015, time.June, 1, 0, 0, 0, 0, time.UTC)
	out := make([]dataset.BookingRecord, n)
	for i := range out {
		d := start.AddDate(0, 0, rng.IntN(92))
		out[i] = mustRecord(t, d.Year(), d.Month().String(), d.Day(),
			rng.IntN(4), rng.IntN(3), rng.IntN(2), countries[rng.IntN(len(countries))])
	}
	return out
}

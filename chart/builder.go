package chart

import "github.com/eringen/visitordash/aggregate"

const (
	// SeriesName labels the visitor series on the daily and country charts.
	SeriesName = "Visitors"

	timeSeriesColor   = "#FF5733"
	defaultHeight     = 350
	sparklineHeight   = 150
	countryChartID    = "visitors-country"
	timeSeriesTitle   = "Visitors Per Day"
	countryChartTitle = "Visitors Per Country"
)

// Set groups the four charts shown on the dashboard.
type Set struct {
	Daily     Config `json:"daily"`
	Countries Config `json:"countries"`
	Adults    Config `json:"adults"`
	Children  Config `json:"children"`
}

// Dashboard builds every chart for one summary.
func Dashboard(s aggregate.Summary) Set {
	return Set{
		Daily:     TimeSeries(s.Daily),
		Countries: CountryBar(s.Countries),
		Adults:    Sparkline(SparklineTitle(aggregate.Adults), s.Series(aggregate.Adults)),
		Children:  Sparkline(SparklineTitle(aggregate.Children), s.Series(aggregate.Children)),
	}
}

// SparklineTitle names the sparkline for a guest field.
func SparklineTitle(f aggregate.Field) string {
	if f == aggregate.Children {
		return "Children Visitors"
	}
	return "Adult Visitors"
}

// TimeSeries is a zoomable area chart with one point per day bucket.
func TimeSeries(daily aggregate.DailyVisitorTotals) Config {
	stacked := false
	return Config{
		Type:   "area",
		Height: defaultHeight,
		Options: Options{
			Chart: ChartOptions{
				Type:    "area",
				Stacked: &stacked,
				Height:  defaultHeight,
				Zoom:    &Zoom{Type: "x", Enabled: true, AutoScaleYAxis: true},
				Toolbar: &Toolbar{AutoSelected: "zoom"},
			},
			Colors:     []string{timeSeriesColor},
			DataLabels: &Toggle{Enabled: false},
			Markers:    &Markers{Size: 0},
			Title:      Title{Text: timeSeriesTitle, Align: "left"},
			Fill: &Fill{
				Type: "gradient",
				Gradient: &Gradient{
					ShadeIntensity: 1,
					InverseColors:  false,
					OpacityFrom:    0.5,
					OpacityTo:      0,
					Stops:          []int{0, 90, 100},
				},
			},
			YAxis:   &YAxis{Title: &Title{Text: SeriesName}, Integer: true},
			XAxis:   &XAxis{Type: "category", Categories: nonNil(daily.Labels())},
			Tooltip: &Tooltip{Shared: false, Integer: true},
		},
		Series: []Series{{Name: SeriesName, Data: nonNilInts(daily.Counts())}},
	}
}

// CountryBar is a column chart with countries in first-seen order.
func CountryBar(countries aggregate.CountryVisitorTotals) Config {
	return Config{
		Type:   "bar",
		Height: defaultHeight,
		Options: Options{
			Chart: ChartOptions{ID: countryChartID},
			Title: Title{Text: countryChartTitle},
			XAxis: &XAxis{Categories: nonNil(countries.Keys())},
		},
		Series: []Series{{Name: SeriesName, Data: nonNilInts(countries.Counts())}},
	}
}

// Sparkline is an axis-free line over a raw value sequence.
func Sparkline(title string, data []int) Config {
	return Config{
		Type:   "line",
		Height: sparklineHeight,
		Options: Options{
			Chart: ChartOptions{Sparkline: &Toggle{Enabled: true}},
			Title: Title{Text: title},
		},
		Series: []Series{{Data: nonNilInts(data)}},
	}
}

// nonNil keeps empty categories encoded as [] rather than null.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilInts(s []int) []int {
	if s == nil {
		return []int{}
	}
	return s
}

// Package templates contains the dashboard's view models and components.
// The view models mirror the aggregate and chart types to avoid import cycles.
package templates

// PageViewModel describes the full dashboard page.
type PageViewModel struct {
	SiteName      string
	ApexChartsURL string
	AssetVersion  string
	Charts        ChartsViewModel
}

// ChartsViewModel describes the chart section for one selection.
type ChartsViewModel struct {
	Start         string
	End           string
	Inverted      bool
	Days          int
	TotalVisitors int
	RecordCount   int
	CountryCount  int
	Generation    uint64
	Charts        []ChartViewModel
	TopCountries  []CountryViewModel
}

// ChartViewModel is one chart mount point with its ApexCharts config as JSON.
type ChartViewModel struct {
	ID       string
	Kind     string
	Title    string
	Config   string
	Fallback string
}

// CountryViewModel represents one row of the country breakdown.
type CountryViewModel struct {
	Country  string
	Visitors int
}

// Package chart builds ApexCharts configurations from aggregated dashboard data
// and renders server-side sparkline fallbacks.
package chart

// Config is everything the browser needs to mount one ApexCharts instance.
type Config struct {
	Type    string   `json:"type"`
	Height  int      `json:"height"`
	Options Options  `json:"options"`
	Series  []Series `json:"series"`
}

// Series is one named numeric series.
type Series struct {
	Name string `json:"name,omitempty"`
	Data []int  `json:"data"`
}

// Options mirrors the subset of ApexCharts options the dashboard sets.
type Options struct {
	Chart      ChartOptions `json:"chart"`
	Colors     []string     `json:"colors,omitempty"`
	DataLabels *Toggle      `json:"dataLabels,omitempty"`
	Markers    *Markers     `json:"markers,omitempty"`
	Title      Title        `json:"title"`
	Fill       *Fill        `json:"fill,omitempty"`
	YAxis      *YAxis       `json:"yaxis,omitempty"`
	XAxis      *XAxis       `json:"xaxis,omitempty"`
	Tooltip    *Tooltip     `json:"tooltip,omitempty"`
}

// ChartOptions is the ApexCharts `chart` block.
type ChartOptions struct {
	ID        string   `json:"id,omitempty"`
	Type      string   `json:"type,omitempty"`
	Stacked   *bool    `json:"stacked,omitempty"`
	Height    int      `json:"height,omitempty"`
	Zoom      *Zoom    `json:"zoom,omitempty"`
	Toolbar   *Toolbar `json:"toolbar,omitempty"`
	Sparkline *Toggle  `json:"sparkline,omitempty"`
}

// Toggle is an option that is only switched on or off.
type Toggle struct {
	Enabled bool `json:"enabled"`
}

// Zoom configures x-axis zooming.
type Zoom struct {
	Type           string `json:"type"`
	Enabled        bool   `json:"enabled"`
	AutoScaleYAxis bool   `json:"autoScaleYaxis"`
}

// Toolbar selects the tool active when the chart mounts.
type Toolbar struct {
	AutoSelected string `json:"autoSelected"`
}

// Markers sets the point marker size; 0 hides them.
type Markers struct {
	Size int `json:"size"`
}

// Title is a chart or axis title.
type Title struct {
	Text  string `json:"text"`
	Align string `json:"align,omitempty"`
}

// Fill sets the area fill under a series.
type Fill struct {
	Type     string    `json:"type"`
	Gradient *Gradient `json:"gradient,omitempty"`
}

// Gradient configures a gradient Fill.
type Gradient struct {
	ShadeIntensity float64 `json:"shadeIntensity"`
	InverseColors  bool    `json:"inverseColors"`
	OpacityFrom    float64 `json:"opacityFrom"`
	OpacityTo      float64 `json:"opacityTo"`
	Stops          []int   `json:"stops"`
}

// YAxis labels are rounded to integers by the page script when Integer is set,
// since JSON cannot carry the formatter function itself.
type YAxis struct {
	Title   *Title `json:"title,omitempty"`
	Integer bool   `json:"integerLabels,omitempty"`
}

// XAxis holds the category labels.
type XAxis struct {
	Type       string   `json:"type,omitempty"`
	Categories []string `json:"categories"`
}

// Tooltip values are rounded to integers by the page script when Integer is set.
type Tooltip struct {
	Shared  bool `json:"shared"`
	Integer bool `json:"integerValues,omitempty"`
}

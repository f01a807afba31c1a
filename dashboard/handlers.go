package dashboard

import (
	"bytes"
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/eringen/visitordash/aggregate"
	"github.com/eringen/visitordash/chart"
	"github.com/eringen/visitordash/dashboard/templates"
	"github.com/eringen/visitordash/dataset"
)

// ErrUnknownField is returned for a sparkline field other than adults or children.
var ErrUnknownField = errors.New("unknown sparkline field")

// maxCountryRows bounds the country table under the charts.
const maxCountryRows = 10

// Options configures the dashboard handler.
type Options struct {
	SiteName        string
	ApexChartsURL   string
	AssetVersion    string
	DefaultInterval aggregate.DateInterval
	MaxRangeDays    int // longest selectable range; DefaultMaxRangeDays when zero
	CacheTTL        time.Duration
	RateLimit       int
	RateWindow      time.Duration
}

// Handler serves the dashboard page, its chart fragment and the JSON API.
type Handler struct {
	dataset  *dataset.Dataset
	cache    *SummaryCache
	metrics  *Metrics
	limiter  *rateLimiter
	validate *validator.Validate
	opts     Options
	logger   zerolog.Logger
}

// NewHandler creates a dashboard handler over ds. A RateLimit of zero disables
// rate limiting of the API and fragment routes.
func NewHandler(ds *dataset.Dataset, metrics *Metrics, logger zerolog.Logger, opts Options) *Handler {
	if opts.MaxRangeDays <= 0 {
		opts.MaxRangeDays = DefaultMaxRangeDays
	}
	h := &Handler{
		dataset:  ds,
		cache:    NewSummaryCache(opts.CacheTTL, metrics),
		metrics:  metrics,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		opts:     opts,
		logger:   logger.With().Str("component", "dashboard").Logger(),
	}
	if opts.RateLimit > 0 && opts.RateWindow > 0 {
		h.limiter = newRateLimiter(opts.RateLimit, opts.RateWindow)
	}
	return h
}

// Cache exposes the summary cache so reloads can invalidate it.
func (h *Handler) Cache() *SummaryCache {
	return h.cache
}

// Close stops the rate limiter's cleanup goroutine.
func (h *Handler) Close() {
	if h.limiter != nil {
		h.limiter.close()
	}
}

// RegisterRoutes registers the dashboard routes on the given Echo instance.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Page)
	e.GET("/healthz", h.Health)
	if h.metrics != nil {
		e.GET("/metrics", echo.WrapHandler(h.metrics.Handler()))
	}

	fragments := e.Group("/fragments", h.rateLimit)
	fragments.GET("/charts", h.ChartsFragment)

	api := e.Group("/api", h.rateLimit)
	api.GET("/summary", h.Summary)
	api.GET("/sparkline/:file", h.Sparkline)
}

// rateLimit rejects clients over the per-IP request budget.
func (h *Handler) rateLimit(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if h.limiter != nil && !h.limiter.allow(c.RealIP()) {
			return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
		}
		return next(c)
	}
}

// selection resolves the interval and returns it with its summary and snapshot.
func (h *Handler) selection(c echo.Context) (aggregate.DateInterval, aggregate.Summary, *dataset.Snapshot, error) {
	iv, err := h.resolveInterval(c)
	if err != nil {
		return aggregate.DateInterval{}, aggregate.Summary{}, nil, err
	}
	snap := h.dataset.Snapshot()
	return iv, h.cache.Summary(snap, iv), snap, nil
}

// Page renders the full dashboard for the current selection.
func (h *Handler) Page(c echo.Context) error {
	iv, summary, snap, err := h.selection(c)
	if err != nil {
		return err
	}
	charts, err := convertSummaryToViewModel(iv, summary, snap)
	if err != nil {
		return err
	}
	return Render(c, templates.Page(templates.PageViewModel{
		SiteName:      h.opts.SiteName,
		ApexChartsURL: h.opts.ApexChartsURL,
		AssetVersion:  h.opts.AssetVersion,
		Charts:        charts,
	}))
}

// ChartsFragment renders only the chart section for the selection.
func (h *Handler) ChartsFragment(c echo.Context) error {
	iv, summary, snap, err := h.selection(c)
	if err != nil {
		return err
	}
	charts, err := convertSummaryToViewModel(iv, summary, snap)
	if err != nil {
		return err
	}
	return Render(c, templates.Charts(charts))
}

// SummaryResponse is the JSON body of /api/summary.
type SummaryResponse struct {
	Summary    aggregate.Summary `json:"summary"`
	Charts     chart.Set         `json:"charts"`
	Generation uint64            `json:"generation"`
	LoadedAt   time.Time         `json:"loaded_at"`
}

// Summary returns the aggregation and chart configs for the selection as JSON.
func (h *Handler) Summary(c echo.Context) error {
	_, summary, snap, err := h.selection(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, SummaryResponse{
		Summary:    summary,
		Charts:     chart.Dashboard(summary),
		Generation: snap.Generation,
		LoadedAt:   snap.LoadedAt,
	})
}

// Sparkline renders a PNG sparkline for adults.png or children.png.
func (h *Handler) Sparkline(c echo.Context) error {
	field, err := sparklineField(c.Param("file"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	_, summary, _, err := h.selection(c)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := chart.RenderSparklinePNG(&buf, summary.Series(field), chart.DefaultSparklineOptions()); err != nil {
		h.logger.Error().Err(err).Str("field", string(field)).Msg("failed to render sparkline")
		return echo.NewHTTPError(http.StatusInternalServerError)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=60")
	return c.Blob(http.StatusOK, "image/png", buf.Bytes())
}

func sparklineField(file string) (aggregate.Field, error) {
	name, ok := strings.CutSuffix(file, ".png")
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, file)
	}
	f, err := aggregate.ParseField(name)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return f, nil
}

// HealthResponse is the JSON body of /healthz.
type HealthResponse struct {
	Status     string `json:"status"`
	Records    int    `json:"records"`
	Generation uint64 `json:"generation"`
}

// Health reports the size and generation of the active snapshot.
func (h *Handler) Health(c echo.Context) error {
	snap := h.dataset.Snapshot()
	return c.JSON(http.StatusOK, HealthResponse{
		Status:     "ok",
		Records:    len(snap.Records),
		Generation: snap.Generation,
	})
}

// convertSummaryToViewModel converts an aggregation summary to its template view model.
func convertSummaryToViewModel(iv aggregate.DateInterval, s aggregate.Summary, snap *dataset.Snapshot) (templates.ChartsViewModel, error) {
	start := iv.Start.Format(aggregate.DateLayout)
	end := iv.End.Format(aggregate.DateLayout)
	set := chart.Dashboard(s)

	query := url.Values{"start": {start}, "end": {end}}.Encode()
	specs := []struct {
		id, kind, title, fallback string
		cfg                       chart.Config
	}{
		{"chart-daily", "timeseries", "Visitors Per Day", "", set.Daily},
		{"chart-countries", "bar", "Visitors Per Country", "", set.Countries},
		{"chart-adults", "sparkline", chart.SparklineTitle(aggregate.Adults), "/api/sparkline/adults.png?" + query, set.Adults},
		{"chart-children", "sparkline", chart.SparklineTitle(aggregate.Children), "/api/sparkline/children.png?" + query, set.Children},
	}

	vm := templates.ChartsViewModel{
		Start:         start,
		End:           end,
		Inverted:      iv.Inverted(),
		Days:          iv.Days(),
		TotalVisitors: s.TotalVisitors,
		RecordCount:   s.RecordCount,
		CountryCount:  s.Countries.Len(),
		Generation:    snap.Generation,
		Charts:        make([]templates.ChartViewModel, 0, len(specs)),
		TopCountries:  convertCountriesToViewModel(s.Countries),
	}
	for _, sp := range specs {
		b, err := json.Marshal(sp.cfg)
		if err != nil {
			return templates.ChartsViewModel{}, fmt.Errorf("encode %s chart: %w", sp.id, err)
		}
		vm.Charts = append(vm.Charts, templates.ChartViewModel{
			ID:       sp.id,
			Kind:     sp.kind,
			Title:    sp.title,
			Config:   string(b),
			Fallback: sp.fallback,
		})
	}
	return vm, nil
}

// convertCountriesToViewModel lists the busiest countries, ties kept in first-seen order.
func convertCountriesToViewModel(c aggregate.CountryVisitorTotals) []templates.CountryViewModel {
	rows := make([]templates.CountryViewModel, 0, c.Len())
	for country, n := range c.All() {
		rows = append(rows, templates.CountryViewModel{Country: country, Visitors: n})
	}
	slices.SortStableFunc(rows, func(a, b templates.CountryViewModel) int {
		return cmp.Compare(b.Visitors, a.Visitors)
	})
	if len(rows) > maxCountryRows {
		rows = rows[:maxCountryRows]
	}
	return rows
}

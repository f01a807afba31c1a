package templates

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

// htmlWriter keeps the first write error so components can write sequentially.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *htmlWriter) printf(format string, args ...any) {
	if h.err != nil {
		return
	}
	_, h.err = fmt.Fprintf(h.w, format, args...)
}

// Page renders the full dashboard document.
func Page(vm PageViewModel) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<!doctype html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`)
		h.text(vm.SiteName)
		h.raw(`</title>`)
		h.printf(`<link rel="stylesheet" href="/public/dashboard.css?v=%s">`, templ.EscapeString(vm.AssetVersion))
		h.printf(`<script defer src="%s"></script>`, templ.EscapeString(vm.ApexChartsURL))
		h.printf(`<script defer src="/public/dashboard.js?v=%s"></script>`, templ.EscapeString(vm.AssetVersion))
		h.raw(`</head><body><main class="dashboard"><header class="dashboard-header"><h1>`)
		h.text(vm.SiteName)
		h.raw(`</h1>`)
		if h.err != nil {
			return h.err
		}
		if err := RangePicker(vm.Charts.Start, vm.Charts.End).Render(ctx, w); err != nil {
			return err
		}
		h.raw(`</header>`)
		if h.err != nil {
			return h.err
		}
		if err := Charts(vm.Charts).Render(ctx, w); err != nil {
			return err
		}
		h.raw(`</main></body></html>`)
		return h.err
	})
}

// RangePicker renders the start and end date inputs. The end input cannot
// precede the start input.
func RangePicker(start, end string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<form id="range-picker" class="range-picker" method="get" action="/">`)
		h.raw(`<label for="range-start">Start</label>`)
		h.printf(`<input type="date" id="range-start" name="start" value="%s">`, templ.EscapeString(start))
		h.raw(`<label for="range-end">End</label>`)
		h.printf(`<input type="date" id="range-end" name="end" value="%s" min="%s">`,
			templ.EscapeString(end), templ.EscapeString(start))
		h.raw(`<noscript><button type="submit">Apply</button></noscript></form>`)
		return h.err
	})
}

// Charts renders the chart section. dashboard.js swaps it in place after a selection.
func Charts(vm ChartsViewModel) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.printf(`<section id="charts" class="charts" data-start="%s" data-end="%s" data-generation="%d">`,
			templ.EscapeString(vm.Start), templ.EscapeString(vm.End), vm.Generation)

		h.raw(`<dl class="totals">`)
		stat(h, "Visitors", vm.TotalVisitors)
		stat(h, "Bookings", vm.RecordCount)
		stat(h, "Countries", vm.CountryCount)
		stat(h, "Days", vm.Days)
		h.raw(`</dl>`)

		if vm.Inverted {
			h.raw(`<p class="notice">The end date is before the start date. No days are selected.</p>`)
		} else if vm.RecordCount == 0 {
			h.raw(`<p class="notice">No bookings arrive in this range.</p>`)
		}

		for _, c := range vm.Charts {
			h.printf(`<figure class="chart chart-%s">`, templ.EscapeString(c.Kind))
			h.printf(`<div id="%s" class="chart-mount" data-chart-mount="%s"></div>`,
				templ.EscapeString(c.ID), templ.EscapeString(c.ID))
			h.printf(`<script type="application/json" data-chart="%s">`, templ.EscapeString(c.ID))
			// Config is produced by encoding/json, which escapes <, > and &.
			h.raw(c.Config)
			h.raw(`</script>`)
			if c.Fallback != "" {
				h.printf(`<noscript><img src="%s" alt="%s"></noscript>`,
					templ.EscapeString(c.Fallback), templ.EscapeString(c.Title))
			}
			h.raw(`</figure>`)
		}

		if len(vm.TopCountries) > 0 {
			h.raw(`<table class="countries"><thead><tr><th>Country</th><th>Visitors</th></tr></thead><tbody>`)
			for _, row := range vm.TopCountries {
				h.raw(`<tr><td>`)
				h.text(row.Country)
				h.raw(`</td><td>`)
				h.raw(strconv.Itoa(row.Visitors))
				h.raw(`</td></tr>`)
			}
			h.raw(`</tbody></table>`)
		}
		h.raw(`</section>`)
		return h.err
	})
}

func stat(h *htmlWriter, label string, n int) {
	h.raw(`<div><dt>`)
	h.text(label)
	h.raw(`</dt><dd>`)
	h.raw(strconv.Itoa(n))
	h.raw(`</dd></div>`)
}

// Error renders a minimal error page.
func Error(code int, message string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.printf(`<!doctype html><html lang="en"><head><meta charset="utf-8"><title>%d</title></head>`, code)
		h.printf(`<body><main class="error"><h1>%d</h1><p>`, code)
		h.text(message)
		h.raw(`</p><a href="/">Back to dashboard</a></main></body></html>`)
		return h.err
	})
}

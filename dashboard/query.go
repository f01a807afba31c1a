package dashboard

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	"github.com/eringen/visitordash/aggregate"
)

// selectionSession names the cookie session holding the last selected range.
const selectionSession = "visitordash_selection"

// RangeQuery is the date-range selection sent by the picker.
type RangeQuery struct {
	Start string `query:"start" validate:"omitempty,datetime=2006-01-02"`
	End   string `query:"end" validate:"omitempty,datetime=2006-01-02"`
}

// Provided reports whether the query carries a selection.
func (q RangeQuery) Provided() bool {
	return q.Start != "" || q.End != ""
}

// DefaultMaxRangeDays bounds a selection when Options.MaxRangeDays is unset.
const DefaultMaxRangeDays = 1096

var (
	errPartialRange = errors.New("start and end must be provided together")
	errRangeTooLong = errors.New("range is too long")
)

// Validate checks both dates are well formed, present together and span at
// most maxDays days. An inverted range is valid and aggregates to empty outputs.
func (q RangeQuery) Validate(v *validator.Validate, maxDays int) error {
	if err := v.Struct(q); err != nil {
		return err
	}
	if (q.Start == "") != (q.End == "") {
		return errPartialRange
	}
	if q.Start == "" {
		return nil
	}
	iv, err := q.Interval()
	if err != nil {
		return err
	}
	if maxDays > 0 && iv.Days() > maxDays {
		return fmt.Errorf("%w: %d days, at most %d allowed", errRangeTooLong, iv.Days(), maxDays)
	}
	return nil
}

// Interval parses the query into a DateInterval.
func (q RangeQuery) Interval() (aggregate.DateInterval, error) {
	return aggregate.ParseInterval(q.Start, q.End)
}

// resolveInterval picks the selection from the query, then the session, then the default.
// An explicit selection is written back to the session.
func (h *Handler) resolveInterval(c echo.Context) (aggregate.DateInterval, error) {
	var q RangeQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return aggregate.DateInterval{}, echo.NewHTTPError(http.StatusBadRequest, "invalid range")
	}
	if q.Provided() {
		if err := q.Validate(h.validate, h.opts.MaxRangeDays); err != nil {
			if errors.Is(err, errRangeTooLong) {
				return aggregate.DateInterval{}, echo.NewHTTPError(http.StatusBadRequest, "invalid range: "+err.Error())
			}
			return aggregate.DateInterval{}, echo.NewHTTPError(http.StatusBadRequest, "invalid range: dates must be YYYY-MM-DD and given together")
		}
		iv, err := q.Interval()
		if err != nil {
			return aggregate.DateInterval{}, echo.NewHTTPError(http.StatusBadRequest, "invalid range")
		}
		h.rememberSelection(c, q)
		return iv, nil
	}

	if q, ok := h.sessionSelection(c); ok {
		if iv, err := q.Interval(); err == nil {
			return iv, nil
		}
	}
	return h.opts.DefaultInterval, nil
}

func (h *Handler) sessionSelection(c echo.Context) (RangeQuery, bool) {
	sess, err := session.Get(selectionSession, c)
	if err != nil {
		return RangeQuery{}, false
	}
	start, _ := sess.Values["start"].(string)
	end, _ := sess.Values["end"].(string)
	q := RangeQuery{Start: start, End: end}
	if !q.Provided() || q.Validate(h.validate, h.opts.MaxRangeDays) != nil {
		return RangeQuery{}, false
	}
	return q, true
}

func (h *Handler) rememberSelection(c echo.Context, q RangeQuery) {
	sess, err := session.Get(selectionSession, c)
	if err != nil {
		return
	}
	sess.Values["start"] = q.Start
	sess.Values["end"] = q.End
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		h.logger.Warn().Err(err).Msg("failed to save range selection")
	}
}

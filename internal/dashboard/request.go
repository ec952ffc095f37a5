package dashboard

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"TickerScope/internal/model"
)

// Request is one user-triggered recompute of the dashboard.
type Request struct {
	Ticker     string
	Windows    []int
	IncludeRSI bool
	Start      time.Time
	End        time.Time
}

// Limits bounds and defaults the user input.
type Limits struct {
	AllowedWindows []int
	DefaultWindows []int
	RSIWindow      int
	MinDate        time.Time
	MaxDate        time.Time
	DefaultStart   time.Time
	DefaultEnd     time.Time
	DefaultTicker  string
}

// DefaultLimits mirrors the stock dashboard defaults.
func DefaultLimits() Limits {
	return Limits{
		AllowedWindows: []int{20, 50, 100, 200},
		DefaultWindows: []int{20, 50},
		RSIWindow:      14,
		MinDate:        time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		MaxDate:        time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
		DefaultStart:   time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		DefaultEnd:     time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		DefaultTicker:  "AAPL",
	}
}

// Default returns the request shown before the user changes anything.
func (l Limits) Default() Request {
	return Request{
		Ticker:  l.DefaultTicker,
		Windows: slices.Clone(l.DefaultWindows),
		Start:   l.DefaultStart,
		End:     l.DefaultEnd,
	}
}

// Validate normalizes req and checks it against the limits. The returned
// request has a trimmed upper-case ticker and de-duplicated windows in the
// order given.
func (l Limits) Validate(req Request) (Request, error) {
	out := req
	out.Ticker = strings.ToUpper(strings.TrimSpace(req.Ticker))
	if out.Ticker == "" {
		return req, fmt.Errorf("%w: ticker is required", model.ErrInvalidParameter)
	}

	out.Windows = make([]int, 0, len(req.Windows))
	for _, w := range req.Windows {
		if w <= 0 {
			return req, fmt.Errorf("%w: moving average window %d must be positive", model.ErrInvalidParameter, w)
		}
		if len(l.AllowedWindows) > 0 && !slices.Contains(l.AllowedWindows, w) {
			return req, fmt.Errorf("%w: moving average window %d is not one of %v", model.ErrInvalidParameter, w, l.AllowedWindows)
		}
		if !slices.Contains(out.Windows, w) {
			out.Windows = append(out.Windows, w)
		}
	}

	if out.Start.IsZero() || out.End.IsZero() {
		return req, fmt.Errorf("%w: start and end dates are required", model.ErrInvalidParameter)
	}
	if out.End.Before(out.Start) {
		return req, fmt.Errorf("%w: end date %s precedes start date %s", model.ErrInvalidParameter,
			out.End.Format(time.DateOnly), out.Start.Format(time.DateOnly))
	}
	if !l.MinDate.IsZero() && out.Start.Before(l.MinDate) {
		return req, fmt.Errorf("%w: start date must not be before %s", model.ErrInvalidParameter, l.MinDate.Format(time.DateOnly))
	}
	if !l.MaxDate.IsZero() && out.End.After(l.MaxDate) {
		return req, fmt.Errorf("%w: end date must not be after %s", model.ErrInvalidParameter, l.MaxDate.Format(time.DateOnly))
	}
	return out, nil
}

// ParseWindows parses window lengths such as "20,50" or ["20","50"].
func ParseWindows(values []string) ([]int, error) {
	var out []int
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			w, err := strconv.Atoi(part)
			if err != nil {
				return nil, fmt.Errorf("%w: moving average window %q is not a number", model.ErrInvalidParameter, part)
			}
			out = append(out, w)
		}
	}
	return out, nil
}

// ParseDate parses a YYYY-MM-DD date; an empty string yields fallback.
func ParseDate(s string, fallback time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback, nil
	}
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD", model.ErrInvalidParameter, s)
	}
	return d, nil
}

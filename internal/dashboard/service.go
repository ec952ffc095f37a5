package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"TickerScope/internal/calculator"
	"TickerScope/internal/chart"
	"TickerScope/internal/collector"
	"TickerScope/internal/model"
	"TickerScope/internal/recorder"
)

// Service runs the fetch, compute and assemble pipeline for one request.
// It keeps no state between calls and is safe for concurrent use as long
// as its Fetcher and Recorder are.
type Service struct {
	Collector *collector.Collector
	Limits    Limits
	Recorder  recorder.Recorder
}

// NewService creates a new Service.
func NewService(col *collector.Collector, limits Limits, rec recorder.Recorder) *Service {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Service{Collector: col, Limits: limits, Recorder: rec}
}

// Render validates req and builds its chart. Invalid parameters are returned
// as errors wrapping model.ErrInvalidParameter before anything is fetched.
// When data is unavailable a diagnostic chart is returned with a nil error.
func (s *Service) Render(ctx context.Context, req Request) (*model.ChartDescriptor, error) {
	began := time.Now()
	evt := &recorder.RenderEvent{
		ID:         uuid.NewString(),
		Ticker:     req.Ticker,
		Start:      req.Start,
		End:        req.End,
		Windows:    req.Windows,
		IncludeRSI: req.IncludeRSI,
	}
	defer func() {
		evt.Duration = time.Since(began)
		if err := s.Recorder.RecordRender(evt); err != nil {
			log.Printf("[ERROR] record render %s: %v", evt.ID, err)
		}
	}()

	valid, err := s.Limits.Validate(req)
	if err != nil {
		evt.Status = recorder.StatusInvalid
		evt.Diagnostic = err.Error()
		return nil, err
	}
	evt.Ticker = valid.Ticker
	evt.Windows = valid.Windows

	an, err := s.Collector.Collect(ctx, collector.Query{
		Symbol:     valid.Ticker,
		Start:      valid.Start,
		End:        valid.End,
		Windows:    valid.Windows,
		IncludeRSI: valid.IncludeRSI,
		RSIWindow:  s.Limits.RSIWindow,
	})
	if errors.Is(err, model.ErrDataUnavailable) {
		log.Printf("[WARN] %s: %v", valid.Ticker, err)
		evt.Status = recorder.StatusUnavailable
		evt.Diagnostic = err.Error()
		return chart.Diagnostic(valid.Ticker, fmt.Sprintf("No data for %s: %v", valid.Ticker, err)), nil
	}
	if err != nil {
		evt.Status = recorder.StatusFailed
		evt.Diagnostic = err.Error()
		return nil, err
	}

	desc, err := chart.Assemble(an.Series, an.MovingAverages, an.RSI)
	if err != nil {
		evt.Status = recorder.StatusFailed
		evt.Diagnostic = err.Error()
		return nil, fmt.Errorf("assemble chart: %w", err)
	}
	desc.Diagnostic = strings.Join(an.Warnings, "; ")

	evt.Status = recorder.StatusOK
	evt.Rows = an.Series.Len()
	evt.Diagnostic = desc.Diagnostic
	return desc, nil
}

// SnapshotLookback is how much history a watchlist snapshot computes over.
const SnapshotLookback = 400 * 24 * time.Hour

// Snapshot computes the latest default indicators for ticker as of asOf and
// records them.
func (s *Service) Snapshot(ctx context.Context, ticker string, asOf time.Time) (*recorder.Snapshot, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return nil, fmt.Errorf("%w: ticker is required", model.ErrInvalidParameter)
	}
	rsiWindow := s.Limits.RSIWindow
	if rsiWindow == 0 {
		rsiWindow = calculator.DefaultRSIWindow
	}
	an, err := s.Collector.Collect(ctx, collector.Query{
		Symbol:     ticker,
		Start:      asOf.Add(-SnapshotLookback),
		End:        asOf,
		Windows:    s.Limits.DefaultWindows,
		IncludeRSI: true,
		RSIWindow:  rsiWindow,
	})
	if err != nil {
		return nil, err
	}

	last := an.Series.Bars[an.Series.Len()-1]
	snap := &recorder.Snapshot{
		Ticker: ticker,
		AsOf:   last.Time,
		Close:  last.Close,
	}
	for _, ma := range an.MovingAverages {
		snap.MovingAverages = append(snap.MovingAverages, recorder.MAValue{Window: ma.Window, Value: model.Latest(ma.Values)})
	}
	if an.RSI != nil {
		snap.RSI = model.Latest(an.RSI.Values)
	}
	if err := s.Recorder.RecordSnapshot(snap); err != nil {
		return snap, fmt.Errorf("record snapshot: %w", err)
	}
	return snap, nil
}

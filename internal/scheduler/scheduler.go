package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"TickerScope/internal/notifier"
	"TickerScope/internal/recorder"
)

// Snapshotter computes and records the latest indicators of one ticker.
type Snapshotter interface {
	Snapshot(ctx context.Context, ticker string, asOf time.Time) (*recorder.Snapshot, error)
}

// Notifier delivers the digest of a finished run.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// Scheduler runs the watchlist snapshot job on a cron schedule.
type Scheduler struct {
	Cron        *cron.Cron
	Snapshotter Snapshotter
	Notifier    Notifier // optional
	Watchlist   []string
	Parallelism int
	Now         func() time.Time
	Ctx         context.Context

	runMu   sync.Mutex // serializes runs
	mu      sync.Mutex // guards lastRun
	lastRun RunResult
}

// RunResult summarizes one snapshot run.
type RunResult struct {
	StartedAt time.Time
	Succeeded []string
	Snapshots []*recorder.Snapshot
	Failed    map[string]error
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, snap Snapshotter, watchlist []string, parallelism int) *Scheduler {
	if parallelism <= 0 {
		parallelism = 1
	}
	return &Scheduler{
		Cron:        cron.New(cron.WithSeconds()),
		Snapshotter: snap,
		Watchlist:   watchlist,
		Parallelism: parallelism,
		Now:         time.Now,
		Ctx:         ctx,
	}
}

// Register adds the snapshot task for the given cron spec.
func (s *Scheduler) Register(snapshotCron string) error {
	if _, err := s.Cron.AddFunc(snapshotCron, func() { s.RunNow() }); err != nil {
		return fmt.Errorf("register snapshot task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Printf("[INFO] scheduler started, watchlist: %s", strings.Join(s.Watchlist, ","))
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// LastRun returns the result of the most recent completed run.
func (s *Scheduler) LastRun() RunResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun
}

// RunNow snapshots every watchlist ticker immediately. A failing ticker does
// not stop the others.
func (s *Scheduler) RunNow() RunResult {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	res := RunResult{StartedAt: s.Now(), Failed: make(map[string]error)}
	log.Printf("[INFO] running snapshot task for %d tickers", len(s.Watchlist))

	var resMu sync.Mutex
	g, ctx := errgroup.WithContext(s.Ctx)
	g.SetLimit(s.Parallelism)
	for _, ticker := range s.Watchlist {
		g.Go(func() error {
			snap, err := s.Snapshotter.Snapshot(ctx, ticker, res.StartedAt)
			resMu.Lock()
			defer resMu.Unlock()
			if err != nil {
				log.Printf("[ERROR] snapshot %s: %v", ticker, err)
				res.Failed[ticker] = err
				return nil
			}
			log.Printf("[INFO] snapshot %s close=%.2f rsi=%s", ticker, snap.Close, formatNullable(snap.RSI.Valid, snap.RSI.Float64))
			res.Succeeded = append(res.Succeeded, ticker)
			res.Snapshots = append(res.Snapshots, snap)
			return nil
		})
	}
	_ = g.Wait()

	if s.Notifier != nil && len(s.Watchlist) > 0 {
		msg := notifier.FormatDigest(res.StartedAt, res.Snapshots, res.Failed)
		if err := s.Notifier.Send(s.Ctx, msg); err != nil {
			log.Printf("[ERROR] send watchlist digest: %v", err)
		}
	}

	s.mu.Lock()
	s.lastRun = res
	s.mu.Unlock()
	return res
}

func formatNullable(valid bool, v float64) string {
	if !valid {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", v)
}

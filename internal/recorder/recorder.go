package recorder

import (
	"time"

	"github.com/guregu/null/v6"
)

// Render outcomes stored with each RenderEvent.
const (
	StatusOK          = "OK"
	StatusInvalid     = "INVALID"
	StatusUnavailable = "UNAVAILABLE"
	StatusFailed      = "FAILED"
)

// RenderEvent records one dashboard invocation.
type RenderEvent struct {
	ID         string
	Ticker     string
	Start      time.Time
	End        time.Time
	Windows    []int
	IncludeRSI bool
	Rows       int
	Status     string
	Diagnostic string
	Duration   time.Duration
}

// MAValue is the latest value of one moving average.
type MAValue struct {
	Window int
	Value  null.Float
}

// Snapshot holds the latest indicator values of one watchlist ticker.
type Snapshot struct {
	Ticker         string
	AsOf           time.Time
	Close          float64
	MovingAverages []MAValue
	RSI            null.Float
}

// Recorder persists the invocation history for later analysis.
type Recorder interface {
	RecordRender(evt *RenderEvent) error
	RecordSnapshot(snap *Snapshot) error
	Close() error
}

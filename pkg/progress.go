package splendir

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// ProgressCallback receives a completion fraction in [0,1] and a status line.
// It may be invoked from hashing workers; calls are serialized by the engine.
type ProgressCallback func(fraction float64, status string)

// CancellationToken is a shared cooperative stop flag. The zero value is
// usable and unset.
type CancellationToken struct {
	flag atomic.Bool
}

// NewCancellationToken returns an unset token
func NewCancellationToken() *CancellationToken {
	return &CancellationToken{}
}

// Cancel sets the flag. It is safe to call more than once.
func (t *CancellationToken) Cancel() {
	if t != nil {
		t.flag.Store(true)
	}
}

// IsCancelled reports whether Cancel has been called. A nil token is never cancelled.
func (t *CancellationToken) IsCancelled() bool {
	return t != nil && t.flag.Load()
}

// CancelOnClose sets the flag once ch is closed, bridging a shutdown channel
// such as the one returned by a signal handler.
func (t *CancellationToken) CancelOnClose(ch <-chan struct{}) {
	go func() {
		<-ch
		t.Cancel()
	}()
}

// ProgressReporter is a single mutex-guarded (fraction, status) cell that a
// polling caller reads while a scan writes through Callback.
type ProgressReporter struct {
	mu       sync.Mutex
	fraction float64
	status   string
	set      bool
}

// Set stores the latest progress value
func (p *ProgressReporter) Set(fraction float64, status string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fraction = clampFraction(fraction)
	p.status = status
	p.set = true
}

// Get returns the latest progress value and whether any has been reported
func (p *ProgressReporter) Get() (float64, string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fraction, p.status, p.set
}

// Reset clears the cell between scans
func (p *ProgressReporter) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fraction, p.status, p.set = 0, "", false
}

// Callback returns a ProgressCallback that writes into the reporter
func (p *ProgressReporter) Callback() ProgressCallback {
	return p.Set
}

// PhaseCallback maps a phase's own [0,1] progress onto [start, start+span] of
// the reporter, prefixing the status with label ("Phase 2/3: ...").
func (p *ProgressReporter) PhaseCallback(start, span float64, label string) ProgressCallback {
	return func(fraction float64, status string) {
		msg := status
		if label != "" {
			msg = fmt.Sprintf("%s: %s", label, status)
		}
		p.Set(start+clampFraction(fraction)*span, msg)
	}
}

func clampFraction(f float64) float64 {
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	default:
		return f
	}
}

// progressEmitter serializes callback delivery so that the fraction seen by
// the callback never decreases and nothing is delivered after cancellation.
type progressEmitter struct {
	mu     sync.Mutex
	cb     ProgressCallback
	cancel *CancellationToken
	last   float64
	fired  bool
}

func newProgressEmitter(cb ProgressCallback, cancel *CancellationToken) *progressEmitter {
	return &progressEmitter{cb: cb, cancel: cancel}
}

func (e *progressEmitter) emit(fraction float64, status string) {
	if e == nil || e.cb == nil {
		return
	}
	fraction = clampFraction(fraction)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancel.IsCancelled() {
		return
	}
	if e.fired && fraction < e.last {
		return
	}
	e.last = fraction
	e.fired = true
	e.cb(fraction, status)
}

// Package projector animates a displayed total toward the authoritative one.
//
// A Projector runs at most one interpolation at a time. Starting a new one
// cancels the previous run, and every write is checked against the run
// generation under the projector lock, so a superseded run can never touch
// the displayed value once its successor has started. Frames reach the sink
// in write order, outside that lock.
package projector

import (
	"math"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	Steps           = 15
	DefaultDuration = 300 * time.Millisecond
	// MinDuration is the shortest duration that still gives a non-zero tick.
	MinDuration = Steps * time.Nanosecond
)

type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type TickerFunc func(d time.Duration) Ticker

type stdTicker struct {
	t *time.Ticker
}

func (s stdTicker) C() <-chan time.Time { return s.t.C }
func (s stdTicker) Stop()               { s.t.Stop() }

func NewStdTicker(d time.Duration) Ticker {
	return stdTicker{t: time.NewTicker(d)}
}

// Frame is one write to the displayed total.
type Frame struct {
	Target int
	Value  int
	Step   int
	Final  bool
}

type Options struct {
	Duration  time.Duration
	Initial   int
	NewTicker TickerFunc
	// Sink calls are serialised. A frame written just before a Retarget may
	// still be delivered after it returns, ahead of the new run's frames.
	Sink   func(Frame)
	Logger *zap.Logger
}

type Projector struct {
	mu        sync.Mutex
	sinkMu    sync.Mutex
	wg        sync.WaitGroup
	interval  time.Duration
	newTicker TickerFunc
	sink      func(Frame)
	logger    *zap.Logger

	displayed int
	target    int
	gen       uint64
	cancel    chan struct{}
	stopped   bool
}

func New(opts Options) *Projector {
	duration := opts.Duration
	if duration < MinDuration {
		duration = DefaultDuration
	}
	newTicker := opts.NewTicker
	if newTicker == nil {
		newTicker = NewStdTicker
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Projector{
		interval:  duration / Steps,
		newTicker: newTicker,
		sink:      opts.Sink,
		logger:    logger,
		displayed: opts.Initial,
		target:    opts.Initial,
	}
}

// Retarget discards any in-flight run and animates from the current
// displayed value toward actual.
func (p *Projector) Retarget(actual int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		p.logger.Debug("Retarget after teardown ignored", zap.Int("target", actual))
		return
	}

	p.cancelRunLocked()
	p.gen++
	p.target = actual

	ticker := p.newTicker(p.interval)
	done := make(chan struct{})
	p.cancel = done

	p.wg.Add(1)
	go p.run(p.gen, p.displayed, actual, ticker, done)
}

// Stop tears the projector down: the in-flight run is cancelled and later
// Retarget calls are ignored. It waits for the run goroutine to exit.
func (p *Projector) Stop() {
	p.mu.Lock()
	if !p.stopped {
		p.stopped = true
		p.gen++
		p.cancelRunLocked()
	}
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *Projector) Displayed() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.displayed
}

func (p *Projector) Target() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.target
}

func (p *Projector) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancel != nil
}

func (p *Projector) cancelRunLocked() {
	if p.cancel != nil {
		close(p.cancel)
		p.cancel = nil
	}
}

func (p *Projector) run(gen uint64, from, to int, ticker Ticker, done <-chan struct{}) {
	defer p.wg.Done()
	defer ticker.Stop()

	increment := float64(to-from) / Steps
	current := float64(from)

	for step := 1; step <= Steps; step++ {
		select {
		case <-done:
			return
		case <-ticker.C():
		}

		current += increment
		if !p.write(gen, step, current, to) {
			return
		}
	}
}

func (p *Projector) write(gen uint64, step int, current float64, to int) bool {
	p.sinkMu.Lock()
	defer p.sinkMu.Unlock()

	frame, ok := p.advance(gen, step, current, to)
	if !ok {
		return false
	}
	if p.sink != nil {
		p.sink(frame)
	}
	return true
}

func (p *Projector) advance(gen uint64, step int, current float64, to int) (Frame, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.gen {
		return Frame{}, false
	}

	frame := Frame{Target: to, Step: step}
	if step >= Steps {
		// exact target, no accumulated rounding drift
		p.displayed = to
		p.cancel = nil
		frame.Final = true
	} else {
		p.displayed = roundHalfUp(current)
	}
	frame.Value = p.displayed
	return frame, true
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

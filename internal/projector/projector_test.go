package projector

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type manualTicker struct {
	ch      chan time.Time
	mu      sync.Mutex
	stopped bool
}

func (m *manualTicker) C() <-chan time.Time { return m.ch }

func (m *manualTicker) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped = true
}

func (m *manualTicker) isStopped() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopped
}

type tickerFactory struct {
	mu        sync.Mutex
	tickers   []*manualTicker
	intervals []time.Duration
}

func (f *tickerFactory) New(d time.Duration) Ticker {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &manualTicker{ch: make(chan time.Time)}
	f.tickers = append(f.tickers, t)
	f.intervals = append(f.intervals, d)
	return t
}

func (f *tickerFactory) ticker(i int) *manualTicker {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tickers[i]
}

type frameLog struct {
	mu     sync.Mutex
	frames []Frame
	ch     chan Frame
}

func newFrameLog() *frameLog {
	return &frameLog{ch: make(chan Frame, 64)}
}

func (l *frameLog) sink(f Frame) {
	l.mu.Lock()
	l.frames = append(l.frames, f)
	l.mu.Unlock()
	l.ch <- f
}

func (l *frameLog) all() []Frame {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Frame(nil), l.frames...)
}

func tick(t *testing.T, m *manualTicker, frames *frameLog) Frame {
	t.Helper()
	select {
	case m.ch <- time.Time{}:
	case <-time.After(time.Second):
		t.Fatal("run goroutine did not accept tick")
	}
	select {
	case f := <-frames.ch:
		return f
	case <-time.After(time.Second):
		t.Fatal("no frame written after tick")
	}
	return Frame{}
}

func newTestProjector(initial int) (*Projector, *tickerFactory, *frameLog) {
	factory := &tickerFactory{}
	frames := newFrameLog()
	p := New(Options{
		Initial:   initial,
		NewTicker: factory.New,
		Sink:      frames.sink,
	})
	return p, factory, frames
}

func TestTickIntervalDividesDuration(t *testing.T) {
	p, factory, _ := newTestProjector(0)
	defer p.Stop()

	p.Retarget(30)

	require.Equal(t, []time.Duration{20 * time.Millisecond}, factory.intervals)
}

func TestTooShortDurationFallsBackToDefault(t *testing.T) {
	for _, d := range []time.Duration{-time.Second, 0, 10 * time.Nanosecond} {
		factory := &tickerFactory{}
		p := New(Options{Duration: d, NewTicker: factory.New})

		p.Retarget(70)
		p.Stop()

		require.Equal(t, []time.Duration{DefaultDuration / Steps}, factory.intervals, "duration %s", d)
	}

	p := New(Options{Duration: MinDuration, NewTicker: (&tickerFactory{}).New})
	require.Equal(t, time.Nanosecond, p.interval)
	p.Stop()
}

func TestStopReturnsWhenTickerPanics(t *testing.T) {
	p := New(Options{NewTicker: func(time.Duration) Ticker { panic("no ticker") }})

	require.Panics(t, func() { p.Retarget(70) })

	stopped := make(chan struct{})
	go func() {
		p.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked after a failed Retarget")
	}
}

func TestSlowSinkDoesNotBlockReads(t *testing.T) {
	factory := &tickerFactory{}
	entered := make(chan struct{})
	release := make(chan struct{})
	p := New(Options{
		NewTicker: factory.New,
		Sink: func(Frame) {
			close(entered)
			<-release
		},
	})

	p.Retarget(150)
	factory.ticker(0).ch <- time.Time{}
	<-entered

	read := make(chan int)
	go func() { read <- p.Displayed() }()
	select {
	case v := <-read:
		require.Equal(t, 10, v)
	case <-time.After(time.Second):
		t.Fatal("Displayed blocked while the sink was running")
	}

	close(release)
	p.Stop()
}

func TestConvergesToTargetAfterAllSteps(t *testing.T) {
	tests := []struct {
		name    string
		initial int
		target  int
	}{
		{name: "up from zero", initial: 0, target: 105},
		{name: "down to zero", initial: 155, target: 0},
		{name: "small uneven step", initial: 7, target: 3},
		{name: "no change", initial: 70, target: 70},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, factory, frames := newTestProjector(tt.initial)
			defer p.Stop()

			p.Retarget(tt.target)
			require.True(t, p.Running())

			var last Frame
			for i := 1; i <= Steps; i++ {
				last = tick(t, factory.ticker(0), frames)
				require.Equal(t, i, last.Step)
				require.Equal(t, i == Steps, last.Final)
			}

			require.Equal(t, tt.target, last.Value)
			require.Equal(t, tt.target, p.Displayed())
			require.False(t, p.Running())
		})
	}
}

func TestIntermediateValuesAreRounded(t *testing.T) {
	p, factory, frames := newTestProjector(0)
	defer p.Stop()

	p.Retarget(100)

	// 100/15 = 6.67 per tick
	require.Equal(t, 7, tick(t, factory.ticker(0), frames).Value)
	require.Equal(t, 13, tick(t, factory.ticker(0), frames).Value)
	require.Equal(t, 20, tick(t, factory.ticker(0), frames).Value)
	require.Equal(t, 20, p.Displayed())
}

func TestRetargetSupersedesInFlightRun(t *testing.T) {
	p, factory, frames := newTestProjector(0)

	p.Retarget(100)
	first := factory.ticker(0)
	for i := 0; i < 3; i++ {
		tick(t, first, frames)
	}
	require.Equal(t, 20, p.Displayed())

	p.Retarget(200)
	second := factory.ticker(1)
	before := len(frames.all())

	// A late tick on the superseded run must not produce a write.
	select {
	case first.ch <- time.Time{}:
	case <-time.After(50 * time.Millisecond):
	}

	var last Frame
	for i := 0; i < Steps; i++ {
		last = tick(t, second, frames)
	}
	p.Stop()

	require.Equal(t, 200, last.Value)
	require.Equal(t, 200, p.Displayed())

	after := frames.all()[before:]
	require.Len(t, after, Steps)
	for _, f := range after {
		require.Equal(t, 200, f.Target, "stale frame from superseded run: %+v", f)
	}
	// 180 / 15 = 12 per tick starting from the displayed 20
	require.Equal(t, 32, after[0].Value)
	require.True(t, first.isStopped())
}

func TestStopCancelsRunAndIgnoresRetarget(t *testing.T) {
	p, factory, frames := newTestProjector(0)

	p.Retarget(60)
	tick(t, factory.ticker(0), frames)
	p.Stop()

	require.True(t, factory.ticker(0).isStopped())
	require.False(t, p.Running())

	p.Retarget(500)
	require.Len(t, factory.tickers, 1)
	require.Equal(t, 4, p.Displayed())
	require.Len(t, frames.all(), 1)
}

func TestStopIsIdempotent(t *testing.T) {
	p, _, _ := newTestProjector(10)
	p.Stop()
	p.Stop()
	require.Equal(t, 10, p.Displayed())
}

func TestRoundHalfUp(t *testing.T) {
	require.Equal(t, 3, roundHalfUp(2.5))
	require.Equal(t, -2, roundHalfUp(-2.5))
	require.Equal(t, 7, roundHalfUp(6.67))
}

func TestRealTickerConverges(t *testing.T) {
	done := make(chan struct{})
	p := New(Options{
		Duration: 15 * time.Millisecond,
		Sink: func(f Frame) {
			if f.Final {
				close(done)
			}
		},
	})
	defer p.Stop()

	p.Retarget(42)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("projector did not converge")
	}
	require.Equal(t, 42, p.Displayed())
}

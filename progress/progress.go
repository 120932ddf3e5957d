// Package progress renders a single-line, continuously updating terminal
// progress indicator. The line is described by a template of display
// items (position, percentage, ETA, speed, a fill bar, literal text,
// custom callbacks); a background drawer redraws it at a fixed cadence
// while the caller increments progress counters from the foreground.
package progress

import (
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/malaire/ml-progress/term"
)

// defaultRefreshInterval is how often the background drawer redraws.
const defaultRefreshInterval = 100 * time.Millisecond

type config struct {
	total    *uint64
	items    []Item
	sep      string
	interval time.Duration
	preInc   bool
	out      io.Writer
	width    func() int
	clock    clock
}

// Option configures a Progress.
type Option func(*config)

// WithTotal sets the total number of steps. Without a total the percent,
// ETA and bar-fill items render their none-state.
func WithTotal(total uint64) Option {
	return func(c *config) { c.total = &total }
}

// WithItems sets the display items of the line, in order. Without items
// the default template "bar_fill pos/total (eta)" is used.
func WithItems(items ...Item) Option {
	return func(c *config) { c.items = items }
}

// WithThousandsSeparator sets the digit group separator used by the
// grouped items, default is one space.
func WithThousandsSeparator(sep string) Option {
	return func(c *config) { c.sep = sep }
}

// WithRefreshInterval sets the redraw cadence of the background drawer,
// default is 100ms.
func WithRefreshInterval(d time.Duration) Option {
	return func(c *config) { c.interval = d }
}

// WithPreInc switches the increment mode to pre-increment: reaching a
// position means work on that step has begun, not completed, so speed and
// ETA estimates count one step less.
func WithPreInc() Option {
	return func(c *config) { c.preInc = true }
}

// WithOutput sets the writer the line is drawn to, default is os.Stderr.
func WithOutput(out io.Writer) Option {
	return func(c *config) { c.out = out }
}

// WithWidthFunc sets the terminal width source queried once per render.
// The default reads the width of the output terminal, falling back to
// term.DefaultWidth when the output is not a terminal.
func WithWidthFunc(width func() int) Option {
	return func(c *config) { c.width = width }
}

// withClock injects a fake clock in tests.
func withClock(clk clock) Option {
	return func(c *config) { c.clock = clk }
}

// Progress is a single-line terminal progress indicator.
//
// After Start, exactly one background goroutine redraws the line on its
// own cadence until one of the Finish variants stops it. All methods are
// safe for concurrent use from multiple goroutines.
type Progress struct {
	state    *state
	template *template
	writer   *term.Writer
	width    func() int
	interval time.Duration

	startOnce  sync.Once
	finishOnce sync.Once
	started    atomic.Bool
	done       chan struct{} // closed by finish to stop the drawer
	stopped    chan struct{} // closed by the drawer once it has stopped
}

// New creates a Progress from the given options. The indicator does not
// draw anything until Start is called. Template problems, like two fill
// items or a malformed item format, are reported here and never at
// render time.
func New(opts ...Option) (*Progress, error) {
	cfg := config{
		sep:      " ",
		interval: defaultRefreshInterval,
		out:      os.Stderr,
		clock:    realClock{},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	tmpl, err := newTemplate(cfg.items)
	if err != nil {
		return nil, err
	}

	width := cfg.width
	if width == nil {
		out := cfg.out
		width = func() int { return term.Width(out) }
	}

	return &Progress{
		state:    newState(cfg.total, cfg.preInc, cfg.sep, cfg.clock),
		template: tmpl,
		writer:   term.NewWriter(cfg.out),
		width:    width,
		interval: cfg.interval,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}, nil
}

// Start spawns the background drawer. Calling Start again is a no-op.
func (p *Progress) Start() {
	p.startOnce.Do(func() {
		p.started.Store(true)
		p.writer.HideCursor()
		go p.loop()
	})
}

// Inc advances the position by delta steps.
func (p *Progress) Inc(delta uint64) {
	p.state.inc(delta)
}

// SetPosition moves the position to pos. The position never decreases;
// values at or below the current position are ignored.
func (p *Progress) SetPosition(pos uint64) {
	p.state.setPosition(pos)
}

// Message sets the text shown by the MessageFill item.
func (p *Progress) Message(text string) {
	p.state.setMessage(text)
}

// State returns a point-in-time snapshot of the indicator state.
func (p *Progress) State() Snapshot {
	return p.state.snapshot()
}

// Finish completes the indicator: the position moves to the total (or
// the total freezes at the current position if none was set), the drawer
// stops, and the final state is drawn once. When Finish returns no
// further writes occur, so the caller can print its own output; the
// library never emits the trailing newline itself.
//
// Only the first of the Finish variants takes effect; subsequent calls
// are no-ops.
func (p *Progress) Finish() {
	p.finishOnce.Do(func() {
		p.stopDrawer()
		p.state.finishComplete()
		p.finalDraw()
		p.writer.ShowCursor()
	})
}

// FinishAndClear stops the indicator like Finish but erases the line
// instead of drawing the final state.
func (p *Progress) FinishAndClear() {
	p.finishOnce.Do(func() {
		p.stopDrawer()
		p.state.markFinished()
		p.writer.Clear(p.width())
		p.writer.ShowCursor()
	})
}

// FinishAtCurrentPos freezes the total at the current position and then
// finishes, so the bar renders as complete at that position.
func (p *Progress) FinishAtCurrentPos() {
	p.state.freezeTotalAtPos()
	p.Finish()
}

// stopDrawer signals the background drawer and blocks until it has
// observably stopped, which takes at most one redraw interval. The
// drawer and the final synchronous draw are therefore mutually exclusive
// in time.
func (p *Progress) stopDrawer() {
	close(p.done)
	if p.started.Load() {
		<-p.stopped
	}
}

// loop is the background drawer. Its only suspension point is the
// interval sleep; it never blocks on foreground progress.
func (p *Progress) loop() {
	defer close(p.stopped)
	// A faulting item must not take the process down: the loop stops
	// cleanly and the line freezes at its last drawn state.
	defer func() { _ = recover() }()
	for {
		select {
		case <-p.done:
			return
		case <-time.After(p.interval):
			p.draw()
		}
	}
}

// draw renders one frame from a state snapshot and overwrites the line.
func (p *Progress) draw() {
	snap := p.state.snapshot()
	p.writer.WriteLine(p.template.renderLine(&snap, p.width()))
}

// finalDraw is the one synchronous draw performed by Finish after the
// drawer has stopped. Render faults degrade to keeping the last drawn
// line instead of surfacing to the caller.
func (p *Progress) finalDraw() {
	defer func() { _ = recover() }()
	p.draw()
}

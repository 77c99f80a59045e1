package search

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dbobbgit/room-of-requirement/internal/clients/catalog"
	"github.com/dbobbgit/room-of-requirement/internal/models"
)

// State is the panel's position in its input lifecycle.
type State string

const (
	StateIdle    State = "idle"    // query empty or below the minimum length
	StatePending State = "pending" // debounce window running
	StateLoading State = "loading" // search request in flight
	StateResults State = "results" // result list populated
	StateEmpty   State = "empty"   // request succeeded, nothing found
	StateError   State = "error"   // request failed
)

const (
	DefaultDebounce    = 500 * time.Millisecond
	DefaultMinQueryLen = 2
)

// ErrClosed is returned by operations on a closed panel.
var ErrClosed = errors.New("search panel closed")

// Snapshot is an immutable view of the panel, published to the listener on
// every transition.
type Snapshot struct {
	State   State                  `json:"state"`
	Query   string                 `json:"query"`
	Results []catalog.SearchResult `json:"results,omitempty"`
	Error   string                 `json:"error,omitempty"`
}

type Options struct {
	Debounce    time.Duration
	MinQueryLen int
}

// Panel drives one catalog search session. Keystrokes restart a debounce
// timer; when the window expires a request is issued tagged with a sequence
// number, and a response is applied only if its sequence still matches the
// latest issued one. Superseded requests are left to finish and their
// results discarded.
type Panel struct {
	provider catalog.Provider
	opts     Options
	onSelect func(models.Prefill)
	listener func(Snapshot)

	mu         sync.Mutex
	timer      *time.Timer
	seq        uint64
	query      string
	state      State
	results    []catalog.SearchResult
	errText    string
	lastActive time.Time
	closed     bool
}

func NewPanel(provider catalog.Provider, opts Options) *Panel {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.MinQueryLen <= 0 {
		opts.MinQueryLen = DefaultMinQueryLen
	}
	return &Panel{
		provider:   provider,
		opts:       opts,
		state:      StateIdle,
		lastActive: time.Now(),
	}
}

// OnSelect registers the callback invoked with the mapped prefill after a
// successful selection. Must be set before the panel is used.
func (p *Panel) OnSelect(fn func(models.Prefill)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onSelect = fn
}

// Listen registers the state-change listener. Must be set before the panel
// is used. The listener runs with the panel lock held so snapshots arrive
// in transition order; it must not call back into the panel.
func (p *Panel) Listen(fn func(Snapshot)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listener = fn
}

// SetQuery records a keystroke. Every call restarts the debounce window;
// queries below the minimum length drop the panel back to idle and
// invalidate any request still in flight.
func (p *Panel) SetQuery(q string) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.touchLocked()
	p.query = q
	p.stopTimerLocked()

	if len([]rune(q)) < p.opts.MinQueryLen {
		p.seq++
		p.state = StateIdle
		p.results = nil
		p.errText = ""
		p.publishLocked()
		p.mu.Unlock()
		return
	}

	p.state = StatePending
	p.timer = time.AfterFunc(p.opts.Debounce, func() { p.fire(q) })
	p.publishLocked()
	p.mu.Unlock()
}

// fire runs when the debounce window expires for query q.
func (p *Panel) fire(q string) {
	p.mu.Lock()
	if p.closed || p.query != q {
		// A newer keystroke landed between the timer firing and us taking
		// the lock; that keystroke owns the next request.
		p.mu.Unlock()
		return
	}
	p.seq++
	mySeq := p.seq
	p.state = StateLoading
	p.publishLocked()
	p.mu.Unlock()

	results, err := p.provider.Search(context.Background(), q)

	p.mu.Lock()
	defer p.mu.Unlock()
	if mySeq != p.seq {
		// Superseded while in flight; latest wins.
		return
	}
	if err != nil {
		p.state = StateError
		p.errText = err.Error()
		p.results = nil
	} else if len(results) == 0 {
		p.state = StateEmpty
		p.results = nil
		p.errText = ""
	} else {
		p.state = StateResults
		p.results = results
		p.errText = ""
	}
	p.publishLocked()
}

// Select clears the panel immediately, fetches the chosen entry's details
// and hands the mapped prefill to the OnSelect callback. A failed detail
// fetch surfaces the error state without restoring the old result list.
func (p *Panel) Select(ctx context.Context, id string) (models.Prefill, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return models.Prefill{}, ErrClosed
	}
	p.touchLocked()
	p.seq++
	p.stopTimerLocked()
	p.query = ""
	p.results = nil
	p.errText = ""
	p.state = StateIdle
	p.publishLocked()
	onSelect := p.onSelect
	p.mu.Unlock()

	prefill, err := p.provider.Lookup(ctx, id)
	if err != nil {
		p.mu.Lock()
		p.state = StateError
		p.errText = err.Error()
		p.publishLocked()
		p.mu.Unlock()
		return models.Prefill{}, err
	}

	if onSelect != nil {
		onSelect(prefill)
	}
	return prefill, nil
}

// Snapshot returns the current state of the panel.
func (p *Panel) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

// LastActive reports when the panel last saw user input, for idle-session
// reaping.
func (p *Panel) LastActive() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastActive
}

// Close stops the debounce timer and invalidates any in-flight request.
func (p *Panel) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.seq++
	p.stopTimerLocked()
}

func (p *Panel) touchLocked() {
	p.lastActive = time.Now()
}

func (p *Panel) stopTimerLocked() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}

func (p *Panel) snapshotLocked() Snapshot {
	results := make([]catalog.SearchResult, len(p.results))
	copy(results, p.results)
	return Snapshot{
		State:   p.state,
		Query:   p.query,
		Results: results,
		Error:   p.errText,
	}
}

func (p *Panel) publishLocked() {
	if p.listener == nil || p.closed {
		return
	}
	p.listener(p.snapshotLocked())
}

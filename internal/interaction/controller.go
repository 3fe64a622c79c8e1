package interaction

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultDelay is the hover intent delay before a tooltip is shown.
const DefaultDelay = 2000 * time.Millisecond

// State is the tooltip lifecycle of a Controller.
type State int

const (
	Idle State = iota
	Pending
	Shown
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Shown:
		return "shown"
	default:
		return "idle"
	}
}

// Point is a pointer position in chart coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Snapshot is a consistent view of the controller.
type Snapshot struct {
	State     State  `json:"state"`
	ElementID string `json:"element_id,omitempty"`
	Anchor    Point  `json:"anchor"`
}

// Timer is a cancellable single-shot callback.
type Timer interface {
	Stop() bool
}

// Scheduler arms single-shot timers.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// ClockScheduler schedules callbacks on the runtime timer.
type ClockScheduler struct{}

func (ClockScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Option configures a Controller.
type Option func(*Controller)

func WithDelay(d time.Duration) Option {
	return func(c *Controller) {
		if d >= 0 {
			c.delay = d
		}
	}
}

func WithScheduler(s Scheduler) Option {
	return func(c *Controller) {
		if s != nil {
			c.sched = s
		}
	}
}

// OnShow registers the callback invoked when a tooltip becomes visible.
func OnShow(f func(Snapshot)) Option {
	return func(c *Controller) { c.onShow = f }
}

// OnHide registers the callback invoked when a visible tooltip is dismissed.
func OnHide(f func(id string)) Option {
	return func(c *Controller) { c.onHide = f }
}

// OnSelect registers the callback invoked when an element is clicked.
func OnSelect(f func(id string)) Option {
	return func(c *Controller) { c.onSelect = f }
}

// Controller translates pointer events over chart elements into tooltip and
// selection state. At most one timer is live per controller, and a timer that
// was cancelled never changes state even if its callback still runs.
type Controller struct {
	mu    sync.Mutex
	sched Scheduler
	delay time.Duration

	state   State
	active  string
	pointer Point
	anchor  Point

	timer Timer
	gen   uint64

	onShow   func(Snapshot)
	onHide   func(id string)
	onSelect func(id string)
}

// NewController returns an idle controller.
func NewController(opts ...Option) *Controller {
	c := &Controller{
		sched: ClockScheduler{},
		delay: DefaultDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Enter handles the pointer entering element id at p.
func (c *Controller) Enter(id string, p Point) {
	c.mu.Lock()
	c.pointer = p

	if id == c.active && c.state != Idle {
		c.mu.Unlock()
		return
	}

	var notify []func()
	if c.state == Shown {
		notify = append(notify, c.hideNotice(c.active))
	}
	c.cancelLocked()

	c.state = Pending
	c.active = id
	gen := c.gen
	c.timer = c.sched.AfterFunc(c.delay, func() { c.fire(gen) })
	c.mu.Unlock()

	log.Debug().Str("element", id).Dur("delay", c.delay).Msg("Hover intent armed")
	run(notify)
}

// Move records the latest pointer position.
func (c *Controller) Move(p Point) {
	c.mu.Lock()
	c.pointer = p
	c.mu.Unlock()
}

// Leave handles the pointer leaving element id. Leaving an element other than
// the active one is ignored.
func (c *Controller) Leave(id string) {
	c.mu.Lock()
	if id != c.active || c.state == Idle {
		c.mu.Unlock()
		return
	}

	var notify []func()
	if c.state == Shown {
		notify = append(notify, c.hideNotice(id))
	}
	c.cancelLocked()
	c.state = Idle
	c.active = ""
	c.mu.Unlock()

	run(notify)
}

// Click shows the tooltip for id immediately and emits a selection. A tooltip
// shown for another element is hidden first.
func (c *Controller) Click(id string, p Point) {
	c.mu.Lock()
	var notify []func()
	if c.state == Shown && c.active != id {
		notify = append(notify, c.hideNotice(c.active))
	}
	c.cancelLocked()
	c.state = Shown
	c.active = id
	c.pointer = p
	c.anchor = p
	snap := c.snapshotLocked()
	onShow, onSelect := c.onShow, c.onSelect
	c.mu.Unlock()

	log.Debug().Str("element", id).Msg("Element selected")
	run(notify)
	if onShow != nil {
		onShow(snap)
	}
	if onSelect != nil {
		onSelect(id)
	}
}

// Reset cancels any pending timer and returns to Idle without callbacks.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.cancelLocked()
	c.state = Idle
	c.active = ""
	c.mu.Unlock()
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) fire(gen uint64) {
	c.mu.Lock()
	if gen != c.gen || c.state != Pending {
		c.mu.Unlock()
		log.Debug().Uint64("generation", gen).Msg("Discarding stale hover timer")
		return
	}
	c.timer = nil
	c.state = Shown
	c.anchor = c.pointer
	snap := c.snapshotLocked()
	onShow := c.onShow
	c.mu.Unlock()

	if onShow != nil {
		onShow(snap)
	}
}

// cancelLocked invalidates the outstanding timer. Bumping the generation
// covers a callback that already started before Stop.
func (c *Controller) cancelLocked() {
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Controller) hideNotice(id string) func() {
	onHide := c.onHide
	return func() {
		if onHide != nil {
			onHide(id)
		}
	}
}

func (c *Controller) snapshotLocked() Snapshot {
	s := Snapshot{State: c.state, ElementID: c.active}
	if c.state == Shown {
		s.Anchor = c.anchor
	}
	return s
}

func run(fs []func()) {
	for _, f := range fs {
		f()
	}
}

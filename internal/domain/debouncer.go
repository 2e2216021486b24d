package domain

import (
	"log/slog"
	"time"

	"github.com/benbjohnson/clock"
	m "testtree.dev/pkg/testtree/internal/model"
)

// DefaultDebounceDelay is the window within which node changes are coalesced.
const DefaultDebounceDelay = 200 * time.Millisecond

// ChangeDebouncer coalesces dirty marks into one TreeChangedEvent per window.
// It holds a deadline instead of a timer so callers decide when to poll.
type ChangeDebouncer struct {
	clock  clock.Clock
	delay  time.Duration
	source func() []*Collection
	bus    *ChangeBus

	pending    bool
	structural bool
	deadline   time.Time
}

// NewChangeDebouncer creates a debouncer flushing the collections returned by source.
func NewChangeDebouncer(clk clock.Clock, delay time.Duration, bus *ChangeBus, source func() []*Collection) *ChangeDebouncer {
	if clk == nil {
		clk = clock.New()
	}

	if delay <= 0 {
		delay = DefaultDebounceDelay
	}

	return &ChangeDebouncer{
		clock:  clk,
		delay:  delay,
		source: source,
		bus:    bus,
	}
}

// NodeChanged schedules a flush unless one is already pending.
func (d *ChangeDebouncer) NodeChanged() {
	if d.pending {
		return
	}

	d.pending = true
	d.deadline = d.clock.Now().Add(d.delay)
}

// TreeChanged schedules a flush and marks it structural.
func (d *ChangeDebouncer) TreeChanged() {
	d.structural = true
	d.NodeChanged()
}

// Pending reports whether a flush is scheduled.
func (d *ChangeDebouncer) Pending() bool {
	return d.pending
}

// Deadline returns when the scheduled flush is due.
func (d *ChangeDebouncer) Deadline() (time.Time, bool) {
	return d.deadline, d.pending
}

// Poll flushes when the deadline has passed and reports whether it did.
func (d *ChangeDebouncer) Poll() bool {
	if !d.pending || d.clock.Now().Before(d.deadline) {
		return false
	}

	d.Flush()

	return true
}

// Flush settles every collection now and publishes one aggregate event
// when anything changed.
func (d *ChangeDebouncer) Flush() {
	structural := d.structural

	d.pending = false
	d.structural = false
	d.deadline = time.Time{}

	var changed []m.NodeRef

	for _, c := range d.source() {
		tree := c.Tree()
		if tree == nil {
			continue
		}

		for _, n := range tree.Settle() {
			changed = append(changed, c.Ref(n))
		}
	}

	if len(changed) == 0 && !structural {
		return
	}

	slog.Debug("tree changed", "nodes", len(changed), "structural", structural)

	d.bus.Publish(TreeChangedEvent{Nodes: changed, Structural: structural})
}

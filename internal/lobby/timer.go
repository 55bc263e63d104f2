package lobby

import "time"

type timerKind int

const (
	idleTimer timerKind = iota
	restartTimer
)

func (k timerKind) String() string {
	switch k {
	case idleTimer:
		return "idle"
	case restartTimer:
		return "restart"
	default:
		return "unknown"
	}
}

type timerFired struct {
	kind timerKind
	gen  uint64
}

// turnTimer is a cancellable one-shot owned by the lobby loop. Each arm or
// stop bumps the generation, so a fire already queued in the inbox from an
// earlier arm is recognised as stale and dropped.
//
// Not safe for concurrent use; only the loop goroutine touches it.
type turnTimer struct {
	kind  timerKind
	gen   uint64
	timer *time.Timer
}

func (t *turnTimer) arm(d time.Duration, post func(timerFired)) {
	t.stop()
	fired := timerFired{kind: t.kind, gen: t.gen}
	t.timer = time.AfterFunc(d, func() { post(fired) })
}

// stop is idempotent.
func (t *turnTimer) stop() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.gen++
}

// accept consumes a fire if it belongs to the current arm.
func (t *turnTimer) accept(gen uint64) bool {
	if t.timer == nil || gen != t.gen {
		return false
	}
	t.timer = nil
	return true
}

func (t *turnTimer) pending() bool { return t.timer != nil }

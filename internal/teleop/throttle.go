package teleop

import (
	"time"

	"github.com/benbjohnson/clock"
)

// GoalInterval is the minimum spacing between outbound navigation goals.
const GoalInterval = 250 * time.Millisecond

// GoalThrottle rate-limits goal dispatches to one per GoalInterval. Denied
// dispatches are dropped, not queued.
type GoalThrottle struct {
	clock        clock.Clock
	lastGoalTime time.Time
}

func NewGoalThrottle(clk clock.Clock) *GoalThrottle {
	return &GoalThrottle{
		clock: clk,
	}
}

// Allow reports whether a goal may go out now, and records the dispatch time
// when it may.
func (t *GoalThrottle) Allow() bool {
	currentTime := t.clock.Now()
	if !t.lastGoalTime.IsZero() && currentTime.Sub(t.lastGoalTime) < GoalInterval {
		return false
	}
	t.lastGoalTime = currentTime
	return true
}

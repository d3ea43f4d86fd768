package nav

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/joyrc/teleop_client/internal/models"
)

const (
	GoalEvent   = "nav_goal"
	CancelEvent = "nav_cancel"
)

// EmitFunc sends one socket.io event. Matches the client's Emit shape so the
// app can hand in a closure over its connection.
type EmitFunc func(event string, v ...interface{})

// Dispatcher submits and cancels navigation goals fire-and-forget. Nothing
// tracks goal results here; the navigation stack owns them once emitted.
type Dispatcher struct {
	emit EmitFunc
}

func NewDispatcher(emit EmitFunc) *Dispatcher {
	return &Dispatcher{
		emit: emit,
	}
}

func (d *Dispatcher) SendGoal(goal models.NavGoal) error {
	encoded, err := json.Marshal(goal)
	if err != nil {
		return fmt.Errorf("failed encoding nav goal - %w", err)
	}

	log.Printf("sending nav goal %s\n", goal.Id)
	d.emit(GoalEvent, string(encoded))
	return nil
}

func (d *Dispatcher) CancelGoalsBefore(t time.Time) error {
	encoded, err := json.Marshal(models.NavCancel{
		Before: t.UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("failed encoding nav cancel - %w", err)
	}

	log.Println("cancelling nav goals")
	d.emit(CancelEvent, string(encoded))
	return nil
}

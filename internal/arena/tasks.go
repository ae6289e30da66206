package arena

import "time"

type taskKind int

const (
	taskCountdown taskKind = iota
	taskObstacles
	taskEndGame
)

func (k taskKind) String() string {
	switch k {
	case taskCountdown:
		return "countdown"
	case taskObstacles:
		return "obstacles"
	case taskEndGame:
		return "end-game"
	default:
		return "unknown"
	}
}

// Scheduler runs fn once after d. Implementations must deliver fn on the
// reactor goroutine. The returned func stops the timer if it has not fired.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) (stop func() bool)
}

type task struct {
	kind      taskKind
	stop      func() bool
	cancelled bool
}

func (t *task) cancel() {
	t.cancelled = true
	if t.stop != nil {
		t.stop()
	}
}

// taskList holds the pending tasks of one room. Cancelling a task flips its
// token first, so a callback that was already queued on the reactor still
// becomes a no-op.
type taskList struct {
	items []*task
}

func (l *taskList) add(t *task) {
	l.items = append(l.items, t)
}

func (l *taskList) remove(t *task) {
	for i, item := range l.items {
		if item == t {
			l.items = append(l.items[:i], l.items[i+1:]...)
			return
		}
	}
}

func (l *taskList) cancel(kind taskKind) {
	kept := l.items[:0]
	for _, item := range l.items {
		if item.kind == kind {
			item.cancel()
			continue
		}
		kept = append(kept, item)
	}
	l.items = kept
}

func (l *taskList) cancelAll() {
	for _, item := range l.items {
		item.cancel()
	}
	l.items = nil
}

func (l *taskList) has(kind taskKind) bool {
	for _, item := range l.items {
		if item.kind == kind {
			return true
		}
	}
	return false
}

func (l *taskList) len() int {
	return len(l.items)
}

// schedule registers a room-scoped task. fn only runs if the task was not
// cancelled and the room is still registered when the timer is delivered.
func (e *Engine) schedule(room *Room, kind taskKind, d time.Duration, fn func(room *Room)) {
	t := &task{kind: kind}
	room.tasks.add(t)
	t.stop = e.sched.AfterFunc(d, func() {
		if t.cancelled {
			return
		}
		room.tasks.remove(t)
		if !e.store.live(room) {
			return
		}
		fn(room)
	})
}

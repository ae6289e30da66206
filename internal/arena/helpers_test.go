package arena

import (
	"math/rand/v2"
	"sort"
	"testing"
	"time"
)

type sentEvent struct {
	Conn    string
	Event   string
	Payload any
}

type recordingNotifier struct {
	events []sentEvent
}

func (n *recordingNotifier) Send(connID string, event string, payload any) {
	n.events = append(n.events, sentEvent{Conn: connID, Event: event, Payload: payload})
}

func (n *recordingNotifier) named(event string) []sentEvent {
	var out []sentEvent
	for _, ev := range n.events {
		if ev.Event == event {
			out = append(out, ev)
		}
	}
	return out
}

func (n *recordingNotifier) namedTo(conn, event string) []sentEvent {
	var out []sentEvent
	for _, ev := range n.events {
		if ev.Conn == conn && ev.Event == event {
			out = append(out, ev)
		}
	}
	return out
}

func (n *recordingNotifier) lastCanStart(t *testing.T, host string) bool {
	t.Helper()
	events := n.namedTo(host, EventCanStartGame)
	if len(events) == 0 {
		t.Fatalf("expected can-start-game for %s", host)
	}
	return events[len(events)-1].Payload.(bool)
}

func (n *recordingNotifier) reset() {
	n.events = nil
}

type fakeTimer struct {
	at      time.Time
	seq     int
	fn      func()
	stopped bool
	fired   bool
}

// fakeScheduler fires timers synchronously on the test goroutine, which
// stands in for the reactor.
type fakeScheduler struct {
	now    time.Time
	seq    int
	timers []*fakeTimer
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (s *fakeScheduler) Now() time.Time {
	return s.now
}

func (s *fakeScheduler) AfterFunc(d time.Duration, fn func()) func() bool {
	s.seq++
	timer := &fakeTimer{at: s.now.Add(d), seq: s.seq, fn: fn}
	s.timers = append(s.timers, timer)
	return func() bool {
		if timer.fired || timer.stopped {
			return false
		}
		timer.stopped = true
		return true
	}
}

func (s *fakeScheduler) Advance(d time.Duration) {
	target := s.now.Add(d)
	for {
		next := s.nextDue(target)
		if next == nil {
			break
		}
		s.now = next.at
		next.fired = true
		next.fn()
	}
	s.now = target
}

func (s *fakeScheduler) nextDue(target time.Time) *fakeTimer {
	var due []*fakeTimer
	for _, timer := range s.timers {
		if timer.fired || timer.stopped || timer.at.After(target) {
			continue
		}
		due = append(due, timer)
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if !due[i].at.Equal(due[j].at) {
			return due[i].at.Before(due[j].at)
		}
		return due[i].seq < due[j].seq
	})
	return due[0]
}

func (s *fakeScheduler) pending() int {
	count := 0
	for _, timer := range s.timers {
		if !timer.fired && !timer.stopped {
			count++
		}
	}
	return count
}

func fixedCodes(codes ...string) CodeGenerator {
	i := 0
	return func() string {
		code := codes[i%len(codes)]
		i++
		return code
	}
}

func newTestEngine(t *testing.T, codes ...string) (*Engine, *recordingNotifier, *fakeScheduler) {
	t.Helper()
	notifier := &recordingNotifier{}
	sched := newFakeScheduler()
	opts := []Option{
		WithClock(sched.Now),
		WithRand(rand.New(rand.NewPCG(1, 2))),
	}
	if len(codes) > 0 {
		opts = append(opts, WithCodeGenerator(fixedCodes(codes...)))
	}
	return NewEngine(DefaultSettings(), notifier, sched, opts...), notifier, sched
}

func createRoom(t *testing.T, e *Engine, conn, name string) string {
	t.Helper()
	var ack CreateRoomAck
	e.Handle(CreateRoom{ConnID: conn, Info: PlayerInfo{DisplayName: name}, Ack: func(a CreateRoomAck) { ack = a }})
	if !ack.Success {
		t.Fatalf("create room failed: %+v", ack)
	}
	return ack.RoomCode
}

func joinRoom(t *testing.T, e *Engine, code, conn, name string) JoinRoomAck {
	t.Helper()
	var ack JoinRoomAck
	e.Handle(JoinRoom{ConnID: conn, Code: code, Info: PlayerInfo{DisplayName: name}, Ack: func(a JoinRoomAck) { ack = a }})
	return ack
}

// playingRoom builds a room with the given connections (first is host) and
// runs the countdown to completion.
func playingRoom(t *testing.T, e *Engine, sched *fakeScheduler, conns ...string) *Room {
	t.Helper()
	code := createRoom(t, e, conns[0], conns[0])
	for _, conn := range conns[1:] {
		if ack := joinRoom(t, e, code, conn, conn); !ack.Success {
			t.Fatalf("join failed: %+v", ack)
		}
	}
	e.Handle(StartGame{ConnID: conns[0]})
	sched.Advance(time.Duration(e.cfg.CountdownTicks) * e.cfg.TickInterval)
	room, ok := e.store.Find(code)
	if !ok || room.State != statePlaying {
		t.Fatalf("expected playing room")
	}
	return room
}

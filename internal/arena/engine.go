package arena

import (
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog/log"
)

// Settings are the tunables of the room coordinator.
type Settings struct {
	RunnerMaxPlayers  int
	QuizMaxPlayers    int
	CountdownTicks    int
	TickInterval      time.Duration
	ObstacleInterval  time.Duration
	ObstacleRetention time.Duration
	EndGrace          time.Duration
	Multipliers       []float64
}

func DefaultSettings() Settings {
	return Settings{
		RunnerMaxPlayers:  6,
		QuizMaxPlayers:    5,
		CountdownTicks:    3,
		TickInterval:      time.Second,
		ObstacleInterval:  2 * time.Second,
		ObstacleRetention: 10 * time.Second,
		EndGrace:          2 * time.Second,
		Multipliers:       []float64{3, 2, 1.5},
	}
}

// Recorder receives finished matches. It is called on the reactor goroutine
// and must not block.
type Recorder interface {
	RecordMatch(record MatchRecord)
}

type Option func(*Engine)

func WithCodeGenerator(gen CodeGenerator) Option {
	return func(e *Engine) {
		e.store = NewRoomStore(gen)
	}
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

func WithRecorder(rec Recorder) Option {
	return func(e *Engine) {
		e.recorder = rec
	}
}

func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) {
		e.rng = rng
	}
}

// Engine owns every room and executes commands. It is not safe for
// concurrent use; drive it from a single Loop.
type Engine struct {
	store    *RoomStore
	notify   Notifier
	sched    Scheduler
	recorder Recorder
	cfg      Settings
	now      func() time.Time
	rng      *rand.Rand
}

func NewEngine(cfg Settings, notify Notifier, sched Scheduler, opts ...Option) *Engine {
	e := &Engine{
		store:  NewRoomStore(nil),
		notify: notify,
		sched:  sched,
		cfg:    cfg,
		now: func() time.Time {
			return time.Now().UTC()
		},
		rng: rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5eed)),
	}
	for _, opt := range opts {
		opt(e)
	}
	if len(e.cfg.Multipliers) == 0 {
		e.cfg.Multipliers = DefaultSettings().Multipliers
	}
	return e
}

func (e *Engine) Store() *RoomStore {
	return e.store
}

// Handle dispatches one command to its handler.
func (e *Engine) Handle(cmd Command) {
	switch c := cmd.(type) {
	case CreateRoom:
		e.createRoom(c)
	case JoinRoom:
		e.joinRoom(c)
	case SetReady:
		e.setReady(c)
	case StartGame:
		e.startGame(c)
	case UpdatePlayer:
		e.updatePlayer(c)
	case ReportElimination:
		e.reportElimination(c)
	case PausePlayer:
		e.pausePlayer(c)
	case ResumePlayer:
		e.resumePlayer(c)
	case AnswerQuiz:
		e.answerQuiz(c)
	case LeaveRoom:
		e.leave(c.ConnID, true)
	case Disconnect:
		e.leave(c.ConnID, false)
	default:
		log.Warn().Str("conn", cmd.connection()).Msgf("unhandled command %T", cmd)
	}
}

// Summaries lists live rooms. Call it on the reactor goroutine.
func (e *Engine) Summaries() []RoomSummary {
	return e.store.Summaries()
}

// Summary looks up one room. Call it on the reactor goroutine.
func (e *Engine) Summary(code string) (RoomSummary, bool) {
	room, ok := e.store.Find(code)
	if !ok {
		return RoomSummary{}, false
	}
	return room.summary(), true
}

func (e *Engine) capacity(mode string) int {
	if mode == ModeQuizRun {
		return e.cfg.QuizMaxPlayers
	}
	return e.cfg.RunnerMaxPlayers
}

func normalizeMode(mode string) string {
	if mode == ModeQuizRun {
		return ModeQuizRun
	}
	return ModeRunner
}

// playerIn resolves the room and player behind a connection.
func (e *Engine) playerIn(connID string) (*Room, *Player, bool) {
	room, ok := e.store.RoomOf(connID)
	if !ok {
		return nil, nil, false
	}
	player, ok := room.Players[connID]
	if !ok {
		return nil, nil, false
	}
	return room, player, true
}

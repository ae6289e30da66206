package results

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"cyberquest/internal/arena"
)

// Sink persists one finished match. It may block.
type Sink interface {
	Save(ctx context.Context, record arena.MatchRecord) error
}

const saveTimeout = 5 * time.Second

// Async queues finished matches for a Sink so the reactor never waits on I/O.
type Async struct {
	name  string
	sink  Sink
	queue chan arena.MatchRecord
}

func NewAsync(name string, sink Sink, buffer int) *Async {
	if buffer <= 0 {
		buffer = 64
	}
	return &Async{
		name:  name,
		sink:  sink,
		queue: make(chan arena.MatchRecord, buffer),
	}
}

// RecordMatch enqueues record, dropping it when the queue is full.
func (a *Async) RecordMatch(record arena.MatchRecord) {
	select {
	case a.queue <- record:
	default:
		log.Warn().Str("sink", a.name).Str("room", record.RoomCode).Msg("results queue full, dropping match")
	}
}

func (a *Async) Pending() int {
	return len(a.queue)
}

// Run drains the queue until ctx is cancelled, then flushes what is left.
func (a *Async) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			a.flush()
			return
		case record := <-a.queue:
			a.save(ctx, record)
		}
	}
}

func (a *Async) flush() {
	for {
		select {
		case record := <-a.queue:
			a.save(context.Background(), record)
		default:
			return
		}
	}
}

func (a *Async) save(parent context.Context, record arena.MatchRecord) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), saveTimeout)
	defer cancel()
	if err := a.sink.Save(ctx, record); err != nil {
		log.Error().Err(err).Str("sink", a.name).Str("room", record.RoomCode).Msg("failed to save match")
		return
	}
	log.Debug().Str("sink", a.name).Str("room", record.RoomCode).Int("players", len(record.Results)).Msg("match saved")
}

// Multi fans a finished match out to several recorders.
type Multi []arena.Recorder

func (m Multi) RecordMatch(record arena.MatchRecord) {
	for _, rec := range m {
		if rec != nil {
			rec.RecordMatch(record)
		}
	}
}

package arena

import (
	"time"

	"github.com/rs/zerolog/log"
)

// Phase order: lobby -> countdown -> playing -> finished -> waiting.
// waiting behaves like lobby for joins, ready toggles and start.

func (e *Engine) setPhase(room *Room, state string) {
	from := room.State
	room.State = state
	switch from {
	case stateCountdown:
		if state != stateCountdown {
			room.tasks.cancel(taskCountdown)
		}
	case statePlaying:
		if state != statePlaying {
			room.tasks.cancel(taskObstacles)
		}
	}
	log.Debug().Str("room", room.Code).Str("from", from).Str("to", state).Msg("phase changed")
}

func (e *Engine) startGame(c StartGame) {
	room, ok := e.store.RoomOf(c.ConnID)
	if !ok {
		return
	}
	if room.HostConnID != c.ConnID {
		log.Debug().Str("room", room.Code).Str("conn", c.ConnID).Msg("start ignored: not host")
		return
	}
	if !room.acceptingJoins() {
		e.sendError(c.ConnID, ErrGameInProgress)
		return
	}
	if len(room.Players) < minPlayersToStart {
		e.sendError(c.ConnID, ErrNotEnoughPlayers)
		return
	}
	e.setPhase(room, stateCountdown)
	log.Info().Str("room", room.Code).Int("players", len(room.Players)).Msg("countdown started")
	e.toRoom(room, EventGameStarting, nil)
	e.countdown(room, e.cfg.CountdownTicks)
}

// countdown emits remaining and schedules the next tick. Departures do not
// abort it; the round starts with whoever is left.
func (e *Engine) countdown(room *Room, remaining int) {
	if room.State != stateCountdown {
		return
	}
	if remaining <= 0 {
		e.beginPlaying(room)
		return
	}
	e.toRoom(room, EventCountdownTick, remaining)
	e.schedule(room, taskCountdown, e.cfg.TickInterval, func(room *Room) {
		e.countdown(room, remaining-1)
	})
}

func (e *Engine) beginPlaying(room *Room) {
	e.setPhase(room, statePlaying)
	room.GameStartedAt = e.now()
	room.Obstacles = nil
	room.endPending = false
	log.Info().Str("room", room.Code).Int("players", len(room.Players)).Msg("game started")
	e.toRoom(room, EventGameStarted, gameStarted{StartedAt: room.GameStartedAt.UnixMilli()})
	e.scheduleObstacle(room)
}

func (e *Engine) finishGame(room *Room) {
	if room.State != statePlaying {
		return
	}
	e.setPhase(room, stateFinished)
	finishedAt := e.now()
	results := rankPlayers(room.Players, e.cfg.Multipliers)
	log.Info().Str("room", room.Code).Int("players", len(results)).Msg("game ended")
	e.toRoom(room, EventGameEnded, gameEnded{Results: results})
	if e.recorder != nil {
		e.recorder.RecordMatch(MatchRecord{
			RoomCode:   room.Code,
			Mode:       room.Mode,
			StartedAt:  room.GameStartedAt,
			FinishedAt: finishedAt,
			Results:    results,
		})
	}
	e.resetForRematch(room)
}

// resetForRematch moves a finished room to waiting, keeping code, host and
// membership.
func (e *Engine) resetForRematch(room *Room) {
	for _, player := range room.Players {
		player.Ready = false
		player.Paused = false
		player.IsEliminated = false
		player.Score = 0
		player.FinalScore = 0
		player.EliminatedAt = time.Time{}
		player.Position = Position{}
	}
	clear(room.ReadyIDs)
	room.Obstacles = nil
	room.endPending = false
	e.setPhase(room, stateWaiting)
	e.broadcastPlayers(room)
	e.notifyCanStart(room)
}

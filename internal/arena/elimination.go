package arena

import "github.com/rs/zerolog/log"

func (e *Engine) updatePlayer(c UpdatePlayer) {
	room, player, ok := e.playerIn(c.ConnID)
	if !ok || room.State != statePlaying || player.IsEliminated {
		return
	}
	player.Position = c.Position
	player.Score = c.Score
	e.toOthers(room, c.ConnID, EventPlayerMoved, playerMoved{
		PlayerID: c.ConnID,
		Position: c.Position,
		Score:    c.Score,
	})
}

func (e *Engine) pausePlayer(c PausePlayer) {
	room, player, ok := e.playerIn(c.ConnID)
	if !ok || room.State != statePlaying {
		return
	}
	player.Paused = true
	player.Position = c.Position
	e.toOthers(room, c.ConnID, EventPlayerPaused, playerPaused{PlayerID: c.ConnID, Position: c.Position})
}

func (e *Engine) resumePlayer(c ResumePlayer) {
	room, player, ok := e.playerIn(c.ConnID)
	if !ok || room.State != statePlaying {
		return
	}
	player.Paused = false
	player.Position = c.Position
	e.toOthers(room, c.ConnID, EventPlayerResumed, playerPaused{PlayerID: c.ConnID, Position: c.Position})
}

func (e *Engine) reportElimination(c ReportElimination) {
	room, player, ok := e.playerIn(c.ConnID)
	if !ok {
		return
	}
	e.eliminate(room, player, c.Score, "collision")
}

// answerQuiz relays the answer to the other players; a wrong answer
// eliminates immediately with the last reported score.
func (e *Engine) answerQuiz(c AnswerQuiz) {
	room, player, ok := e.playerIn(c.ConnID)
	if !ok || room.State != statePlaying {
		return
	}
	e.toOthers(room, c.ConnID, EventPlayerAnswered, playerAnswered{PlayerID: c.ConnID, Correct: c.Correct})
	if !c.Correct {
		e.eliminate(room, player, player.Score, "quiz")
	}
}

// eliminate is idempotent: it reports false when the player was already out
// or the room is not playing.
func (e *Engine) eliminate(room *Room, player *Player, score int, cause string) bool {
	if room.State != statePlaying || player.IsEliminated {
		return false
	}
	player.IsEliminated = true
	player.Score = score
	player.FinalScore = score
	player.EliminatedAt = e.now()
	log.Info().Str("room", room.Code).Str("conn", player.ConnID).Str("cause", cause).Int("score", score).Msg("player eliminated")
	e.toRoom(room, EventPlayerEliminated, playerEliminated{
		PlayerID:    player.ConnID,
		DisplayName: player.DisplayName,
		Score:       score,
	})
	e.checkEndOfGame(room)
	return true
}

// checkEndOfGame schedules the finish once per round when nobody is active.
func (e *Engine) checkEndOfGame(room *Room) {
	if room.State != statePlaying || room.endPending {
		return
	}
	if room.activeCount() > 0 {
		return
	}
	room.endPending = true
	log.Debug().Str("room", room.Code).Dur("grace", e.cfg.EndGrace).Msg("end of game scheduled")
	e.schedule(room, taskEndGame, e.cfg.EndGrace, e.finishGame)
}

package arena

import "github.com/rs/zerolog/log"

const minPlayersToStart = 2

func (e *Engine) setReady(c SetReady) {
	room, player, ok := e.playerIn(c.ConnID)
	if !ok {
		return
	}
	if !room.acceptingJoins() {
		return
	}
	// The host signals readiness by starting the game.
	if room.HostConnID == c.ConnID {
		return
	}
	player.Ready = c.Ready
	if c.Ready {
		room.ReadyIDs[c.ConnID] = struct{}{}
	} else {
		delete(room.ReadyIDs, c.ConnID)
	}
	log.Debug().Str("room", room.Code).Str("conn", c.ConnID).Bool("ready", c.Ready).Msg("ready changed")
	e.broadcastPlayers(room)
	e.notifyCanStart(room)
}

// canStart holds when at least two players are present and every non-host
// player is ready.
func canStart(room *Room) bool {
	if len(room.Players) < minPlayersToStart {
		return false
	}
	for connID, player := range room.Players {
		if connID == room.HostConnID {
			continue
		}
		if !player.Ready {
			return false
		}
	}
	return true
}

func (e *Engine) notifyCanStart(room *Room) {
	e.toHost(room, EventCanStartGame, canStart(room))
}

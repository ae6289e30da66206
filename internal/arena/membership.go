package arena

import "github.com/rs/zerolog/log"

func (e *Engine) createRoom(c CreateRoom) {
	if _, ok := e.store.RoomOf(c.ConnID); ok {
		e.leave(c.ConnID, false)
	}
	mode := normalizeMode(c.Mode)
	room := e.store.Create(c.ConnID, c.Info, mode, e.capacity(mode), e.now())
	log.Info().Str("room", room.Code).Str("conn", c.ConnID).Str("mode", mode).Msg("room created")
	if c.Ack != nil {
		c.Ack(CreateRoomAck{Success: true, RoomCode: room.Code})
	}
	e.broadcastPlayers(room)
	e.notifyCanStart(room)
}

func (e *Engine) joinRoom(c JoinRoom) {
	lane, code, err := e.join(c.Code, c.ConnID, c.Info)
	if err != nil {
		log.Debug().Str("room", normalizeCode(c.Code)).Str("conn", c.ConnID).Err(err).Msg("join rejected")
		if c.Ack != nil {
			c.Ack(JoinRoomAck{Success: false, Error: err.Error()})
		} else {
			e.sendError(c.ConnID, err)
		}
		return
	}
	if c.Ack != nil {
		c.Ack(JoinRoomAck{Success: true, RoomCode: code, Lane: lane})
	}
	if room, ok := e.store.Find(code); ok {
		e.broadcastPlayers(room)
		e.notifyCanStart(room)
	}
}

// join validates the target room before touching any state, so a rejected
// join never mutates the room or the caller's current membership.
func (e *Engine) join(code, connID string, info PlayerInfo) (int, string, error) {
	room, ok := e.store.Find(code)
	if !ok {
		return 0, "", ErrRoomNotFound
	}
	if existing, ok := room.Players[connID]; ok {
		return existing.Lane, room.Code, nil
	}
	if len(room.Players) >= room.MaxPlayers {
		return 0, "", ErrRoomFull
	}
	if !room.acceptingJoins() {
		return 0, "", ErrGameInProgress
	}
	if _, ok := e.store.RoomOf(connID); ok {
		e.leave(connID, false)
	}
	lane := room.freeLane()
	room.Players[connID] = &Player{
		ConnID:      connID,
		DisplayName: info.DisplayName,
		AvatarRef:   info.AvatarRef,
		Lane:        lane,
		JoinedAt:    e.now(),
	}
	e.store.bind(connID, room.Code)
	log.Info().Str("room", room.Code).Str("conn", connID).Int("lane", lane).Msg("player joined")
	return lane, room.Code, nil
}

// leave removes connID from its room. explicit distinguishes a leave-room
// request, which is acknowledged, from a dropped connection.
func (e *Engine) leave(connID string, explicit bool) {
	room, ok := e.store.RoomOf(connID)
	if !ok {
		e.store.unbind(connID)
		if explicit {
			e.toConn(connID, EventLeftRoom, nil)
		}
		return
	}
	e.store.unbind(connID)
	delete(room.Players, connID)
	delete(room.ReadyIDs, connID)
	if explicit {
		e.toConn(connID, EventLeftRoom, nil)
	}
	log.Info().Str("room", room.Code).Str("conn", connID).Bool("explicit", explicit).Msg("player left")

	if len(room.Players) == 0 {
		e.store.Delete(room.Code)
		log.Info().Str("room", room.Code).Msg("room deleted (empty)")
		return
	}
	if room.HostConnID == connID {
		e.promoteHost(room)
	}
	e.broadcastPlayers(room)
	e.notifyCanStart(room)
	if room.State == statePlaying {
		e.checkEndOfGame(room)
	}
}

// promoteHost hands the room to the remaining player with the lowest lane.
func (e *Engine) promoteHost(room *Room) {
	var next *Player
	for _, player := range room.Players {
		if next == nil || player.Lane < next.Lane || (player.Lane == next.Lane && player.ConnID < next.ConnID) {
			next = player
		}
	}
	if next == nil {
		room.HostConnID = ""
		return
	}
	room.HostConnID = next.ConnID
	next.Ready = false
	delete(room.ReadyIDs, next.ConnID)
	log.Info().Str("room", room.Code).Str("conn", next.ConnID).Msg("host reassigned")
	e.toConn(next.ConnID, EventYouAreHost, nil)
}

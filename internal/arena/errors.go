package arena

import "errors"

// The error text is shown to players verbatim.
var (
	ErrRoomNotFound     = errors.New("Room not found")
	ErrRoomFull         = errors.New("Room is full")
	ErrGameInProgress   = errors.New("Game already in progress")
	ErrNotEnoughPlayers = errors.New("Need at least 2 players to start")
)

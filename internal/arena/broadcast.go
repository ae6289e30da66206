package arena

import "sort"

const (
	EventPlayersUpdated   = "players-updated"
	EventCanStartGame     = "can-start-game"
	EventGameStarting     = "game-starting"
	EventCountdownTick    = "countdown-tick"
	EventGameStarted      = "game-started"
	EventObstacleSpawned  = "obstacle-spawned"
	EventPlayerMoved      = "player-moved"
	EventPlayerEliminated = "player-eliminated"
	EventPlayerPaused     = "player-paused"
	EventPlayerResumed    = "player-resumed"
	EventPlayerAnswered   = "player-answered-quiz"
	EventGameEnded        = "game-ended"
	EventLeftRoom         = "left-room"
	EventYouAreHost       = "you-are-host"
	EventErrorMessage     = "error-message"
)

// Notifier delivers one event to one connection. Audience selection happens
// in the engine so the rules stay in one place.
type Notifier interface {
	Send(connID string, event string, payload any)
}

type PlayerView struct {
	ID           string   `json:"id"`
	DisplayName  string   `json:"displayName"`
	AvatarRef    string   `json:"avatarRef"`
	Lane         int      `json:"lane"`
	Ready        bool     `json:"ready"`
	IsHost       bool     `json:"isHost"`
	Score        int      `json:"score"`
	IsEliminated bool     `json:"isEliminated"`
	Paused       bool     `json:"paused"`
	Position     Position `json:"position"`
}

type playersUpdated struct {
	Players []PlayerView `json:"players"`
	Count   int          `json:"count"`
}

type gameStarted struct {
	StartedAt int64 `json:"startedAt"`
}

type obstacleSpawned struct {
	ID        int      `json:"id"`
	Kind      string   `json:"kind"`
	Position  Position `json:"position"`
	Timestamp int64    `json:"timestamp"`
}

type playerMoved struct {
	PlayerID string   `json:"playerId"`
	Position Position `json:"position"`
	Score    int      `json:"score"`
}

type playerEliminated struct {
	PlayerID    string `json:"playerId"`
	DisplayName string `json:"displayName"`
	Score       int    `json:"score"`
}

type playerPaused struct {
	PlayerID string   `json:"playerId"`
	Position Position `json:"position"`
}

type playerAnswered struct {
	PlayerID string `json:"playerId"`
	Correct  bool   `json:"correct"`
}

type gameEnded struct {
	Results []Result `json:"results"`
}

func (e *Engine) toConn(connID, event string, payload any) {
	e.notify.Send(connID, event, payload)
}

func (e *Engine) toRoom(room *Room, event string, payload any) {
	for connID := range room.Players {
		e.notify.Send(connID, event, payload)
	}
}

func (e *Engine) toOthers(room *Room, sender, event string, payload any) {
	for connID := range room.Players {
		if connID == sender {
			continue
		}
		e.notify.Send(connID, event, payload)
	}
}

func (e *Engine) toHost(room *Room, event string, payload any) {
	if room.HostConnID == "" {
		return
	}
	e.notify.Send(room.HostConnID, event, payload)
}

func (e *Engine) sendError(connID string, err error) {
	e.toConn(connID, EventErrorMessage, err.Error())
}

func (e *Engine) broadcastPlayers(room *Room) {
	views := playerViews(room)
	e.toRoom(room, EventPlayersUpdated, playersUpdated{Players: views, Count: len(views)})
}

func playerViews(room *Room) []PlayerView {
	views := make([]PlayerView, 0, len(room.Players))
	for _, player := range room.Players {
		views = append(views, PlayerView{
			ID:           player.ConnID,
			DisplayName:  player.DisplayName,
			AvatarRef:    player.AvatarRef,
			Lane:         player.Lane,
			Ready:        player.Ready,
			IsHost:       player.ConnID == room.HostConnID,
			Score:        player.Score,
			IsEliminated: player.IsEliminated,
			Paused:       player.Paused,
			Position:     player.Position,
		})
	}
	sort.Slice(views, func(i, j int) bool {
		return views[i].Lane < views[j].Lane
	})
	return views
}

package arena

import "time"

const (
	stateLobby     = "lobby"
	stateCountdown = "countdown"
	statePlaying   = "playing"
	stateFinished  = "finished"
	stateWaiting   = "waiting"
)

const (
	ModeRunner  = "runner"
	ModeQuizRun = "quiz-run"
)

const (
	obstacleGround = "ground"
	obstacleAir    = "air"
)

// PlayerInfo is the presentation data a client supplies when it enters a room.
// The arena never interprets it.
type PlayerInfo struct {
	DisplayName string
	AvatarRef   string
}

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Player struct {
	ConnID       string
	DisplayName  string
	AvatarRef    string
	Lane         int
	Position     Position
	Score        int
	Ready        bool
	Paused       bool
	IsEliminated bool
	FinalScore   int
	EliminatedAt time.Time
	JoinedAt     time.Time
}

type Obstacle struct {
	ID        int       `json:"id"`
	Kind      string    `json:"kind"`
	Position  Position  `json:"position"`
	Timestamp time.Time `json:"timestamp"`
}

type Room struct {
	Code          string
	Mode          string
	HostConnID    string
	State         string
	MaxPlayers    int
	Players       map[string]*Player
	ReadyIDs      map[string]struct{}
	GameStartedAt time.Time
	Obstacles     []Obstacle
	ObstacleSeq   int

	tasks      taskList
	endPending bool
}

// RoomSummary is a read-only view of a room for HTTP listings.
type RoomSummary struct {
	Code       string `json:"code"`
	Mode       string `json:"mode"`
	State      string `json:"state"`
	Players    int    `json:"players"`
	MaxPlayers int    `json:"max_players"`
}

// Result is one ranked row of a finished game.
type Result struct {
	Rank        int     `json:"rank"`
	PlayerID    string  `json:"playerId"`
	DisplayName string  `json:"displayName"`
	AvatarRef   string  `json:"avatarRef"`
	Score       int     `json:"score"`
	Multiplier  float64 `json:"multiplier"`
	FinalScore  int     `json:"finalScore"`
	Eliminated  bool    `json:"eliminated"`
}

// MatchRecord is handed to the Recorder once per finished game.
type MatchRecord struct {
	RoomCode   string
	Mode       string
	StartedAt  time.Time
	FinishedAt time.Time
	Results    []Result
}

func (r *Room) summary() RoomSummary {
	return RoomSummary{
		Code:       r.Code,
		Mode:       r.Mode,
		State:      r.State,
		Players:    len(r.Players),
		MaxPlayers: r.MaxPlayers,
	}
}

func (r *Room) acceptingJoins() bool {
	return r.State == stateLobby || r.State == stateWaiting
}

func (r *Room) activeCount() int {
	count := 0
	for _, player := range r.Players {
		if !player.IsEliminated {
			count++
		}
	}
	return count
}

func (r *Room) freeLane() int {
	taken := make(map[int]struct{}, len(r.Players))
	for _, player := range r.Players {
		taken[player.Lane] = struct{}{}
	}
	lane := 0
	for {
		if _, ok := taken[lane]; !ok {
			return lane
		}
		lane++
	}
}

package web

import "time"

type RoomRow struct {
	Code       string
	Mode       string
	State      string
	Players    int
	MaxPlayers int
}

type MatchRow struct {
	RoomCode   string
	Mode       string
	Winner     string
	Players    int
	FinishedAt time.Time
}

type StandingRow struct {
	Name  string
	Score float64
}

type HomeData struct {
	Rooms        []RoomRow
	Matches      []MatchRow
	Standings    []StandingRow
	HasHistory   bool
	HasStandings bool
}

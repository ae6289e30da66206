package db

import "time"

type Match struct {
	ID         uint          `gorm:"primaryKey" json:"id"`
	RoomCode   string        `gorm:"size:12;index;not null" json:"room_code"`
	Mode       string        `gorm:"size:32;not null" json:"mode"`
	StartedAt  time.Time     `gorm:"not null" json:"started_at"`
	FinishedAt time.Time     `gorm:"not null;index" json:"finished_at"`
	CreatedAt  time.Time     `gorm:"not null" json:"-"`
	Results    []MatchResult `json:"results"`
	Events     []Event       `json:"-"`
}

type MatchResult struct {
	ID          uint    `gorm:"primaryKey" json:"-"`
	MatchID     uint    `gorm:"index;not null;uniqueIndex:idx_match_results_match_rank" json:"-"`
	Rank        int     `gorm:"not null;uniqueIndex:idx_match_results_match_rank" json:"rank"`
	PlayerID    string  `gorm:"size:64;not null" json:"player_id"`
	DisplayName string  `gorm:"size:64;not null" json:"display_name"`
	AvatarRef   string  `gorm:"size:128" json:"avatar_ref"`
	Score       int     `gorm:"not null" json:"score"`
	Multiplier  float64 `gorm:"not null" json:"multiplier"`
	FinalScore  int     `gorm:"not null" json:"final_score"`
	Eliminated  bool    `gorm:"not null;default:false" json:"eliminated"`
}

package results

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"cyberquest/internal/arena"
	"cyberquest/internal/db"
)

const eventGameEnded = "game_ended"

// MatchStore writes finished matches to Postgres.
type MatchStore struct {
	conn *gorm.DB
}

func NewMatchStore(conn *gorm.DB) *MatchStore {
	return &MatchStore{conn: conn}
}

func (s *MatchStore) Save(ctx context.Context, record arena.MatchRecord) error {
	match := matchFromRecord(record)
	payload, err := json.Marshal(record.Results)
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	return s.conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&match).Error; err != nil {
			return fmt.Errorf("create match: %w", err)
		}
		event := db.Event{
			MatchID:   match.ID,
			Type:      eventGameEnded,
			Payload:   datatypes.JSON(payload),
			CreatedAt: record.FinishedAt,
		}
		if err := tx.Create(&event).Error; err != nil {
			return fmt.Errorf("create event: %w", err)
		}
		return nil
	})
}

// Recent returns the latest finished matches with their standings.
func (s *MatchStore) Recent(ctx context.Context, limit int) ([]db.Match, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var matches []db.Match
	err := s.conn.WithContext(ctx).
		Preload("Results", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("rank ASC")
		}).
		Order("finished_at DESC").
		Limit(limit).
		Find(&matches).Error
	if err != nil {
		return nil, err
	}
	return matches, nil
}

func matchFromRecord(record arena.MatchRecord) db.Match {
	match := db.Match{
		RoomCode:   record.RoomCode,
		Mode:       record.Mode,
		StartedAt:  record.StartedAt,
		FinishedAt: record.FinishedAt,
		Results:    make([]db.MatchResult, 0, len(record.Results)),
	}
	for _, result := range record.Results {
		match.Results = append(match.Results, db.MatchResult{
			Rank:        result.Rank,
			PlayerID:    result.PlayerID,
			DisplayName: result.DisplayName,
			AvatarRef:   result.AvatarRef,
			Score:       result.Score,
			Multiplier:  result.Multiplier,
			FinalScore:  result.FinalScore,
			Eliminated:  result.Eliminated,
		})
	}
	return match
}

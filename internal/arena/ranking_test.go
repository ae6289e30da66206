package arena

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankPlayersOrderAndMultipliers(t *testing.T) {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	build := func() map[string]*Player {
		return map[string]*Player{
			"a": {ConnID: "a", DisplayName: "A", Lane: 0, IsEliminated: true, Score: 10, FinalScore: 10, EliminatedAt: base},
			"b": {ConnID: "b", DisplayName: "B", Lane: 1, IsEliminated: true, Score: 5, FinalScore: 5, EliminatedAt: base.Add(5 * time.Second)},
			"c": {ConnID: "c", DisplayName: "C", Lane: 2, Score: 1},
		}
	}

	for i := 0; i < 25; i++ {
		results := rankPlayers(build(), []float64{3, 2, 1.5})
		require.Len(t, results, 3)
		assert.Equal(t, []string{"c", "b", "a"}, []string{results[0].PlayerID, results[1].PlayerID, results[2].PlayerID})
		assert.Equal(t, []int{3, 10, 15}, []int{results[0].FinalScore, results[1].FinalScore, results[2].FinalScore})
		assert.Equal(t, []int{1, 2, 3}, []int{results[0].Rank, results[1].Rank, results[2].Rank})
		assert.False(t, results[0].Eliminated)
	}
}

func TestRankPlayersTieBreaks(t *testing.T) {
	at := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	players := map[string]*Player{
		"low":  {ConnID: "low", Lane: 0, Score: 4},
		"high": {ConnID: "high", Lane: 3, Score: 9},
		"e1":   {ConnID: "e1", Lane: 1, IsEliminated: true, FinalScore: 2, EliminatedAt: at},
		"e2":   {ConnID: "e2", Lane: 2, IsEliminated: true, FinalScore: 6, EliminatedAt: at},
		"e3":   {ConnID: "e3", Lane: 4, IsEliminated: true, FinalScore: 6, EliminatedAt: at},
	}

	results := rankPlayers(players, []float64{3, 2, 1.5})

	order := make([]string, 0, len(results))
	for _, result := range results {
		order = append(order, result.PlayerID)
	}
	assert.Equal(t, []string{"high", "low", "e2", "e3", "e1"}, order)
	assert.Equal(t, 27, results[0].FinalScore)
	assert.Equal(t, 8, results[1].FinalScore)
	assert.Equal(t, 9, results[2].FinalScore)
	assert.Equal(t, 1.0, results[3].Multiplier)
	assert.Equal(t, 2, results[4].FinalScore)
}

func TestMultiplierFloorsFractions(t *testing.T) {
	players := map[string]*Player{
		"a": {ConnID: "a", Score: 9},
		"b": {ConnID: "b", Score: 8},
		"c": {ConnID: "c", Score: 7},
	}
	results := rankPlayers(players, []float64{3, 2, 1.5})
	assert.Equal(t, 10, results[2].FinalScore)
}

package arena

import (
	"math"
	"sort"
)

// rankPlayers orders players for the end-of-game payload:
// active before eliminated, later elimination first, higher score first,
// then lane and connection id so the order never depends on map iteration.
func rankPlayers(players map[string]*Player, multipliers []float64) []Result {
	ordered := make([]*Player, 0, len(players))
	for _, player := range players {
		ordered = append(ordered, player)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ranksBefore(ordered[i], ordered[j])
	})

	results := make([]Result, 0, len(ordered))
	for i, player := range ordered {
		score := rankedScore(player)
		multiplier := multiplierFor(multipliers, i)
		results = append(results, Result{
			Rank:        i + 1,
			PlayerID:    player.ConnID,
			DisplayName: player.DisplayName,
			AvatarRef:   player.AvatarRef,
			Score:       score,
			Multiplier:  multiplier,
			FinalScore:  int(math.Floor(float64(score) * multiplier)),
			Eliminated:  player.IsEliminated,
		})
	}
	return results
}

func ranksBefore(a, b *Player) bool {
	if a.IsEliminated != b.IsEliminated {
		return !a.IsEliminated
	}
	if a.IsEliminated && !a.EliminatedAt.Equal(b.EliminatedAt) {
		return a.EliminatedAt.After(b.EliminatedAt)
	}
	if sa, sb := rankedScore(a), rankedScore(b); sa != sb {
		return sa > sb
	}
	if a.Lane != b.Lane {
		return a.Lane < b.Lane
	}
	return a.ConnID < b.ConnID
}

func rankedScore(player *Player) int {
	if player.IsEliminated {
		return player.FinalScore
	}
	return player.Score
}

func multiplierFor(multipliers []float64, index int) float64 {
	if index < len(multipliers) {
		return multipliers[index]
	}
	return 1
}

package social

import (
	"sort"

	"github.com/Ramsey-B/clover/pkg/models"
)

// suggestionRow is one (candidate, intermediate friend) pair from the
// two hop traversal.
type suggestionRow struct {
	PlayerID string
	Username string
	Status   string
	Via      string
}

// rankSuggestions aggregates candidate rows into ranked suggestions.
// The score is the number of distinct mutual friends; ties break by
// candidate player_id ascending so results are deterministic.
func rankSuggestions(rows []suggestionRow, limit int) []models.FriendSuggestion {
	type candidate struct {
		username string
		status   string
		via      map[string]struct{}
	}

	candidates := map[string]*candidate{}
	for _, row := range rows {
		c, ok := candidates[row.PlayerID]
		if !ok {
			c = &candidate{
				username: row.Username,
				status:   row.Status,
				via:      map[string]struct{}{},
			}
			candidates[row.PlayerID] = c
		}
		c.via[row.Via] = struct{}{}
	}

	suggestions := make([]models.FriendSuggestion, 0, len(candidates))
	for playerID, c := range candidates {
		suggestions = append(suggestions, models.FriendSuggestion{
			PlayerID:      playerID,
			Username:      c.username,
			Status:        c.status,
			MutualFriends: len(c.via),
		})
	}

	sort.Slice(suggestions, func(i, j int) bool {
		if suggestions[i].MutualFriends != suggestions[j].MutualFriends {
			return suggestions[i].MutualFriends > suggestions[j].MutualFriends
		}
		return suggestions[i].PlayerID < suggestions[j].PlayerID
	})

	if limit > 0 && len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions
}

package social

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankSuggestions(t *testing.T) {
	t.Run("counts distinct mutual friends", func(t *testing.T) {
		rows := []suggestionRow{
			{PlayerID: "p4", Username: "dana", Status: "online", Via: "p2"},
			{PlayerID: "p4", Username: "dana", Status: "online", Via: "p3"},
			{PlayerID: "p5", Username: "eli", Status: "offline", Via: "p2"},
		}

		got := rankSuggestions(rows, 10)
		require.Len(t, got, 2)

		assert.Equal(t, "p4", got[0].PlayerID)
		assert.Equal(t, 2, got[0].MutualFriends)
		assert.Equal(t, "p5", got[1].PlayerID)
		assert.Equal(t, 1, got[1].MutualFriends)
	})

	t.Run("duplicate via rows count once", func(t *testing.T) {
		rows := []suggestionRow{
			{PlayerID: "p4", Via: "p2"},
			{PlayerID: "p4", Via: "p2"},
		}

		got := rankSuggestions(rows, 10)
		require.Len(t, got, 1)
		assert.Equal(t, 1, got[0].MutualFriends)
	})

	t.Run("ties break by player id ascending", func(t *testing.T) {
		rows := []suggestionRow{
			{PlayerID: "p9", Via: "p2"},
			{PlayerID: "p1", Via: "p3"},
			{PlayerID: "p5", Via: "p2"},
		}

		got := rankSuggestions(rows, 10)
		require.Len(t, got, 3)
		assert.Equal(t, "p1", got[0].PlayerID)
		assert.Equal(t, "p5", got[1].PlayerID)
		assert.Equal(t, "p9", got[2].PlayerID)
	})

	t.Run("truncates to limit after ranking", func(t *testing.T) {
		rows := []suggestionRow{
			{PlayerID: "a", Via: "f1"},
			{PlayerID: "b", Via: "f1"},
			{PlayerID: "b", Via: "f2"},
			{PlayerID: "c", Via: "f1"},
		}

		got := rankSuggestions(rows, 2)
		require.Len(t, got, 2)
		assert.Equal(t, "b", got[0].PlayerID)
		assert.Equal(t, "a", got[1].PlayerID)
	})

	t.Run("empty input yields empty output", func(t *testing.T) {
		got := rankSuggestions(nil, 10)
		assert.Empty(t, got)
	})
}

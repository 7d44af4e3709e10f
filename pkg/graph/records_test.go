package graph

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordHelpers(t *testing.T) {
	now := time.Now().UTC()
	record := map[string]any{
		"name":    "alice",
		"empty":   "",
		"flag":    true,
		"count":   int64(7),
		"rank":    3,
		"ratio":   2.0,
		"when":    now,
		"nothing": nil,
	}

	t.Run("AsString", func(t *testing.T) {
		assert.Equal(t, "alice", AsString(record, "name"))
		assert.Equal(t, "", AsString(record, "missing"))
		assert.Equal(t, "", AsString(record, "nothing"))
	})

	t.Run("AsStringPtr", func(t *testing.T) {
		got := AsStringPtr(record, "name")
		require.NotNil(t, got)
		assert.Equal(t, "alice", *got)
		assert.Nil(t, AsStringPtr(record, "empty"))
		assert.Nil(t, AsStringPtr(record, "nothing"))
	})

	t.Run("AsBool", func(t *testing.T) {
		assert.True(t, AsBool(record, "flag"))
		assert.False(t, AsBool(record, "missing"))
	})

	t.Run("AsInt", func(t *testing.T) {
		assert.Equal(t, 7, AsInt(record, "count"))
		assert.Equal(t, 3, AsInt(record, "rank"))
		assert.Equal(t, 2, AsInt(record, "ratio"))
		assert.Equal(t, 0, AsInt(record, "missing"))
	})

	t.Run("AsTime", func(t *testing.T) {
		assert.Equal(t, now, AsTime(record, "when"))
		assert.True(t, AsTime(record, "missing").IsZero())
	})

	t.Run("AsTimePtr", func(t *testing.T) {
		got := AsTimePtr(record, "when")
		require.NotNil(t, got)
		assert.Equal(t, now, *got)
		assert.Nil(t, AsTimePtr(record, "nothing"))
	})
}

func TestAsMapList(t *testing.T) {
	t.Run("collects map entries", func(t *testing.T) {
		record := map[string]any{
			"members": []any{
				map[string]any{"player_id": "p1"},
				map[string]any{"player_id": "p2"},
			},
		}

		got := AsMapList(record, "members")
		require.Len(t, got, 2)
		assert.Equal(t, "p1", AsString(got[0], "player_id"))
	})

	t.Run("drops all-null entries from unmatched optional match", func(t *testing.T) {
		record := map[string]any{
			"members": []any{
				map[string]any{"player_id": nil, "username": nil},
			},
		}

		assert.Empty(t, AsMapList(record, "members"))
	})

	t.Run("missing key yields nil", func(t *testing.T) {
		assert.Nil(t, AsMapList(map[string]any{}, "members"))
	})
}

package social

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorStatusCode(t *testing.T) {
	cases := []struct {
		err  *Error
		want int
	}{
		{NotFoundf("missing"), http.StatusNotFound},
		{Conflictf("duplicate"), http.StatusBadRequest},
		{InvalidStatef("bad state"), http.StatusBadRequest},
		{Forbiddenf("not a member"), http.StatusForbidden},
		{Unavailablef("store offline"), http.StatusServiceUnavailable},
		{Timeoutf("too slow"), http.StatusServiceUnavailable},
		{Internal("boom", nil), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(string(tc.err.Kind), func(t *testing.T) {
			assert.Equal(t, tc.want, tc.err.StatusCode())
		})
	}
}

func TestKindOf(t *testing.T) {
	t.Run("taxonomy error", func(t *testing.T) {
		assert.Equal(t, KindNotFound, KindOf(NotFoundf("gone")))
	})

	t.Run("wrapped taxonomy error", func(t *testing.T) {
		wrapped := fmt.Errorf("outer: %w", Conflictf("dup"))
		assert.Equal(t, KindConflict, KindOf(wrapped))
		assert.True(t, IsConflict(wrapped))
	})

	t.Run("plain error is internal", func(t *testing.T) {
		assert.Equal(t, KindInternal, KindOf(errors.New("driver fault")))
	})
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := Internal("write failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "write failed")
	assert.Contains(t, err.Error(), "connection reset")
}

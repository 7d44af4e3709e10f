package friends

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Validation failures return before the handler touches the service, so
// these tests run against a handler with no backend wired.
func newTestHandler() *Handler {
	return NewHandler(nil, ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {}))
}

func postJSON(t *testing.T, target, body string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

func TestSendRequestValidation(t *testing.T) {
	h := newTestHandler()

	t.Run("missing to_player_id", func(t *testing.T) {
		c := postJSON(t, "/api/v1/friends/requests", `{"from_player_id": "p1"}`)

		err := h.SendRequest(c)
		require.Error(t, err)
		assert.True(t, httperror.IsHTTPError(err))
		assert.Equal(t, http.StatusBadRequest, httperror.GetStatusCode(err))
	})

	t.Run("malformed body", func(t *testing.T) {
		c := postJSON(t, "/api/v1/friends/requests", `{"from_player_id": `)

		err := h.SendRequest(c)
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, httperror.GetStatusCode(err))
	})
}

func TestAcceptRequestValidation(t *testing.T) {
	h := newTestHandler()

	c := postJSON(t, "/api/v1/friends/requests/accept", `{"from_player_id": "p1"}`)

	err := h.AcceptRequest(c)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, httperror.GetStatusCode(err))
}

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/clover/pkg/social"
)

func newTestContext(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/friends/p1", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func testLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func TestErrorHandlerTaxonomyMapping(t *testing.T) {
	cases := []struct {
		name     string
		err      *social.Error
		wantCode int
		wantKind string
	}{
		{"not found", social.NotFoundf("player p1 does not exist"), http.StatusNotFound, "not_found"},
		{"conflict", social.Conflictf("already in a clan"), http.StatusBadRequest, "conflict"},
		{"invalid state", social.InvalidStatef("already friends"), http.StatusBadRequest, "invalid_state"},
		{"forbidden", social.Forbiddenf("not a participant"), http.StatusForbidden, "forbidden"},
		{"unavailable", social.Unavailablef("store offline"), http.StatusServiceUnavailable, "unavailable"},
		{"timeout", social.Timeoutf("query timed out"), http.StatusServiceUnavailable, "timeout"},
	}

	handler := Error(testLogger())

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newTestContext(t)
			handler(tc.err, c)

			assert.Equal(t, tc.wantCode, rec.Code)

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.err.Message, body.Message)
			assert.Equal(t, tc.wantKind, body.Kind)
		})
	}
}

func TestErrorHandlerEchoError(t *testing.T) {
	handler := Error(testLogger())
	c, rec := newTestContext(t)

	handler(echo.NewHTTPError(http.StatusNotFound, "route not found"), c)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "route not found", body.Message)
	assert.Empty(t, body.Kind)
}

func TestErrorHandlerUnknownError(t *testing.T) {
	handler := Error(testLogger())
	c, rec := newTestContext(t)

	handler(assert.AnError, c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Internal Server Error", body.Message)
}

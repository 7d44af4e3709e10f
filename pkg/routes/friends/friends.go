package friends

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/social"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

var validate = validator.New()

// Handler handles friendship endpoints
type Handler struct {
	service *social.Service
	logger  ectologger.Logger
}

// NewHandler creates a new friends handler
func NewHandler(service *social.Service, logger ectologger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register registers the friendship routes
func (h *Handler) Register(g *echo.Group) {
	g.POST("/requests", h.SendRequest)
	g.POST("/requests/accept", h.AcceptRequest)
	g.POST("/requests/decline", h.DeclineRequest)
	g.GET("/requests/:playerId", h.PendingRequests)
	g.GET("/:playerId", h.List)
	g.GET("/:playerId/mutual/:otherId", h.Mutual)
	g.GET("/:playerId/suggestions", h.Suggestions)
	g.PUT("/:playerId/:friendId/nickname", h.SetNickname)
	g.DELETE("/:playerId/:friendId", h.Remove)
}

// SendRequest sends a friend request
func (h *Handler) SendRequest(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "friends_handler.SendRequest")
	defer span.End()

	var req models.SendFriendRequestRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	request, err := h.service.SendFriendRequest(ctx, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, request)
}

// AcceptRequest accepts a pending friend request
func (h *Handler) AcceptRequest(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "friends_handler.AcceptRequest")
	defer span.End()

	var req models.AcceptFriendRequestRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	friendship, err := h.service.AcceptFriendRequest(ctx, req.FromPlayerID, req.ToPlayerID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, friendship)
}

// DeclineRequest declines a pending friend request
func (h *Handler) DeclineRequest(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "friends_handler.DeclineRequest")
	defer span.End()

	var req models.AcceptFriendRequestRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.service.DeclineFriendRequest(ctx, req.FromPlayerID, req.ToPlayerID); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// PendingRequests lists inbound friend requests for a player
func (h *Handler) PendingRequests(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "friends_handler.PendingRequests")
	defer span.End()

	requests, err := h.service.GetPendingRequests(ctx, c.Param("playerId"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, requests)
}

// List returns a player's friends
func (h *Handler) List(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "friends_handler.List")
	defer span.End()

	friendsList, err := h.service.GetFriends(ctx, c.Param("playerId"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, friendsList)
}

// Mutual returns the friends two players have in common
func (h *Handler) Mutual(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "friends_handler.Mutual")
	defer span.End()

	mutual, err := h.service.GetMutualFriends(ctx, c.Param("playerId"), c.Param("otherId"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, mutual)
}

// Suggestions returns ranked friend-of-friend suggestions
func (h *Handler) Suggestions(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "friends_handler.Suggestions")
	defer span.End()

	var limit int
	_ = echo.QueryParamsBinder(c).Int("limit", &limit).BindError()

	suggestions, err := h.service.GetFriendSuggestions(ctx, c.Param("playerId"), limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, suggestions)
}

// SetNickname sets the caller's private nickname for a friend
func (h *Handler) SetNickname(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "friends_handler.SetNickname")
	defer span.End()

	var req models.SetNicknameRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	friend, err := h.service.SetFriendNickname(ctx, c.Param("playerId"), c.Param("friendId"), req.Nickname)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, friend)
}

// Remove ends a friendship
func (h *Handler) Remove(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "friends_handler.Remove")
	defer span.End()

	if err := h.service.RemoveFriend(ctx, c.Param("playerId"), c.Param("friendId")); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

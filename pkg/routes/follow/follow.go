package follow

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

// Handler handles follow endpoints
type Handler struct {
	service *social.Service
	logger  ectologger.Logger
}

// NewHandler creates a new follow handler
func NewHandler(service *social.Service, logger ectologger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register registers the follow routes
func (h *Handler) Register(g *echo.Group) {
	g.POST("", h.Follow)
	g.GET("/:playerId/following", h.Following)
	g.GET("/:playerId/followers", h.Followers)
	g.DELETE("/:followerId/:followingId", h.Unfollow)
}

// Follow creates a one-way follow edge
func (h *Handler) Follow(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "follow_handler.Follow")
	defer span.End()

	var req models.FollowRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	followed, err := h.service.FollowPlayer(ctx, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, followed)
}

// Following lists who the player follows
func (h *Handler) Following(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "follow_handler.Following")
	defer span.End()

	following, err := h.service.GetFollowing(ctx, c.Param("playerId"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, following)
}

// Followers lists who follows the player
func (h *Handler) Followers(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "follow_handler.Followers")
	defer span.End()

	followers, err := h.service.GetFollowers(ctx, c.Param("playerId"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, followers)
}

// Unfollow removes the follow edge
func (h *Handler) Unfollow(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "follow_handler.Unfollow")
	defer span.End()

	if err := h.service.UnfollowPlayer(ctx, c.Param("followerId"), c.Param("followingId")); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

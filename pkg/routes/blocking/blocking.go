package blocking

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

// Handler handles block list endpoints
type Handler struct {
	service *social.Service
	logger  ectologger.Logger
}

// NewHandler creates a new blocking handler
func NewHandler(service *social.Service, logger ectologger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register registers the block routes
func (h *Handler) Register(g *echo.Group) {
	g.POST("", h.Block)
	g.GET("/:playerId", h.List)
	g.DELETE("/:blockerId/:blockedId", h.Unblock)
}

// Block blocks a player, tearing down any friendship in the same operation
func (h *Handler) Block(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "blocking_handler.Block")
	defer span.End()

	var req models.BlockPlayerRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	block, err := h.service.BlockPlayer(ctx, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, block)
}

// List returns the player's outbound blocks
func (h *Handler) List(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "blocking_handler.List")
	defer span.End()

	blocks, err := h.service.GetBlockedPlayers(ctx, c.Param("playerId"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, blocks)
}

// Unblock removes a block. The prior friendship is not restored.
func (h *Handler) Unblock(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "blocking_handler.Unblock")
	defer span.End()

	if err := h.service.UnblockPlayer(ctx, c.Param("blockerId"), c.Param("blockedId")); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

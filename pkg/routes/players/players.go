package players

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectologger"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/social"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

var validate = validator.New()

// Handler handles player node endpoints
type Handler struct {
	service *social.Service
	logger  ectologger.Logger
}

// NewHandler creates a new players handler
func NewHandler(service *social.Service, logger ectologger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register registers the player routes
func (h *Handler) Register(g *echo.Group) {
	g.POST("", h.Create)
	g.GET("/:playerId", h.Get)
	g.PUT("/:playerId/status", h.UpdateStatus)
	g.PUT("/:playerId/username", h.UpdateUsername)
	g.DELETE("/:playerId", h.Delete)
}

func (h *Handler) requireService(c echo.Context) (*social.Service, error) {
	// Prefer explicitly provided service (useful for tests), but fall back
	// to DI-from-context, the standard pattern elsewhere in the codebase.
	if h != nil && h.service != nil {
		return h.service, nil
	}

	ctx := c.Request().Context()
	_, svc, err := ectoinject.GetContext[*social.Service](ctx)
	if err != nil || svc == nil {
		return nil, httperror.NewHTTPError(http.StatusServiceUnavailable, "social service unavailable")
	}
	return svc, nil
}

// Create registers a player node in the social graph
func (h *Handler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "players_handler.Create")
	defer span.End()

	svc, err := h.requireService(c)
	if err != nil {
		return err
	}

	var req models.CreatePlayerRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	player, err := svc.CreatePlayer(ctx, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, player)
}

// Get returns a player node
func (h *Handler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "players_handler.Get")
	defer span.End()

	svc, err := h.requireService(c)
	if err != nil {
		return err
	}

	player, err := svc.GetPlayer(ctx, c.Param("playerId"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, player)
}

// UpdateStatus updates the denormalized presence state
func (h *Handler) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "players_handler.UpdateStatus")
	defer span.End()

	svc, err := h.requireService(c)
	if err != nil {
		return err
	}

	var req models.UpdatePlayerStatusRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	player, err := svc.UpdatePlayerStatus(ctx, c.Param("playerId"), req.Status)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, player)
}

// UpdateUsername updates the denormalized username
func (h *Handler) UpdateUsername(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "players_handler.UpdateUsername")
	defer span.End()

	svc, err := h.requireService(c)
	if err != nil {
		return err
	}

	var req models.UpdatePlayerUsernameRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	player, err := svc.UpdatePlayerUsername(ctx, c.Param("playerId"), req.Username)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, player)
}

// Delete removes the player node and every incident relationship
func (h *Handler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "players_handler.Delete")
	defer span.End()

	svc, err := h.requireService(c)
	if err != nil {
		return err
	}

	if err := svc.DeletePlayer(ctx, c.Param("playerId")); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

package clan

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

// Handler handles clan endpoints
type Handler struct {
	service *social.Service
	logger  ectologger.Logger
}

// NewHandler creates a new clan handler
func NewHandler(service *social.Service, logger ectologger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register registers the clan routes
func (h *Handler) Register(g *echo.Group) {
	g.POST("", h.Create)
	g.GET("/search", h.Search)
	g.GET("/player/:playerId", h.GetPlayerClan)
	g.GET("/:clanId", h.Get)
	g.POST("/:clanId/join", h.Join)
	g.PUT("/:clanId", h.Update)
	g.PUT("/:clanId/members/:playerId/role", h.UpdateMemberRole)
	g.DELETE("/:clanId/members/:playerId", h.Leave)
	g.DELETE("/:clanId", h.Disband)
}

// Create creates a clan with the caller as owner at rank 1
func (h *Handler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "clan_handler.Create")
	defer span.End()

	var req models.CreateClanRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	clanResult, err := h.service.CreateClan(ctx, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, clanResult)
}

// Search matches clans by name or tag substring
func (h *Handler) Search(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "clan_handler.Search")
	defer span.End()

	term := c.QueryParam("q")
	if term == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "q parameter is required")
	}

	var limit int
	_ = echo.QueryParamsBinder(c).Int("limit", &limit).BindError()

	clans, err := h.service.SearchClans(ctx, term, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, clans)
}

// GetPlayerClan returns the clan the player belongs to
func (h *Handler) GetPlayerClan(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "clan_handler.GetPlayerClan")
	defer span.End()

	playerClan, err := h.service.GetPlayerClan(ctx, c.Param("playerId"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, playerClan)
}

// Get returns a clan with its members in rank order
func (h *Handler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "clan_handler.Get")
	defer span.End()

	clanResult, err := h.service.GetClan(ctx, c.Param("clanId"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, clanResult)
}

// Join adds the player at the next rank
func (h *Handler) Join(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "clan_handler.Join")
	defer span.End()

	var req models.JoinClanRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	member, err := h.service.JoinClan(ctx, c.Param("clanId"), req.PlayerID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, member)
}

// Update applies a partial update to clan details
func (h *Handler) Update(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "clan_handler.Update")
	defer span.End()

	var req models.UpdateClanRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	clanResult, err := h.service.UpdateClan(ctx, c.Param("clanId"), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, clanResult)
}

// UpdateMemberRole changes a member's role, and optionally their rank
func (h *Handler) UpdateMemberRole(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "clan_handler.UpdateMemberRole")
	defer span.End()

	var req models.UpdateClanMemberRoleRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	member, err := h.service.UpdateClanMemberRole(ctx, c.Param("clanId"), c.Param("playerId"), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, member)
}

// Leave removes the member; their rank is never reassigned
func (h *Handler) Leave(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "clan_handler.Leave")
	defer span.End()

	if err := h.service.LeaveClan(ctx, c.Param("clanId"), c.Param("playerId")); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// Disband deletes the clan and every membership
func (h *Handler) Disband(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "clan_handler.Disband")
	defer span.End()

	if err := h.service.DisbandClan(ctx, c.Param("clanId")); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

package party

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

// Handler handles party endpoints
type Handler struct {
	service *social.Service
	logger  ectologger.Logger
}

// NewHandler creates a new party handler
func NewHandler(service *social.Service, logger ectologger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register registers the party routes
func (h *Handler) Register(g *echo.Group) {
	g.POST("", h.Create)
	g.POST("/invites", h.Invite)
	g.GET("/player/:playerId", h.GetPlayerParty)
	g.GET("/:partyId", h.Get)
	g.POST("/:partyId/join", h.Join)
	g.PUT("/:partyId", h.Update)
	g.DELETE("/:partyId/members/:playerId", h.Leave)
	g.DELETE("/:partyId", h.Disband)
}

// Create creates a party with the caller as leader
func (h *Handler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "party_handler.Create")
	defer span.End()

	var req models.CreatePartyRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	party, err := h.service.CreateParty(ctx, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, party)
}

// Invite invites a player to a party
func (h *Handler) Invite(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "party_handler.Invite")
	defer span.End()

	var req models.InviteToPartyRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	invite, err := h.service.InviteToParty(ctx, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, invite)
}

// GetPlayerParty returns the party the player is currently in
func (h *Handler) GetPlayerParty(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "party_handler.GetPlayerParty")
	defer span.End()

	party, err := h.service.GetPlayerParty(ctx, c.Param("playerId"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, party)
}

// Get returns a party with its members
func (h *Handler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "party_handler.Get")
	defer span.End()

	party, err := h.service.GetParty(ctx, c.Param("partyId"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, party)
}

// Join seats the player in the party, consuming any invite
func (h *Handler) Join(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "party_handler.Join")
	defer span.End()

	var req models.JoinPartyRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	member, err := h.service.JoinParty(ctx, c.Param("partyId"), req.PlayerID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, member)
}

// Update applies a partial update to the party settings
func (h *Handler) Update(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "party_handler.Update")
	defer span.End()

	var req models.UpdatePartyRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	party, err := h.service.UpdateParty(ctx, c.Param("partyId"), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, party)
}

// Leave removes a member; leadership passes to the longest-seated member
func (h *Handler) Leave(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "party_handler.Leave")
	defer span.End()

	if err := h.service.LeaveParty(ctx, c.Param("partyId"), c.Param("playerId")); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// Disband deletes the party and all memberships and invites
func (h *Handler) Disband(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "party_handler.Disband")
	defer span.End()

	if err := h.service.DisbandParty(ctx, c.Param("partyId")); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

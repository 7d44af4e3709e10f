package messaging

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

// Handler handles conversation and message endpoints
type Handler struct {
	service *social.Service
	logger  ectologger.Logger
}

// NewHandler creates a new messaging handler
func NewHandler(service *social.Service, logger ectologger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register registers the messaging routes
func (h *Handler) Register(g *echo.Group) {
	g.POST("", h.CreateConversation)
	g.GET("/player/:playerId", h.ListForPlayer)
	g.GET("/:conversationId", h.GetConversation)
	g.POST("/:conversationId/messages", h.SendMessage)
	g.GET("/:conversationId/messages", h.GetMessages)
	g.PUT("/:conversationId/mute", h.Mute)
	g.DELETE("/:conversationId/members/:playerId", h.Leave)
	g.PUT("/messages/:messageId", h.EditMessage)
	g.DELETE("/messages/:messageId", h.DeleteMessage)
}

// CreateConversation creates a direct or group conversation
func (h *Handler) CreateConversation(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "messaging_handler.CreateConversation")
	defer span.End()

	var req models.CreateConversationRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	conv, err := h.service.CreateConversation(ctx, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, conv)
}

// ListForPlayer lists the player's conversations, most recent first
func (h *Handler) ListForPlayer(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "messaging_handler.ListForPlayer")
	defer span.End()

	conversations, err := h.service.GetPlayerConversations(ctx, c.Param("playerId"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, conversations)
}

// GetConversation returns a conversation with its participants
func (h *Handler) GetConversation(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "messaging_handler.GetConversation")
	defer span.End()

	conv, err := h.service.GetConversation(ctx, c.Param("conversationId"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, conv)
}

// SendMessage posts a message into the conversation
func (h *Handler) SendMessage(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "messaging_handler.SendMessage")
	defer span.End()

	var req models.SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	// The path is authoritative for the conversation id
	req.ConversationID = c.Param("conversationId")
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	msg, err := h.service.SendMessage(ctx, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, msg)
}

// GetMessages pages through a conversation's messages, newest first
func (h *Handler) GetMessages(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "messaging_handler.GetMessages")
	defer span.End()

	var limit, offset int
	_ = echo.QueryParamsBinder(c).
		Int("limit", &limit).
		Int("offset", &offset).
		BindError()

	messages, err := h.service.GetMessages(ctx, c.Param("conversationId"), limit, offset)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messages)
}

// Mute flips the caller's muted flag for the conversation
func (h *Handler) Mute(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "messaging_handler.Mute")
	defer span.End()

	var req models.MuteConversationRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.service.MuteConversation(ctx, c.Param("conversationId"), req.PlayerID, req.Muted); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// Leave removes a participant; the message history stays
func (h *Handler) Leave(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "messaging_handler.Leave")
	defer span.End()

	if err := h.service.LeaveConversation(ctx, c.Param("conversationId"), c.Param("playerId")); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// EditMessage replaces a message's content and marks it edited
func (h *Handler) EditMessage(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "messaging_handler.EditMessage")
	defer span.End()

	var req models.EditMessageRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	msg, err := h.service.EditMessage(ctx, c.Param("messageId"), req.Content)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, msg)
}

// DeleteMessage removes a message node entirely
func (h *Handler) DeleteMessage(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "messaging_handler.DeleteMessage")
	defer span.End()

	if err := h.service.DeleteMessage(ctx, c.Param("messageId")); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/classroom-api/internal/dto"
	"github.com/noah-isme/classroom-api/internal/middleware"
	"github.com/noah-isme/classroom-api/internal/service"
	"github.com/noah-isme/classroom-api/internal/utils"
)

// ChatHandler wires direct messaging routes.
type ChatHandler struct {
	service service.ChatService
	logger  zerolog.Logger
}

// NewChatHandler creates a chat handler instance.
func NewChatHandler(service service.ChatService, logger zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		service: service,
		logger:  logger.With().Str("component", "chat_handler").Logger(),
	}
}

// Register binds chat routes on the authenticated router.
func (h *ChatHandler) Register(router fiber.Router) {
	auth := middleware.AuthOptions{}

	router.Get("/chat", middleware.WithAuth(h.list, auth))
	router.Post("/chat", middleware.WithAuth(h.send, auth))
	router.Get("/chat/contacts", middleware.WithAuth(h.contacts, auth))
}

func (h *ChatHandler) list(c *fiber.Ctx) error {
	otherID, err := parseOptionalUintQuery(c, "user_id")
	if err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "invalid user_id", nil)
	}

	messages, err := h.service.List(c.UserContext(), actorFromContext(c), dto.ChatListQuery{UserID: otherID})
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "messages retrieved", messages)
}

func (h *ChatHandler) send(c *fiber.Ctx) error {
	var payload dto.ChatSendRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidBody(c)
	}

	message, err := h.service.Send(c.UserContext(), actorFromContext(c), payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "message sent", message)
}

func (h *ChatHandler) contacts(c *fiber.Ctx) error {
	contacts, err := h.service.Contacts(c.UserContext(), actorFromContext(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "contacts retrieved", contacts)
}

package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/classroom-api/internal/dto"
	"github.com/noah-isme/classroom-api/internal/middleware"
	"github.com/noah-isme/classroom-api/internal/service"
	"github.com/noah-isme/classroom-api/internal/utils"
)

// AccountHandler exposes the account directory and self-service routes.
type AccountHandler struct {
	accounts service.AccountService
	codes    service.CodeService
	logger   zerolog.Logger
}

// NewAccountHandler constructs the handler.
func NewAccountHandler(accounts service.AccountService, codes service.CodeService, logger zerolog.Logger) *AccountHandler {
	return &AccountHandler{
		accounts: accounts,
		codes:    codes,
		logger:   logger.With().Str("component", "account_handler").Logger(),
	}
}

// Register binds account routes on the authenticated router.
func (h *AccountHandler) Register(router fiber.Router) {
	auth := middleware.AuthOptions{Role: middleware.AuthRoleAny}

	router.Get("/users", middleware.WithAuth(h.list, auth))
	router.Get("/users/search", middleware.WithAuth(h.search, auth))
	router.Get("/users/me", middleware.WithAuth(h.me, auth))
	router.Patch("/users/me", middleware.WithAuth(h.updateMe, auth))
	router.Put("/users/me/avatar", middleware.WithAuth(h.updateAvatar, auth))
	router.Get("/users/me/code", middleware.WithAuth(h.code, auth))
	router.Get("/users/me/code.png", middleware.WithAuth(h.codeImage, auth))
}

func (h *AccountHandler) me(c *fiber.Ctx) error {
	user, err := h.accounts.Me(c.UserContext(), userIDFromContext(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "user retrieved", user)
}

func (h *AccountHandler) updateMe(c *fiber.Ctx) error {
	var payload dto.UpdateSelfRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidBody(c)
	}

	user, err := h.accounts.UpdateMe(c.UserContext(), userIDFromContext(c), payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "user updated", user)
}

func (h *AccountHandler) list(c *fiber.Ctx) error {
	users, err := h.accounts.List(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.OK(c, users, "users retrieved", fiber.Map{"count": len(users)})
}

func (h *AccountHandler) search(c *fiber.Ctx) error {
	var query dto.UserSearchQuery
	if err := c.QueryParser(&query); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "invalid query", nil)
	}

	users, err := h.accounts.Search(c.UserContext(), userIDFromContext(c), query)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.OK(c, users, "users retrieved", fiber.Map{"count": len(users)})
}

func (h *AccountHandler) updateAvatar(c *fiber.Ctx) error {
	file, err := c.FormFile("avatar")
	if err != nil {
		file = nil
	}

	avatar, err := h.accounts.UpdateAvatar(c.UserContext(), userIDFromContext(c), file)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "avatar updated", avatar)
}

func (h *AccountHandler) code(c *fiber.Ctx) error {
	code, _, err := h.codes.Get(c.UserContext(), userIDFromContext(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "identifier code retrieved", code)
}

func (h *AccountHandler) codeImage(c *fiber.Ctx) error {
	_, image, err := h.codes.Get(c.UserContext(), userIDFromContext(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	if len(image) == 0 {
		return respondError(c, h.logger, errors.New("identifier code image is empty"))
	}

	c.Set(fiber.HeaderContentType, "image/png")
	c.Set(fiber.HeaderCacheControl, "private, max-age=300")
	return c.Send(image)
}

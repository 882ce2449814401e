package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/classroom-api/internal/middleware"
	"github.com/noah-isme/classroom-api/internal/service"
	"github.com/noah-isme/classroom-api/internal/utils"
)

// ProfileHandler exposes student and teacher profiles.
type ProfileHandler struct {
	service service.ProfileService
	logger  zerolog.Logger
}

// NewProfileHandler constructs the handler.
func NewProfileHandler(service service.ProfileService, logger zerolog.Logger) *ProfileHandler {
	return &ProfileHandler{
		service: service,
		logger:  logger.With().Str("component", "profile_handler").Logger(),
	}
}

// Register binds profile routes on the authenticated router.
func (h *ProfileHandler) Register(router fiber.Router) {
	router.Get("/student/profile", middleware.WithAuth(h.student, middleware.AuthOptions{}))
	router.Get("/teacher/profile", middleware.WithAuth(h.teacher, middleware.AuthOptions{}))
}

func (h *ProfileHandler) student(c *fiber.Ctx) error {
	profile, err := h.service.StudentProfile(c.UserContext(), actorFromContext(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "profile retrieved", profile)
}

func (h *ProfileHandler) teacher(c *fiber.Ctx) error {
	profile, err := h.service.TeacherProfile(c.UserContext(), actorFromContext(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "profile retrieved", profile)
}

package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/classroom-api/internal/dto"
	"github.com/noah-isme/classroom-api/internal/middleware"
	"github.com/noah-isme/classroom-api/internal/service"
	"github.com/noah-isme/classroom-api/internal/utils"
)

// AttendanceHandler wires attendance routes. Every route is restricted to staff.
type AttendanceHandler struct {
	service service.AttendanceService
	logger  zerolog.Logger
}

// NewAttendanceHandler constructs the handler.
func NewAttendanceHandler(service service.AttendanceService, logger zerolog.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		service: service,
		logger:  logger.With().Str("component", "attendance_handler").Logger(),
	}
}

// Register binds attendance routes on the authenticated router.
func (h *AttendanceHandler) Register(router fiber.Router) {
	group := router.Group("/attendance", middleware.RequireRole(middleware.AuthRoleStaff))

	group.Get("", h.list)
	group.Post("/mark", h.mark)
	group.Post("/scan", h.scan)
}

func (h *AttendanceHandler) mark(c *fiber.Ctx) error {
	var payload dto.AttendanceMarkRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidBody(c)
	}

	record, err := h.service.MarkByID(c.UserContext(), payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "attendance marked", record)
}

func (h *AttendanceHandler) scan(c *fiber.Ctx) error {
	var payload dto.AttendanceScanRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidBody(c)
	}

	record, err := h.service.MarkByCode(c.UserContext(), payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "attendance marked", record)
}

func (h *AttendanceHandler) list(c *fiber.Ctx) error {
	var query dto.AttendanceListQuery
	if err := c.QueryParser(&query); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "invalid query", nil)
	}

	records, err := h.service.ListByDate(c.UserContext(), query)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "attendance retrieved", records)
}

package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/classroom-api/internal/dto"
	"github.com/noah-isme/classroom-api/internal/middleware"
	"github.com/noah-isme/classroom-api/internal/service"
	"github.com/noah-isme/classroom-api/internal/utils"
)

// GoalHandler wires personal and class goal routes.
type GoalHandler struct {
	service service.GoalService
	logger  zerolog.Logger
}

// NewGoalHandler constructs the handler.
func NewGoalHandler(service service.GoalService, logger zerolog.Logger) *GoalHandler {
	return &GoalHandler{
		service: service,
		logger:  logger.With().Str("component", "goal_handler").Logger(),
	}
}

// Register binds goal routes on the authenticated router.
func (h *GoalHandler) Register(router fiber.Router) {
	auth := middleware.AuthOptions{}

	router.Get("/goals", middleware.WithAuth(h.list, auth))
	router.Post("/goals", middleware.WithAuth(h.create, auth))
	router.Patch("/goals/:id", middleware.WithAuth(h.update, auth))
	router.Delete("/goals/:id", middleware.WithAuth(h.delete, auth))
	router.Get("/teacher/classes/:id/goals", middleware.WithAuth(h.listClassGoals, auth))
	router.Post("/teacher/classes/:id/goals", middleware.WithAuth(h.createClassGoal, auth))
	router.Get("/student/goals", middleware.WithAuth(h.studentGoals, auth))
	router.Post("/student/goals", middleware.WithAuth(h.createPersonal, auth))
}

func (h *GoalHandler) list(c *fiber.Ctx) error {
	goals, err := h.service.List(c.UserContext(), actorFromContext(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "goals retrieved", goals)
}

func (h *GoalHandler) create(c *fiber.Ctx) error {
	var payload dto.GoalCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidBody(c)
	}

	goal, err := h.service.Create(c.UserContext(), actorFromContext(c), payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "goal created", goal)
}

func (h *GoalHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, err.Error(), nil)
	}

	var payload dto.GoalUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidBody(c)
	}

	goal, err := h.service.Update(c.UserContext(), actorFromContext(c), id, payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "goal updated", goal)
}

func (h *GoalHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, err.Error(), nil)
	}

	if err := h.service.Delete(c.UserContext(), actorFromContext(c), id); err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "goal deleted", fiber.Map{"id": id})
}

func (h *GoalHandler) listClassGoals(c *fiber.Ctx) error {
	classID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, err.Error(), nil)
	}

	goals, err := h.service.ListClassGoals(c.UserContext(), actorFromContext(c), classID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "class goals retrieved", goals)
}

func (h *GoalHandler) createClassGoal(c *fiber.Ctx) error {
	classID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, err.Error(), nil)
	}

	var payload dto.GoalCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidBody(c)
	}

	goal, err := h.service.CreateClassGoal(c.UserContext(), actorFromContext(c), classID, payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "class goal created", goal)
}

func (h *GoalHandler) studentGoals(c *fiber.Ctx) error {
	goals, err := h.service.StudentGoals(c.UserContext(), actorFromContext(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "goals retrieved", goals)
}

func (h *GoalHandler) createPersonal(c *fiber.Ctx) error {
	var payload dto.GoalCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidBody(c)
	}

	goal, err := h.service.CreatePersonal(c.UserContext(), actorFromContext(c), payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "goal created", goal)
}

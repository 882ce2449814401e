package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/classroom-api/internal/dto"
	"github.com/noah-isme/classroom-api/internal/middleware"
	"github.com/noah-isme/classroom-api/internal/service"
	"github.com/noah-isme/classroom-api/internal/utils"
)

// TaskHandler wires task, completion and streak routes.
type TaskHandler struct {
	tasks   service.TaskService
	streaks service.StreakService
	logger  zerolog.Logger
}

// NewTaskHandler constructs the handler.
func NewTaskHandler(tasks service.TaskService, streaks service.StreakService, logger zerolog.Logger) *TaskHandler {
	return &TaskHandler{
		tasks:   tasks,
		streaks: streaks,
		logger:  logger.With().Str("component", "task_handler").Logger(),
	}
}

// Register binds task routes on the authenticated router.
func (h *TaskHandler) Register(router fiber.Router) {
	staff := middleware.AuthOptions{Role: middleware.AuthRoleStaff}
	auth := middleware.AuthOptions{}

	router.Post("/tasks", middleware.WithAuth(h.create, staff))
	router.Get("/tasks", middleware.WithAuth(h.listCreated, auth))
	router.Get("/tasks/assigned", middleware.WithAuth(h.listAssigned, auth))
	router.Post("/tasks/streak-reset", middleware.WithAuth(h.resetStreaks, staff))
	router.Post("/tasks/:id/complete", middleware.WithAuth(h.complete, auth))
}

func (h *TaskHandler) create(c *fiber.Ctx) error {
	var payload dto.TaskCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidBody(c)
	}

	task, err := h.tasks.Create(c.UserContext(), actorFromContext(c), payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "task created", task)
}

func (h *TaskHandler) listCreated(c *fiber.Ctx) error {
	tasks, err := h.tasks.ListCreated(c.UserContext(), actorFromContext(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "tasks retrieved", tasks)
}

func (h *TaskHandler) listAssigned(c *fiber.Ctx) error {
	tasks, err := h.tasks.ListAssigned(c.UserContext(), actorFromContext(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, "tasks retrieved", tasks)
}

func (h *TaskHandler) complete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, err.Error(), nil)
	}

	completion, err := h.tasks.Complete(c.UserContext(), actorFromContext(c), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "task completed", completion)
}

func (h *TaskHandler) resetStreaks(c *fiber.Ctx) error {
	result, err := h.streaks.Reset(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err)
	}

	requestLogger(h.logger, c).Info().Int("reset", result.Reset).Msg("streak reset triggered manually")
	return utils.SendSuccess(c, "streaks updated", result)
}

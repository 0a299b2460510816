package handler

import (
	"errors"
	"strings"

	"skillpath/internal/delivery/http/dto"
	"skillpath/internal/delivery/http/middleware"
	"skillpath/internal/pkg/response"
	"skillpath/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type ProgressHandler struct {
	uc usecase.ProgressUsecase
}

// Pointer fields distinguish "absent" from "present with zero value": an
// update that only carries status must not reset timeSpent, and vice versa.
type updateProgressRequest struct {
	UserID    string   `json:"userId"`
	Status    *string  `json:"status"`
	TimeSpent *float64 `json:"timeSpent"`
	Notes     *string  `json:"notes"`
}

func NewProgressHandler(uc usecase.ProgressUsecase) *ProgressHandler {
	return &ProgressHandler{uc: uc}
}

func (h *ProgressHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/tasks")
	grp.Post("/:taskId/progress", h.Update)
}

func (h *ProgressHandler) Update(c fiber.Ctx) error {
	taskID, err := uuid.Parse(c.Params("taskId"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid task id", nil, err)
	}

	var req updateProgressRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	userID, err := uuid.Parse(strings.TrimSpace(req.UserID))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "User ID required", nil, err)
	}

	row, err := h.uc.SetProgress(c.Context(), userID, taskID, usecase.ProgressUpdateInput{
		Status:    req.Status,
		TimeSpent: req.TimeSpent,
		Notes:     req.Notes,
	})
	if err != nil {
		return mapProgressUsecaseError(err)
	}

	res := dto.TaskProgressResponse{
		ID:        row.ID,
		UserID:    row.UserID,
		TaskID:    row.TaskID,
		Status:    row.Status,
		TimeSpent: row.TimeSpent,
		Notes:     row.Notes,
		UpdatedAt: row.UpdatedAt,
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func mapProgressUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	case errors.Is(err, usecase.ErrTaskNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Task not found", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}

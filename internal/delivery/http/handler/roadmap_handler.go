package handler

import (
	"errors"
	"strings"
	"time"

	"skillpath/internal/delivery/http/middleware"
	"skillpath/internal/pkg/response"
	"skillpath/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type RoadmapHandler struct {
	uc usecase.RoadmapUsecase
}

type generateRoadmapRequest struct {
	UserID         string  `json:"userId"`
	TargetRole     string  `json:"targetRole"`
	WeeklyHours    int     `json:"weeklyHours"`
	TargetDeadline *string `json:"targetDeadline"`
	LearningStyle  string  `json:"learningStyle"`
}

func NewRoadmapHandler(uc usecase.RoadmapUsecase) *RoadmapHandler {
	return &RoadmapHandler{uc: uc}
}

func (h *RoadmapHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/roadmap")
	grp.Post("/", h.Generate)
	grp.Get("/", h.Fetch)
}

func (h *RoadmapHandler) Generate(c fiber.Ctx) error {
	var req generateRoadmapRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	userID, err := uuid.Parse(strings.TrimSpace(req.UserID))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "User ID and target role are required", nil, err)
	}
	if strings.TrimSpace(req.TargetRole) == "" {
		return middleware.NewAppError(fiber.StatusBadRequest, "User ID and target role are required", nil, nil)
	}

	var deadline *time.Time
	if req.TargetDeadline != nil && strings.TrimSpace(*req.TargetDeadline) != "" {
		t, err := parseDeadline(*req.TargetDeadline)
		if err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "Invalid target deadline", nil, err)
		}
		deadline = &t
	}

	view, err := h.uc.Generate(c.Context(), userID, usecase.GenerateRoadmapInput{
		TargetRole:     req.TargetRole,
		WeeklyHours:    req.WeeklyHours,
		TargetDeadline: deadline,
		LearningStyle:  req.LearningStyle,
	})
	if err != nil {
		return mapRoadmapUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, view)
}

func (h *RoadmapHandler) Fetch(c fiber.Ctx) error {
	userID, err := uuid.Parse(strings.TrimSpace(c.Query("userId")))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "User ID required", nil, err)
	}

	view, err := h.uc.FetchActive(c.Context(), userID)
	if err != nil {
		return mapRoadmapUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, view)
}

func parseDeadline(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func mapRoadmapUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "User ID and target role are required", nil, err)
	case errors.Is(err, usecase.ErrRoadmapNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "No active roadmap found", nil, err)
	case errors.Is(err, usecase.ErrSynthesis):
		return middleware.NewAppError(fiber.StatusInternalServerError, "Failed to generate roadmap", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}

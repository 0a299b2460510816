package handler

import (
	"errors"
	"io"

	"skillpath/internal/delivery/http/dto"
	"skillpath/internal/delivery/http/middleware"
	"skillpath/internal/pkg/response"
	"skillpath/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type ResumeHandler struct {
	uc usecase.ResumeUsecase
}

func NewResumeHandler(uc usecase.ResumeUsecase) *ResumeHandler {
	return &ResumeHandler{uc: uc}
}

func (h *ResumeHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/resume")
	grp.Post("/upload", h.Upload)
}

func (h *ResumeHandler) Upload(c fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "No file provided", nil, err)
	}

	userID, err := uuid.Parse(c.FormValue("userId"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "User ID required", nil, err)
	}

	f, err := fh.Open()
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Unreadable file", nil, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Unreadable file", nil, err)
	}

	result, err := h.uc.ProcessUpload(c.Context(), userID, fh.Filename, data)
	if err != nil {
		return mapResumeUsecaseError(err)
	}

	res := dto.ResumeUploadResponse{
		ResumeID: result.ResumeID,
		RawText:  result.RawText,
		Parsed:   result.Parsed,
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func mapResumeUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrUnsupportedFormat):
		return middleware.NewAppError(fiber.StatusUnsupportedMediaType, "Unsupported file type. Please upload PDF or DOCX.", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	case errors.Is(err, usecase.ErrExtraction):
		return middleware.NewAppError(fiber.StatusInternalServerError, "Failed to process resume", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}

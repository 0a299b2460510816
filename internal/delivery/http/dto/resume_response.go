package dto

import (
	"skillpath/internal/llm"

	"github.com/google/uuid"
)

type ResumeUploadResponse struct {
	ResumeID uuid.UUID      `json:"resume_id"`
	RawText  string         `json:"raw_text"`
	Parsed   llm.ResumeData `json:"parsed"`
}

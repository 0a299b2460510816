package usecase

import "errors"

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrExtraction        = errors.New("resume extraction failed")
	ErrSynthesis         = errors.New("roadmap generation failed")
	ErrRoadmapNotFound   = errors.New("no active roadmap")
	ErrTaskNotFound      = errors.New("task not found")
	ErrInternal          = errors.New("internal error")
)

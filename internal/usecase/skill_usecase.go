package usecase

import (
	"context"
	"fmt"

	"skillpath/internal/repository"

	"github.com/google/uuid"
)

type SkillItem struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Category string    `json:"category"`
}

type SkillUsecase interface {
	// ListSkills returns the shared skill catalog ordered by name.
	ListSkills(ctx context.Context) ([]SkillItem, error)
}

type Skills struct {
	repo repository.SkillRepository
}

func NewSkillUsecase(repo repository.SkillRepository) *Skills {
	return &Skills{repo: repo}
}

func (u *Skills) ListSkills(ctx context.Context) ([]SkillItem, error) {
	items, err := u.repo.GetAllSkills(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	out := make([]SkillItem, 0, len(items))
	for _, it := range items {
		out = append(out, SkillItem{ID: it.ID, Name: it.Name, Category: it.Category})
	}
	return out, nil
}

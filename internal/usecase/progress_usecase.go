package usecase

import (
	"context"
	"fmt"
	"log"

	"skillpath/internal/repository"

	"github.com/google/uuid"
)

// ProgressUpdateInput is a partial update: nil fields are left unchanged on
// an existing row rather than reset to defaults.
type ProgressUpdateInput struct {
	Status    *string
	TimeSpent *float64
	Notes     *string
}

var taskStatuses = map[string]struct{}{
	repository.TaskStatusTodo:       {},
	repository.TaskStatusInProgress: {},
	repository.TaskStatusDone:       {},
}

type ProgressUsecase interface {
	// SetProgress upserts the (user, task) progress row. Calling it twice
	// with the same payload yields one row, not two; updatedAt is refreshed
	// on every write.
	SetProgress(ctx context.Context, userID uuid.UUID, taskID uuid.UUID, in ProgressUpdateInput) (repository.TaskProgress, error)
}

type Progress struct {
	repo   repository.TaskProgressRepository
	cache  RoadmapCache
	logger *log.Logger
}

func NewProgressUsecase(repo repository.TaskProgressRepository, cache RoadmapCache, logger *log.Logger) *Progress {
	if logger == nil {
		logger = log.Default()
	}
	return &Progress{repo: repo, cache: cache, logger: logger}
}

func (u *Progress) SetProgress(ctx context.Context, userID uuid.UUID, taskID uuid.UUID, in ProgressUpdateInput) (repository.TaskProgress, error) {
	if userID == uuid.Nil || taskID == uuid.Nil {
		return repository.TaskProgress{}, ErrInvalidInput
	}
	if in.Status != nil {
		if _, ok := taskStatuses[*in.Status]; !ok {
			return repository.TaskProgress{}, ErrInvalidInput
		}
	}
	if in.TimeSpent != nil && *in.TimeSpent < 0 {
		return repository.TaskProgress{}, ErrInvalidInput
	}

	row, err := u.repo.Upsert(ctx, repository.TaskProgressPatch{
		UserID:    userID,
		TaskID:    taskID,
		Status:    in.Status,
		TimeSpent: in.TimeSpent,
		Notes:     in.Notes,
	})
	if err != nil {
		if repository.IsForeignKeyViolation(err) {
			return repository.TaskProgress{}, ErrTaskNotFound
		}
		return repository.TaskProgress{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	// The cached tree now carries a stale overlay for this user.
	if u.cache != nil {
		if err := u.cache.Delete(ctx, ActiveRoadmapCacheKey(userID)); err != nil {
			u.logger.Printf("[Progress] cache invalidation failed user=%s err=%v", userID, err)
		}
	}

	return row, nil
}

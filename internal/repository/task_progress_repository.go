package repository

import (
	"context"
	"time"

	"skillpath/internal/database"

	"github.com/google/uuid"
)

type TaskProgress struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TaskID    uuid.UUID
	Status    string
	TimeSpent float64
	Notes     *string
	UpdatedAt time.Time
}

const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusDone       = "done"
)

// TaskProgressPatch is a partial update. Nil fields mean "leave unchanged"
// on an existing row; on first write they fall back to the defaults
// (todo, 0, no notes). This is what keeps {timeSpent: 5} followed by
// {status: "done"} from erasing each other.
type TaskProgressPatch struct {
	UserID    uuid.UUID
	TaskID    uuid.UUID
	Status    *string
	TimeSpent *float64
	Notes     *string
}

type TaskProgressRepository interface {
	Upsert(ctx context.Context, patch TaskProgressPatch) (TaskProgress, error)
}

type PostgresTaskProgressRepository struct {
	db database.DB
}

func NewPostgresTaskProgressRepository(db database.DB) *PostgresTaskProgressRepository {
	return &PostgresTaskProgressRepository{db: db}
}

func (r *PostgresTaskProgressRepository) Upsert(ctx context.Context, patch TaskProgressPatch) (TaskProgress, error) {
	now := time.Now().UTC()

	row := r.db.QueryRow(ctx,
		`INSERT INTO task_progress (id, user_id, task_id, status, time_spent, notes, updated_at)
		 VALUES ($1, $2, $3, COALESCE($4, 'todo'), COALESCE($5::double precision, 0), $6, $7)
		 ON CONFLICT (user_id, task_id) DO UPDATE SET
			status = COALESCE($4, task_progress.status),
			time_spent = COALESCE($5, task_progress.time_spent),
			notes = COALESCE($6, task_progress.notes),
			updated_at = $7
		 RETURNING id, user_id, task_id, status, time_spent, notes, updated_at`,
		uuid.New(), patch.UserID, patch.TaskID, patch.Status, patch.TimeSpent, patch.Notes, now,
	)

	var tp TaskProgress
	if err := row.Scan(&tp.ID, &tp.UserID, &tp.TaskID, &tp.Status, &tp.TimeSpent, &tp.Notes, &tp.UpdatedAt); err != nil {
		return TaskProgress{}, err
	}
	return tp, nil
}

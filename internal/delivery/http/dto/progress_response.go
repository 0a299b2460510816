package dto

import (
	"time"

	"github.com/google/uuid"
)

type TaskProgressResponse struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	TaskID    uuid.UUID `json:"task_id"`
	Status    string    `json:"status"`
	TimeSpent float64   `json:"time_spent"`
	Notes     *string   `json:"notes,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

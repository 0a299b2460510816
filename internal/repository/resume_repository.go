package repository

import (
	"context"
	"time"

	"skillpath/internal/database"

	"github.com/google/uuid"
)

type Resume struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	FileName   string
	RawText    string
	ParsedData []byte // JSON document as returned by the extractor
	CreatedAt  time.Time
}

type ResumeRepository interface {
	Create(ctx context.Context, r Resume) (Resume, error)
}

type PostgresResumeRepository struct {
	db database.DB
}

func NewPostgresResumeRepository(db database.DB) *PostgresResumeRepository {
	return &PostgresResumeRepository{db: db}
}

func (r *PostgresResumeRepository) Create(ctx context.Context, res Resume) (Resume, error) {
	if res.ID == uuid.Nil {
		res.ID = uuid.New()
	}
	if res.CreatedAt.IsZero() {
		res.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO resumes (id, user_id, file_name, raw_text, parsed_data, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		res.ID, res.UserID, res.FileName, res.RawText, res.ParsedData, res.CreatedAt,
	)
	if err != nil {
		return Resume{}, err
	}
	return res, nil
}

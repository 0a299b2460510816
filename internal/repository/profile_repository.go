package repository

import (
	"context"
	"database/sql"
	"errors"

	"skillpath/internal/database"

	"github.com/google/uuid"
)

var ErrProfileNotFound = errors.New("profile not found")

// Profile holds the per-user defaults that fill unspecified roadmap
// generation fields.
type Profile struct {
	UserID          uuid.UUID
	YearsExperience int
	WeeklyHours     int
	LearningStyle   string
}

type ProfileRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (Profile, error)
}

type PostgresProfileRepository struct {
	db database.DB
}

func NewPostgresProfileRepository(db database.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

func (r *PostgresProfileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (Profile, error) {
	row := r.db.QueryRow(ctx,
		`SELECT user_id, years_experience, weekly_hours, learning_style
		 FROM profiles
		 WHERE user_id = $1`,
		userID,
	)

	var p Profile
	if err := row.Scan(&p.UserID, &p.YearsExperience, &p.WeeklyHours, &p.LearningStyle); err != nil {
		if errors.Is(err, sql.ErrNoRows) || isNoRows(err) {
			return Profile{}, ErrProfileNotFound
		}
		return Profile{}, err
	}
	return p, nil
}

package repository

import (
	"context"
	"time"

	"skillpath/internal/database"

	"github.com/google/uuid"
)

type UserSkill struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	SkillID   uuid.UUID
	SkillName string
	Level     string
	Source    string
	CreatedAt time.Time
}

type UserSkillRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]UserSkill, error)
	// Upsert links a skill to a user. An existing (user, skill) pair is left
	// untouched: resume re-ingestion never downgrades a level a human edited.
	Upsert(ctx context.Context, us UserSkill) error
}

type PostgresUserSkillRepository struct {
	db database.DB
}

func NewPostgresUserSkillRepository(db database.DB) *PostgresUserSkillRepository {
	return &PostgresUserSkillRepository{db: db}
}

func (r *PostgresUserSkillRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]UserSkill, error) {
	rows, err := r.db.Query(ctx,
		`SELECT us.id, us.user_id, us.skill_id, s.name, us.level, us.source, us.created_at
		 FROM user_skills us
		 JOIN skills s ON s.id = us.skill_id
		 WHERE us.user_id = $1
		 ORDER BY s.name ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]UserSkill, 0)
	for rows.Next() {
		var us UserSkill
		if err := rows.Scan(&us.ID, &us.UserID, &us.SkillID, &us.SkillName, &us.Level, &us.Source, &us.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, us)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresUserSkillRepository) Upsert(ctx context.Context, us UserSkill) error {
	if us.ID == uuid.Nil {
		us.ID = uuid.New()
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO user_skills (id, user_id, skill_id, level, source)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (user_id, skill_id) DO NOTHING`,
		us.ID, us.UserID, us.SkillID, us.Level, us.Source,
	)
	return err
}

package repository

import (
	"context"
	"time"

	"skillpath/internal/database"

	"github.com/google/uuid"
)

type Skill struct {
	ID        uuid.UUID
	Name      string
	Category  string
	CreatedAt time.Time
}

type SkillRepository interface {
	GetAllSkills(ctx context.Context) ([]Skill, error)
	// UpsertByName creates the skill on first encounter and returns the
	// existing row otherwise. Names are case-sensitive unique keys; skills
	// are shared across users and never deleted.
	UpsertByName(ctx context.Context, name string, category string) (Skill, error)
}

type PostgresSkillRepository struct {
	db database.DB
}

func NewPostgresSkillRepository(db database.DB) *PostgresSkillRepository {
	return &PostgresSkillRepository{db: db}
}

func (r *PostgresSkillRepository) GetAllSkills(ctx context.Context) ([]Skill, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, category, created_at FROM skills ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Skill, 0)
	for rows.Next() {
		var s Skill
		if err := rows.Scan(&s.ID, &s.Name, &s.Category, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresSkillRepository) UpsertByName(ctx context.Context, name string, category string) (Skill, error) {
	_, err := r.db.Exec(ctx,
		`INSERT INTO skills (id, name, category) VALUES ($1, $2, $3)
		 ON CONFLICT (name) DO NOTHING`,
		uuid.New(), name, category,
	)
	if err != nil {
		return Skill{}, err
	}

	row := r.db.QueryRow(ctx, `SELECT id, name, category, created_at FROM skills WHERE name = $1`, name)

	var s Skill
	if err := row.Scan(&s.ID, &s.Name, &s.Category, &s.CreatedAt); err != nil {
		return Skill{}, err
	}
	return s, nil
}

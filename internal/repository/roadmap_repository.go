package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"skillpath/internal/database"

	"github.com/google/uuid"
)

var ErrRoadmapNotFound = errors.New("roadmap not found")

type Roadmap struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	GoalRole  string
	Status    string
	CreatedAt time.Time
}

const (
	RoadmapStatusActive     = "active"
	RoadmapStatusSuperseded = "superseded"
)

// RoadmapTree is the fully materialized Roadmap → Section → Milestone → Task
// hierarchy, ordered by position at every level. Task.Progress is the
// requesting user's overlay; nil means no progress row exists yet.
type RoadmapTree struct {
	Roadmap
	Sections []SectionNode
}

type SectionNode struct {
	ID          uuid.UUID
	Title       string
	Description string
	Position    int
	Milestones  []MilestoneNode
}

type MilestoneNode struct {
	ID          uuid.UUID
	Title       string
	Description string
	Position    int
	Tasks       []TaskNode
}

type TaskNode struct {
	ID             uuid.UUID
	Title          string
	Description    string
	Type           string
	EstimatedHours float64
	Position       int
	AITips         string
	Progress       *TaskProgress
}

// TreeInsert carries a synthesized plan into the store. Positions are
// persisted verbatim: stable, gap-tolerant, any integer sequence.
type TreeInsert struct {
	GoalRole string
	Sections []SectionInsert
}

type SectionInsert struct {
	Title       string
	Description string
	Position    int
	Milestones  []MilestoneInsert
}

type MilestoneInsert struct {
	Title       string
	Description string
	Position    int
	Tasks       []TaskInsert
}

type TaskInsert struct {
	Title          string
	Description    string
	Type           string
	EstimatedHours float64
	Position       int
	AITips         string
}

type RoadmapRepository interface {
	// CreateTree persists the whole tree in one transaction. Any prior
	// active roadmap for the user is marked superseded in the same
	// transaction, so at most one active roadmap exists per user. A failing
	// child insert rolls the entire tree back.
	CreateTree(ctx context.Context, userID uuid.UUID, tree TreeInsert) (RoadmapTree, error)
	// FetchActive returns the user's most recently created active roadmap
	// with the user's own progress overlay, or ErrRoadmapNotFound.
	FetchActive(ctx context.Context, userID uuid.UUID) (RoadmapTree, error)
}

type PostgresRoadmapRepository struct {
	db database.DB
}

func NewPostgresRoadmapRepository(db database.DB) *PostgresRoadmapRepository {
	return &PostgresRoadmapRepository{db: db}
}

func (r *PostgresRoadmapRepository) CreateTree(ctx context.Context, userID uuid.UUID, tree TreeInsert) (RoadmapTree, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return RoadmapTree{}, err
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	if _, err := tx.Exec(ctx,
		`UPDATE roadmaps SET status = $1 WHERE user_id = $2 AND status = $3`,
		RoadmapStatusSuperseded, userID, RoadmapStatusActive,
	); err != nil {
		return RoadmapTree{}, err
	}

	out := RoadmapTree{
		Roadmap: Roadmap{
			ID:        uuid.New(),
			UserID:    userID,
			GoalRole:  tree.GoalRole,
			Status:    RoadmapStatusActive,
			CreatedAt: time.Now().UTC(),
		},
		Sections: make([]SectionNode, 0, len(tree.Sections)),
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO roadmaps (id, user_id, goal_role, status, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		out.ID, out.UserID, out.GoalRole, out.Status, out.CreatedAt,
	); err != nil {
		return RoadmapTree{}, err
	}

	for _, sec := range tree.Sections {
		sn := SectionNode{
			ID:          uuid.New(),
			Title:       sec.Title,
			Description: sec.Description,
			Position:    sec.Position,
			Milestones:  make([]MilestoneNode, 0, len(sec.Milestones)),
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO sections (id, roadmap_id, title, description, position)
			 VALUES ($1, $2, $3, $4, $5)`,
			sn.ID, out.ID, sn.Title, sn.Description, sn.Position,
		); err != nil {
			return RoadmapTree{}, err
		}

		for _, mil := range sec.Milestones {
			mn := MilestoneNode{
				ID:          uuid.New(),
				Title:       mil.Title,
				Description: mil.Description,
				Position:    mil.Position,
				Tasks:       make([]TaskNode, 0, len(mil.Tasks)),
			}
			if _, err := tx.Exec(ctx,
				`INSERT INTO milestones (id, section_id, title, description, position)
				 VALUES ($1, $2, $3, $4, $5)`,
				mn.ID, sn.ID, mn.Title, mn.Description, mn.Position,
			); err != nil {
				return RoadmapTree{}, err
			}

			for _, task := range mil.Tasks {
				tn := TaskNode{
					ID:             uuid.New(),
					Title:          task.Title,
					Description:    task.Description,
					Type:           task.Type,
					EstimatedHours: task.EstimatedHours,
					Position:       task.Position,
					AITips:         task.AITips,
				}
				if _, err := tx.Exec(ctx,
					`INSERT INTO tasks (id, milestone_id, title, description, type, estimated_hours, position, ai_tips)
					 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
					tn.ID, mn.ID, tn.Title, tn.Description, tn.Type, tn.EstimatedHours, tn.Position, tn.AITips,
				); err != nil {
					return RoadmapTree{}, err
				}
				mn.Tasks = append(mn.Tasks, tn)
			}
			sn.Milestones = append(sn.Milestones, mn)
		}
		out.Sections = append(out.Sections, sn)
	}

	if err := tx.Commit(ctx); err != nil {
		return RoadmapTree{}, err
	}
	return out, nil
}

func (r *PostgresRoadmapRepository) FetchActive(ctx context.Context, userID uuid.UUID) (RoadmapTree, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, user_id, goal_role, status, created_at
		 FROM roadmaps
		 WHERE user_id = $1 AND status = $2
		 ORDER BY created_at DESC
		 LIMIT 1`,
		userID, RoadmapStatusActive,
	)

	var tree RoadmapTree
	if err := row.Scan(&tree.ID, &tree.UserID, &tree.GoalRole, &tree.Status, &tree.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) || isNoRows(err) {
			return RoadmapTree{}, ErrRoadmapNotFound
		}
		return RoadmapTree{}, err
	}

	sections, sectionIDs, err := r.fetchSections(ctx, tree.ID)
	if err != nil {
		return RoadmapTree{}, err
	}

	milestonesBySection, milestoneIDs, err := r.fetchMilestones(ctx, sectionIDs)
	if err != nil {
		return RoadmapTree{}, err
	}

	tasksByMilestone, err := r.fetchTasks(ctx, milestoneIDs, userID)
	if err != nil {
		return RoadmapTree{}, err
	}

	tree.Sections = make([]SectionNode, 0, len(sections))
	for _, sec := range sections {
		mils := milestonesBySection[sec.ID]
		sec.Milestones = make([]MilestoneNode, 0, len(mils))
		for _, mil := range mils {
			mil.Tasks = tasksByMilestone[mil.ID]
			if mil.Tasks == nil {
				mil.Tasks = []TaskNode{}
			}
			sec.Milestones = append(sec.Milestones, mil)
		}
		tree.Sections = append(tree.Sections, sec)
	}

	return tree, nil
}

func (r *PostgresRoadmapRepository) fetchSections(ctx context.Context, roadmapID uuid.UUID) ([]SectionNode, []uuid.UUID, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, title, description, position
		 FROM sections
		 WHERE roadmap_id = $1
		 ORDER BY position ASC`,
		roadmapID,
	)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	sections := make([]SectionNode, 0)
	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var s SectionNode
		if err := rows.Scan(&s.ID, &s.Title, &s.Description, &s.Position); err != nil {
			return nil, nil, err
		}
		sections = append(sections, s)
		ids = append(ids, s.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return sections, ids, nil
}

func (r *PostgresRoadmapRepository) fetchMilestones(ctx context.Context, sectionIDs []uuid.UUID) (map[uuid.UUID][]MilestoneNode, []uuid.UUID, error) {
	bySection := make(map[uuid.UUID][]MilestoneNode)
	ids := make([]uuid.UUID, 0)
	if len(sectionIDs) == 0 {
		return bySection, ids, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, section_id, title, description, position
		 FROM milestones
		 WHERE section_id = ANY($1)
		 ORDER BY position ASC`,
		sectionIDs,
	)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var m MilestoneNode
		var sectionID uuid.UUID
		if err := rows.Scan(&m.ID, &sectionID, &m.Title, &m.Description, &m.Position); err != nil {
			return nil, nil, err
		}
		bySection[sectionID] = append(bySection[sectionID], m)
		ids = append(ids, m.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return bySection, ids, nil
}

func (r *PostgresRoadmapRepository) fetchTasks(ctx context.Context, milestoneIDs []uuid.UUID, userID uuid.UUID) (map[uuid.UUID][]TaskNode, error) {
	byMilestone := make(map[uuid.UUID][]TaskNode)
	if len(milestoneIDs) == 0 {
		return byMilestone, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT t.id, t.milestone_id, t.title, t.description, t.type, t.estimated_hours, t.position, t.ai_tips,
		        tp.id, tp.status, tp.time_spent, tp.notes, tp.updated_at
		 FROM tasks t
		 LEFT JOIN task_progress tp ON tp.task_id = t.id AND tp.user_id = $2
		 WHERE t.milestone_id = ANY($1)
		 ORDER BY t.position ASC`,
		milestoneIDs, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var t TaskNode
		var milestoneID uuid.UUID
		var progressID uuid.NullUUID
		var status sql.NullString
		var timeSpent sql.NullFloat64
		var notes sql.NullString
		var updatedAt sql.NullTime
		if err := rows.Scan(
			&t.ID, &milestoneID, &t.Title, &t.Description, &t.Type, &t.EstimatedHours, &t.Position, &t.AITips,
			&progressID, &status, &timeSpent, &notes, &updatedAt,
		); err != nil {
			return nil, err
		}

		if progressID.Valid {
			tp := TaskProgress{
				ID:        progressID.UUID,
				UserID:    userID,
				TaskID:    t.ID,
				Status:    status.String,
				TimeSpent: timeSpent.Float64,
				UpdatedAt: updatedAt.Time,
			}
			if notes.Valid {
				tp.Notes = &notes.String
			}
			t.Progress = &tp
		}
		byMilestone[milestoneID] = append(byMilestone[milestoneID], t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return byMilestone, nil
}

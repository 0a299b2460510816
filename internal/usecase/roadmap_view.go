package usecase

import (
	"time"

	"skillpath/internal/repository"

	"github.com/google/uuid"
)

// RoadmapView is the tree as served to clients and stored in the cache:
// every task carries a progress overlay, defaulting to "todo" when no
// progress row exists.
type RoadmapView struct {
	ID        uuid.UUID     `json:"id"`
	GoalRole  string        `json:"goalRole"`
	Status    string        `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
	Sections  []SectionView `json:"sections"`
}

type SectionView struct {
	ID          uuid.UUID       `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Order       int             `json:"order"`
	Milestones  []MilestoneView `json:"milestones"`
}

type MilestoneView struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Order       int        `json:"order"`
	Tasks       []TaskView `json:"tasks"`
}

type TaskView struct {
	ID             uuid.UUID    `json:"id"`
	Title          string       `json:"title"`
	Description    string       `json:"description"`
	Type           string       `json:"type"`
	EstimatedHours float64      `json:"estimatedHours"`
	Order          int          `json:"order"`
	AITips         string       `json:"aiTips"`
	Progress       ProgressView `json:"progress"`
}

type ProgressView struct {
	Status    string     `json:"status"`
	TimeSpent float64    `json:"timeSpent"`
	Notes     *string    `json:"notes,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

func treeToView(tree repository.RoadmapTree) RoadmapView {
	view := RoadmapView{
		ID:        tree.ID,
		GoalRole:  tree.GoalRole,
		Status:    tree.Status,
		CreatedAt: tree.CreatedAt,
		Sections:  make([]SectionView, 0, len(tree.Sections)),
	}
	for _, sec := range tree.Sections {
		sv := SectionView{
			ID:          sec.ID,
			Title:       sec.Title,
			Description: sec.Description,
			Order:       sec.Position,
			Milestones:  make([]MilestoneView, 0, len(sec.Milestones)),
		}
		for _, mil := range sec.Milestones {
			mv := MilestoneView{
				ID:          mil.ID,
				Title:       mil.Title,
				Description: mil.Description,
				Order:       mil.Position,
				Tasks:       make([]TaskView, 0, len(mil.Tasks)),
			}
			for _, task := range mil.Tasks {
				mv.Tasks = append(mv.Tasks, TaskView{
					ID:             task.ID,
					Title:          task.Title,
					Description:    task.Description,
					Type:           task.Type,
					EstimatedHours: task.EstimatedHours,
					Order:          task.Position,
					AITips:         task.AITips,
					Progress:       progressToView(task.Progress),
				})
			}
			sv.Milestones = append(sv.Milestones, mv)
		}
		view.Sections = append(view.Sections, sv)
	}
	return view
}

func progressToView(tp *repository.TaskProgress) ProgressView {
	if tp == nil {
		return ProgressView{Status: repository.TaskStatusTodo, TimeSpent: 0}
	}
	updatedAt := tp.UpdatedAt
	return ProgressView{
		Status:    tp.Status,
		TimeSpent: tp.TimeSpent,
		Notes:     tp.Notes,
		UpdatedAt: &updatedAt,
	}
}

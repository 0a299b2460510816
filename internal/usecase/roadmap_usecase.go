package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"skillpath/internal/llm"
	"skillpath/internal/repository"

	"github.com/google/uuid"
)

// RoadmapGenerator is the structured-completion boundary for plan synthesis.
type RoadmapGenerator interface {
	Generate(ctx context.Context, in llm.RoadmapInput) (llm.RoadmapPlan, error)
}

type GenerateRoadmapInput struct {
	TargetRole     string
	WeeklyHours    int // 0 means unspecified, filled from profile
	TargetDeadline *time.Time
	LearningStyle  string // "" means unspecified, filled from profile
}

var learningStyles = map[string]struct{}{
	"video":    {},
	"text":     {},
	"project":  {},
	"balanced": {},
}

type RoadmapUsecase interface {
	// Generate synthesizes a plan for the target role from the user's
	// current skills and profile defaults, persists it as the new active
	// roadmap and returns the stored tree with its assigned ids.
	Generate(ctx context.Context, userID uuid.UUID, in GenerateRoadmapInput) (RoadmapView, error)
	// FetchActive returns the most recently created active roadmap merged
	// with the user's task progress, or ErrRoadmapNotFound.
	FetchActive(ctx context.Context, userID uuid.UUID) (RoadmapView, error)
}

type Roadmap struct {
	generator  RoadmapGenerator
	roadmaps   repository.RoadmapRepository
	userSkills repository.UserSkillRepository
	profiles   repository.ProfileRepository
	cache      RoadmapCache
	cacheTTL   time.Duration
	logger     *log.Logger
}

func NewRoadmapUsecase(
	generator RoadmapGenerator,
	roadmaps repository.RoadmapRepository,
	userSkills repository.UserSkillRepository,
	profiles repository.ProfileRepository,
	cache RoadmapCache,
	cacheTTL time.Duration,
	logger *log.Logger,
) *Roadmap {
	if logger == nil {
		logger = log.Default()
	}
	return &Roadmap{
		generator:  generator,
		roadmaps:   roadmaps,
		userSkills: userSkills,
		profiles:   profiles,
		cache:      cache,
		cacheTTL:   cacheTTL,
		logger:     logger,
	}
}

func (u *Roadmap) Generate(ctx context.Context, userID uuid.UUID, in GenerateRoadmapInput) (RoadmapView, error) {
	if userID == uuid.Nil {
		return RoadmapView{}, ErrInvalidInput
	}
	in.TargetRole = strings.TrimSpace(in.TargetRole)
	if in.TargetRole == "" {
		return RoadmapView{}, ErrInvalidInput
	}
	if in.WeeklyHours < 0 {
		return RoadmapView{}, ErrInvalidInput
	}
	if in.LearningStyle != "" {
		if _, ok := learningStyles[in.LearningStyle]; !ok {
			return RoadmapView{}, ErrInvalidInput
		}
	}

	skills, err := u.userSkills.FindByUserID(ctx, userID)
	if err != nil {
		return RoadmapView{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	skillNames := make([]string, 0, len(skills))
	for _, s := range skills {
		skillNames = append(skillNames, s.SkillName)
	}

	// Profile supplies defaults for whatever the request left unspecified.
	// A user without a profile row falls back to the generator's own
	// defaults.
	var profile repository.Profile
	if p, err := u.profiles.FindByUserID(ctx, userID); err == nil {
		profile = p
	} else if !errors.Is(err, repository.ErrProfileNotFound) {
		return RoadmapView{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	weeklyHours := in.WeeklyHours
	if weeklyHours == 0 {
		weeklyHours = profile.WeeklyHours
	}
	learningStyle := in.LearningStyle
	if learningStyle == "" {
		learningStyle = profile.LearningStyle
	}

	plan, err := u.generator.Generate(ctx, llm.RoadmapInput{
		CurrentSkills:   skillNames,
		TargetRole:      in.TargetRole,
		YearsExperience: profile.YearsExperience,
		WeeklyHours:     weeklyHours,
		TargetDeadline:  in.TargetDeadline,
		LearningStyle:   learningStyle,
	})
	if err != nil {
		// No fallback roadmap is synthesized on failure.
		return RoadmapView{}, fmt.Errorf("%w: %v", ErrSynthesis, err)
	}

	tree, err := u.roadmaps.CreateTree(ctx, userID, planToInsert(in.TargetRole, plan))
	if err != nil {
		return RoadmapView{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	u.invalidateCache(ctx, userID)

	return treeToView(tree), nil
}

func (u *Roadmap) FetchActive(ctx context.Context, userID uuid.UUID) (RoadmapView, error) {
	if userID == uuid.Nil {
		return RoadmapView{}, ErrInvalidInput
	}

	key := ActiveRoadmapCacheKey(userID)
	if u.cache != nil {
		var cached RoadmapView
		if hit, err := u.cache.GetJSON(ctx, key, &cached); err == nil && hit {
			return cached, nil
		}
	}

	tree, err := u.roadmaps.FetchActive(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrRoadmapNotFound) {
			return RoadmapView{}, ErrRoadmapNotFound
		}
		return RoadmapView{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	view := treeToView(tree)

	if u.cache != nil {
		if err := u.cache.SetJSON(ctx, key, view, u.cacheTTL); err != nil {
			u.logger.Printf("[Roadmap] cache set failed user=%s err=%v", userID, err)
		}
	}

	return view, nil
}

func (u *Roadmap) invalidateCache(ctx context.Context, userID uuid.UUID) {
	if u.cache == nil {
		return
	}
	if err := u.cache.Delete(ctx, ActiveRoadmapCacheKey(userID)); err != nil {
		u.logger.Printf("[Roadmap] cache invalidation failed user=%s err=%v", userID, err)
	}
}

func planToInsert(goalRole string, plan llm.RoadmapPlan) repository.TreeInsert {
	insert := repository.TreeInsert{
		GoalRole: goalRole,
		Sections: make([]repository.SectionInsert, 0, len(plan.Sections)),
	}
	for _, sec := range plan.Sections {
		si := repository.SectionInsert{
			Title:       sec.Title,
			Description: sec.Description,
			Position:    sec.Order,
			Milestones:  make([]repository.MilestoneInsert, 0, len(sec.Milestones)),
		}
		for _, mil := range sec.Milestones {
			mi := repository.MilestoneInsert{
				Title:       mil.Title,
				Description: mil.Description,
				Position:    mil.Order,
				Tasks:       make([]repository.TaskInsert, 0, len(mil.Tasks)),
			}
			for _, task := range mil.Tasks {
				mi.Tasks = append(mi.Tasks, repository.TaskInsert{
					Title:          task.Title,
					Description:    task.Description,
					Type:           task.Type,
					EstimatedHours: task.EstimatedHours,
					Position:       task.Order,
					AITips:         task.AITips,
				})
			}
			si.Milestones = append(si.Milestones, mi)
		}
		insert.Sections = append(insert.Sections, si)
	}
	return insert
}

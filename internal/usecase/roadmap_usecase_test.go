package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"skillpath/internal/llm"
	"skillpath/internal/repository"

	"github.com/google/uuid"
)

type mockGenerator struct {
	plan llm.RoadmapPlan
	err  error
	last llm.RoadmapInput
}

func (m *mockGenerator) Generate(_ context.Context, in llm.RoadmapInput) (llm.RoadmapPlan, error) {
	m.last = in
	return m.plan, m.err
}

type mockRoadmapRepo struct {
	tree       repository.RoadmapTree
	fetchErr   error
	createErr  error
	lastInsert repository.TreeInsert
	fetchCalls int
}

func (m *mockRoadmapRepo) CreateTree(_ context.Context, userID uuid.UUID, tree repository.TreeInsert) (repository.RoadmapTree, error) {
	m.lastInsert = tree
	if m.createErr != nil {
		return repository.RoadmapTree{}, m.createErr
	}
	return m.tree, nil
}

func (m *mockRoadmapRepo) FetchActive(context.Context, uuid.UUID) (repository.RoadmapTree, error) {
	m.fetchCalls++
	return m.tree, m.fetchErr
}

type mockProfileRepo struct {
	profile repository.Profile
	err     error
}

func (m mockProfileRepo) FindByUserID(context.Context, uuid.UUID) (repository.Profile, error) {
	return m.profile, m.err
}

type mockCache struct {
	store   map[string][]byte
	getErr  error
	setErr  error
	deleted []string
}

func newMockCache() *mockCache {
	return &mockCache{store: map[string][]byte{}}
}

func (m *mockCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	if m.getErr != nil {
		return false, m.getErr
	}
	raw, ok := m.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, out)
}

func (m *mockCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.store[key] = raw
	return nil
}

func (m *mockCache) Delete(_ context.Context, key string) error {
	m.deleted = append(m.deleted, key)
	delete(m.store, key)
	return nil
}

func sampleTree(userID uuid.UUID) repository.RoadmapTree {
	return repository.RoadmapTree{
		Roadmap: repository.Roadmap{
			ID:        uuid.New(),
			UserID:    userID,
			GoalRole:  "Backend Engineer",
			Status:    repository.RoadmapStatusActive,
			CreatedAt: time.Now().UTC(),
		},
		Sections: []repository.SectionNode{{
			ID:       uuid.New(),
			Title:    "Fundamentals",
			Position: 1,
			Milestones: []repository.MilestoneNode{{
				ID:       uuid.New(),
				Title:    "Basics",
				Position: 1,
				Tasks: []repository.TaskNode{{
					ID:             uuid.New(),
					Title:          "Tour of Go",
					Type:           "course",
					EstimatedHours: 6,
					Position:       1,
				}},
			}},
		}},
	}
}

func samplePlan() llm.RoadmapPlan {
	return llm.RoadmapPlan{Sections: []llm.PlanSection{{
		Title: "Fundamentals",
		Order: 1,
		Milestones: []llm.PlanMilestone{{
			Title: "Basics",
			Order: 1,
			Tasks: []llm.PlanTask{{
				Title:          "Tour of Go",
				Type:           "course",
				EstimatedHours: 6,
				Order:          1,
			}},
		}},
	}}}
}

func TestRoadmapUsecase_Generate_Validation(t *testing.T) {
	uc := NewRoadmapUsecase(&mockGenerator{}, &mockRoadmapRepo{}, &mockUserSkillRepo{}, mockProfileRepo{}, nil, 0, nil)

	cases := []struct {
		name   string
		userID uuid.UUID
		in     GenerateRoadmapInput
	}{
		{"nil user", uuid.Nil, GenerateRoadmapInput{TargetRole: "SRE"}},
		{"empty role", uuid.New(), GenerateRoadmapInput{TargetRole: "  "}},
		{"negative hours", uuid.New(), GenerateRoadmapInput{TargetRole: "SRE", WeeklyHours: -1}},
		{"unknown style", uuid.New(), GenerateRoadmapInput{TargetRole: "SRE", LearningStyle: "osmosis"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Generate(context.Background(), tc.userID, tc.in)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestRoadmapUsecase_Generate_ProfileFillsDefaults(t *testing.T) {
	userID := uuid.New()
	gen := &mockGenerator{plan: samplePlan()}
	uc := NewRoadmapUsecase(
		gen,
		&mockRoadmapRepo{tree: sampleTree(userID)},
		&mockUserSkillRepo{skills: []repository.UserSkill{{SkillName: "Go"}, {SkillName: "SQL"}}},
		mockProfileRepo{profile: repository.Profile{YearsExperience: 4, WeeklyHours: 8, LearningStyle: "video"}},
		nil, 0, nil,
	)

	_, err := uc.Generate(context.Background(), userID, GenerateRoadmapInput{TargetRole: "Platform Engineer"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if gen.last.WeeklyHours != 8 || gen.last.LearningStyle != "video" || gen.last.YearsExperience != 4 {
		t.Fatalf("profile defaults not applied: %+v", gen.last)
	}
	if len(gen.last.CurrentSkills) != 2 || gen.last.CurrentSkills[0] != "Go" {
		t.Fatalf("unexpected skills passed to generator: %v", gen.last.CurrentSkills)
	}
}

func TestRoadmapUsecase_Generate_RequestOverridesProfile(t *testing.T) {
	userID := uuid.New()
	gen := &mockGenerator{plan: samplePlan()}
	uc := NewRoadmapUsecase(
		gen,
		&mockRoadmapRepo{tree: sampleTree(userID)},
		&mockUserSkillRepo{},
		mockProfileRepo{profile: repository.Profile{WeeklyHours: 8, LearningStyle: "video"}},
		nil, 0, nil,
	)

	_, err := uc.Generate(context.Background(), userID, GenerateRoadmapInput{
		TargetRole:    "Platform Engineer",
		WeeklyHours:   20,
		LearningStyle: "project",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if gen.last.WeeklyHours != 20 || gen.last.LearningStyle != "project" {
		t.Fatalf("request fields should win over profile: %+v", gen.last)
	}
}

func TestRoadmapUsecase_Generate_MissingProfileIsFine(t *testing.T) {
	userID := uuid.New()
	gen := &mockGenerator{plan: samplePlan()}
	uc := NewRoadmapUsecase(
		gen,
		&mockRoadmapRepo{tree: sampleTree(userID)},
		&mockUserSkillRepo{},
		mockProfileRepo{err: repository.ErrProfileNotFound},
		nil, 0, nil,
	)

	_, err := uc.Generate(context.Background(), userID, GenerateRoadmapInput{TargetRole: "SRE"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if gen.last.WeeklyHours != 0 || gen.last.LearningStyle != "" {
		t.Fatalf("expected zero-value constraints without a profile: %+v", gen.last)
	}
}

func TestRoadmapUsecase_Generate_SynthesisFailure(t *testing.T) {
	userID := uuid.New()
	repo := &mockRoadmapRepo{}
	uc := NewRoadmapUsecase(
		&mockGenerator{err: errors.New("model refused")},
		repo, &mockUserSkillRepo{}, mockProfileRepo{err: repository.ErrProfileNotFound},
		nil, 0, nil,
	)

	_, err := uc.Generate(context.Background(), userID, GenerateRoadmapInput{TargetRole: "SRE"})
	if !errors.Is(err, ErrSynthesis) {
		t.Fatalf("expected ErrSynthesis, got %v", err)
	}
	if len(repo.lastInsert.Sections) != 0 {
		t.Fatalf("nothing should be persisted when synthesis fails")
	}
}

func TestRoadmapUsecase_Generate_PersistsPlanAndInvalidatesCache(t *testing.T) {
	userID := uuid.New()
	repo := &mockRoadmapRepo{tree: sampleTree(userID)}
	cache := newMockCache()
	cache.store[ActiveRoadmapCacheKey(userID)] = []byte(`{"goalRole":"stale"}`)
	uc := NewRoadmapUsecase(
		&mockGenerator{plan: samplePlan()},
		repo, &mockUserSkillRepo{}, mockProfileRepo{err: repository.ErrProfileNotFound},
		cache, time.Minute, nil,
	)

	view, err := uc.Generate(context.Background(), userID, GenerateRoadmapInput{TargetRole: "Backend Engineer"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if repo.lastInsert.GoalRole != "Backend Engineer" {
		t.Fatalf("unexpected goal role persisted: %q", repo.lastInsert.GoalRole)
	}
	if len(repo.lastInsert.Sections) != 1 || repo.lastInsert.Sections[0].Milestones[0].Tasks[0].Title != "Tour of Go" {
		t.Fatalf("plan not mapped into insert: %+v", repo.lastInsert)
	}
	if view.ID != repo.tree.ID {
		t.Fatalf("view should carry the stored roadmap id")
	}
	if _, ok := cache.store[ActiveRoadmapCacheKey(userID)]; ok {
		t.Fatalf("stale cache entry should be invalidated")
	}
}

func TestRoadmapUsecase_FetchActive_NotFound(t *testing.T) {
	uc := NewRoadmapUsecase(
		&mockGenerator{},
		&mockRoadmapRepo{fetchErr: repository.ErrRoadmapNotFound},
		&mockUserSkillRepo{}, mockProfileRepo{}, nil, 0, nil,
	)

	_, err := uc.FetchActive(context.Background(), uuid.New())
	if !errors.Is(err, ErrRoadmapNotFound) {
		t.Fatalf("expected ErrRoadmapNotFound, got %v", err)
	}
}

func TestRoadmapUsecase_FetchActive_DefaultProgressOverlay(t *testing.T) {
	userID := uuid.New()
	uc := NewRoadmapUsecase(
		&mockGenerator{},
		&mockRoadmapRepo{tree: sampleTree(userID)},
		&mockUserSkillRepo{}, mockProfileRepo{}, nil, 0, nil,
	)

	view, err := uc.FetchActive(context.Background(), userID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	progress := view.Sections[0].Milestones[0].Tasks[0].Progress
	if progress.Status != repository.TaskStatusTodo || progress.TimeSpent != 0 {
		t.Fatalf("expected todo overlay for untouched task, got %+v", progress)
	}
	if progress.UpdatedAt != nil {
		t.Fatalf("untouched task should have no updatedAt")
	}
}

func TestRoadmapUsecase_FetchActive_ProgressOverlay(t *testing.T) {
	userID := uuid.New()
	tree := sampleTree(userID)
	notes := "halfway through"
	tree.Sections[0].Milestones[0].Tasks[0].Progress = &repository.TaskProgress{
		Status:    repository.TaskStatusInProgress,
		TimeSpent: 2.5,
		Notes:     &notes,
		UpdatedAt: time.Now().UTC(),
	}
	uc := NewRoadmapUsecase(
		&mockGenerator{},
		&mockRoadmapRepo{tree: tree},
		&mockUserSkillRepo{}, mockProfileRepo{}, nil, 0, nil,
	)

	view, err := uc.FetchActive(context.Background(), userID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	progress := view.Sections[0].Milestones[0].Tasks[0].Progress
	if progress.Status != repository.TaskStatusInProgress || progress.TimeSpent != 2.5 {
		t.Fatalf("progress overlay not mapped: %+v", progress)
	}
	if progress.Notes == nil || *progress.Notes != notes {
		t.Fatalf("notes not mapped: %+v", progress.Notes)
	}
}

func TestRoadmapUsecase_FetchActive_CacheHitSkipsRepo(t *testing.T) {
	userID := uuid.New()
	repo := &mockRoadmapRepo{fetchErr: errors.New("db must not be touched")}
	cache := newMockCache()
	uc := NewRoadmapUsecase(&mockGenerator{}, repo, &mockUserSkillRepo{}, mockProfileRepo{}, cache, time.Minute, nil)

	cached := RoadmapView{ID: uuid.New(), GoalRole: "Backend Engineer", Status: repository.RoadmapStatusActive}
	if err := cache.SetJSON(context.Background(), ActiveRoadmapCacheKey(userID), cached, time.Minute); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	view, err := uc.FetchActive(context.Background(), userID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if view.ID != cached.ID {
		t.Fatalf("expected cached view, got %+v", view)
	}
	if repo.fetchCalls != 0 {
		t.Fatalf("repo should not be hit on cache hit")
	}
}

func TestRoadmapUsecase_FetchActive_MissPopulatesCache(t *testing.T) {
	userID := uuid.New()
	cache := newMockCache()
	uc := NewRoadmapUsecase(
		&mockGenerator{},
		&mockRoadmapRepo{tree: sampleTree(userID)},
		&mockUserSkillRepo{}, mockProfileRepo{}, cache, time.Minute, nil,
	)

	view, err := uc.FetchActive(context.Background(), userID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	raw, ok := cache.store[ActiveRoadmapCacheKey(userID)]
	if !ok {
		t.Fatalf("expected populated cache entry")
	}
	var stored RoadmapView
	if err := json.Unmarshal(raw, &stored); err != nil {
		t.Fatalf("cached payload not a view: %v", err)
	}
	if stored.ID != view.ID {
		t.Fatalf("cached view differs from served view")
	}
}

func TestRoadmapUsecase_FetchActive_CacheErrorFallsThrough(t *testing.T) {
	userID := uuid.New()
	cache := newMockCache()
	cache.getErr = errors.New("redis gone")
	cache.setErr = errors.New("redis gone")
	uc := NewRoadmapUsecase(
		&mockGenerator{},
		&mockRoadmapRepo{tree: sampleTree(userID)},
		&mockUserSkillRepo{}, mockProfileRepo{}, cache, time.Minute, nil,
	)

	view, err := uc.FetchActive(context.Background(), userID)
	if err != nil {
		t.Fatalf("cache failure must not fail the fetch: %v", err)
	}
	if view.GoalRole != "Backend Engineer" {
		t.Fatalf("unexpected view: %+v", view)
	}
}

package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

const validPlanJSON = `{
	"sections": [
		{
			"title": "Go Fundamentals",
			"description": "Core language",
			"order": 1,
			"milestones": [
				{
					"title": "Syntax and Tooling",
					"description": "Get productive",
					"order": 1,
					"tasks": [
						{"title": "Tour of Go", "description": "Work through it", "type": "course", "estimatedHours": 6, "order": 1, "aiTips": "Take notes"}
					]
				}
			]
		}
	]
}`

func TestGenerator_Generate_Success(t *testing.T) {
	c := &mockCompleter{text: validPlanJSON}
	g := NewGenerator(c)

	plan, err := g.Generate(context.Background(), RoadmapInput{
		TargetRole:    "Backend Engineer",
		CurrentSkills: []string{"Python"},
		WeeklyHours:   15,
		LearningStyle: "project",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(plan.Sections) != 1 || plan.Sections[0].Title != "Go Fundamentals" {
		t.Fatalf("unexpected plan: %+v", plan)
	}
	if c.last.Temperature != generateTemperature {
		t.Fatalf("expected temperature %v, got %v", generateTemperature, c.last.Temperature)
	}
	if !strings.Contains(c.last.Prompt, "Backend Engineer") {
		t.Fatalf("prompt does not embed the target role")
	}
	if !strings.Contains(c.last.Prompt, "15 hours") {
		t.Fatalf("prompt does not embed the weekly hours")
	}
}

func TestGenerator_Generate_DefaultsApplied(t *testing.T) {
	c := &mockCompleter{text: validPlanJSON}
	g := NewGenerator(c)

	_, err := g.Generate(context.Background(), RoadmapInput{TargetRole: "Data Engineer"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !strings.Contains(c.last.Prompt, "10 hours") {
		t.Fatalf("expected default weekly hours in prompt")
	}
	if !strings.Contains(c.last.Prompt, "balanced") {
		t.Fatalf("expected default learning style in prompt")
	}
	if !strings.Contains(c.last.Prompt, "None specified") {
		t.Fatalf("expected empty skill list placeholder in prompt")
	}
}

func TestGenerator_Generate_DeadlineInPrompt(t *testing.T) {
	c := &mockCompleter{text: validPlanJSON}
	g := NewGenerator(c)

	deadline := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	_, err := g.Generate(context.Background(), RoadmapInput{TargetRole: "SRE", TargetDeadline: &deadline})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !strings.Contains(c.last.Prompt, "Target Deadline") {
		t.Fatalf("expected deadline line in prompt")
	}
}

func TestGenerator_Generate_EmptySections(t *testing.T) {
	c := &mockCompleter{text: `{"sections": []}`}
	g := NewGenerator(c)

	_, err := g.Generate(context.Background(), RoadmapInput{TargetRole: "SRE"})
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestGenerator_Generate_MilestoneWithoutTasks(t *testing.T) {
	c := &mockCompleter{text: `{"sections": [{"title": "S", "order": 1, "milestones": [{"title": "M", "order": 1, "tasks": []}]}]}`}
	g := NewGenerator(c)

	_, err := g.Generate(context.Background(), RoadmapInput{TargetRole: "SRE"})
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestGenerator_Generate_CoercesTaskFields(t *testing.T) {
	c := &mockCompleter{text: `{"sections": [{"title": "S", "order": 1, "milestones": [{"title": "M", "order": 1, "tasks": [
		{"title": "T", "type": "bootcamp", "estimatedHours": -3, "order": 1}
	]}]}]}`}
	g := NewGenerator(c)

	plan, err := g.Generate(context.Background(), RoadmapInput{TargetRole: "SRE"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	task := plan.Sections[0].Milestones[0].Tasks[0]
	if task.Type != "practice" {
		t.Fatalf("expected unknown type coerced to practice, got %q", task.Type)
	}
	if task.EstimatedHours != 0 {
		t.Fatalf("expected negative hours clamped to 0, got %v", task.EstimatedHours)
	}
}

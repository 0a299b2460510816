package llm

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	generateTemperature     = 0.7
	generateMaxOutputTokens = 4096
)

const (
	defaultWeeklyHours   = 10
	defaultLearningStyle = "balanced"
)

type RoadmapInput struct {
	CurrentSkills   []string
	TargetRole      string
	YearsExperience int
	WeeklyHours     int
	TargetDeadline  *time.Time
	LearningStyle   string
}

type RoadmapPlan struct {
	Sections []PlanSection `json:"sections"`
}

type PlanSection struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Order       int             `json:"order"`
	Milestones  []PlanMilestone `json:"milestones"`
}

type PlanMilestone struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Order       int        `json:"order"`
	Tasks       []PlanTask `json:"tasks"`
}

type PlanTask struct {
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	Type           string  `json:"type"`
	EstimatedHours float64 `json:"estimatedHours"`
	Order          int     `json:"order"`
	AITips         string  `json:"aiTips"`
}

var taskTypes = map[string]struct{}{
	"course":   {},
	"video":    {},
	"project":  {},
	"reading":  {},
	"practice": {},
}

// Generator turns a target role plus the user's current skills and
// constraints into a hierarchical learning plan.
type Generator struct {
	c Completer
}

func NewGenerator(c Completer) *Generator {
	return &Generator{c: c}
}

func (g *Generator) Generate(ctx context.Context, in RoadmapInput) (RoadmapPlan, error) {
	if in.WeeklyHours <= 0 {
		in.WeeklyHours = defaultWeeklyHours
	}
	if in.YearsExperience < 0 {
		in.YearsExperience = 0
	}
	if strings.TrimSpace(in.LearningStyle) == "" {
		in.LearningStyle = defaultLearningStyle
	}

	var plan RoadmapPlan
	err := completeJSON(ctx, g.c, Request{
		Prompt:          generatePrompt(in),
		Temperature:     generateTemperature,
		MaxOutputTokens: generateMaxOutputTokens,
	}, &plan)
	if err != nil {
		return RoadmapPlan{}, err
	}

	if err := plan.validate(); err != nil {
		return RoadmapPlan{}, err
	}
	return plan, nil
}

// validate checks the plan is structurally usable. The generator is
// probabilistic, so only hollow output is rejected; cardinality outside the
// prompt's guidance passes. Task types and hour estimates are coerced into
// range instead of failing the whole plan.
func (p *RoadmapPlan) validate() error {
	if len(p.Sections) == 0 {
		return fmt.Errorf("%w: no sections", ErrMalformedResponse)
	}
	for si := range p.Sections {
		s := &p.Sections[si]
		if strings.TrimSpace(s.Title) == "" {
			return fmt.Errorf("%w: section %d has no title", ErrMalformedResponse, si)
		}
		if len(s.Milestones) == 0 {
			return fmt.Errorf("%w: section %q has no milestones", ErrMalformedResponse, s.Title)
		}
		for mi := range s.Milestones {
			m := &s.Milestones[mi]
			if strings.TrimSpace(m.Title) == "" {
				return fmt.Errorf("%w: milestone %d in section %q has no title", ErrMalformedResponse, mi, s.Title)
			}
			if len(m.Tasks) == 0 {
				return fmt.Errorf("%w: milestone %q has no tasks", ErrMalformedResponse, m.Title)
			}
			for ti := range m.Tasks {
				t := &m.Tasks[ti]
				if strings.TrimSpace(t.Title) == "" {
					return fmt.Errorf("%w: task %d in milestone %q has no title", ErrMalformedResponse, ti, m.Title)
				}
				if _, ok := taskTypes[t.Type]; !ok {
					t.Type = "practice"
				}
				if t.EstimatedHours < 0 {
					t.EstimatedHours = 0
				}
			}
		}
	}
	return nil
}

func generatePrompt(in RoadmapInput) string {
	skills := strings.Join(in.CurrentSkills, ", ")
	if skills == "" {
		skills = "None specified"
	}

	deadline := ""
	if in.TargetDeadline != nil {
		deadline = fmt.Sprintf("\n- Target Deadline: %s", in.TargetDeadline.Format("Mon Jan 2 2006"))
	}

	return fmt.Sprintf(`You are an expert career coach and learning path designer. Create a comprehensive, personalized learning roadmap.

User Profile:
- Target Role: %s
- Current Skills: %s
- Experience Level: %d years
- Weekly Time Commitment: %d hours
- Learning Style: %s%s

Create a structured learning roadmap that takes the person from their current level to achieving their target role.

Return ONLY a valid JSON object with this structure (no markdown, no extra text):
{
  "sections": [
    {
      "title": "Section Title (e.g., 'Python Fundamentals')",
      "description": "Brief description of this section",
      "order": 1,
      "milestones": [
        {
          "title": "Milestone Title (e.g., 'Master Control Flow')",
          "description": "What will be achieved",
          "order": 1,
          "tasks": [
            {
              "title": "Specific task title",
              "description": "What to do",
              "type": "course|video|project|reading|practice",
              "estimatedHours": 5,
              "order": 1,
              "aiTips": "Helpful tips for completing this task"
            }
          ]
        }
      ]
    }
  ]
}

Guidelines:
- Create 3-5 main sections (beginner → intermediate → advanced if applicable)
- Each section should have 2-4 milestones
- Each milestone should have 3-6 specific, actionable tasks
- Be realistic about time estimates
- Consider the user's available hours per week
- Mix different types of learning (courses, projects, practice)
- Prioritize free resources when possible
- Make it specific to their target role: %s

Return ONLY the JSON object.`,
		in.TargetRole, skills, in.YearsExperience, in.WeeklyHours, in.LearningStyle, deadline, in.TargetRole)
}

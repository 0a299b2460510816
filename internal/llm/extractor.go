package llm

import (
	"context"
	"fmt"
)

const (
	extractTemperature     = 0.3
	extractMaxOutputTokens = 2048
)

type ResumeData struct {
	Summary    string            `json:"summary"`
	Skills     []string          `json:"skills"`
	Experience []ExperienceEntry `json:"experience"`
	Education  []EducationEntry  `json:"education"`
	Projects   []ProjectEntry    `json:"projects"`
}

type ExperienceEntry struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

type EducationEntry struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        string `json:"year"`
	Field       string `json:"field"`
}

type ProjectEntry struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
}

// Extractor turns raw resume text into a structured candidate profile.
type Extractor struct {
	c Completer
}

func NewExtractor(c Completer) *Extractor {
	return &Extractor{c: c}
}

func (e *Extractor) Extract(ctx context.Context, rawText string) (ResumeData, error) {
	var data ResumeData
	err := completeJSON(ctx, e.c, Request{
		Prompt:          extractPrompt(rawText),
		Temperature:     extractTemperature,
		MaxOutputTokens: extractMaxOutputTokens,
	}, &data)
	if err != nil {
		return ResumeData{}, err
	}

	data.normalize()
	return data, nil
}

// normalize guarantees the output contract: missing sections become empty
// slices, never nil, and nil nested slices are filled in.
func (d *ResumeData) normalize() {
	if d.Skills == nil {
		d.Skills = []string{}
	}
	if d.Experience == nil {
		d.Experience = []ExperienceEntry{}
	}
	if d.Education == nil {
		d.Education = []EducationEntry{}
	}
	if d.Projects == nil {
		d.Projects = []ProjectEntry{}
	}
	for i := range d.Projects {
		if d.Projects[i].Technologies == nil {
			d.Projects[i].Technologies = []string{}
		}
	}
}

func extractPrompt(rawText string) string {
	return fmt.Sprintf(`You are an expert resume parser. Analyze the following resume text and extract structured information.

Resume Text:
%s

Please extract and return ONLY a valid JSON object with this exact structure (no markdown, no extra text):
{
  "summary": "A brief 2-3 sentence professional summary",
  "skills": ["skill1", "skill2", "skill3"],
  "experience": [
    {
      "title": "Job Title",
      "company": "Company Name",
      "duration": "Jan 2020 - Dec 2022",
      "description": "Brief description of responsibilities"
    }
  ],
  "education": [
    {
      "degree": "Degree Name",
      "institution": "University/College",
      "year": "2020",
      "field": "Field of Study"
    }
  ],
  "projects": [
    {
      "name": "Project Name",
      "description": "Brief description",
      "technologies": ["tech1", "tech2"]
    }
  ]
}

Return ONLY the JSON object, nothing else.`, rawText)
}

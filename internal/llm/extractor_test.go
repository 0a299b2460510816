package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestExtractor_Extract_Success(t *testing.T) {
	c := &mockCompleter{text: `{
		"summary": "Backend engineer with five years of Go.",
		"skills": ["Go", "PostgreSQL"],
		"experience": [{"title": "Engineer", "company": "Acme", "duration": "2020 - 2024", "description": "APIs"}],
		"education": [],
		"projects": [{"name": "sync", "description": "cli", "technologies": ["Go"]}]
	}`}
	e := NewExtractor(c)

	data, err := e.Extract(context.Background(), "resume text")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(data.Skills) != 2 || data.Skills[0] != "Go" {
		t.Fatalf("unexpected skills: %v", data.Skills)
	}
	if len(data.Experience) != 1 || data.Experience[0].Company != "Acme" {
		t.Fatalf("unexpected experience: %+v", data.Experience)
	}
	if c.last.Temperature != extractTemperature {
		t.Fatalf("expected temperature %v, got %v", extractTemperature, c.last.Temperature)
	}
	if c.last.MaxOutputTokens != extractMaxOutputTokens {
		t.Fatalf("expected max tokens %d, got %d", extractMaxOutputTokens, c.last.MaxOutputTokens)
	}
	if !strings.Contains(c.last.Prompt, "resume text") {
		t.Fatalf("prompt does not embed the resume text")
	}
}

func TestExtractor_Extract_NormalizesMissingSections(t *testing.T) {
	c := &mockCompleter{text: `{"summary": "short", "projects": [{"name": "p", "description": "d"}]}`}
	e := NewExtractor(c)

	data, err := e.Extract(context.Background(), "text")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if data.Skills == nil || data.Experience == nil || data.Education == nil {
		t.Fatalf("expected empty slices, got nils: %+v", data)
	}
	if data.Projects[0].Technologies == nil {
		t.Fatalf("expected project technologies to be an empty slice")
	}
}

func TestExtractor_Extract_MalformedResponse(t *testing.T) {
	c := &mockCompleter{text: "not json at all"}
	e := NewExtractor(c)

	_, err := e.Extract(context.Background(), "text")
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestExtractor_Extract_CompletionFailure(t *testing.T) {
	c := &mockCompleter{err: errors.New("timeout")}
	e := NewExtractor(c)

	_, err := e.Extract(context.Background(), "text")
	if !errors.Is(err, ErrCompletion) {
		t.Fatalf("expected ErrCompletion, got %v", err)
	}
}

package llm

import (
	"context"
	"errors"
	"testing"
)

type mockCompleter struct {
	text string
	err  error
	last Request
}

func (m *mockCompleter) Complete(_ context.Context, req Request) (string, error) {
	m.last = req
	return m.text, m.err
}

func TestStripFences(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare json", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"plain fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  \n```json\n{\"a\":1}\n```\n  ", `{"a":1}`},
		{"no trailing fence", "```json\n{\"a\":1}", `{"a":1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := stripFences(tc.in); got != tc.want {
				t.Fatalf("stripFences(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestCompleteJSON_FencedPayload(t *testing.T) {
	c := &mockCompleter{text: "```json\n{\"summary\":\"ok\"}\n```"}
	var out struct {
		Summary string `json:"summary"`
	}
	if err := completeJSON(context.Background(), c, Request{Prompt: "p"}, &out); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out.Summary != "ok" {
		t.Fatalf("expected summary %q, got %q", "ok", out.Summary)
	}
}

func TestCompleteJSON_MalformedPayload(t *testing.T) {
	c := &mockCompleter{text: "I could not produce JSON, sorry."}
	var out map[string]any
	err := completeJSON(context.Background(), c, Request{Prompt: "p"}, &out)
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestCompleteJSON_CompletionFailure(t *testing.T) {
	c := &mockCompleter{err: errors.New("quota exceeded")}
	var out map[string]any
	err := completeJSON(context.Background(), c, Request{Prompt: "p"}, &out)
	if !errors.Is(err, ErrCompletion) {
		t.Fatalf("expected ErrCompletion, got %v", err)
	}
}

func TestCompleteJSON_PreservesTaggedError(t *testing.T) {
	c := &mockCompleter{err: ErrMalformedResponse}
	var out map[string]any
	err := completeJSON(context.Background(), c, Request{Prompt: "p"}, &out)
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
	if errors.Is(err, ErrCompletion) {
		t.Fatalf("error should not also be ErrCompletion: %v", err)
	}
}

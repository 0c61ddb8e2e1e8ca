package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestParseDecision(t *testing.T) {
	tests := []struct {
		raw  string
		want Decision
	}{
		{"Slide creator", DecisionOutline},
		{"Slide enricher", DecisionEnrich},
		{"Title creator", DecisionTitle},
		{"Image finder", DecisionImage},
		{"Quiz creator", DecisionQuiz},
		{"End process", DecisionComplete},
		{` "Quiz creator"` + "\n", DecisionQuiz},
		{"quiz creator", DecisionUnrecognized},
		{"Next: Quiz creator", DecisionUnrecognized},
		{"Quiz creator.", DecisionUnrecognized},
		{"Orchestrator", DecisionUnrecognized},
		{"", DecisionUnrecognized},
	}
	for _, tt := range tests {
		if got := ParseDecision(tt.raw); got != tt.want {
			t.Errorf("ParseDecision(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestRuleControllerSequence(t *testing.T) {
	var c RuleController
	s := NewState("x")
	fill := []Update{
		{Slot: SlotOutline, Outline: []OutlineEntry{{Title: "A"}}},
		{Slot: SlotSections, Sections: []Section{{Title: "A", Paragraphs: []string{"p"}}}},
		{Slot: SlotTitle, Title: "T"},
		{Slot: SlotImage, Image: "I"},
		{Slot: SlotQuiz, Quiz: []QuizItem{{"q", "a"}, {"q", "a"}, {"q", "a"}}},
	}
	want := []Decision{DecisionOutline, DecisionEnrich, DecisionTitle, DecisionImage, DecisionQuiz, DecisionComplete}
	for i, w := range want {
		got, err := c.Decide(context.Background(), s, nil)
		if err != nil {
			t.Fatalf("Decide: %v", err)
		}
		if got != w {
			t.Fatalf("turn %d: decision = %v, want %v", i, got, w)
		}
		if i < len(fill) {
			s = s.Apply(fill[i])
		}
	}
}

func TestLLMController(t *testing.T) {
	t.Run("recognized", func(t *testing.T) {
		llm := newFakeLLM().on(TaskDecide, "  Image finder ")
		d, err := NewLLMController(llm, nil, 0).Decide(context.Background(), enrichedState(), nil)
		if err != nil || d != DecisionImage {
			t.Fatalf("d = %v, err = %v", d, err)
		}
		sys := llm.prompts[TaskDecide][0].System
		if !strings.Contains(sys, `title: ""`) || !strings.Contains(sys, "enriched_slides: <slides>") {
			t.Fatalf("state not described: %s", sys)
		}
	})
	t.Run("unrecognized", func(t *testing.T) {
		llm := newFakeLLM().on(TaskDecide, "I think we should make a title")
		d, err := NewLLMController(llm, nil, 0).Decide(context.Background(), enrichedState(), nil)
		var ue *UnrecognizedDecisionError
		if !errors.As(err, &ue) || d != DecisionUnrecognized {
			t.Fatalf("d = %v, err = %v", d, err)
		}
		if ue.Raw != "I think we should make a title" {
			t.Fatalf("raw = %q", ue.Raw)
		}
	})
	t.Run("service error", func(t *testing.T) {
		llm := newFakeLLM()
		llm.errs[TaskDecide] = errBoom
		_, err := NewLLMController(llm, nil, 0).Decide(context.Background(), enrichedState(), nil)
		if !errors.Is(err, errBoom) {
			t.Fatalf("err = %v", err)
		}
	})
}

func TestLLMControllerHistoryLimit(t *testing.T) {
	notes := make([]Message, 5)
	for i := range notes {
		notes[i] = Message{Role: "assistant", Content: fmt.Sprintf("note %d", i)}
	}
	tests := []struct {
		limit int
		want  []string
	}{
		{0, []string{"note 0", "note 1", "note 2", "note 3", "note 4"}},
		{2, []string{"note 3", "note 4"}},
		{10, []string{"note 0", "note 1", "note 2", "note 3", "note 4"}},
	}
	for _, tt := range tests {
		llm := newFakeLLM().on(TaskDecide, "End process")
		if _, err := NewLLMController(llm, nil, tt.limit).Decide(context.Background(), enrichedState(), notes); err != nil {
			t.Fatalf("limit %d: %v", tt.limit, err)
		}
		hist := llm.prompts[TaskDecide][0].History
		var got []string
		for _, m := range hist {
			got = append(got, m.Content)
		}
		if strings.Join(got, "|") != strings.Join(tt.want, "|") {
			t.Fatalf("limit %d: history = %v, want %v", tt.limit, got, tt.want)
		}
	}
}

package generator

import (
	"context"
	"strings"
	"testing"

	"presentation_agent/logger"
)

func TestMockBuild(t *testing.T) {
	input := "Julius Caesar was a Roman general and statesman. He played a critical role in the fall of the Republic.\n\n" +
		"In 49 BC he crossed the Rubicon. This started a civil war.\n\n" +
		"He was assassinated on the Ides of March in 44 BC."
	a, err := NewAgent(MockLLM{}, &fakeSearch{links: []string{"https://img.example/caesar.jpg"}}, WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("NewAgent: %v", err)
	}
	doc, err := a.Build(context.Background(), input)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(doc.Sections) != 3 || len(doc.Quiz) != QuizSize || doc.Image == "" || doc.Title == "" {
		t.Fatalf("doc = %+v", doc)
	}
	if !strings.HasPrefix(doc.Sections[1].Title, "In 49 BC") {
		t.Fatalf("section 1 title = %q", doc.Sections[1].Title)
	}
}

func TestMockOutlineLimit(t *testing.T) {
	paras := make([]string, 6)
	for i := range paras {
		paras[i] = "Paragraph number " + string(rune('A'+i)) + " here."
	}
	p := BuildOutlinePrompt(NewState(strings.Join(paras, "\n\n")))
	raw, err := MockLLM{}.Complete(context.Background(), p)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	entries, err := ParseOutline(raw)
	if err != nil {
		t.Fatalf("ParseOutline: %v", err)
	}
	if len(entries) != MaxOutlineSlides {
		t.Fatalf("entries = %d", len(entries))
	}
}

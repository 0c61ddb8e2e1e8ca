package generator

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"
)

// MockLLM 一个简单的占位实现，便于本地调试，不调用外部模型。
// 按 Prompt.Task 产出符合格式的内容，图片判断总是通过。
type MockLLM struct{}

func (m MockLLM) Complete(_ context.Context, prompt Prompt) (string, error) {
	switch prompt.Task {
	case TaskDecide:
		return mockDecide(prompt.System), nil
	case TaskOutline:
		return EncodeOutline(mockOutline(prompt.System)), nil
	case TaskEnrich:
		return mockEnrich(prompt.User)
	case TaskTitle:
		secs, err := ParseSections(prompt.User)
		if err != nil {
			return "", err
		}
		return EncodeTitle(secs[0].Title), nil
	case TaskQuiz:
		secs, err := ParseSections(prompt.User)
		if err != nil {
			return "", err
		}
		items := make([]QuizItem, 0, QuizSize)
		for i := 0; i < QuizSize; i++ {
			sec := secs[i%len(secs)]
			items = append(items, QuizItem{
				Question: fmt.Sprintf("What is slide %q about?", sec.Title),
				Answer:   sec.Paragraphs[0],
			})
		}
		return EncodeQuiz(items), nil
	case TaskSearchQuery:
		secs, err := ParseSections(prompt.User)
		if err != nil {
			return "", err
		}
		return secs[0].Title, nil
	default:
		return "", fmt.Errorf("mock llm: unsupported task %q", prompt.Task)
	}
}

func (m MockLLM) CompleteWithImage(_ context.Context, _ Prompt, _ string) (string, error) {
	return AffirmativeToken, nil
}

// mockDecide 读取提示中的状态行，和 RuleController 的顺序一致。
func mockDecide(system string) string {
	empty := func(name string) bool {
		return strings.Contains(system, "\n"+name+`: ""`) || strings.HasPrefix(system, name+`: ""`)
	}
	switch {
	case empty("enriched_slides") && empty("slides"):
		return DecisionOutline.String()
	case empty("enriched_slides"):
		return DecisionEnrich.String()
	case empty("title"):
		return DecisionTitle.String()
	case empty("image"):
		return DecisionImage.String()
	case empty("quiz"):
		return DecisionQuiz.String()
	default:
		return DecisionComplete.String()
	}
}

// mockOutline 以输入文本的段落为页，最多 MaxOutlineSlides 页。
func mockOutline(system string) []OutlineEntry {
	input := system
	if i := strings.Index(input, "Input text:\n"); i >= 0 {
		input = input[i+len("Input text:\n"):]
	}
	if i := strings.Index(input, "\n\nInstructions:"); i >= 0 {
		input = input[:i]
	}
	var entries []OutlineEntry
	for _, para := range strings.Split(input, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		words := strings.Fields(para)
		n := len(words)
		if n > 6 {
			n = 6
		}
		content := para
		if i := strings.Index(para, ". "); i > 0 {
			content = para[:i+1]
		}
		entries = append(entries, OutlineEntry{Title: strings.Join(words[:n], " "), Content: content})
		if len(entries) == MaxOutlineSlides {
			break
		}
	}
	if len(entries) == 0 {
		entries = append(entries, OutlineEntry{Title: "Overview", Content: "Overview of the input text."})
	}
	return entries
}

func mockEnrich(user string) (string, error) {
	raw := user
	if i := strings.Index(raw, "<slide>"); i >= 0 {
		raw = raw[i:]
	}
	var slide outlineSlideXML
	if err := xml.Unmarshal([]byte(raw), &slide); err != nil {
		return "", fmt.Errorf("mock llm: %w", err)
	}
	content := strings.TrimSpace(slide.Content)
	if content == "" {
		content = slide.Title
	}
	return EncodeSection(Section{
		Title: slide.Title,
		Paragraphs: []string{
			content,
			fmt.Sprintf("%s is one of the key ideas of this presentation.", slide.Title),
		},
	}), nil
}

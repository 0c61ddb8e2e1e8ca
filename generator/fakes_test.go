package generator

import (
	"context"
	"fmt"

	"presentation_agent/logger"
)

// fakeLLM 按 Task 返回预设回复；队列只剩一条时重复返回它。
type fakeLLM struct {
	responses map[string][]string
	errs      map[string]error
	calls     map[string]int
	prompts   map[string][]Prompt

	judge  func(url string) (string, error)
	judged []string
}

func newFakeLLM() *fakeLLM {
	return &fakeLLM{
		responses: map[string][]string{},
		errs:      map[string]error{},
		calls:     map[string]int{},
		prompts:   map[string][]Prompt{},
	}
}

func (f *fakeLLM) on(task string, replies ...string) *fakeLLM {
	f.responses[task] = append(f.responses[task], replies...)
	return f
}

func (f *fakeLLM) Complete(_ context.Context, p Prompt) (string, error) {
	f.calls[p.Task]++
	f.prompts[p.Task] = append(f.prompts[p.Task], p)
	if err := f.errs[p.Task]; err != nil {
		return "", err
	}
	q := f.responses[p.Task]
	if len(q) == 0 {
		return "", fmt.Errorf("fake llm: no response for task %q", p.Task)
	}
	r := q[0]
	if len(q) > 1 {
		f.responses[p.Task] = q[1:]
	}
	return r, nil
}

func (f *fakeLLM) CompleteWithImage(_ context.Context, p Prompt, url string) (string, error) {
	f.calls[p.Task]++
	f.judged = append(f.judged, url)
	if f.judge == nil {
		return AffirmativeToken, nil
	}
	return f.judge(url)
}

func (f *fakeLLM) total() int {
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

type fakeSearch struct {
	links   []string
	err     error
	calls   int
	queries []string
}

func (s *fakeSearch) SearchImages(_ context.Context, q string) ([]ImageCandidate, error) {
	s.calls++
	s.queries = append(s.queries, q)
	if s.err != nil {
		return nil, s.err
	}
	out := make([]ImageCandidate, 0, len(s.links))
	for _, l := range s.links {
		out = append(out, ImageCandidate{Link: l})
	}
	return out, nil
}

// scriptedController 依次返回预设决策，最后一个之后返回 DecisionUnrecognized。
type scriptedController struct {
	decisions []Decision
	seen      [][]Message
}

func (c *scriptedController) Decide(_ context.Context, _ State, notes []Message) (Decision, error) {
	c.seen = append(c.seen, append([]Message(nil), notes...))
	if len(c.decisions) == 0 {
		return DecisionUnrecognized, nil
	}
	d := c.decisions[0]
	c.decisions = c.decisions[1:]
	return d, nil
}

func testPolicy(max uint) RetryPolicy { return RetryPolicy{MaxAttempts: max} }

func testDeps(llm LLMClient, s ImageSearcher) stepDeps {
	return stepDeps{llm: llm, search: s, policy: testPolicy(5), log: logger.Nop()}
}

const (
	validOutline = `<slides><slide><title>Early life</title><content>Birth and family</content></slide>` +
		`<slide><title>Rubicon</title><content>Civil war</content></slide></slides>`
	validTitle = `<title>Julius Caesar</title>`
	validQuiz  = `<quiz>` +
		`<question><question_text>Q1</question_text><answer>A1</answer></question>` +
		`<question><question_text>Q2</question_text><answer>A2</answer></question>` +
		`<question><question_text>Q3</question_text><answer>A3</answer></question>` +
		`</quiz>`
)

func sectionReply(title string, paras ...string) string {
	return EncodeSection(Section{Title: title, Paragraphs: paras})
}

func enrichedState() State {
	s := NewState("Julius Caesar was a Roman general.")
	s = s.Apply(Update{Slot: SlotOutline, Outline: []OutlineEntry{{Title: "Early life", Content: "c"}, {Title: "Rubicon", Content: "c"}}})
	return s.Apply(Update{Slot: SlotSections, Sections: []Section{
		{Title: "Early life", Paragraphs: []string{"p1"}},
		{Title: "Rubicon", Paragraphs: []string{"p2"}},
	}})
}

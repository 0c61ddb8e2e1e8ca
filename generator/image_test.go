package generator

import (
	"context"
	"errors"
	"testing"
)

func judgeOnly(accept string) func(string) (string, error) {
	return func(url string) (string, error) {
		if url == accept {
			return "True", nil
		}
		return "False", nil
	}
}

func TestImageFirstAccepted(t *testing.T) {
	llm := newFakeLLM().on(TaskSearchQuery, `"roman senate"`)
	llm.judge = judgeOnly("https://img.example/2.png")
	search := &fakeSearch{links: []string{"https://img.example/1.png", "https://img.example/2.png", "https://img.example/3.png"}}

	upd, err := imageStep{testDeps(llm, search)}.Run(context.Background(), enrichedState())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if upd.Image != "https://img.example/2.png" {
		t.Fatalf("image = %q", upd.Image)
	}
	if len(llm.judged) != 2 {
		t.Fatalf("judged = %v, third candidate must not be evaluated", llm.judged)
	}
	if len(search.queries) != 1 || search.queries[0] != "roman senate" {
		t.Fatalf("queries = %v", search.queries)
	}
}

func TestImageVerdictMatching(t *testing.T) {
	tests := []struct {
		verdict string
		accept  bool
	}{
		{"True", true},
		{"  True\n", true},
		{"true", false},
		{"True.", false},
		{"Yes, True", false},
		{"False", false},
	}
	for _, tt := range tests {
		t.Run(tt.verdict, func(t *testing.T) {
			llm := newFakeLLM().on(TaskSearchQuery, "caesar")
			llm.judge = func(string) (string, error) { return tt.verdict, nil }
			search := &fakeSearch{links: []string{"https://img.example/1.png"}}

			upd, err := imageStep{testDeps(llm, search)}.Run(context.Background(), enrichedState())
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if got := !upd.Empty(); got != tt.accept {
				t.Fatalf("accepted = %v, want %v", got, tt.accept)
			}
		})
	}
}

func TestImageNoResult(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		links  []string
		judge  func(string) (string, error)
		search int
	}{
		{name: "no candidates", query: "caesar", search: 1},
		{name: "all rejected", query: "caesar", links: []string{"a", "b"}, judge: judgeOnly(""), search: 1},
		{name: "empty query", query: `""`, links: []string{"a"}, search: 0},
		{name: "judge errors skipped", query: "caesar", links: []string{"a", "b"},
			judge: func(string) (string, error) { return "", errBoom }, search: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := newFakeLLM().on(TaskSearchQuery, tt.query)
			llm.judge = tt.judge
			search := &fakeSearch{links: tt.links}

			upd, err := imageStep{testDeps(llm, search)}.Run(context.Background(), enrichedState())
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if !upd.Empty() || upd.Slot != SlotImage {
				t.Fatalf("upd = %+v, want empty image update", upd)
			}
			if search.calls != tt.search {
				t.Fatalf("search calls = %d, want %d", search.calls, tt.search)
			}
		})
	}
}

func TestImageJudgeErrorThenAccept(t *testing.T) {
	llm := newFakeLLM().on(TaskSearchQuery, "caesar")
	llm.judge = func(url string) (string, error) {
		if url == "a" {
			return "", errBoom
		}
		return "True", nil
	}
	upd, err := imageStep{testDeps(llm, &fakeSearch{links: []string{"a", "b"}})}.Run(context.Background(), enrichedState())
	if err != nil || upd.Image != "b" {
		t.Fatalf("image = %q, err = %v", upd.Image, err)
	}
}

func TestImageServiceErrors(t *testing.T) {
	t.Run("search", func(t *testing.T) {
		llm := newFakeLLM().on(TaskSearchQuery, "caesar")
		_, err := imageStep{testDeps(llm, &fakeSearch{err: errBoom})}.Run(context.Background(), enrichedState())
		if !errors.Is(err, errBoom) {
			t.Fatalf("err = %v, want errBoom", err)
		}
		if len(llm.judged) != 0 {
			t.Fatal("judge must not run")
		}
	})
	t.Run("query", func(t *testing.T) {
		llm := newFakeLLM()
		llm.errs[TaskSearchQuery] = errBoom
		search := &fakeSearch{links: []string{"a"}}
		_, err := imageStep{testDeps(llm, search)}.Run(context.Background(), enrichedState())
		if !errors.Is(err, errBoom) {
			t.Fatalf("err = %v, want errBoom", err)
		}
		if search.calls != 0 {
			t.Fatal("search must not run")
		}
	})
}

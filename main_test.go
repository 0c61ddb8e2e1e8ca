package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"presentation_agent/config"
	"presentation_agent/generator"
	"presentation_agent/logger"
	"presentation_agent/search"
)

func TestReadInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.txt")
	if err := os.WriteFile(path, []byte("from file"), 0o644); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name    string
		path    string
		text    string
		want    string
		wantErr bool
	}{
		{name: "text", text: "hello", want: "hello"},
		{name: "file", path: path, want: "from file"},
		{name: "stdin", path: "-", want: "from stdin"},
		{name: "both", path: path, text: "hello", wantErr: true},
		{name: "none", wantErr: true},
		{name: "missing file", path: filepath.Join(t.TempDir(), "nope.txt"), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readInput(strings.NewReader("from stdin"), tt.path, tt.text)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildLLM(t *testing.T) {
	cfg := config.Default()
	cfg.LLM.Provider = "mock"
	llm, err := buildLLM(cfg)
	if err != nil {
		t.Fatalf("buildLLM: %v", err)
	}
	if _, ok := llm.(generator.MockLLM); !ok {
		t.Fatalf("llm = %T", llm)
	}

	cfg.LLM.Provider = "ollama"
	if _, err := buildLLM(cfg); err == nil {
		t.Fatal("unsupported provider must fail")
	}
}

func TestBuildSearcher(t *testing.T) {
	cfg := config.Default()
	cfg.Search.Provider = "static"
	s, err := buildSearcher(context.Background(), cfg)
	if err != nil {
		t.Fatalf("buildSearcher: %v", err)
	}
	st, ok := s.(search.Static)
	if !ok || len(st.Links) != 1 || st.Links[0] != mockImage {
		t.Fatalf("searcher = %#v", s)
	}

	cfg.Search.Provider = "bing"
	if _, err := buildSearcher(context.Background(), cfg); err == nil {
		t.Fatal("unsupported provider must fail")
	}
}

func TestMockAgentBuild(t *testing.T) {
	cfg := config.Default()
	cfg.LLM.Provider = "mock"
	cfg.Search.Provider = "static"
	cfg.Controller = "rules"
	agent, err := buildAgent(context.Background(), cfg, logger.Nop())
	if err != nil {
		t.Fatalf("buildAgent: %v", err)
	}
	doc, err := agent.Build(context.Background(), "Rome was founded on seven hills.\n\nIt became an empire.")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if doc.Image != mockImage || len(doc.Sections) != 2 {
		t.Fatalf("doc = %+v", doc)
	}
}

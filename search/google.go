package search

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"

	"presentation_agent/generator"
)

// Google searches images through the Custom Search JSON API.
type Google struct {
	svc *customsearch.Service
	cx  string
	// Num limits candidates per query (1-10). Zero keeps the API default.
	Num int64
}

// NewGoogle builds a searcher; extra options are appended after the API key (tests use option.WithEndpoint).
func NewGoogle(ctx context.Context, apiKey, cx string, opts ...option.ClientOption) (*Google, error) {
	if apiKey == "" {
		return nil, errors.New("google search api key missing; provide search.api_key")
	}
	if cx == "" {
		return nil, errors.New("google search engine id missing; provide search.cx")
	}
	all := append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := customsearch.NewService(ctx, all...)
	if err != nil {
		return nil, fmt.Errorf("customsearch: %w", err)
	}
	return &Google{svc: svc, cx: cx}, nil
}

// SearchImages returns candidates in API order. No items is not an error.
func (g *Google) SearchImages(ctx context.Context, query string) ([]generator.ImageCandidate, error) {
	call := g.svc.Cse.List().Cx(g.cx).Q(query).SearchType("image").Context(ctx)
	if g.Num > 0 {
		call = call.Num(g.Num)
	}
	res, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("customsearch list: %w", err)
	}
	out := make([]generator.ImageCandidate, 0, len(res.Items))
	for _, item := range res.Items {
		if item == nil || item.Link == "" {
			continue
		}
		out = append(out, generator.ImageCandidate{Link: item.Link})
	}
	return out, nil
}

package search

import (
	"context"

	"presentation_agent/generator"
)

// Static returns the same links for every query. Used for offline runs.
type Static struct {
	Links []string
}

func (s Static) SearchImages(_ context.Context, _ string) ([]generator.ImageCandidate, error) {
	out := make([]generator.ImageCandidate, 0, len(s.Links))
	for _, l := range s.Links {
		out = append(out, generator.ImageCandidate{Link: l})
	}
	return out, nil
}

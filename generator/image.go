package generator

import (
	"context"
	"fmt"
	"strings"
)

// ImageCandidate 搜索服务返回的一张候选图片。
type ImageCandidate struct {
	Link string
}

// ImageSearcher 按搜索词返回有序的候选图片，空列表是合法结果。
type ImageSearcher interface {
	SearchImages(ctx context.Context, query string) ([]ImageCandidate, error)
}

// imageStep 先让模型给出搜索词，再逐个判断候选图片，返回第一张合格的。
// 判断调用失败视为不合格并跳过；搜索本身不重试。
type imageStep struct{ stepDeps }

func (imageStep) Kind() Decision { return DecisionImage }

func (imageStep) FailureNote() string {
	return "Image finder failed to find an image. Please create enriched slides first."
}

func (st imageStep) Run(ctx context.Context, s State) (Update, error) {
	empty := Update{Slot: SlotImage}
	if len(s.Sections) == 0 {
		return empty, nil
	}

	raw, err := st.llm.Complete(ctx, BuildSearchQueryPrompt(s.Sections))
	if err != nil {
		return Update{}, fmt.Errorf("image query: %w", err)
	}
	query := cleanText(raw)
	if query == "" {
		st.log.Warn("image finder produced an empty search query")
		return empty, nil
	}

	candidates, err := st.search.SearchImages(ctx, query)
	if err != nil {
		return Update{}, fmt.Errorf("image search: %w", err)
	}
	if len(candidates) == 0 {
		st.log.Info("image search returned no candidates", "query", query)
		return empty, nil
	}

	check := BuildImageCheckPrompt(query)
	for i, c := range candidates {
		if c.Link == "" {
			continue
		}
		verdict, err := st.llm.CompleteWithImage(ctx, check, c.Link)
		if err != nil {
			st.log.Warn("image check failed, skipping candidate", "candidate", i+1, "link", c.Link, "error", err)
			continue
		}
		if strings.TrimSpace(verdict) == AffirmativeToken {
			st.log.Info("image accepted", "candidate", i+1, "link", c.Link)
			return Update{Slot: SlotImage, Image: c.Link}, nil
		}
		st.log.Debug("image does not correspond to the content, checking next image", "candidate", i+1)
	}
	return empty, nil
}

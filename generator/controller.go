package generator

import (
	"context"
	"fmt"

	"presentation_agent/logger"
)

// Decision 是调度器的决策，取值集合封闭。
type Decision int

const (
	DecisionUnrecognized Decision = iota
	DecisionOutline
	DecisionEnrich
	DecisionTitle
	DecisionImage
	DecisionQuiz
	DecisionComplete
)

// stepDecisions 是会触发步骤的决策，顺序即规则调度的优先级。
var stepDecisions = []Decision{DecisionOutline, DecisionEnrich, DecisionTitle, DecisionImage, DecisionQuiz}

// String 返回与模型约定的步骤名。
func (d Decision) String() string {
	switch d {
	case DecisionOutline:
		return "Slide creator"
	case DecisionEnrich:
		return "Slide enricher"
	case DecisionTitle:
		return "Title creator"
	case DecisionImage:
		return "Image finder"
	case DecisionQuiz:
		return "Quiz creator"
	case DecisionComplete:
		return "End process"
	default:
		return "unrecognized"
	}
}

func (d Decision) describe() string {
	switch d {
	case DecisionOutline:
		return "Create a clear structure for the presentation based on the input text."
	case DecisionEnrich:
		return "Create enriched content for each slide."
	case DecisionTitle:
		return "Create a suitable title based on the enriched content."
	case DecisionImage:
		return "Find an image that is relevant to the content of the presentation."
	case DecisionQuiz:
		return "Create a quiz based on the content of the presentation."
	case DecisionComplete:
		return "Finish the process."
	default:
		return ""
	}
}

// ParseDecision 按步骤名精确匹配（只去掉首尾空白和引号），否则返回 DecisionUnrecognized。
func ParseDecision(raw string) Decision {
	name := cleanText(raw)
	for _, d := range append(append([]Decision(nil), stepDecisions...), DecisionComplete) {
		if name == d.String() {
			return d
		}
	}
	return DecisionUnrecognized
}

// Controller 选择下一步或宣布完成。notes 是此前步骤的结果和纠正提示。
type Controller interface {
	Decide(ctx context.Context, state State, notes []Message) (Decision, error)
}

// RuleController 确定性调度：按前置依赖依次补齐缺失的槽位，全部就绪后完成。
type RuleController struct{}

func (RuleController) Decide(_ context.Context, s State, _ []Message) (Decision, error) {
	switch {
	case len(s.Sections) == 0 && len(s.Outline) == 0:
		return DecisionOutline, nil
	case len(s.Sections) == 0:
		return DecisionEnrich, nil
	case s.Title == "":
		return DecisionTitle, nil
	case s.Image == "":
		return DecisionImage, nil
	case len(s.Quiz) == 0:
		return DecisionQuiz, nil
	default:
		return DecisionComplete, nil
	}
}

// LLMController 把状态和可选步骤交给模型，由模型给出下一步。结果不保证确定。
type LLMController struct {
	llm LLMClient
	log *logger.Logger
	// HistoryLimit 回传给模型的最近 notes 条数，0 表示全部。
	HistoryLimit int
}

func NewLLMController(llm LLMClient, log *logger.Logger, historyLimit int) *LLMController {
	return &LLMController{llm: llm, log: log, HistoryLimit: historyLimit}
}

func (c *LLMController) Decide(ctx context.Context, s State, notes []Message) (Decision, error) {
	if c.HistoryLimit > 0 && len(notes) > c.HistoryLimit {
		notes = notes[len(notes)-c.HistoryLimit:]
	}
	raw, err := c.llm.Complete(ctx, BuildControllerPrompt(s, notes))
	if err != nil {
		return DecisionUnrecognized, fmt.Errorf("controller: %w", err)
	}
	d := ParseDecision(raw)
	if d == DecisionUnrecognized {
		return d, &UnrecognizedDecisionError{Raw: raw}
	}
	if c.log != nil {
		c.log.Debug("controller decided", "decision", d.String(), "state_version", s.Version)
	}
	return d, nil
}

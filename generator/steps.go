package generator

import (
	"context"

	"presentation_agent/logger"
)

// Step 产出一个槽位的内容。前置条件不满足时返回空 Update、nil 错误，且不调用任何外部服务。
type Step interface {
	Kind() Decision
	Run(ctx context.Context, s State) (Update, error)
	// FailureNote 步骤返回空结果时回传给调度器的提示。
	FailureNote() string
}

type stepDeps struct {
	llm    LLMClient
	search ImageSearcher
	policy RetryPolicy
	log    *logger.Logger
}

// newSteps 构建按决策分发的步骤表。
func newSteps(d stepDeps) map[Decision]Step {
	steps := []Step{
		outlineStep{d},
		enrichStep{d},
		titleStep{d},
		imageStep{d},
		quizStep{d},
	}
	table := make(map[Decision]Step, len(steps))
	for _, s := range steps {
		table[s.Kind()] = s
	}
	return table
}

type outlineStep struct{ stepDeps }

func (outlineStep) Kind() Decision { return DecisionOutline }

func (outlineStep) FailureNote() string {
	return "Slide creator failed to create slides."
}

func (st outlineStep) Run(ctx context.Context, s State) (Update, error) {
	prompt := BuildOutlinePrompt(s)
	entries, err := generateValid(ctx, st.policy, st.log, TaskOutline,
		func(ctx context.Context) (string, error) { return st.llm.Complete(ctx, prompt) },
		ParseOutline)
	if err != nil {
		return Update{}, err
	}
	return Update{Slot: SlotOutline, Outline: entries}, nil
}

// enrichStep 对每一页单独生成并校验；某一页失败只重试该页，已完成的页不再重做。
type enrichStep struct{ stepDeps }

func (enrichStep) Kind() Decision { return DecisionEnrich }

func (enrichStep) FailureNote() string {
	return "Slide enricher failed to enrich the slides. Please create slides first."
}

func (st enrichStep) Run(ctx context.Context, s State) (Update, error) {
	if len(s.Outline) == 0 {
		return Update{Slot: SlotSections}, nil
	}
	sections := make([]Section, 0, len(s.Outline))
	for i, entry := range s.Outline {
		st.log.Debug("enriching slide", "slide", i+1, "of", len(s.Outline))
		prompt := BuildEnrichPrompt(s, entry)
		sec, err := generateValid(ctx, st.policy, st.log, TaskEnrich,
			func(ctx context.Context) (string, error) { return st.llm.Complete(ctx, prompt) },
			ParseSection)
		if err != nil {
			return Update{}, err
		}
		// 标题以大纲为准，保证扩写结果与大纲一一对应。
		if sec.Title != entry.Title {
			st.log.Debug("enricher changed slide title, keeping outline title", "got", sec.Title, "want", entry.Title)
			sec.Title = entry.Title
		}
		sections = append(sections, sec)
	}
	return Update{Slot: SlotSections, Sections: sections}, nil
}

type titleStep struct{ stepDeps }

func (titleStep) Kind() Decision { return DecisionTitle }

func (titleStep) FailureNote() string {
	return "Title creator failed to generate a title. Please create enriched slides first."
}

func (st titleStep) Run(ctx context.Context, s State) (Update, error) {
	if len(s.Sections) == 0 {
		return Update{Slot: SlotTitle}, nil
	}
	prompt := BuildTitlePrompt(s.Sections)
	title, err := generateValid(ctx, st.policy, st.log, TaskTitle,
		func(ctx context.Context) (string, error) { return st.llm.Complete(ctx, prompt) },
		ParseTitle)
	if err != nil {
		return Update{}, err
	}
	return Update{Slot: SlotTitle, Title: title}, nil
}

type quizStep struct{ stepDeps }

func (quizStep) Kind() Decision { return DecisionQuiz }

func (quizStep) FailureNote() string {
	return "Quiz creator failed to generate a quiz. Please create enriched slides first."
}

func (st quizStep) Run(ctx context.Context, s State) (Update, error) {
	if len(s.Sections) == 0 {
		return Update{Slot: SlotQuiz}, nil
	}
	prompt := BuildQuizPrompt(s.Sections)
	quiz, err := generateValid(ctx, st.policy, st.log, TaskQuiz,
		func(ctx context.Context) (string, error) { return st.llm.Complete(ctx, prompt) },
		ParseQuiz)
	if err != nil {
		return Update{}, err
	}
	return Update{Slot: SlotQuiz, Quiz: quiz}, nil
}

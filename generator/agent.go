package generator

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"presentation_agent/logger"
)

const tracerName = "presentation_agent/generator"

// Agent 驱动 调度器 → 步骤 → 状态更新 的循环，直到文档完整。
// Agent 本身不保存构建状态，每次 Build 使用独立的 Session。
type Agent struct {
	llm        LLMClient
	search     ImageSearcher
	controller Controller
	policy     RetryPolicy
	log        *logger.Logger
	maxTurns   int
	steps      map[Decision]Step
	tracer     trace.Tracer
}

type Option func(*Agent)

// WithController 替换默认的 LLMController。
func WithController(c Controller) Option { return func(a *Agent) { a.controller = c } }

func WithRetryPolicy(p RetryPolicy) Option { return func(a *Agent) { a.policy = p } }

func WithLogger(l *logger.Logger) Option { return func(a *Agent) { a.log = l } }

// WithMaxTurns 限制调度轮数，0 表示不限。
func WithMaxTurns(n int) Option { return func(a *Agent) { a.maxTurns = n } }

func NewAgent(llm LLMClient, search ImageSearcher, opts ...Option) (*Agent, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	if search == nil {
		return nil, errors.New("image searcher is required")
	}
	a := &Agent{
		llm:    llm,
		search: search,
		policy: DefaultRetryPolicy(),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.log == nil {
		a.log = logger.Nop()
	}
	if a.controller == nil {
		a.controller = NewLLMController(llm, a.log, 0)
	}
	a.steps = newSteps(stepDeps{llm: llm, search: search, policy: a.policy, log: a.log})
	return a, nil
}

// Build 从输入文本构建完整文档。任何致命错误都不返回部分结果。
func (a *Agent) Build(ctx context.Context, input string) (Document, error) {
	if strings.TrimSpace(input) == "" {
		return Document{}, ErrEmptyInput
	}
	return a.Run(ctx, NewSession(uuid.NewString(), input))
}

// Run 在给定 session 上执行循环，session 由调用方创建且不应在其他地方并发使用。
func (a *Agent) Run(ctx context.Context, sess *Session) (Document, error) {
	ctx, span := a.tracer.Start(ctx, "presentation.build", trace.WithAttributes(attribute.String("build.id", sess.ID)))
	defer span.End()
	log := a.log.With("build_id", sess.ID)
	log.Info("creating presentation", "input_chars", len(sess.State.Input))

	doc, err := a.loop(ctx, log, sess)
	span.SetAttributes(attribute.Int("build.turns", sess.Turns), attribute.Int("state.version", sess.State.Version))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Error("presentation build aborted", "turns", sess.Turns, "error", err)
		return Document{}, err
	}
	log.Info("presentation created", "turns", sess.Turns, "slides", len(doc.Sections))
	return doc, nil
}

func (a *Agent) loop(ctx context.Context, log *logger.Logger, sess *Session) (Document, error) {
	for {
		if err := ctx.Err(); err != nil {
			return Document{}, err
		}
		if a.maxTurns > 0 && sess.Turns >= a.maxTurns {
			return Document{}, ErrTurnLimit
		}
		sess.Turns++

		d, err := a.controller.Decide(ctx, sess.State, sess.Notes)
		if err != nil {
			return Document{}, err
		}
		log.Info("next agent", "turn", sess.Turns, "decision", d.String())

		if d == DecisionComplete {
			if slot, missing := sess.State.Missing(); missing {
				note := incompleteNote(slot)
				log.Warn("completion refused", "missing", slot.String())
				sess.note("user", note)
				continue
			}
			doc, err := Assemble(sess.State)
			if err != nil {
				return Document{}, err
			}
			sess.Status = StatusComplete
			return doc, nil
		}

		step, ok := a.steps[d]
		if !ok {
			return Document{}, &UnrecognizedDecisionError{Raw: d.String()}
		}
		upd, err := a.runStep(ctx, step, sess.State)
		if err != nil {
			return Document{}, err
		}
		if upd.Empty() {
			log.Warn("step produced nothing", "step", d.String())
			sess.note("assistant", step.FailureNote())
			continue
		}
		sess.State = sess.State.Apply(upd)
		sess.note("assistant", slotMarkup(sess.State, upd.Slot))
		log.Debug("state updated", "slot", upd.Slot.String(), "state_version", sess.State.Version)
	}
}

func (a *Agent) runStep(ctx context.Context, step Step, s State) (Update, error) {
	ctx, span := a.tracer.Start(ctx, "presentation.step", trace.WithAttributes(
		attribute.String("step.name", step.Kind().String()),
		attribute.Int("state.version", s.Version),
	))
	defer span.End()
	upd, err := step.Run(ctx, s)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Update{}, err
	}
	span.SetAttributes(attribute.Bool("step.empty", upd.Empty()))
	return upd, nil
}

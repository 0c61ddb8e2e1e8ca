package generator

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"

	"presentation_agent/logger"
)

// RetryPolicy 控制结构化输出不合格时的重试。服务错误不重试。
type RetryPolicy struct {
	// MaxAttempts 总尝试次数（含第一次），0 表示不限次数。
	MaxAttempts     uint
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:     5,
		InitialInterval: 200 * time.Millisecond,
		MaxInterval:     5 * time.Second,
		Multiplier:      2,
	}
}

func (p RetryPolicy) backOff() backoff.BackOff {
	if p.InitialInterval <= 0 {
		return &backoff.ZeroBackOff{}
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialInterval
	if p.MaxInterval > 0 {
		b.MaxInterval = p.MaxInterval
	}
	if p.Multiplier > 0 {
		b.Multiplier = p.Multiplier
	}
	return b
}

// generateValid 反复调用 call，直到 parse 接受返回的文本。
// call 的错误直接返回；parse 失败在重试耗尽后包装成 *MalformedOutputError。
func generateValid[T any](
	ctx context.Context,
	p RetryPolicy,
	log *logger.Logger,
	step string,
	call func(context.Context) (string, error),
	parse func(string) (T, error),
) (T, error) {
	var (
		zero       T
		attempts   int
		serviceErr error
		parseErr   error
	)
	op := func() (T, error) {
		attempts++
		raw, err := call(ctx)
		if err != nil {
			serviceErr = err
			return zero, backoff.Permanent(err)
		}
		v, err := parse(raw)
		if err != nil {
			parseErr = err
			return zero, err
		}
		return v, nil
	}
	notify := func(err error, wait time.Duration) {
		log.Warn("malformed structured output, retrying", "step", step, "attempt", attempts, "wait", wait.String(), "error", err)
	}

	v, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(p.backOff()),
		backoff.WithMaxTries(p.MaxAttempts),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(notify),
	)
	switch {
	case err == nil:
		return v, nil
	case serviceErr != nil:
		return zero, serviceErr
	case ctx.Err() != nil:
		return zero, ctx.Err()
	case parseErr != nil:
		return zero, &MalformedOutputError{Step: step, Attempts: attempts, Err: parseErr}
	default:
		return zero, err
	}
}

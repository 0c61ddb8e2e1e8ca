package generator

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyInput = errors.New("input text is empty")
	ErrTurnLimit  = errors.New("turn limit reached before the presentation was complete")
)

// MalformedOutputError 模型输出在重试耗尽后仍不符合结构约定。
type MalformedOutputError struct {
	Step     string
	Attempts int
	Err      error
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("%s: malformed output after %d attempts: %v", e.Step, e.Attempts, e.Err)
}

func (e *MalformedOutputError) Unwrap() error { return e.Err }

// UnrecognizedDecisionError 调度器给出了约定之外的步骤名，构建中止。
type UnrecognizedDecisionError struct {
	Raw string
}

func (e *UnrecognizedDecisionError) Error() string {
	return fmt.Sprintf("unrecognized controller decision %q", truncate(e.Raw, 80))
}

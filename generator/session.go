package generator

import (
	"time"
)

// Status 构建状态机：Building 为初始态，Complete 为终态。
type Status int

const (
	StatusBuilding Status = iota
	StatusComplete
)

func (s Status) String() string {
	if s == StatusComplete {
		return "complete"
	}
	return "building"
}

// Session 持有一次构建的全部上下文：状态、回传给调度器的记录、轮数。
// 只由 Agent 在单次构建中独占使用。
type Session struct {
	ID        string
	State     State
	Notes     []Message
	Turns     int
	Status    Status
	CreatedAt time.Time
}

// NewSession 创建 session，尚未执行任何步骤。
func NewSession(id string, input string) *Session {
	return &Session{
		ID:        id,
		State:     NewState(input),
		CreatedAt: time.Now(),
	}
}

func (s *Session) note(role, content string) {
	s.Notes = append(s.Notes, Message{Role: role, Content: content})
}

// incompleteNote 完成请求被拒时的纠正提示，指出最优先缺失的部分。
func incompleteNote(slot Slot) string {
	const prefix = "The presentation is not complete. "
	switch slot {
	case SlotSections:
		return prefix + "Please finish enriched slides."
	case SlotTitle:
		return prefix + "Please finish the title."
	case SlotImage:
		return prefix + "Please find an image."
	case SlotQuiz:
		return prefix + "Please create a quiz."
	default:
		return prefix + "Please finish all components."
	}
}

// slotMarkup 步骤成功后记入历史的内容，即该槽位的标记文本。
func slotMarkup(s State, slot Slot) string {
	switch slot {
	case SlotOutline:
		return EncodeOutline(s.Outline)
	case SlotSections:
		return EncodeSections(s.Sections)
	case SlotTitle:
		return EncodeTitle(s.Title)
	case SlotImage:
		return EncodeImage(s.Image)
	case SlotQuiz:
		return EncodeQuiz(s.Quiz)
	default:
		return ""
	}
}

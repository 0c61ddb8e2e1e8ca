package generator

// Slot 是 State 中可写的具名槽位，集合是封闭的。
type Slot int

const (
	SlotOutline Slot = iota + 1
	SlotSections
	SlotTitle
	SlotImage
	SlotQuiz
)

func (s Slot) String() string {
	switch s {
	case SlotOutline:
		return "outline"
	case SlotSections:
		return "enriched_sections"
	case SlotTitle:
		return "title"
	case SlotImage:
		return "image"
	case SlotQuiz:
		return "quiz"
	default:
		return "unknown"
	}
}

// OutlineEntry 是大纲中的一页：标题 + 简要内容。
type OutlineEntry struct {
	Title   string
	Content string
}

// Section 是扩写后的一页幻灯片。
type Section struct {
	Title      string
	Paragraphs []string
}

// QuizItem 一道测验题。
type QuizItem struct {
	Question string
	Answer   string
}

// QuizSize 测验必须恰好包含的题目数。
const QuizSize = 3

// State 是一次构建过程中的文档状态。按值传递，Apply 返回新版本，不在原处修改。
type State struct {
	Input    string
	Outline  []OutlineEntry
	Sections []Section
	Title    string
	Image    string
	Quiz     []QuizItem
	Version  int
}

// NewState 创建初始状态，只有 Input 非空。
func NewState(input string) State {
	return State{Input: input}
}

// Update 是某个步骤产出的具名更新，只会写入 Slot 指定的槽位。
type Update struct {
	Slot     Slot
	Outline  []OutlineEntry
	Sections []Section
	Title    string
	Image    string
	Quiz     []QuizItem
}

// Empty 表示步骤未产出内容（前置条件不满足或查找失败）。
func (u Update) Empty() bool {
	switch u.Slot {
	case SlotOutline:
		return len(u.Outline) == 0
	case SlotSections:
		return len(u.Sections) == 0
	case SlotTitle:
		return u.Title == ""
	case SlotImage:
		return u.Image == ""
	case SlotQuiz:
		return len(u.Quiz) == 0
	default:
		return true
	}
}

// Apply 返回写入 u 之后的新状态，版本号加一；其他槽位保持不变。
func (s State) Apply(u Update) State {
	next := s
	switch u.Slot {
	case SlotOutline:
		next.Outline = append([]OutlineEntry(nil), u.Outline...)
	case SlotSections:
		next.Sections = cloneSections(u.Sections)
	case SlotTitle:
		next.Title = u.Title
	case SlotImage:
		next.Image = u.Image
	case SlotQuiz:
		next.Quiz = append([]QuizItem(nil), u.Quiz...)
	default:
		return s
	}
	next.Version = s.Version + 1
	return next
}

// Complete 完成条件：扩写内容、标题、图片、测验全部非空。大纲不要求。
func (s State) Complete() bool {
	_, missing := s.Missing()
	return !missing
}

// Missing 按固定优先级返回第一个缺失的必需槽位。
func (s State) Missing() (Slot, bool) {
	switch {
	case len(s.Sections) == 0:
		return SlotSections, true
	case s.Title == "":
		return SlotTitle, true
	case s.Image == "":
		return SlotImage, true
	case len(s.Quiz) == 0:
		return SlotQuiz, true
	}
	return 0, false
}

func cloneSections(in []Section) []Section {
	if in == nil {
		return nil
	}
	out := make([]Section, len(in))
	for i, sec := range in {
		out[i] = Section{Title: sec.Title, Paragraphs: append([]string(nil), sec.Paragraphs...)}
	}
	return out
}

package generator

import (
	"fmt"
	"strings"
)

// Prompt 表示发送给 LLM 的消息集合。
type Prompt struct {
	// Task 标识调用方的步骤，真实模型忽略它，MockLLM 据此产出对应格式。
	Task    string
	System  string
	User    string
	History []Message
}

// Message 用于少量历史（可选）。
type Message struct {
	Role    string
	Content string
}

const (
	TaskDecide      = "decide"
	TaskOutline     = "outline"
	TaskEnrich      = "enrich"
	TaskTitle       = "title"
	TaskQuiz        = "quiz"
	TaskSearchQuery = "search_query"
	TaskImageCheck  = "image_check"
)

// AffirmativeToken 图片判断只接受与之完全相等的回复。
const AffirmativeToken = "True"

// MaxOutlineSlides 大纲提示中要求的最大页数。
const MaxOutlineSlides = 4

// describeState 把当前状态渲染成给模型看的文本，空槽位显示为 ""。
func describeState(s State) string {
	var sb strings.Builder
	slot := func(name, value string) {
		if value == "" {
			value = `""`
		}
		sb.WriteString(fmt.Sprintf("%s: %s\n", name, value))
	}
	slot("input_text", s.Input)
	if len(s.Outline) > 0 {
		slot("slides", EncodeOutline(s.Outline))
	} else {
		slot("slides", "")
	}
	if len(s.Sections) > 0 {
		slot("enriched_slides", EncodeSections(s.Sections))
	} else {
		slot("enriched_slides", "")
	}
	if s.Title != "" {
		slot("title", EncodeTitle(s.Title))
	} else {
		slot("title", "")
	}
	if len(s.Quiz) > 0 {
		slot("quiz", EncodeQuiz(s.Quiz))
	} else {
		slot("quiz", "")
	}
	if s.Image != "" {
		slot("image", EncodeImage(s.Image))
	} else {
		slot("image", "")
	}
	return sb.String()
}

// BuildControllerPrompt 让模型从固定的步骤名中选出下一步。notes 作为历史回传。
func BuildControllerPrompt(s State, notes []Message) Prompt {
	var sb strings.Builder
	sb.WriteString("You are an Orchestrator agent. Coordinate the other agents to build a high quality slide presentation from the input text.\n\n")
	sb.WriteString("Requirements:\n")
	sb.WriteString("1. The presentation has a clear structure.\n")
	sb.WriteString("2. The slides are enriched with additional details.\n")
	sb.WriteString("3. The presentation has a suitable title.\n")
	sb.WriteString("4. The presentation includes a relevant image.\n")
	sb.WriteString("5. The presentation includes a quiz.\n")
	sb.WriteString("6. Finish the process when all components are ready.\n\n")
	sb.WriteString("Current state:\n")
	sb.WriteString(describeState(s))
	sb.WriteString("\nAvailable agents:\n")
	for _, d := range stepDecisions {
		sb.WriteString(fmt.Sprintf("- %s: %s\n", d.String(), d.describe()))
	}
	sb.WriteString(fmt.Sprintf("- %s: %s\n", DecisionComplete.String(), DecisionComplete.describe()))
	sb.WriteString("\nAlways check the current state before selecting the next agent.\n")
	sb.WriteString("Return only the name of the agent to use next: ")
	names := make([]string, 0, len(stepDecisions)+1)
	for _, d := range append(append([]Decision(nil), stepDecisions...), DecisionComplete) {
		names = append(names, fmt.Sprintf("%q", d.String()))
	}
	sb.WriteString(strings.Join(names, ", "))
	sb.WriteString(".")

	return Prompt{
		Task:    TaskDecide,
		System:  sb.String(),
		User:    "Decide which agent to use next.",
		History: notes,
	}
}

func BuildOutlinePrompt(s State) Prompt {
	var sb strings.Builder
	sb.WriteString("You are a Slide creator agent. Create a bare bones list of slides based on the input text. The list is the structure of the presentation and will be enriched later.\n\n")
	sb.WriteString("Input text:\n")
	sb.WriteString(s.Input)
	sb.WriteString("\n\nInstructions:\n")
	sb.WriteString("1. Identify main concepts, sub-concepts and their relationships.\n")
	sb.WriteString("2. Create a structure for a presentation based on the identified concepts.\n")
	sb.WriteString("3. List the slides the presentation should include.\n")
	sb.WriteString(fmt.Sprintf("\nUse at most %d slides. Keep it simple and focused.\n\n", MaxOutlineSlides))
	sb.WriteString("Output format (markup only, no explanation):\n")
	sb.WriteString("<slides>\n  <slide>\n    <title>Title of the slide</title>\n    <content>Content of the slide</content>\n  </slide>\n</slides>")
	return Prompt{
		Task:   TaskOutline,
		System: sb.String(),
		User:   "Create a list of slides based on the input text.",
	}
}

func BuildEnrichPrompt(s State, entry OutlineEntry) Prompt {
	var sb strings.Builder
	sb.WriteString("You are a Slide enricher agent. You get the title and general content of one slide and enrich it with more details.\n\n")
	sb.WriteString("Write 2-3 paragraphs of 1-2 short sentences each, in a journalistic style.\n\n")
	sb.WriteString("Input text:\n")
	sb.WriteString(s.Input)
	sb.WriteString("\n\nKeep the slide title unchanged.\n\n")
	sb.WriteString("Output format (markup only, no explanation):\n")
	sb.WriteString("<slide>\n  <title>Title of the slide</title>\n  <paragraph>First paragraph</paragraph>\n  <paragraph>Second paragraph</paragraph>\n</slide>")
	return Prompt{
		Task:   TaskEnrich,
		System: sb.String(),
		User:   "Enrich the content of this slide: " + EncodeOutlineEntry(entry),
	}
}

func BuildTitlePrompt(sections []Section) Prompt {
	return Prompt{
		Task: TaskTitle,
		System: "You are a Title creator agent. Create a concise title that captures the main idea of the presentation.\n\n" +
			"Output format (markup only, no explanation):\n<title>Title of the presentation</title>",
		User: EncodeSections(sections),
	}
}

func BuildQuizPrompt(sections []Section) Prompt {
	var sb strings.Builder
	sb.WriteString("You are a Quiz creator agent. Create a quiz that tests the audience's understanding of the main concepts of the presentation.\n\n")
	sb.WriteString(fmt.Sprintf("The quiz has exactly %d clear, concise questions.\n\n", QuizSize))
	sb.WriteString("Output format (markup only, no explanation):\n<quiz>\n")
	for i := 1; i <= QuizSize; i++ {
		sb.WriteString(fmt.Sprintf("  <question>\n    <question_text>Question %d</question_text>\n    <answer>Answer %d</answer>\n  </question>\n", i, i))
	}
	sb.WriteString("</quiz>")
	return Prompt{
		Task:   TaskQuiz,
		System: sb.String(),
		User:   EncodeSections(sections),
	}
}

func BuildSearchQueryPrompt(sections []Section) Prompt {
	return Prompt{
		Task: TaskSearchQuery,
		System: "You are an Image finder agent. Read the slides and write an image search query " +
			"for a picture relevant to the presentation.\n\nReturn only the search query.",
		User: EncodeSections(sections),
	}
}

func BuildImageCheckPrompt(query string) Prompt {
	sys := fmt.Sprintf("You are an Image checker agent. Check whether the supplied image matches the search query.\n\n"+
		"Search query:\n%s\n\nThe image must not contain any text.\n\n"+
		"Return %q if the image is relevant to the query and contains no text. Otherwise return \"False\".", query, AffirmativeToken)
	return Prompt{
		Task:   TaskImageCheck,
		System: sys,
	}
}

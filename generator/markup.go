package generator

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// 线上格式（与模型约定的结构化标记）：
//
//	<slides><slide><title/><content/></slide>...</slides>     大纲
//	<slide><title/><paragraph/>...</slide>                    扩写后的一页
//	<title>...</title>                                         标题
//	<image>...</image>                                         图片地址
//	<quiz><question><question_text/><answer/></question>...</quiz>

type outlineXML struct {
	XMLName xml.Name          `xml:"slides"`
	Slides  []outlineSlideXML `xml:"slide"`
}

type outlineSlideXML struct {
	Title   string `xml:"title"`
	Content string `xml:"content"`
}

type sectionXML struct {
	XMLName    xml.Name `xml:"slide"`
	Title      string   `xml:"title"`
	Paragraphs []string `xml:"paragraph"`
}

type sectionsXML struct {
	XMLName xml.Name     `xml:"slides"`
	Slides  []sectionXML `xml:"slide"`
}

type titleXML struct {
	XMLName xml.Name `xml:"title"`
	Value   string   `xml:",chardata"`
}

type imageXML struct {
	XMLName xml.Name `xml:"image"`
	Value   string   `xml:",chardata"`
}

type quizXML struct {
	XMLName   xml.Name          `xml:"quiz"`
	Questions []quizQuestionXML `xml:"question"`
}

type quizQuestionXML struct {
	Text   string `xml:"question_text"`
	Answer string `xml:"answer"`
}

// errNoMarkup 输入中没有任何元素。
var errNoMarkup = errors.New("no markup element found")

// decodeStrict 只接受单个根元素，根元素之后只允许空白和注释。
func decodeStrict(raw string, v any) error {
	dec := xml.NewDecoder(strings.NewReader(raw))
	var start *xml.StartElement
	for start == nil {
		tok, err := dec.Token()
		if err == io.EOF {
			return errNoMarkup
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			se := t.Copy()
			start = &se
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return fmt.Errorf("unexpected text before root element: %q", truncate(string(t), 40))
			}
		}
	}
	if err := dec.DecodeElement(v, start); err != nil {
		return err
	}
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return fmt.Errorf("unexpected element <%s> after root", t.Name.Local)
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return fmt.Errorf("unexpected text after root element: %q", truncate(string(t), 40))
			}
		}
	}
}

// ParseOutline 解析大纲，至少一页，每页标题非空。
func ParseOutline(raw string) ([]OutlineEntry, error) {
	var doc outlineXML
	if err := decodeStrict(cleanMarkup(raw), &doc); err != nil {
		return nil, fmt.Errorf("outline: %w", err)
	}
	if len(doc.Slides) == 0 {
		return nil, errors.New("outline: no slides")
	}
	out := make([]OutlineEntry, 0, len(doc.Slides))
	for i, s := range doc.Slides {
		title := strings.TrimSpace(s.Title)
		if title == "" {
			return nil, fmt.Errorf("outline: slide %d has empty title", i+1)
		}
		out = append(out, OutlineEntry{Title: title, Content: strings.TrimSpace(s.Content)})
	}
	return out, nil
}

// ParseSection 解析单页扩写结果，至少一个非空段落。
func ParseSection(raw string) (Section, error) {
	var doc sectionXML
	if err := decodeStrict(cleanMarkup(raw), &doc); err != nil {
		return Section{}, fmt.Errorf("section: %w", err)
	}
	return normalizeSection(doc)
}

// ParseSections 解析 <slides> 容器中的全部扩写页。
func ParseSections(raw string) ([]Section, error) {
	var doc sectionsXML
	if err := decodeStrict(cleanMarkup(raw), &doc); err != nil {
		return nil, fmt.Errorf("sections: %w", err)
	}
	if len(doc.Slides) == 0 {
		return nil, errors.New("sections: no slides")
	}
	out := make([]Section, 0, len(doc.Slides))
	for _, s := range doc.Slides {
		sec, err := normalizeSection(s)
		if err != nil {
			return nil, err
		}
		out = append(out, sec)
	}
	return out, nil
}

func normalizeSection(doc sectionXML) (Section, error) {
	title := strings.TrimSpace(doc.Title)
	if title == "" {
		return Section{}, errors.New("section: empty title")
	}
	var paras []string
	for _, p := range doc.Paragraphs {
		if p = strings.TrimSpace(p); p != "" {
			paras = append(paras, p)
		}
	}
	if len(paras) == 0 {
		return Section{}, fmt.Errorf("section %q: no paragraphs", title)
	}
	return Section{Title: title, Paragraphs: paras}, nil
}

// ParseTitle 解析 <title>。
func ParseTitle(raw string) (string, error) {
	var doc titleXML
	if err := decodeStrict(cleanMarkup(raw), &doc); err != nil {
		return "", fmt.Errorf("title: %w", err)
	}
	v := strings.TrimSpace(doc.Value)
	if v == "" {
		return "", errors.New("title: empty")
	}
	return v, nil
}

// ParseImage 解析 <image>，返回反转义后的地址。
func ParseImage(raw string) (string, error) {
	var doc imageXML
	if err := decodeStrict(cleanMarkup(raw), &doc); err != nil {
		return "", fmt.Errorf("image: %w", err)
	}
	v := strings.TrimSpace(doc.Value)
	if v == "" {
		return "", errors.New("image: empty")
	}
	return v, nil
}

// ParseQuiz 解析测验，必须恰好 QuizSize 道题，问题和答案都非空。
func ParseQuiz(raw string) ([]QuizItem, error) {
	var doc quizXML
	if err := decodeStrict(cleanMarkup(raw), &doc); err != nil {
		return nil, fmt.Errorf("quiz: %w", err)
	}
	if len(doc.Questions) != QuizSize {
		return nil, fmt.Errorf("quiz: want %d questions, got %d", QuizSize, len(doc.Questions))
	}
	out := make([]QuizItem, 0, QuizSize)
	for i, q := range doc.Questions {
		item := QuizItem{Question: strings.TrimSpace(q.Text), Answer: strings.TrimSpace(q.Answer)}
		if item.Question == "" || item.Answer == "" {
			return nil, fmt.Errorf("quiz: question %d incomplete", i+1)
		}
		out = append(out, item)
	}
	return out, nil
}

func EncodeOutline(entries []OutlineEntry) string {
	doc := outlineXML{}
	for _, e := range entries {
		doc.Slides = append(doc.Slides, outlineSlideXML{Title: e.Title, Content: e.Content})
	}
	return mustMarshal(doc)
}

func EncodeOutlineEntry(e OutlineEntry) string {
	return mustMarshal(struct {
		XMLName xml.Name `xml:"slide"`
		outlineSlideXML
	}{outlineSlideXML: outlineSlideXML{Title: e.Title, Content: e.Content}})
}

func EncodeSection(s Section) string {
	return mustMarshal(toSectionXML(s))
}

func EncodeSections(sections []Section) string {
	doc := sectionsXML{}
	for _, s := range sections {
		doc.Slides = append(doc.Slides, toSectionXML(s))
	}
	return mustMarshal(doc)
}

func EncodeTitle(title string) string { return mustMarshal(titleXML{Value: title}) }

func EncodeImage(ref string) string { return mustMarshal(imageXML{Value: ref}) }

func EncodeQuiz(items []QuizItem) string {
	return mustMarshal(toQuizXML(items))
}

func toSectionXML(s Section) sectionXML {
	return sectionXML{Title: s.Title, Paragraphs: s.Paragraphs}
}

func toQuizXML(items []QuizItem) quizXML {
	doc := quizXML{}
	for _, q := range items {
		doc.Questions = append(doc.Questions, quizQuestionXML{Text: q.Question, Answer: q.Answer})
	}
	return doc
}

// 这些结构只含字符串字段，Marshal 不会失败。
func mustMarshal(v any) string {
	b, err := xml.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("markup: marshal %T: %v", v, err))
	}
	return string(b)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

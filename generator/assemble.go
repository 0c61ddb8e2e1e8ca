package generator

import (
	"encoding/xml"
	"errors"
	"fmt"
)

// Document 是最终产出：标题、图片、各页、测验，顺序固定。
type Document struct {
	Title    string
	Image    string
	Sections []Section
	Quiz     []QuizItem
}

type documentXML struct {
	XMLName xml.Name `xml:"slides"`
	Title   titleXML     `xml:"title"`
	Image   imageXML     `xml:"image"`
	Slides  []sectionXML `xml:"slide"`
	Quiz    quizXML      `xml:"quiz"`
}

var errIncomplete = errors.New("presentation is incomplete")

// Assemble 在完成条件成立时合并各槽位。
func Assemble(s State) (Document, error) {
	if slot, missing := s.Missing(); missing {
		return Document{}, fmt.Errorf("%w: missing %s", errIncomplete, slot)
	}
	return Document{
		Title:    s.Title,
		Image:    s.Image,
		Sections: cloneSections(s.Sections),
		Quiz:     append([]QuizItem(nil), s.Quiz...),
	}, nil
}

// XML 返回 <slides> 容器：title、image、slide...、quiz。
func (d Document) XML() string {
	doc := documentXML{
		Title: titleXML{Value: d.Title},
		Image: imageXML{Value: d.Image},
		Quiz:  toQuizXML(d.Quiz),
	}
	for _, s := range d.Sections {
		doc.Slides = append(doc.Slides, toSectionXML(s))
	}
	return mustMarshal(doc)
}

// ParseDocument 读回 XML 形式的文档，用于渲染已保存的结果。
func ParseDocument(raw string) (Document, error) {
	var doc documentXML
	if err := decodeStrict(cleanMarkup(raw), &doc); err != nil {
		return Document{}, fmt.Errorf("document: %w", err)
	}
	out := Document{Title: doc.Title.Value, Image: doc.Image.Value}
	for _, s := range doc.Slides {
		out.Sections = append(out.Sections, Section{Title: s.Title, Paragraphs: s.Paragraphs})
	}
	for _, q := range doc.Quiz.Questions {
		out.Quiz = append(out.Quiz, QuizItem{Question: q.Text, Answer: q.Answer})
	}
	return out, nil
}

package publisher

import (
	"bytes"
	"encoding/xml"
	"html"
	"io"
	"strings"

	"github.com/yuin/goldmark"

	"presentation_agent/generator"
)

// RenderHTML converts an assembled presentation into a standalone HTML page.
// Section text goes through goldmark, so Markdown emphasis in model output renders
// and raw HTML from the model is dropped.
func RenderHTML(doc generator.Document) (string, error) {
	var b strings.Builder
	b.WriteString("<html>\n<head>\n<meta charset='utf-8'>\n")
	b.WriteString("<title>" + html.EscapeString(doc.Title) + "</title>\n")
	b.WriteString("<link rel='stylesheet' type='text/css' href='" + StylesheetName + "'>\n")
	b.WriteString("</head>\n<body>\n<div class='slides'>\n")

	b.WriteString("<h1>" + html.EscapeString(doc.Title) + "</h1>\n")
	b.WriteString("<img src='" + html.EscapeString(doc.Image) + "' />\n")

	for _, sec := range doc.Sections {
		body, err := mdToHTML(sectionMarkdown(sec))
		if err != nil {
			return "", err
		}
		b.WriteString("<div class='slide'>\n")
		b.WriteString(body)
		b.WriteString("</div>\n")
	}

	b.WriteString("<div class='quiz'>\n<h2>Quiz</h2>\n")
	for _, q := range doc.Quiz {
		b.WriteString("<details class='question'>\n")
		b.WriteString("<summary><strong>" + html.EscapeString(q.Question) + "</strong></summary>\n")
		b.WriteString(html.EscapeString(q.Answer) + "\n")
		b.WriteString("</details>\n")
	}
	b.WriteString("</div>\n")

	b.WriteString("</div>\n</body>\n</html>\n")
	return b.String(), nil
}

func sectionMarkdown(sec generator.Section) string {
	var b strings.Builder
	b.WriteString("## ")
	b.WriteString(strings.Join(strings.Fields(sec.Title), " "))
	b.WriteString("\n\n")
	for _, p := range sec.Paragraphs {
		b.WriteString(strings.TrimSpace(p))
		b.WriteString("\n\n")
	}
	return b.String()
}

func mdToHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// PrettyXML re-indents the assembled XML document.
func PrettyXML(doc generator.Document) (string, error) {
	dec := xml.NewDecoder(strings.NewReader(doc.XML()))
	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		if cd, ok := tok.(xml.CharData); ok && len(bytes.TrimSpace(cd)) == 0 {
			continue
		}
		if err := enc.EncodeToken(tok); err != nil {
			return "", err
		}
	}
	if err := enc.Flush(); err != nil {
		return "", err
	}
	buf.WriteByte('\n')
	return buf.String(), nil
}

package publisher

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"presentation_agent/generator"
	"presentation_agent/logger"
)

const (
	XMLName        = "presentation.xml"
	HTMLName       = "presentation.html"
	StylesheetName = "styles.css"
)

const defaultStylesheet = `body { font-family: Georgia, serif; margin: 0; background: #f4f1ea; }
.slides { max-width: 860px; margin: 0 auto; padding: 2em; }
h1 { font-size: 2.4em; }
img { max-width: 100%; border-radius: 6px; }
.slide { background: #fff; padding: 1.5em 2em; margin: 1.5em 0; box-shadow: 0 1px 4px rgba(0,0,0,.15); }
.quiz { margin-top: 2em; }
.question { background: #fff; padding: .8em 1.2em; margin: .6em 0; }
`

// Result lists the files written by Publish.
type Result struct {
	XMLPath  string
	HTMLPath string
}

// Publisher writes finished presentations to an output directory.
type Publisher struct {
	dir    string
	logger *logger.Logger
}

// New creates the output directory if needed.
func New(dir string, log *logger.Logger) (*Publisher, error) {
	if dir == "" {
		return nil, errors.New("output directory is required")
	}
	if log == nil {
		log = logger.Nop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Publisher{dir: dir, logger: log}, nil
}

// Publish renders doc and writes presentation.xml, presentation.html and, when absent, styles.css.
func (p *Publisher) Publish(doc generator.Document) (Result, error) {
	xmlText, err := PrettyXML(doc)
	if err != nil {
		return Result{}, fmt.Errorf("pretty xml: %w", err)
	}
	htmlText, err := RenderHTML(doc)
	if err != nil {
		return Result{}, fmt.Errorf("render html: %w", err)
	}

	res := Result{
		XMLPath:  filepath.Join(p.dir, XMLName),
		HTMLPath: filepath.Join(p.dir, HTMLName),
	}
	if err := os.WriteFile(res.XMLPath, []byte(xmlText), 0o644); err != nil {
		return Result{}, err
	}
	p.logger.Info("wrote presentation xml", "path", res.XMLPath)
	if err := os.WriteFile(res.HTMLPath, []byte(htmlText), 0o644); err != nil {
		return Result{}, err
	}
	p.logger.Info("wrote presentation html", "path", res.HTMLPath)

	css := filepath.Join(p.dir, StylesheetName)
	if _, err := os.Stat(css); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(css, []byte(defaultStylesheet), 0o644); err != nil {
			return Result{}, err
		}
	}
	return res, nil
}

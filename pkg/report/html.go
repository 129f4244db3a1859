package report

import (
	"embed"
	"html/template"
	"io"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
)

const IndexFile = "index.html"

//go:embed templates/index.html.tmpl
var templates embed.FS

type Renderer interface {
	Render(w io.Writer, report Report) error
	RenderToDir(report Report, dir string) error
}

type htmlRenderer struct {
	tmpl *template.Template
}

func NewHTMLRenderer() (Renderer, error) {
	tmpl, err := template.New("index.html.tmpl").Funcs(template.FuncMap{
		"rowClass": rowClass,
	}).ParseFS(templates, "templates/index.html.tmpl")
	if err != nil {
		return nil, xerrors.Errorf("parsing html template: %w", err)
	}
	return &htmlRenderer{tmpl: tmpl}, nil
}

func (r *htmlRenderer) Render(w io.Writer, report Report) error {
	return r.tmpl.Execute(w, report)
}

// RenderToDir writes dir/index.html through a temporary file so that a web
// server never serves a half written report.
func (r *htmlRenderer) RenderToDir(report Report, dir string) (err error) {
	tmp, err := os.CreateTemp(dir, ".index-*.html")
	if err != nil {
		return xerrors.Errorf("creating temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = r.Render(tmp, report); err != nil {
		_ = tmp.Close()
		return xerrors.Errorf("executing html template: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}

	path := filepath.Join(dir, IndexFile)
	if err = os.Rename(tmp.Name(), path); err != nil {
		return xerrors.Errorf("renaming html report: %w", err)
	}
	log.WithField("path", path).Debug("HTML report written")
	return nil
}

func rowClass(record Record) string {
	switch {
	case record.IssueCount == nil:
		return "skipped"
	case *record.IssueCount > 0:
		return "vulnerable"
	default:
		return "clean"
	}
}

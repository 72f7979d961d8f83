package render

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"kblog/internal/domain/content"
	"kblog/internal/locale"
	"os"
	"path/filepath"
	"time"
)

//go:embed theme
var defaultTheme embed.FS

type Renderer interface {
	RenderIndex(ctx context.Context, page IndexPage) ([]byte, error)
	RenderCategory(ctx context.Context, page CategoryPage) ([]byte, error)
	RenderAbout(ctx context.Context, page AboutPage) ([]byte, error)
	RenderPost(ctx context.Context, page PostPage) ([]byte, error)
}

var requiredTemplates = []string{
	"index.tmpl",
	"category.tmpl",
	"about.tmpl",
	"post.tmpl",
}

type TemplateRenderer struct {
	tpl *template.Template
}

// NewTemplateRenderer loads <themeDir>/templates/*.tmpl, or the built-in
// theme when themeDir is empty.
func NewTemplateRenderer(themeDir string) (*TemplateRenderer, error) {
	tpl := template.New("").Funcs(templateFuncs())
	var err error
	if themeDir == "" {
		tpl, err = tpl.ParseFS(defaultTheme, "theme/templates/*.tmpl")
	} else {
		if err := CheckThemeTemplates(filepath.Join(themeDir, "templates")); err != nil {
			return nil, err
		}
		tpl, err = tpl.ParseGlob(filepath.Join(themeDir, "templates", "*.tmpl"))
	}
	if err != nil {
		return nil, err
	}
	return &TemplateRenderer{tpl: tpl}, nil
}

// StaticFS returns the static asset tree of the theme.
func StaticFS(themeDir string) (fs.FS, error) {
	if themeDir == "" {
		return fs.Sub(defaultTheme, "theme/static")
	}
	dir := filepath.Join(themeDir, "static")
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return os.DirFS(dir), nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"date": func(t time.Time, layout string) string {
			if t.IsZero() {
				return ""
			}
			return t.Format(layout)
		},
		"nowYear": func() int {
			return time.Now().Year()
		},
		"localize": func(path string, lang content.Language) string {
			return locale.Localize(path, lang)
		},
	}
}

func (r *TemplateRenderer) RenderIndex(ctx context.Context, page IndexPage) ([]byte, error) {
	return r.exec("index.tmpl", page)
}

func (r *TemplateRenderer) RenderCategory(ctx context.Context, page CategoryPage) ([]byte, error) {
	return r.exec("category.tmpl", page)
}

func (r *TemplateRenderer) RenderAbout(ctx context.Context, page AboutPage) ([]byte, error) {
	return r.exec("about.tmpl", page)
}

func (r *TemplateRenderer) RenderPost(ctx context.Context, page PostPage) ([]byte, error) {
	return r.exec("post.tmpl", page)
}

func (r *TemplateRenderer) exec(name string, data interface{}) ([]byte, error) {
	t := r.tpl.Lookup(name)
	if t == nil {
		return nil, fmt.Errorf("template %s not found", name)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func CheckThemeTemplates(dir string) error {
	for _, name := range requiredTemplates {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			return fmt.Errorf("missing template: %s", name)
		}
	}
	return nil
}

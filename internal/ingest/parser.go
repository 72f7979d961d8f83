package ingest

import (
	"bytes"
	"path/filepath"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/adrg/frontmatter"
)

type FrontMatter struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Path        string `yaml:"path"`
	Date        string `yaml:"date"`
	Category    string `yaml:"category"`
	Draft       bool   `yaml:"draft"`
	Template    string `yaml:"template"`
	Thumbnail   string `yaml:"thumbnail"`
}

// ParseFrontMatter splits raw into its front matter and body. A document
// without front matter yields a zero FrontMatter and the whole input as body.
func ParseFrontMatter(raw []byte) (FrontMatter, []byte, error) {
	// 统一换行符
	norm := bytes.ReplaceAll(raw, []byte("\r\n"), []byte("\n"))

	var fm FrontMatter
	body, err := frontmatter.Parse(bytes.NewReader(norm), &fm)
	if err != nil {
		return FrontMatter{}, raw, err
	}
	return fm, bytes.TrimSpace(body), nil
}

// ResolvePath returns the canonical path from front matter, falling back to
// the slugified file name.
func ResolvePath(fm FrontMatter, path string) string {
	if p := strings.TrimSpace(fm.Path); p != "" {
		if !strings.HasPrefix(p, "/") {
			p = "/" + p
		}
		return p
	}
	base := filepath.Base(path)
	slug := slugify(strings.TrimSuffix(base, filepath.Ext(base)))
	if slug == "" {
		return ""
	}
	return "/" + slug
}

func ParseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{
		time.RFC3339,
		time.DateOnly,
		"2006-01-02 15:04",
		time.DateTime,
		"2006-01-02 15:04:05 -0700 MST",
	} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t
		}
	}
	return time.Time{}
}

func slugify(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	var out []rune
	lastDash := false

	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		s = s[size:]

		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			out = append(out, unicode.ToLower(r))
			lastDash = false
			continue
		}
		if !lastDash && len(out) > 0 {
			out = append(out, '-')
			lastDash = true
		}
	}
	for len(out) > 0 && out[len(out)-1] == '-' {
		out = out[:len(out)-1]
	}
	return string(out)
}

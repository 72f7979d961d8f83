package content

import (
	"strings"
	"time"
)

type Language string

const (
	Korean  Language = "kor"
	English Language = "eng"
)

// Languages lists every supported language, default first.
var Languages = []Language{Korean, English}

func (l Language) Valid() bool {
	return l == Korean || l == English
}

type TemplateKind string

const (
	TemplatePost  TemplateKind = "post"
	TemplateAbout TemplateKind = "about"
)

type Post struct {
	CanonicalPath string
	Language      Language
	Title         string
	Description   string
	Date          time.Time
	Category      string
	Draft         bool
	TemplateKind  TemplateKind
	Thumbnail     string

	// 由 ingest 阶段填充
	SourcePath string
	Seq        int
}

func (p *Post) Normalize() {
	p.CanonicalPath = strings.TrimSpace(p.CanonicalPath)
	p.Title = strings.TrimSpace(p.Title)
	p.Description = strings.TrimSpace(p.Description)
	p.Thumbnail = strings.TrimSpace(p.Thumbnail)
	p.TemplateKind = TemplateKind(strings.ToLower(strings.TrimSpace(string(p.TemplateKind))))
	// category 保持原样：大小写和空白的归一化是 category 包的可选项
}

// Public reports whether the post may appear in any generated listing.
func (p Post) Public() bool {
	return !p.Draft
}

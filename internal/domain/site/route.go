package site

import (
	"kblog/internal/domain/content"
	"strings"
)

type RouteKind string

const (
	RouteIndex    RouteKind = "index"
	RouteCategory RouteKind = "category"
	RouteAbout    RouteKind = "about"
	RoutePost     RouteKind = "post"
)

type RouteContext struct {
	Language      content.Language `json:"language"`
	CanonicalPath string           `json:"canonicalPath,omitempty"`
}

type Route struct {
	PublicPath string       `json:"publicPath"`
	Kind       RouteKind    `json:"templateKind"`
	Context    RouteContext `json:"context"`
}

func (r Route) String() string {
	var parts []string
	parts = append(parts, string(r.Kind))
	parts = append(parts, "path="+r.PublicPath)
	if r.Context.Language != "" {
		parts = append(parts, "lang="+string(r.Context.Language))
	}
	if r.Context.CanonicalPath != "" {
		parts = append(parts, "post="+r.Context.CanonicalPath)
	}
	return strings.Join(parts, " ")
}

// OutPath maps a public path to the file materialized for it,
// relative to the output directory: "/" -> index.html, "/kor/a" -> kor/a/index.html.
func (r Route) OutPath() (string, bool) {
	p := strings.Trim(r.PublicPath, "/")
	if p == "" {
		return "index.html", true
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return "", false
		}
	}
	return p + "/index.html", true
}

package render

import (
	"html/template"
	"kblog/internal/category"
	"kblog/internal/domain/config"
	"kblog/internal/domain/content"
	"time"
)

type Heading struct {
	Level int
	ID    string
	Text  string
}

// Page carries what every template needs. Lang is always passed down
// explicitly from the route.
type Page struct {
	Site      config.SiteConfig
	Lang      content.Language
	HTMLLang  string
	Nav       Nav
	Title     string
	Generated time.Time
}

type IndexPage struct {
	Page
	Posts []content.Post
}

type CategoryGroup struct {
	Name  string
	Posts []content.Post
}

type CategoryPage struct {
	Page
	Sections []category.Section
	Selected string
	// Groups holds every category in content, sorted, each with its posts.
	Groups []CategoryGroup
}

type AboutPage struct {
	Page
	HTML template.HTML
}

type PostPage struct {
	Page
	Post content.Post
	HTML template.HTML
	TOC  []Heading
}

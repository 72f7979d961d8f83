package app

import (
	"context"
	"fmt"
	"kblog/internal/domain/config"
	"kblog/internal/domain/content"
	"kblog/internal/domain/site"
	"kblog/internal/locale"
)

// ContentSource answers the content query. *index.Store and
// content.Collection implement it.
type ContentSource interface {
	Query(q content.Query) ([]content.Post, error)
}

type Warning struct {
	PublicPath string
	Msg        string
}

type Plan struct {
	Routes   []site.Route
	Warnings []Warning
}

type Planner struct {
	Source ContentSource
	// PostLimit caps post routes per language; zero means config.DefaultPostLimit.
	PostLimit int
}

// FixedRoutes are emitted regardless of content. Only Korean owns the bare root.
func FixedRoutes() []site.Route {
	return []site.Route{
		{PublicPath: "/", Kind: site.RouteIndex, Context: site.RouteContext{Language: content.Korean}},
		{PublicPath: "/kor", Kind: site.RouteIndex, Context: site.RouteContext{Language: content.Korean}},
		{PublicPath: "/kor/category", Kind: site.RouteCategory, Context: site.RouteContext{Language: content.Korean}},
		{PublicPath: "/kor/about", Kind: site.RouteAbout, Context: site.RouteContext{Language: content.Korean}},
		{PublicPath: "/eng", Kind: site.RouteIndex, Context: site.RouteContext{Language: content.English}},
		{PublicPath: "/eng/category", Kind: site.RouteCategory, Context: site.RouteContext{Language: content.English}},
		{PublicPath: "/eng/about", Kind: site.RouteAbout, Context: site.RouteContext{Language: content.English}},
	}
}

// Plan builds the complete route table. A failing content query fails the
// whole plan; nothing partial is returned.
func (p *Planner) Plan(ctx context.Context) (Plan, error) {
	limit := p.PostLimit
	if limit <= 0 {
		limit = config.DefaultPostLimit
	}

	var plan Plan
	// keyed by output file: "/kor/x" and "/kor/x/" materialize to the same page
	seen := make(map[string]site.Route)
	add := func(r site.Route) {
		out, ok := r.OutPath()
		if !ok {
			plan.Warnings = append(plan.Warnings, Warning{
				PublicPath: r.PublicPath,
				Msg:        fmt.Sprintf("invalid public path, %s skipped", r),
			})
			return
		}
		if prev, ok := seen[out]; ok {
			plan.Warnings = append(plan.Warnings, Warning{
				PublicPath: r.PublicPath,
				Msg:        fmt.Sprintf("public path collides with %s, %s skipped", prev.PublicPath, r),
			})
			return
		}
		seen[out] = r
		plan.Routes = append(plan.Routes, r)
	}

	for _, r := range FixedRoutes() {
		add(r)
	}

	for _, lang := range content.Languages {
		if err := ctx.Err(); err != nil {
			return Plan{}, err
		}
		posts, err := p.Source.Query(content.Query{
			Language:     lang,
			TemplateKind: content.TemplatePost,
			Limit:        limit,
		})
		if err != nil {
			return Plan{}, fmt.Errorf("plan %s posts: %w", lang, err)
		}
		for _, post := range posts {
			add(site.Route{
				PublicPath: locale.Localize(post.CanonicalPath, post.Language),
				Kind:       site.RoutePost,
				Context: site.RouteContext{
					Language:      post.Language,
					CanonicalPath: post.CanonicalPath,
				},
			})
		}
	}
	return plan, nil
}

// PlanPosts plans an in-memory content snapshot given in scan order.
func PlanPosts(posts []content.Post) Plan {
	p := Planner{Source: content.Collection(posts)}
	// Collection never fails and the context is never cancelled.
	plan, _ := p.Plan(context.Background())
	return plan
}

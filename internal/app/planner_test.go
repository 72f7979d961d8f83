package app

import (
	"context"
	"errors"
	"fmt"
	"kblog/internal/domain/content"
	domainerr "kblog/internal/domain/errors"
	"kblog/internal/domain/site"
	"testing"
	"time"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func postRoutes(plan Plan, lang content.Language) []string {
	var out []string
	for _, r := range plan.Routes {
		if r.Kind == site.RoutePost && r.Context.Language == lang {
			out = append(out, r.PublicPath)
		}
	}
	return out
}

func TestFixedRoutes(t *testing.T) {
	plan := PlanPosts(nil)
	want := []struct {
		path string
		kind site.RouteKind
		lang content.Language
	}{
		{"/", site.RouteIndex, content.Korean},
		{"/kor", site.RouteIndex, content.Korean},
		{"/kor/category", site.RouteCategory, content.Korean},
		{"/kor/about", site.RouteAbout, content.Korean},
		{"/eng", site.RouteIndex, content.English},
		{"/eng/category", site.RouteCategory, content.English},
		{"/eng/about", site.RouteAbout, content.English},
	}
	if len(plan.Routes) != len(want) {
		t.Fatalf("expected %d fixed routes, got %d: %v", len(want), len(plan.Routes), plan.Routes)
	}
	for i, w := range want {
		r := plan.Routes[i]
		if r.PublicPath != w.path || r.Kind != w.kind || r.Context.Language != w.lang {
			t.Fatalf("route %d = %s, want %s %s %s", i, r, w.kind, w.path, w.lang)
		}
		if r.Context.CanonicalPath != "" {
			t.Fatalf("fixed route %s carries a canonical path", r)
		}
	}
}

func TestPlanOrdersPostsByDateDesc(t *testing.T) {
	posts := []content.Post{
		{CanonicalPath: "/foo", Date: mustDate(t, "2024-01-02"), Category: "A", Language: content.Korean, TemplateKind: content.TemplatePost},
		{CanonicalPath: "/bar", Date: mustDate(t, "2024-01-01"), Category: "B", Language: content.Korean, TemplateKind: content.TemplatePost},
	}
	plan := PlanPosts(posts)

	got := postRoutes(plan, content.Korean)
	if fmt.Sprint(got) != "[/kor/foo /kor/bar]" {
		t.Fatalf("post routes = %v", got)
	}
	last := plan.Routes[len(plan.Routes)-1]
	if last.Context.CanonicalPath != "/bar" || last.Context.Language != content.Korean {
		t.Fatalf("post route context = %+v", last.Context)
	}
}

func TestPlanExcludesDraftsAndOtherTemplates(t *testing.T) {
	d := mustDate(t, "2024-03-01")
	posts := []content.Post{
		{CanonicalPath: "/secret", Date: d, Language: content.English, Draft: true, TemplateKind: content.TemplatePost},
		{CanonicalPath: "/about-me", Date: d, Language: content.English, TemplateKind: content.TemplateAbout},
		{CanonicalPath: "/kept", Date: d, Language: content.English, TemplateKind: content.TemplatePost},
	}
	plan := PlanPosts(posts)

	got := postRoutes(plan, content.English)
	if fmt.Sprint(got) != "[/eng/kept]" {
		t.Fatalf("post routes = %v", got)
	}
}

func TestPlanBreaksTiesByScanOrder(t *testing.T) {
	d := mustDate(t, "2024-02-02")
	var posts []content.Post
	for _, p := range []string{"/c", "/a", "/b"} {
		posts = append(posts, content.Post{CanonicalPath: p, Date: d, Language: content.Korean, TemplateKind: content.TemplatePost})
	}
	got := postRoutes(PlanPosts(posts), content.Korean)
	if fmt.Sprint(got) != "[/kor/c /kor/a /kor/b]" {
		t.Fatalf("tie order = %v", got)
	}
}

func TestPlanCapsPostsPerLanguage(t *testing.T) {
	base := mustDate(t, "2020-01-01")
	var posts []content.Post
	for i := 0; i < 1001; i++ {
		posts = append(posts, content.Post{
			CanonicalPath: fmt.Sprintf("/p%04d", i),
			Date:          base.AddDate(0, 0, i),
			Language:      content.Korean,
			TemplateKind:  content.TemplatePost,
		})
	}
	posts = append(posts, content.Post{CanonicalPath: "/en", Date: base, Language: content.English, TemplateKind: content.TemplatePost})

	plan := PlanPosts(posts)
	kor := postRoutes(plan, content.Korean)
	if len(kor) != 1000 {
		t.Fatalf("expected 1000 korean post routes, got %d", len(kor))
	}
	if kor[0] != "/kor/p1000" || kor[999] != "/kor/p0001" {
		t.Fatalf("expected the 1000 most recent, got first=%s last=%s", kor[0], kor[999])
	}
	if eng := postRoutes(plan, content.English); len(eng) != 1 {
		t.Fatalf("english cap leaked: %v", eng)
	}
}

func TestPlanPublicPathsAreUnique(t *testing.T) {
	d := mustDate(t, "2024-01-01")
	posts := []content.Post{
		{CanonicalPath: "/dup", Date: d, Language: content.Korean, TemplateKind: content.TemplatePost, Title: "first"},
		{CanonicalPath: "/dup", Date: d, Language: content.Korean, TemplateKind: content.TemplatePost, Title: "second"},
		{CanonicalPath: "/dup", Date: d, Language: content.English, TemplateKind: content.TemplatePost},
		{CanonicalPath: "/about", Date: d, Language: content.English, TemplateKind: content.TemplatePost},
		{CanonicalPath: "/kor/already", Date: d, Language: content.English, TemplateKind: content.TemplatePost},
	}
	plan := PlanPosts(posts)

	seen := map[string]bool{}
	for _, r := range plan.Routes {
		if seen[r.PublicPath] {
			t.Fatalf("duplicate public path %s", r.PublicPath)
		}
		seen[r.PublicPath] = true
	}
	for _, p := range []string{"/kor/dup", "/eng/dup", "/kor/already"} {
		if !seen[p] {
			t.Fatalf("missing route %s in %v", p, plan.Routes)
		}
	}
	// /kor/dup twice and /eng/about colliding with the fixed about page
	if len(plan.Warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %v", plan.Warnings)
	}
}

type failingSource struct{}

func (failingSource) Query(content.Query) ([]content.Post, error) {
	return nil, domainerr.Query("list", errors.New("disk on fire"))
}

func TestPlanFailsOnContentQueryFailure(t *testing.T) {
	p := Planner{Source: failingSource{}}
	plan, err := p.Plan(context.Background())
	if !errors.Is(err, domainerr.ErrContentQuery) {
		t.Fatalf("expected ErrContentQuery, got %v", err)
	}
	if len(plan.Routes) != 0 {
		t.Fatalf("expected no partial routes, got %v", plan.Routes)
	}
}

func TestPlanTrailingSlashCannotShadowAnotherPage(t *testing.T) {
	d := mustDate(t, "2024-01-01")
	posts := []content.Post{
		{CanonicalPath: "/category/", Date: d, Language: content.Korean, TemplateKind: content.TemplatePost},
		{CanonicalPath: "/", Date: d, Language: content.Korean, TemplateKind: content.TemplatePost},
		{CanonicalPath: "/x", Date: d, Language: content.English, TemplateKind: content.TemplatePost},
		{CanonicalPath: "/x/", Date: d, Language: content.English, TemplateKind: content.TemplatePost},
	}
	plan := PlanPosts(posts)

	outs := map[string]string{}
	for _, r := range plan.Routes {
		out, ok := r.OutPath()
		if !ok {
			t.Fatalf("route %s has no output file", r)
		}
		if prev, dup := outs[out]; dup {
			t.Fatalf("%s and %s both write %s", prev, r.PublicPath, out)
		}
		outs[out] = r.PublicPath
	}
	if outs["kor/category/index.html"] != "/kor/category" || outs["kor/index.html"] != "/kor" {
		t.Fatalf("fixed pages replaced: %v", outs)
	}
	if got := postRoutes(plan, content.English); fmt.Sprint(got) != "[/eng/x]" {
		t.Fatalf("english post routes = %v", got)
	}
	if len(plan.Warnings) != 3 {
		t.Fatalf("expected 3 collision warnings, got %v", plan.Warnings)
	}
}

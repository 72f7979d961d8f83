package build

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"kblog/internal/app"
	"kblog/internal/category"
	"kblog/internal/domain/config"
	"kblog/internal/domain/content"
	"kblog/internal/domain/site"
	"kblog/internal/index"
	"kblog/internal/ingest"
	"kblog/internal/render"
	"log"
	"os"
	"path/filepath"
)

// ManifestName is the route table written next to the generated pages.
const ManifestName = "_routes.json"

type Builder struct {
	Cfg config.Config
	// Logger defaults to the standard logger.
	Logger *log.Logger
}

type Result struct {
	Posts    int
	Routes   []site.Route
	Warnings []string
}

type run struct {
	b     *Builder
	st    *index.Store
	md    *render.MarkdownRenderer
	tpl   render.Renderer
	tax   category.Taxonomy
	opt   category.Options
	base  render.Page
	warns []string
}

// Run performs one full build. Pages are materialized into a staging
// directory that replaces the public directory only when every page
// succeeded; on error the previous output is left untouched.
func (b *Builder) Run(ctx context.Context) (*Result, error) {
	tax, err := category.LoadTaxonomy(b.Cfg.Category.Taxonomy)
	if err != nil {
		return nil, fmt.Errorf("load taxonomy: %w", err)
	}

	posts, ingestWarns, err := ingest.Ingest(b.Cfg.Build.SourceDir)
	if err != nil {
		return nil, fmt.Errorf("ingest failed: %w", err)
	}
	r := &run{
		b:   b,
		tax: tax,
		opt: category.Options{Normalize: b.Cfg.Category.Normalize},
		base: render.Page{
			Site:      b.Cfg.Site,
			Generated: b.Cfg.Build.Now,
		},
	}
	for _, w := range ingestWarns {
		r.warn("%s", w)
	}

	st, err := index.Open(index.OpenOptions{Path: b.Cfg.Build.IndexPath})
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}
	defer st.Close()
	r.st = st

	if err := st.Rebuild(posts); err != nil {
		return nil, fmt.Errorf("failed to rebuild index: %w", err)
	}
	for _, lang := range content.Languages {
		n, err := st.Count(lang)
		if err != nil {
			return nil, err
		}
		b.logf("[build] indexed %d %s documents in %s", n, lang, st.Path())
	}

	planner := app.Planner{Source: st, PostLimit: b.Cfg.Build.PostLimit}
	plan, err := planner.Plan(ctx)
	if err != nil {
		return nil, fmt.Errorf("plan routes: %w", err)
	}
	for _, w := range plan.Warnings {
		r.warn("%s: %s", w.PublicPath, w.Msg)
	}

	r.md = render.NewMarkdownRenderer(render.MarkdownOptions{Unsafe: b.Cfg.Build.UnsafeHTML})
	tpl, err := render.NewTemplateRenderer(b.Cfg.Build.ThemeDir)
	if err != nil {
		return nil, fmt.Errorf("load theme(%s): %w", b.Cfg.Build.ThemeDir, err)
	}
	r.tpl = tpl

	if err := r.publish(ctx, plan.Routes); err != nil {
		return nil, err
	}
	b.logf("[build] %d posts, %d routes -> %s", len(posts), len(plan.Routes), b.Cfg.Build.PublicDir)

	return &Result{
		Posts:    len(posts),
		Routes:   plan.Routes,
		Warnings: r.warns,
	}, nil
}

func (b *Builder) logf(format string, args ...interface{}) {
	if b.Logger != nil {
		b.Logger.Printf(format, args...)
		return
	}
	log.Printf(format, args...)
}

func (r *run) warn(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	r.warns = append(r.warns, msg)
	r.b.logf("[warn] %s", msg)
}

func (r *run) publish(ctx context.Context, routes []site.Route) error {
	outDir := filepath.Clean(r.b.Cfg.Build.PublicDir)
	if err := os.MkdirAll(filepath.Dir(outDir), 0o755); err != nil {
		return fmt.Errorf("mkdir public parent: %w", err)
	}
	stage, err := os.MkdirTemp(filepath.Dir(outDir), "."+filepath.Base(outDir)+"-*")
	if err != nil {
		return fmt.Errorf("create staging dir: %w", err)
	}
	if err := os.Chmod(stage, 0o755); err != nil {
		_ = os.RemoveAll(stage)
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = os.RemoveAll(stage)
		}
	}()

	for _, rt := range routes {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.materialize(ctx, stage, rt); err != nil {
			return fmt.Errorf("build %s: %w", rt.PublicPath, err)
		}
	}
	if err := writeManifest(stage, routes); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	if err := r.copyStaticAssets(stage); err != nil {
		return fmt.Errorf("copy static assets: %w", err)
	}

	if err := os.RemoveAll(outDir); err != nil {
		return fmt.Errorf("clean public: %w", err)
	}
	if err := os.Rename(stage, outDir); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	committed = true
	return nil
}

func (r *run) materialize(ctx context.Context, outDir string, rt site.Route) error {
	rel, ok := rt.OutPath()
	if !ok {
		return fmt.Errorf("invalid public path %q", rt.PublicPath)
	}

	var (
		htmlBytes []byte
		err       error
	)
	switch rt.Kind {
	case site.RouteIndex:
		htmlBytes, err = r.buildIndex(ctx, rt.Context.Language)
	case site.RouteCategory:
		htmlBytes, err = r.buildCategory(ctx, rt.Context.Language)
	case site.RouteAbout:
		htmlBytes, err = r.buildAbout(ctx, rt.Context.Language)
	case site.RoutePost:
		htmlBytes, err = r.buildPost(ctx, rt.Context)
	default:
		err = fmt.Errorf("unknown route kind %q", rt.Kind)
	}
	if err != nil {
		return err
	}
	return writeFile(outDir, rel, htmlBytes)
}

// listPosts returns the public posts of lang, at most limit when limit > 0.
func (r *run) listPosts(lang content.Language, limit int) ([]content.Post, error) {
	return r.st.Query(content.Query{
		Language:     lang,
		TemplateKind: content.TemplatePost,
		Limit:        limit,
	})
}

// The index lists only posts that got a page; category counts stay uncapped.
func (r *run) buildIndex(ctx context.Context, lang content.Language) ([]byte, error) {
	posts, err := r.listPosts(lang, r.postLimit())
	if err != nil {
		return nil, err
	}
	return r.tpl.RenderIndex(ctx, render.IndexPage{
		Page:  r.base.With(lang, "Home"),
		Posts: posts,
	})
}

func (r *run) postLimit() int {
	if n := r.b.Cfg.Build.PostLimit; n > 0 {
		return n
	}
	return config.DefaultPostLimit
}

func (r *run) buildCategory(ctx context.Context, lang content.Language) ([]byte, error) {
	posts, err := r.listPosts(lang, 0)
	if err != nil {
		return nil, err
	}
	counts, grouped := category.Aggregate(posts, lang, r.opt)
	for _, name := range r.tax.Unmapped(lang, counts) {
		r.warn("category %q (%s, %d posts) has no taxonomy entry", name, lang, counts.Get(name))
	}

	page := render.CategoryPage{
		Page:     r.base.With(lang, "Category"),
		Sections: r.tax.Sections(lang, counts),
	}
	for i, name := range counts.Sorted() {
		if i == 0 {
			page.Selected = name
		}
		page.Groups = append(page.Groups, render.CategoryGroup{
			Name:  name,
			Posts: category.ByCategory(grouped, name, r.opt),
		})
	}
	return r.tpl.RenderCategory(ctx, page)
}

func (r *run) buildAbout(ctx context.Context, lang content.Language) ([]byte, error) {
	page := render.AboutPage{Page: r.base.With(lang, "About")}

	about, err := r.st.FindAbout(lang)
	switch {
	case errors.Is(err, index.ErrNotFound):
		r.warn("no about page for %s", lang)
	case err != nil:
		return nil, err
	default:
		res, err := r.renderBody(about, lang)
		if err != nil {
			return nil, err
		}
		page.HTML = template.HTML(res.HTML)
	}
	return r.tpl.RenderAbout(ctx, page)
}

func (r *run) buildPost(ctx context.Context, rc site.RouteContext) ([]byte, error) {
	post, matches, err := r.st.Resolve(rc.CanonicalPath, rc.Language)
	if err != nil {
		return nil, fmt.Errorf("resolve %s (%s): %w", rc.CanonicalPath, rc.Language, err)
	}
	if matches > 1 {
		r.warn("%d %s posts share path %s, using %s", matches, rc.Language, rc.CanonicalPath, post.SourcePath)
	}

	res, err := r.renderBody(post, rc.Language)
	if err != nil {
		return nil, err
	}
	return r.tpl.RenderPost(ctx, render.PostPage{
		Page: r.base.With(rc.Language, post.Title),
		Post: post,
		HTML: template.HTML(res.HTML),
		TOC:  res.Headings,
	})
}

func (r *run) renderBody(p content.Post, lang content.Language) (render.MarkdownResult, error) {
	src, err := os.ReadFile(p.SourcePath)
	if err != nil {
		return render.MarkdownResult{}, fmt.Errorf("read post source(%s): %w", p.SourcePath, err)
	}
	_, body, err := ingest.ParseFrontMatter(src)
	if err != nil {
		return render.MarkdownResult{}, fmt.Errorf("front matter(%s): %w", p.SourcePath, err)
	}
	res, err := r.md.Render(body, lang)
	if err != nil {
		return render.MarkdownResult{}, fmt.Errorf("markdown render(%s): %w", p.CanonicalPath, err)
	}
	return res, nil
}

func (r *run) copyStaticAssets(outDir string) error {
	src, err := render.StaticFS(r.b.Cfg.Build.ThemeDir)
	if err != nil || src == nil {
		return err
	}
	return fs.WalkDir(src, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		in, err := fs.ReadFile(src, path)
		if err != nil {
			return err
		}
		return writeFile(outDir, filepath.FromSlash(path), in)
	})
}

func writeManifest(outDir string, routes []site.Route) error {
	data, err := json.MarshalIndent(routes, "", "  ")
	if err != nil {
		return err
	}
	return writeFile(outDir, ManifestName, append(data, '\n'))
}

func writeFile(root, rel string, data []byte) error {
	full := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	return os.WriteFile(full, data, 0o644)
}

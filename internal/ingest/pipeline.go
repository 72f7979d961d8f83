package ingest

import (
	"kblog/internal/domain/content"
	"kblog/internal/locale"
	"os"
	"runtime"
	"strings"
	"sync"
)

type Warning struct {
	Path string
	Msg  string
}

func (w Warning) String() string {
	return w.Path + ": " + w.Msg
}

type Result struct {
	Post  content.Post
	Warns []Warning
	Skip  bool
	Err   error
}

type job struct {
	seq int
	sf  SourceFile
}

// Ingest reads every Markdown file under sourceDir. Files are parsed
// concurrently but the returned posts are in content-scan order, with Seq
// numbered from 1.
func Ingest(sourceDir string) ([]content.Post, []Warning, error) {
	files, err := DiscoverSource(sourceDir)
	if err != nil {
		return nil, nil, err
	}

	workers := runtime.GOMAXPROCS(0)
	jobs := make(chan job)
	results := make([]Result, len(files))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				results[j.seq] = parseFile(j.sf)
			}
		}()
	}

	for i, f := range files {
		jobs <- job{seq: i, sf: f}
	}
	close(jobs)
	wg.Wait()

	var out []content.Post
	var warns []Warning
	for _, r := range results {
		if r.Err != nil {
			return nil, nil, r.Err
		}
		if len(r.Warns) > 0 {
			warns = append(warns, r.Warns...)
		}
		if r.Skip {
			continue
		}
		p := r.Post
		p.Seq = len(out) + 1
		out = append(out, p)
	}
	return out, warns, nil
}

func parseFile(sf SourceFile) Result {
	st, err := os.Stat(sf.Path)
	if err != nil {
		return Result{Err: err}
	}
	raw, err := os.ReadFile(sf.Path)
	if err != nil {
		return Result{Err: err}
	}

	lang, ok := locale.FromPath(sf.Rel)
	if !ok {
		return Result{
			Warns: []Warning{{Path: sf.Path, Msg: "not under a kor/ or eng/ folder, skipped"}},
			Skip:  true,
		}
	}

	fm, _, fmErr := ParseFrontMatter(raw)
	if fmErr != nil {
		return Result{
			Warns: []Warning{{Path: sf.Path, Msg: "failed to parse front matter: " + fmErr.Error()}},
			Skip:  true,
		}
	}

	var warns []Warning
	canonical := ResolvePath(fm, sf.Path)
	if canonical == "" {
		warns = append(warns, Warning{Path: sf.Path, Msg: "empty path"})
		return Result{Warns: warns, Skip: true}
	}
	if strings.TrimSpace(fm.Path) == "" {
		warns = append(warns, Warning{Path: sf.Path, Msg: "no path in front matter, using " + canonical})
	}

	p := content.Post{
		CanonicalPath: canonical,
		Language:      lang,
		Title:         fm.Title,
		Description:   fm.Description,
		Category:      fm.Category,
		Draft:         fm.Draft,
		TemplateKind:  content.TemplateKind(fm.Template),
		Thumbnail:     fm.Thumbnail,
		SourcePath:    sf.Path,
	}
	p.Date = ParseTime(fm.Date)
	if p.Date.IsZero() {
		p.Date = st.ModTime().UTC()
		warns = append(warns, Warning{
			Path: sf.Path,
			Msg:  "using file modification time for date",
		})
	}
	if strings.TrimSpace(p.Title) == "" {
		warns = append(warns, Warning{Path: sf.Path, Msg: "title is empty"})
	}
	p.Normalize()
	return Result{Post: p, Warns: warns}
}

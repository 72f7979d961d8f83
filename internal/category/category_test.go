package category

import (
	"errors"
	"fmt"
	"kblog/internal/domain/config"
	"kblog/internal/domain/content"
	domainerr "kblog/internal/domain/errors"
	"os"
	"path/filepath"
	"testing"
)

func p(lang content.Language, cat string) content.Post {
	return content.Post{CanonicalPath: "/" + cat, Language: lang, Category: cat, TemplateKind: content.TemplatePost}
}

func TestAggregateCountsFirstSeenOrder(t *testing.T) {
	draft := p(content.Korean, "투자지표")
	draft.Draft = true
	posts := []content.Post{
		p(content.Korean, "차트분석"),
		p(content.Korean, "데일리뉴스"),
		p(content.Korean, "차트분석"),
		draft,
		p(content.English, "Chart"),
		p(content.Korean, "종목분석"),
	}

	counts, grouped := Aggregate(posts, content.Korean, Options{})
	if got := fmt.Sprint(counts.Names()); got != "[차트분석 데일리뉴스 종목분석]" {
		t.Fatalf("names = %s", got)
	}
	if counts.Get("차트분석") != 2 || counts.Get("데일리뉴스") != 1 {
		t.Fatalf("counts = %v", counts.Map())
	}
	if counts.Has("투자지표") {
		t.Fatalf("draft category counted")
	}
	if len(grouped) != 4 {
		t.Fatalf("grouped = %d posts, want 4", len(grouped))
	}
	if counts.Total() != len(grouped) {
		t.Fatalf("total %d != grouped %d", counts.Total(), len(grouped))
	}
	if first := counts.Sorted()[0]; first != "데일리뉴스" {
		t.Fatalf("default selection = %s", first)
	}
}

func TestAggregateSumMatchesPublicPosts(t *testing.T) {
	var posts []content.Post
	for i := 0; i < 30; i++ {
		lang := content.Languages[i%2]
		post := p(lang, fmt.Sprintf("c%d", i%4))
		post.Draft = i%5 == 0
		posts = append(posts, post)
	}
	for _, lang := range content.Languages {
		want := 0
		for _, post := range posts {
			if post.Language == lang && !post.Draft && post.TemplateKind == content.TemplatePost {
				want++
			}
		}
		counts, _ := Aggregate(posts, lang, Options{})
		if counts.Total() != want {
			t.Fatalf("%s: sum = %d, want %d", lang, counts.Total(), want)
		}
	}
}

func TestAggregateEmpty(t *testing.T) {
	counts, grouped := Aggregate(nil, content.English, Options{})
	if counts.Len() != 0 || len(counts.Map()) != 0 {
		t.Fatalf("expected empty counts, got %v", counts.Map())
	}
	if len(grouped) != 0 {
		t.Fatalf("expected empty grouped list, got %v", grouped)
	}
}

func TestAggregateIsCaseSensitiveByDefault(t *testing.T) {
	posts := []content.Post{p(content.English, "Chart"), p(content.English, "chart"), p(content.English, "Chart ")}

	exact, _ := Aggregate(posts, content.English, Options{})
	if exact.Len() != 3 {
		t.Fatalf("expected 3 distinct categories, got %v", exact.Names())
	}

	folded, _ := Aggregate(posts, content.English, Options{Normalize: config.NormalizeFold})
	if folded.Len() != 1 || folded.Get("CHART") != 3 {
		t.Fatalf("folded = %v", folded.Map())
	}
	if got := folded.Names()[0]; got != "Chart" {
		t.Fatalf("display name = %q, want first-seen spelling", got)
	}
	if n := len(ByCategory(posts, "chart", Options{Normalize: config.NormalizeFold})); n != 3 {
		t.Fatalf("ByCategory folded = %d", n)
	}
	if n := len(ByCategory(posts, "chart", Options{})); n != 1 {
		t.Fatalf("ByCategory exact = %d", n)
	}
}

func TestDefaultTaxonomyCoversKnownCategories(t *testing.T) {
	tax := Default()
	cases := []struct {
		lang  content.Language
		cats  []string
		group map[string]string
	}{
		{
			lang: content.Korean,
			cats: []string{"투자지표", "매매전략", "차트분석", "경제지식", "종목분석", "데일리뉴스"},
			group: map[string]string{
				"차트분석": "Strategy", "종목분석": "Economy", "데일리뉴스": "News",
			},
		},
		{
			lang: content.English,
			cats: []string{"Indicators", "Strategy", "Chart", "Economics", "Stock Analysis", "Daily News"},
			group: map[string]string{
				"Chart": "Strategy", "Stock Analysis": "Economy", "Daily News": "News",
			},
		},
	}

	for _, tc := range cases {
		var posts []content.Post
		for _, c := range tc.cats {
			posts = append(posts, p(tc.lang, c))
		}
		counts, _ := Aggregate(posts, tc.lang, Options{})
		if un := tax.Unmapped(tc.lang, counts); len(un) != 0 {
			t.Fatalf("%s: unmapped %v", tc.lang, un)
		}

		sections := tax.Sections(tc.lang, counts)
		if len(sections) != 3 || sections[0].Group != "Strategy" || sections[2].Group != "News" {
			t.Fatalf("%s: sections = %+v", tc.lang, sections)
		}
		for _, sec := range sections {
			for _, it := range sec.Items {
				if it.Count != 1 {
					t.Fatalf("%s: %s count = %d", tc.lang, it.Key, it.Count)
				}
				if want, ok := tc.group[it.Key]; ok && want != sec.Group {
					t.Fatalf("%s: %s in %s, want %s", tc.lang, it.Key, sec.Group, want)
				}
			}
		}
	}
}

func TestTaxonomyReportsUnmappedCategories(t *testing.T) {
	tax := Default()
	posts := []content.Post{p(content.English, "Chart"), p(content.English, "Crypto"), p(content.English, "chart")}
	counts, _ := Aggregate(posts, content.English, Options{})

	if got := fmt.Sprint(tax.Unmapped(content.English, counts)); got != "[Crypto chart]" {
		t.Fatalf("unmapped = %s", got)
	}

	// A mapped category without posts renders as zero.
	for _, sec := range tax.Sections(content.English, counts) {
		for _, it := range sec.Items {
			if it.Key == "Daily News" && it.Count != 0 {
				t.Fatalf("Daily News count = %d", it.Count)
			}
		}
	}

	folded, _ := Aggregate(posts, content.English, Options{Normalize: config.NormalizeFold})
	if got := fmt.Sprint(tax.Unmapped(content.English, folded)); got != "[Crypto]" {
		t.Fatalf("unmapped with fold = %s", got)
	}
}

func TestLoadTaxonomy(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	if err := os.WriteFile(good, []byte(`
groups: [Markets]
entries:
  - {language: eng, key: fx, group: Markets, label: Currencies}
  - {language: kor, key: 환율, group: Markets}
`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	tax, err := LoadTaxonomy(good)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tax.Entries[0].Label != "Currencies" || tax.Entries[1].Label != "환율" {
		t.Fatalf("labels = %+v", tax.Entries)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte(`
groups: [Markets]
entries:
  - {language: jpn, key: fx, group: Markets}
  - {language: eng, key: fx, group: Bonds}
  - {language: eng, key: fx, group: Markets}
`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err = LoadTaxonomy(bad)
	var ve domainerr.ValidationError
	if !errors.As(err, &ve) || len(ve.Items) != 3 {
		t.Fatalf("expected 3 validation errors, got %v", err)
	}
}

// Package category groups a language's posts by category and maps the
// resulting counts onto the display taxonomy.
package category

import (
	"kblog/internal/domain/config"
	"kblog/internal/domain/content"
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

type Options struct {
	// NormalizeNone (the default) matches category strings exactly.
	Normalize config.Normalize
}

// Key is the matching key of a category value under o.
func (o Options) Key(s string) string {
	if o.Normalize == config.NormalizeFold {
		return cases.Fold().String(strings.TrimSpace(s))
	}
	return s
}

// Counts maps category names to post counts, remembering first-seen order.
type Counts struct {
	opt   Options
	names []string
	n     map[string]int
	index map[string]string // key -> name
}

func newCounts(opt Options) Counts {
	return Counts{opt: opt, n: map[string]int{}, index: map[string]string{}}
}

func (c *Counts) add(category string) {
	k := c.opt.Key(category)
	name, ok := c.index[k]
	if !ok {
		name = category
		if c.opt.Normalize == config.NormalizeFold {
			name = strings.TrimSpace(category)
		}
		c.index[k] = name
		c.names = append(c.names, name)
	}
	c.n[name]++
}

// Names returns categories in first-seen order.
func (c Counts) Names() []string {
	return append([]string(nil), c.names...)
}

// Sorted returns categories in lexical order; the first one is the
// category selected by default on the category page.
func (c Counts) Sorted() []string {
	out := c.Names()
	sort.Strings(out)
	return out
}

func (c Counts) Get(category string) int {
	name, ok := c.index[c.opt.Key(category)]
	if !ok {
		return 0
	}
	return c.n[name]
}

func (c Counts) Has(category string) bool {
	_, ok := c.index[c.opt.Key(category)]
	return ok
}

func (c Counts) Len() int {
	return len(c.names)
}

func (c Counts) Total() int {
	total := 0
	for _, v := range c.n {
		total += v
	}
	return total
}

// Map returns a copy of the counts as a plain map.
func (c Counts) Map() map[string]int {
	out := make(map[string]int, len(c.n))
	for k, v := range c.n {
		out[k] = v
	}
	return out
}

// Aggregate counts the public posts of lang by category. Template
// filtering is expected upstream; grouped keeps the caller's order.
func Aggregate(posts []content.Post, lang content.Language, opt Options) (Counts, []content.Post) {
	counts := newCounts(opt)
	grouped := make([]content.Post, 0, len(posts))
	for _, p := range posts {
		if p.Language != lang || !p.Public() {
			continue
		}
		counts.add(p.Category)
		grouped = append(grouped, p)
	}
	return counts, grouped
}

// ByCategory selects the posts filed under category, preserving order.
func ByCategory(posts []content.Post, category string, opt Options) []content.Post {
	want := opt.Key(category)
	var out []content.Post
	for _, p := range posts {
		if opt.Key(p.Category) == want {
			out = append(out, p)
		}
	}
	return out
}

package content

import "sort"

// Query is the content query the planner and the category page issue.
// A zero Limit means no cap.
type Query struct {
	Language     Language
	TemplateKind TemplateKind
	Limit        int
}

func (q Query) Match(p Post) bool {
	if !p.Public() {
		return false
	}
	if q.Language != "" && p.Language != q.Language {
		return false
	}
	if q.TemplateKind != "" && p.TemplateKind != q.TemplateKind {
		return false
	}
	return true
}

// SortByDateDesc orders posts newest first; equal dates keep scan order.
func SortByDateDesc(posts []Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		if !posts[i].Date.Equal(posts[j].Date) {
			return posts[i].Date.After(posts[j].Date)
		}
		return posts[i].Seq < posts[j].Seq
	})
}

// Collection is an in-memory content repository snapshot, in scan order.
type Collection []Post

func (c Collection) Query(q Query) ([]Post, error) {
	number := Unnumbered(c)
	out := make([]Post, 0, len(c))
	for i, p := range c {
		if !q.Match(p) {
			continue
		}
		if number {
			p.Seq = i + 1
		}
		out = append(out, p)
	}
	SortByDateDesc(out)
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

// Unnumbered reports whether no post carries a scan ordinal. Only then is
// the slice position used instead; a partially numbered input is kept as is.
func Unnumbered(posts []Post) bool {
	for _, p := range posts {
		if p.Seq != 0 {
			return false
		}
	}
	return true
}

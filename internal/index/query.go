package index

import (
	"encoding/json"
	"errors"
	bolt "go.etcd.io/bbolt"
	"kblog/internal/domain/content"
	domainerr "kblog/internal/domain/errors"
	"strings"
)

var (
	ErrNotFound = errors.New("not found")
	errNotBuilt = errors.New("index not built")
)

// Query returns the public posts matching q, newest first, ties in scan
// order, at most q.Limit of them when Limit > 0.
func (s *Store) Query(q content.Query) ([]content.Post, error) {
	langs := content.Languages
	if q.Language != "" {
		langs = []content.Language{q.Language}
	}

	var out []content.Post
	err := s.db.View(func(tx *bolt.Tx) error {
		dateB := tx.Bucket(bDate)
		postsB := tx.Bucket(bPosts)
		if dateB == nil || postsB == nil {
			return errNotBuilt
		}
		for _, lang := range langs {
			sb := dateB.Bucket([]byte(lang))
			if sb == nil {
				continue
			}
			cur := sb.Cursor()
			for k, v := cur.First(); k != nil; k, v = cur.Next() {
				p, err := decodePost(postsB, v)
				if err != nil {
					return err
				}
				if !q.Match(p) {
					continue
				}
				out = append(out, p)
				if q.Language != "" && q.Limit > 0 && len(out) >= q.Limit {
					break
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, domainerr.Query("list", err)
	}
	if q.Language == "" {
		content.SortByDateDesc(out)
		if q.Limit > 0 && len(out) > q.Limit {
			out = out[:q.Limit]
		}
	}
	return out, nil
}

// Resolve finds the public post with canonicalPath in lang. When several
// match, the first in scan order is returned and matches reports how many
// there were.
func (s *Store) Resolve(canonicalPath string, lang content.Language) (content.Post, int, error) {
	canonicalPath = strings.TrimSpace(canonicalPath)
	if canonicalPath == "" {
		return content.Post{}, 0, ErrNotFound
	}

	var (
		first   content.Post
		matches int
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		pathB := tx.Bucket(bPath)
		postsB := tx.Bucket(bPosts)
		if pathB == nil || postsB == nil {
			return errNotBuilt
		}
		prefix := pathPrefix(string(lang), canonicalPath)
		cur := pathB.Cursor()
		for k, v := cur.Seek(prefix); k != nil && hasPrefix(k, prefix); k, v = cur.Next() {
			p, err := decodePost(postsB, v)
			if err != nil {
				return err
			}
			if !p.Public() {
				continue
			}
			if matches == 0 {
				first = p
			}
			matches++
		}
		return nil
	})
	if err != nil {
		return content.Post{}, 0, domainerr.Query("resolve", err)
	}
	if matches == 0 {
		return content.Post{}, 0, ErrNotFound
	}
	return first, matches, nil
}

// FindAbout returns the about page of lang, falling back to the first about
// page of any language.
func (s *Store) FindAbout(lang content.Language) (content.Post, error) {
	var own, fallback *content.Post
	err := s.db.View(func(tx *bolt.Tx) error {
		postsB := tx.Bucket(bPosts)
		if postsB == nil {
			return errNotBuilt
		}
		cur := postsB.Cursor()
		for k, v := cur.First(); k != nil; k, v = cur.Next() {
			var p content.Post
			if err := json.Unmarshal(v, &p); err != nil {
				return err
			}
			if !p.Public() || !isAbout(p) {
				continue
			}
			if fallback == nil {
				cp := p
				fallback = &cp
			}
			if p.Language == lang {
				own = &p
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return content.Post{}, domainerr.Query("about", err)
	}
	if own != nil {
		return *own, nil
	}
	if fallback != nil {
		return *fallback, nil
	}
	return content.Post{}, ErrNotFound
}

func isAbout(p content.Post) bool {
	return p.TemplateKind == content.TemplateAbout || strings.EqualFold(p.Title, "about")
}

func decodePost(postsB *bolt.Bucket, seq []byte) (content.Post, error) {
	var p content.Post
	v := postsB.Get(seq)
	if v == nil {
		return p, errors.New("dangling index entry")
	}
	if err := json.Unmarshal(v, &p); err != nil {
		return p, err
	}
	return p, nil
}

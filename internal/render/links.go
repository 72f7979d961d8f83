package render

import (
	"bytes"
	"kblog/internal/domain/content"
	"kblog/internal/locale"
	"path"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

var langKey = parser.NewContextKey()

// linkLocalizer rewrites links to other posts ("/some-post") to their
// public path in the language being rendered. Assets and external links
// are left alone.
type linkLocalizer struct{}

func (t *linkLocalizer) Transform(node *ast.Document, reader text.Reader, pc parser.Context) {
	lang, ok := pc.Get(langKey).(content.Language)
	if !ok {
		return
	}
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		link, ok := n.(*ast.Link)
		if !ok {
			return ast.WalkContinue, nil
		}
		if dest, ok := localizeDest(link.Destination, lang); ok {
			link.Destination = dest
		}
		return ast.WalkContinue, nil
	})
}

func localizeDest(dest []byte, lang content.Language) ([]byte, bool) {
	if !bytes.HasPrefix(dest, []byte("/")) || bytes.HasPrefix(dest, []byte("//")) {
		return nil, false
	}
	p := string(dest)
	suffix := ""
	if i := bytes.IndexAny(dest, "?#"); i >= 0 {
		p, suffix = string(dest[:i]), string(dest[i:])
	}
	if p == "/" || path.Ext(p) != "" {
		return nil, false
	}
	return []byte(locale.Localize(p, lang) + suffix), true
}

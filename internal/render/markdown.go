package render

import (
	"bytes"
	"kblog/internal/domain/content"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

type MarkdownOptions struct {
	// Unsafe keeps raw HTML and skips sanitization.
	Unsafe bool
}

type MarkdownRenderer struct {
	md       goldmark.Markdown
	sanitize *bluemonday.Policy
}

func NewMarkdownRenderer(opt MarkdownOptions) *MarkdownRenderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithASTTransformers(
				util.Prioritized(&linkLocalizer{}, 100),
			),
		),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	r := &MarkdownRenderer{md: md}
	if !opt.Unsafe {
		p := bluemonday.UGCPolicy()
		p.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
		r.sanitize = p
	}
	return r
}

type MarkdownResult struct {
	HTML     []byte
	Headings []Heading
}

// Render converts a post body. Site-absolute links are localized for lang
// the same way route paths are.
func (r *MarkdownRenderer) Render(src []byte, lang content.Language) (MarkdownResult, error) {
	var buf bytes.Buffer

	ctx := parser.NewContext()
	ctx.Set(langKey, lang)
	reader := text.NewReader(src)
	doc := r.md.Parser().Parse(reader, parser.WithContext(ctx))

	var heads []Heading
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if h, ok := n.(*ast.Heading); ok {
			var idStr string
			if id, ok := h.AttributeString("id"); ok {
				switch v := id.(type) {
				case string:
					idStr = v
				case []byte:
					idStr = string(v)
				}
			}
			var textBuf bytes.Buffer
			for c := h.FirstChild(); c != nil; c = c.NextSibling() {
				if seg, ok := c.(*ast.Text); ok {
					textBuf.Write(seg.Segment.Value(src))
				}
			}
			heads = append(heads, Heading{
				Level: h.Level,
				ID:    idStr,
				Text:  textBuf.String(),
			})
		}
		return ast.WalkContinue, nil
	})

	if err := r.md.Renderer().Render(&buf, src, doc); err != nil {
		return MarkdownResult{}, err
	}
	out := buf.Bytes()
	if r.sanitize != nil {
		out = r.sanitize.SanitizeBytes(out)
	}
	return MarkdownResult{
		HTML:     out,
		Headings: heads,
	}, nil
}

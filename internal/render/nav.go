package render

import (
	"kblog/internal/domain/content"
	"kblog/internal/locale"
)

type Nav struct {
	Home        string
	Category    string
	About       string
	Switch      string
	SwitchLabel string
}

// NavFor builds the header links of lang. The language switch of Korean
// pages points at /eng; English pages switch back to the bare root.
func NavFor(lang content.Language) Nav {
	prefix := locale.Prefix(lang)
	n := Nav{
		Home:     prefix,
		Category: prefix + "/category",
		About:    prefix + "/about",
	}
	if lang == content.English {
		n.Switch, n.SwitchLabel = "/", "KOR"
	} else {
		n.Switch, n.SwitchLabel = "/eng", "ENG"
	}
	return n
}

// With returns a copy of p set up for lang.
func (p Page) With(lang content.Language, title string) Page {
	p.Lang = lang
	p.HTMLLang = locale.HTMLLang(lang)
	p.Nav = NavFor(lang)
	p.Title = title
	return p
}

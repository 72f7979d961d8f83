package category

import (
	_ "embed"
	"fmt"
	"gopkg.in/yaml.v3"
	"kblog/internal/domain/content"
	domainerr "kblog/internal/domain/errors"
	"os"
	"strings"
)

//go:embed default_taxonomy.yaml
var defaultTaxonomy []byte

// Entry maps {Language, Key} to a top-level group and a display label.
type Entry struct {
	Language content.Language `yaml:"language"`
	Key      string           `yaml:"key"`
	Group    string           `yaml:"group"`
	Label    string           `yaml:"label"`
}

type Taxonomy struct {
	Groups  []string `yaml:"groups"`
	Entries []Entry  `yaml:"entries"`
}

type Item struct {
	Key   string
	Label string
	Count int
}

type Section struct {
	Group string
	Items []Item
}

func Default() Taxonomy {
	t, err := parseTaxonomy(defaultTaxonomy)
	if err != nil {
		panic(fmt.Sprintf("category: embedded taxonomy: %v", err))
	}
	return t
}

// LoadTaxonomy reads a taxonomy file; an empty path selects Default.
func LoadTaxonomy(path string) (Taxonomy, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Taxonomy{}, err
	}
	t, err := parseTaxonomy(data)
	if err != nil {
		return Taxonomy{}, fmt.Errorf("taxonomy %s: %w", path, err)
	}
	return t, nil
}

func parseTaxonomy(data []byte) (Taxonomy, error) {
	var t Taxonomy
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Taxonomy{}, err
	}
	for i := range t.Entries {
		if t.Entries[i].Label == "" {
			t.Entries[i].Label = t.Entries[i].Key
		}
	}
	if err := t.Validate(); err != nil {
		return Taxonomy{}, err
	}
	return t, nil
}

func (t Taxonomy) Validate() error {
	var ve domainerr.ValidationError

	groups := make(map[string]struct{}, len(t.Groups))
	for _, g := range t.Groups {
		if strings.TrimSpace(g) == "" {
			ve.Add("groups", "must not contain empty names")
		}
		groups[g] = struct{}{}
	}

	seen := make(map[string]struct{}, len(t.Entries))
	for i, e := range t.Entries {
		field := fmt.Sprintf("entries[%d]", i)
		if !e.Language.Valid() {
			ve.Add(field+".language", "must be 'kor' or 'eng'")
		}
		if strings.TrimSpace(e.Key) == "" {
			ve.Add(field+".key", "must not be empty")
		}
		if _, ok := groups[e.Group]; !ok {
			ve.Add(field+".group", fmt.Sprintf("unknown group %q", e.Group))
		}
		id := string(e.Language) + "\x00" + e.Key
		if _, ok := seen[id]; ok {
			ve.Add(field, fmt.Sprintf("duplicate key %q for %s", e.Key, e.Language))
		}
		seen[id] = struct{}{}
	}

	if ve.HasAny() {
		return ve
	}
	return nil
}

// Sections lays out counts for lang in group order. A mapped category with
// no posts shows a zero count.
func (t Taxonomy) Sections(lang content.Language, counts Counts) []Section {
	out := make([]Section, 0, len(t.Groups))
	for _, g := range t.Groups {
		sec := Section{Group: g}
		for _, e := range t.Entries {
			if e.Language != lang || e.Group != g {
				continue
			}
			sec.Items = append(sec.Items, Item{
				Key:   e.Key,
				Label: e.Label,
				Count: counts.Get(e.Key),
			})
		}
		out = append(out, sec)
	}
	return out
}

// Unmapped lists categories present in counts that no entry of lang covers,
// in first-seen order. Their posts are counted but never displayed.
func (t Taxonomy) Unmapped(lang content.Language, counts Counts) []string {
	mapped := make(map[string]struct{})
	for _, e := range t.Entries {
		if e.Language == lang {
			mapped[counts.opt.Key(e.Key)] = struct{}{}
		}
	}
	var out []string
	for _, name := range counts.names {
		if _, ok := mapped[counts.opt.Key(name)]; !ok {
			out = append(out, name)
		}
	}
	return out
}

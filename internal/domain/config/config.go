package config

import (
	"gopkg.in/yaml.v3"
	domainerr "kblog/internal/domain/errors"
	"net/url"
	"os"
	"strings"
	"time"
)

// DefaultPostLimit is the per-language ceiling on generated post pages.
const DefaultPostLimit = 1000

type Config struct {
	Site     SiteConfig     `yaml:"site"`
	Build    BuildConfig    `yaml:"build"`
	Category CategoryConfig `yaml:"category"`
}

type SiteConfig struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Author      string `yaml:"author"`
	SiteURL     string `yaml:"site_url"`
}

type BuildConfig struct {
	SourceDir  string    `yaml:"source_dir"`
	PublicDir  string    `yaml:"public_dir"`
	ThemeDir   string    `yaml:"theme_dir"`
	IndexPath  string    `yaml:"index_path"`
	PostLimit  int       `yaml:"post_limit"`
	UnsafeHTML bool      `yaml:"unsafe_html"`
	Now        time.Time `yaml:"-"`
}

type Normalize string

const (
	NormalizeNone Normalize = "none"
	NormalizeFold Normalize = "fold"
)

type CategoryConfig struct {
	// 为空时使用内置的分类表
	Taxonomy  string    `yaml:"taxonomy"`
	Normalize Normalize `yaml:"normalize"`
}

func Default() Config {
	return Config{
		Site: SiteConfig{
			Title:   "kblog",
			SiteURL: "http://localhost",
		},
		Build: BuildConfig{
			SourceDir: "contents",
			PublicDir: "public",
			IndexPath: ".kblog/index.db",
			PostLimit: DefaultPostLimit,
			Now:       time.Now(),
		},
		Category: CategoryConfig{
			Normalize: NormalizeNone,
		},
	}
}

func (c Config) Validate() error {
	var ve domainerr.ValidationError

	if strings.TrimSpace(c.Site.Title) == "" {
		ve.Add("site.title", "must not be empty")
	}

	if strings.TrimSpace(c.Site.SiteURL) == "" {
		ve.Add("site.site_url", "must not be empty")
	} else if !isValidAbsURL(c.Site.SiteURL) {
		ve.Add("site.site_url", "must be a valid absolute URL")
	}

	if strings.TrimSpace(c.Build.SourceDir) == "" {
		ve.Add("build.source_dir", "must not be empty")
	}
	if strings.TrimSpace(c.Build.PublicDir) == "" {
		ve.Add("build.public_dir", "must not be empty")
	}
	if strings.TrimSpace(c.Build.IndexPath) == "" {
		ve.Add("build.index_path", "must not be empty")
	}
	if c.Build.PostLimit <= 0 {
		ve.Add("build.post_limit", "must be positive")
	}

	switch c.Category.Normalize {
	case "", NormalizeNone:
	case NormalizeFold:
	default:
		ve.Add("category.normalize", "must be 'none' or 'fold'")
	}

	if ve.HasAny() {
		return ve
	}
	return nil
}

func isValidAbsURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	return decode(cfg, data)
}

// LoadOrDefault falls back to Default when the file does not exist.
func LoadOrDefault(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, cfg.Validate()
		}
		return cfg, err
	}
	return decode(cfg, data)
}

func decode(cfg Config, data []byte) (Config, error) {
	// 文件中写到的字段覆盖默认值，其他字段保留 Default
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.Build.Now.IsZero() {
		cfg.Build.Now = time.Now()
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Package locale maps canonical post paths and language names onto the
// /kor and /eng URL spaces.
package locale

import (
	"fmt"
	"kblog/internal/domain/content"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"
)

const (
	korPrefix = "/kor"
	engPrefix = "/eng"
)

// Default is the language served at the bare root.
const Default = content.Korean

// Localize returns the public path of canonicalPath for lang. Paths that
// already begin with /kor or /eng are returned unchanged.
func Localize(canonicalPath string, lang content.Language) string {
	if strings.HasPrefix(canonicalPath, korPrefix) || strings.HasPrefix(canonicalPath, engPrefix) {
		return canonicalPath
	}
	return Prefix(lang) + canonicalPath
}

// Prefix is the URL prefix of lang; anything but English maps to /kor.
func Prefix(lang content.Language) string {
	if lang == content.English {
		return engPrefix
	}
	return korPrefix
}

// FromPath detects the language folder of a source file path.
func FromPath(path string) (content.Language, bool) {
	p := "/" + filepath.ToSlash(path)
	switch {
	case strings.Contains(p, "/kor/"):
		return content.Korean, true
	case strings.Contains(p, "/eng/"):
		return content.English, true
	}
	return "", false
}

// Parse accepts "kor"/"eng" as well as BCP 47 tags such as "ko-KR" or "en".
func Parse(raw string) (content.Language, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch content.Language(s) {
	case content.Korean, content.English:
		return content.Language(s), nil
	}
	tag, err := language.Parse(s)
	if err != nil {
		return "", fmt.Errorf("locale: unknown language %q: %w", raw, err)
	}
	base, _ := tag.Base()
	switch base.String() {
	case "ko":
		return content.Korean, nil
	case "en":
		return content.English, nil
	}
	return "", fmt.Errorf("locale: unsupported language %q", raw)
}

// HTMLLang is the value of the <html lang> attribute for lang.
func HTMLLang(lang content.Language) string {
	if lang == content.English {
		return language.AmericanEnglish.String()
	}
	return language.Korean.String()
}

package locale

import (
	"kblog/internal/domain/content"
	"testing"
)

func TestLocalize(t *testing.T) {
	cases := []struct {
		path string
		lang content.Language
		want string
	}{
		{path: "/foo", lang: content.Korean, want: "/kor/foo"},
		{path: "/foo", lang: content.English, want: "/eng/foo"},
		{path: "/kor/foo", lang: content.English, want: "/kor/foo"},
		{path: "/eng/foo", lang: content.Korean, want: "/eng/foo"},
		{path: "/2024/01/rate-cut", lang: content.English, want: "/eng/2024/01/rate-cut"},
		{path: "/foo", lang: "", want: "/kor/foo"},
	}

	for _, tc := range cases {
		if got := Localize(tc.path, tc.lang); got != tc.want {
			t.Fatalf("Localize(%q, %q) = %q, want %q", tc.path, tc.lang, got, tc.want)
		}
	}
}

func TestLocalizeIsIdempotent(t *testing.T) {
	for _, lang := range content.Languages {
		for _, p := range []string{"/a", "/kor/a", "/eng/b/c", "/market/daily"} {
			once := Localize(p, lang)
			if twice := Localize(once, lang); twice != once {
				t.Fatalf("Localize not idempotent for %q/%s: %q then %q", p, lang, once, twice)
			}
		}
	}
}

func TestFromPath(t *testing.T) {
	cases := []struct {
		path string
		want content.Language
		ok   bool
	}{
		{path: "contents/kor/post.md", want: content.Korean, ok: true},
		{path: "contents/eng/2024/post.md", want: content.English, ok: true},
		{path: "contents/drafts/post.md", ok: false},
		{path: "kor/post.md", want: content.Korean, ok: true},
	}

	for _, tc := range cases {
		got, ok := FromPath(tc.path)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("FromPath(%q) = %q, %v, want %q, %v", tc.path, got, ok, tc.want, tc.ok)
		}
	}
}

func TestParse(t *testing.T) {
	cases := []struct {
		input string
		want  content.Language
	}{
		{input: "kor", want: content.Korean},
		{input: "ENG", want: content.English},
		{input: "ko", want: content.Korean},
		{input: "ko-KR", want: content.Korean},
		{input: "en-US", want: content.English},
	}

	for _, tc := range cases {
		got, err := Parse(tc.input)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tc.input, err)
		}
		if got != tc.want {
			t.Fatalf("Parse(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}

	if _, err := Parse("fr"); err == nil {
		t.Fatalf("expected error for unsupported language")
	}
}

package vocab

import (
	"archive/tar"
	"bytes"
	"io"
	"testing"

	"github.com/unfoldingword/twl/core/model"
)

func TestParseHeadwordLine(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"# God, god", []string{"God"}},
		{"Joseph (OT), Joseph", []string{"Joseph", "Joseph"}}, // de-dup is case-insensitive below
		{"grace", []string{"grace"}},
		{"", nil},
	}
	for _, c := range cases {
		got := ParseHeadwordLine(c.in)
		if c.in == "Joseph (OT), Joseph" {
			if len(got) != 1 || got[0] != "Joseph" {
				t.Errorf("ParseHeadwordLine(%q) = %v, want single de-duplicated Joseph", c.in, got)
			}
			continue
		}
		if len(got) != len(c.want) {
			t.Errorf("ParseHeadwordLine(%q) = %v, want %v", c.in, got, c.want)
			continue
		}
	}
}

func TestParseHeadwordLineSortsLongestFirst(t *testing.T) {
	got := ParseHeadwordLine("love, loving kindness, loved")
	if got[0] != "loving kindness" {
		t.Errorf("expected longest term first, got %v", got)
	}
}

func tarball(files map[string]string) func(visit func(h *tar.Header, r io.Reader) (bool, error)) error {
	return func(visit func(h *tar.Header, r io.Reader) (bool, error)) error {
		for name, content := range files {
			h := &tar.Header{Name: name, Typeflag: tar.TypeReg, Size: int64(len(content))}
			stop, err := visit(h, bytes.NewReader([]byte(content)))
			if err != nil {
				return err
			}
			if stop {
				return nil
			}
		}
		return nil
	}
}

func TestLoadFromArchive(t *testing.T) {
	files := map[string]string{
		"repo-v1/bible/kt/god.md":       "God, god\n\nsome body text",
		"repo-v1/bible/names/joseph.md": "Joseph (OT), Joseph (NT)\n",
		"repo-v1/LICENSE.md":            "not a vocabulary entry",
	}
	entries, err := Load(tarball(files))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Load() returned %d entries, want 2: %+v", len(entries), entries)
	}
	god, ok := entries[model.Article("kt/god")]
	if !ok {
		t.Fatalf("missing kt/god entry")
	}
	if len(god.Terms) != 1 || god.Terms[0] != "God" {
		t.Errorf("kt/god terms = %v", god.Terms)
	}
	joseph, ok := entries[model.Article("names/joseph")]
	if !ok || len(joseph.Terms) != 1 || joseph.Terms[0] != "Joseph" {
		t.Errorf("names/joseph terms = %+v", joseph)
	}
}

func TestSortedArticlesDeterministic(t *testing.T) {
	entries := map[model.Article]*model.VocabEntry{
		"other/z": {}, "kt/a": {}, "names/m": {},
	}
	got := SortedArticles(entries)
	want := []model.Article{"kt/a", "names/m", "other/z"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("SortedArticles = %v, want %v", got, want)
		}
	}
}

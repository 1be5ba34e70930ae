// Package vocab implements §4.A of the translation-words-links pipeline:
// parsing the vocabulary archive's "bible/<category>/<slug>.md" tree into
// per-article headword lists.
package vocab

import (
	"archive/tar"
	"bufio"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/unfoldingword/twl/core/errors"
	"github.com/unfoldingword/twl/core/model"
)

// entryPath matches "bible/<category>/<slug>.md" within the archive tree,
// tolerating a leading repository-name directory (tar archives of GitHub
// releases nest everything under "<repo>-<ref>/").
var entryPath = regexp.MustCompile(`bible/(kt|names|other)/([a-z0-9][a-z0-9-]*)\.md$`)

// parenthetical strips a trailing qualifier like " (OT)" from a headword.
var parenthetical = regexp.MustCompile(`\s*\([^()]*\)\s*$`)

// Iterator walks archive entries, the same shape as archive.Reader.Iterate's
// Visitor callback, so this package has no hard dependency on internal/archive.
type Iterator func(visit func(header *tar.Header, content io.Reader) (stop bool, err error)) error

// Load parses every "bible/<category>/<slug>.md" entry the iterator yields
// into a map of article path to vocabulary entry. Only the first line of
// each file is read. Entries with an empty headword list are retained,
// since they still participate in disambiguation (§4.F step 6).
func Load(iterate Iterator) (map[model.Article]*model.VocabEntry, error) {
	entries := make(map[model.Article]*model.VocabEntry)
	err := iterate(func(header *tar.Header, content io.Reader) (bool, error) {
		if header.Typeflag != tar.TypeReg {
			return false, nil
		}
		m := entryPath.FindStringSubmatch(header.Name)
		if m == nil {
			return false, nil
		}
		category, slug := m[1], m[2]
		firstLine, err := readFirstLine(content)
		if err != nil {
			return false, errors.NewParse("vocabulary-entry", header.Name, err.Error())
		}
		article := model.Article(category + "/" + slug)
		entries[article] = &model.VocabEntry{
			Article: article,
			Terms:   ParseHeadwordLine(firstLine),
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func readFirstLine(r io.Reader) (string, error) {
	br := bufio.NewReader(r)
	line, err := br.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ParseHeadwordLine parses a vocabulary file's first line into its ordered,
// de-duplicated, longest-first term list. The line is a comma-separated
// list of headwords, optionally prefixed with "#" (a markdown heading
// marker) and individually carrying a trailing parenthetical qualifier
// such as "Joseph (OT)", which is stripped before insertion.
func ParseHeadwordLine(line string) []string {
	line = strings.TrimSpace(line)
	line = strings.TrimPrefix(line, "#")
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	type candidate struct {
		term string
		pos  int
	}
	var ordered []candidate
	seen := make(map[string]bool)
	for i, raw := range strings.Split(line, ",") {
		term := strings.TrimSpace(raw)
		term = parenthetical.ReplaceAllString(term, "")
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		key := strings.ToLower(term)
		if seen[key] {
			continue
		}
		seen[key] = true
		ordered = append(ordered, candidate{term: term, pos: i})
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		return len(ordered[i].term) > len(ordered[j].term)
	})

	terms := make([]string, len(ordered))
	for i, c := range ordered {
		terms[i] = c.term
	}
	return terms
}

// SortedArticles returns the map's keys sorted lexicographically, the
// deterministic iteration order used for every downstream index.
func SortedArticles(entries map[model.Article]*model.VocabEntry) []model.Article {
	out := make([]model.Article, 0, len(entries))
	for a := range entries {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

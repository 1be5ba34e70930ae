// Package trie implements §4.E of the translation-words-links pipeline: a
// case-insensitive, word-boundary-aware prefix trie over a morphologically
// expanded term dictionary, with hyphen and apostrophe span extension.
package trie

import (
	"sort"
	"unicode"

	"github.com/unfoldingword/twl/core/model"
)

type entry struct {
	term     string
	articles []model.Article
	priority model.Priority
}

type node struct {
	children map[rune]*node
	entries  []entry
}

func newNode() *node {
	return &node{children: make(map[rune]*node)}
}

// Trie is a lowercased, character-keyed prefix trie of vocabulary
// headwords and their morphological variants.
type Trie struct {
	root *node
}

// New returns an empty trie.
func New() *Trie {
	return &Trie{root: newNode()}
}

// Insert registers key (any casing; it is lowercased) as matching term,
// evidencing articles, at the given priority. Multiple inserts under the
// same lowercased key accumulate entries rather than overwrite.
func (t *Trie) Insert(key, term string, articles []model.Article, priority model.Priority) {
	n := t.root
	for _, r := range []rune(key) {
		r = unicode.ToLower(r)
		child, ok := n.children[r]
		if !ok {
			child = newNode()
			n.children[r] = child
		}
		n = child
	}
	n.entries = append(n.entries, entry{term: term, articles: articles, priority: priority})
}

// Match is one scan hit: the matched span (possibly hyphen/apostrophe
// extended) and the candidate articles/term it evidences.
type Match = model.MatchResult

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isHyphen(r rune) bool {
	return r == '-'
}

func isApostrophe(r rune) bool {
	return r == '\'' || r == '’' || r == '‘'
}

func isBoundary(runes []rune, i int) bool {
	if i <= 0 || i >= len(runes) {
		return true
	}
	left, right := runes[i-1], runes[i]
	if !isWordRune(left) || !isWordRune(right) {
		return true
	}
	return false
}

// rawMatch is one trie hit before extension: the unextended [start,end)
// rune span.
type rawMatch struct {
	start, end int
	entries    []entry
}

// scanFrom walks the trie starting at runes[start], recording every node
// along the way that carries terminal entries.
func (t *Trie) scanFrom(runes []rune, start int) []rawMatch {
	var out []rawMatch
	n := t.root
	for i := start; i < len(runes); i++ {
		r := unicode.ToLower(runes[i])
		child, ok := n.children[r]
		if !ok {
			break
		}
		n = child
		if len(n.entries) > 0 {
			out = append(out, rawMatch{start: start, end: i + 1, entries: n.entries})
		}
	}
	return out
}

// extend computes the hyphen/apostrophe-extended [start,end) span for a
// raw match, per §4.E.2.
func extend(runes []rune, start, end int) (extStart, extEnd int) {
	extStart = start
	if extStart > 0 && (isHyphen(runes[extStart-1]) || isApostrophe(runes[extStart-1])) &&
		extStart-1 > 0 && isWordRune(runes[extStart-2]) {
		extStart--
		for extStart > 0 && isWordRune(runes[extStart-1]) {
			extStart--
		}
	}

	extEnd = end
	if extEnd < len(runes) {
		if isHyphen(runes[extEnd]) {
			j := extEnd + 1
			for j < len(runes) && isWordRune(runes[j]) {
				j++
			}
			if j > extEnd+1 {
				extEnd = j
			}
		} else if isApostrophe(runes[extEnd]) {
			j := extEnd + 1
			for j < len(runes) && isWordRune(runes[j]) {
				j++
			}
			extEnd = j
		}
	}
	return extStart, extEnd
}

// Scan finds every word-boundary-respecting match in text, case
// insensitively, extending spans across hyphens and apostrophes. Results
// are sorted by extended length descending, then by priority ascending
// (original headwords before morphological variants).
func (t *Trie) Scan(text string) []Match {
	runes := []rune(text)
	var matches []Match
	for i := 0; i < len(runes); i++ {
		for _, raw := range t.scanFrom(runes, i) {
			extStart, extEnd := extend(runes, raw.start, raw.end)
			if !isBoundary(runes, extStart) || !isBoundary(runes, extEnd) {
				continue
			}
			matched := string(runes[extStart:extEnd])
			for _, e := range raw.entries {
				matches = append(matches, Match{
					Term:           e.term,
					Articles:       e.articles,
					MatchedText:    matched,
					OriginalLength: raw.end - raw.start,
					ExtendedLength: extEnd - extStart,
					Priority:       e.priority,
				})
			}
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].ExtendedLength != matches[j].ExtendedLength {
			return matches[i].ExtendedLength > matches[j].ExtendedLength
		}
		return matches[i].Priority < matches[j].Priority
	})
	return matches
}

// ScanAt returns the sorted matches whose (rune-indexed) start position in
// text equals start, i.e. the candidates the §4.G scanner chooses among
// when resuming from a given position. text must be the same string
// passed to a conceptual full Scan; this re-walks only from start.
func (t *Trie) ScanAt(text string, start int) []Match {
	runes := []rune(text)
	if start < 0 || start >= len(runes) {
		return nil
	}
	var matches []Match
	for _, raw := range t.scanFrom(runes, start) {
		extStart, extEnd := extend(runes, raw.start, raw.end)
		if !isBoundary(runes, extStart) || !isBoundary(runes, extEnd) {
			continue
		}
		matched := string(runes[extStart:extEnd])
		for _, e := range raw.entries {
			matches = append(matches, Match{
				Term:           e.term,
				Articles:       e.articles,
				MatchedText:    matched,
				OriginalLength: raw.end - raw.start,
				ExtendedLength: extEnd - extStart,
				Priority:       e.priority,
			})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].ExtendedLength != matches[j].ExtendedLength {
			return matches[i].ExtendedLength > matches[j].ExtendedLength
		}
		return matches[i].Priority < matches[j].Priority
	})
	return matches
}

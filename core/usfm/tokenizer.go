// Package usfm implements §4.C of the translation-words-links pipeline: a
// light two-pass USFM tokenizer. One pass extracts word tokens carrying
// their chapter/verse position and Strong's attributions (for the
// Strong's-first pipeline); the other strips alignment and structural
// markup down to clean verse text (for the English-first pipeline).
package usfm

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/unfoldingword/twl/core/model"
)

// markerRe recognizes the three markers the tokenizer cares about: \c N,
// \v N, and a \w...\w* word-attribute span.
var markerRe = regexp.MustCompile(`(?s)\\c\s+(\d+)|\\v\s+(\d+)|\\w\s+(.*?)\|(.*?)\\w\*`)

// Tokenize walks usfm in document order, yielding one Token per \w span.
// A token's Strong's-id list holds only values matching the Strong's
// identifier grammar, normalized via model.ParseStrongID; an attribute
// with no recognizable Strong's ids yields an empty (not missing) list.
// Tokens encountered before the first \c/\v marker are dropped.
func Tokenize(usfm string) []model.Token {
	var tokens []model.Token
	chapter, verse := 0, 0
	haveChapter, haveVerse := false, false

	for _, m := range markerRe.FindAllStringSubmatch(usfm, -1) {
		switch {
		case m[1] != "":
			chapter, _ = strconv.Atoi(m[1])
			haveChapter = true
			haveVerse = false
		case m[2] != "":
			verse, _ = strconv.Atoi(m[2])
			haveVerse = true
		case m[3] != "" || m[4] != "":
			if !haveChapter || !haveVerse {
				continue
			}
			surface := m[3]
			attrs := parseAttrs(m[4])
			var ids []model.StrongID
			for _, raw := range strongsFromAttrs(attrs) {
				id, err := model.ParseStrongID(raw)
				if err != nil {
					continue
				}
				ids = append(ids, id)
			}
			tokens = append(tokens, model.Token{
				Chapter:   chapter,
				Verse:     verse,
				Surface:   surface,
				StrongIDs: ids,
			})
		}
	}
	return tokens
}

// VerseText pairs a chapter:verse location with its clean rendered text.
type VerseText struct {
	Chapter int
	Verse   int
	Text    string
}

// verseSplitRe splits clean text on \c N / \v N markers left in place by
// CleanText's final passes (it re-introduces a leading newline before each
// one, per step 6 of §4.C).
var verseSplitRe = regexp.MustCompile(`\\([cv])\s*(\d+)`)

// Verses extracts clean per-verse text from usfm: CleanText followed by a
// split on the \c/\v markers it preserves.
func Verses(usfm string) []VerseText {
	clean := CleanText(usfm)
	locs := verseSplitRe.FindAllStringSubmatchIndex(clean, -1)

	var out []VerseText
	chapter := 0
	for i, loc := range locs {
		marker := clean[loc[2]:loc[3]]
		num, _ := strconv.Atoi(clean[loc[4]:loc[5]])
		bodyStart := loc[1]
		bodyEnd := len(clean)
		if i+1 < len(locs) {
			bodyEnd = locs[i+1][0]
		}
		body := strings.TrimSpace(collapseSpaces(clean[bodyStart:bodyEnd]))

		if marker == "c" {
			chapter = num
			continue
		}
		if body == "" {
			continue
		}
		out = append(out, VerseText{Chapter: chapter, Verse: num, Text: body})
	}
	return out
}

var spaceRunRe = regexp.MustCompile(`[ \t]+`)

func collapseSpaces(s string) string {
	return spaceRunRe.ReplaceAllString(s, " ")
}

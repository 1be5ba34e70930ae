package model

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/unfoldingword/twl/core/errors"
)

// strongRe matches a Strong's identifier: H or G, one or more digits, an
// optional lowercase homograph-disambiguator letter.
var strongRe = regexp.MustCompile(`^[HG][0-9]+[a-f]?$`)

// articleRe matches a vocabulary article path: category/slug.
var articleRe = regexp.MustCompile(`^(kt|names|other)/[a-z0-9]+(?:-[a-z0-9]+)*$`)

// StrongID is a Strong's-number identifier such as "H1254" or "G2424a".
type StrongID string

// Valid reports whether id matches the Strong's identifier grammar.
func (id StrongID) Valid() bool {
	return strongRe.MatchString(string(id))
}

// Base strips the trailing homograph letter, if any.
func (id StrongID) Base() StrongID {
	s := string(id)
	if n := len(s); n > 0 {
		last := s[n-1]
		if last >= 'a' && last <= 'f' {
			return StrongID(s[:n-1])
		}
	}
	return id
}

// Language reports "H" (Hebrew) or "G" (Greek) for a valid id.
func (id StrongID) Language() string {
	if len(id) == 0 {
		return ""
	}
	return string(id[0])
}

// ParseStrongID validates and normalizes a raw Strong's attribute value:
// uppercase the leading letter, keep digits, lowercase any trailing
// homograph letter.
func ParseStrongID(raw string) (StrongID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.NewValidation("strong-id", "empty")
	}
	letter := strings.ToUpper(raw[:1])
	rest := raw[1:]
	var digits, suffix strings.Builder
	for _, r := range rest {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
			continue
		}
		suffix.WriteRune(r)
	}
	normalized := letter + digits.String() + strings.ToLower(suffix.String())
	id := StrongID(normalized)
	if !id.Valid() {
		return "", errors.NewValidation("strong-id", fmt.Sprintf("malformed strong id %q", raw))
	}
	return id, nil
}

// Article is a controlled-vocabulary entry path: "category/slug".
type Article string

// ParseArticle validates an article path.
func ParseArticle(path string) (Article, error) {
	if !articleRe.MatchString(path) {
		return "", errors.NewValidation("article", fmt.Sprintf("malformed article path %q", path))
	}
	return Article(path), nil
}

// Category returns the leading path segment: "kt", "names", or "other".
func (a Article) Category() string {
	i := strings.IndexByte(string(a), '/')
	if i < 0 {
		return ""
	}
	return string(a)[:i]
}

// Slug returns the trailing path segment.
func (a Article) Slug() string {
	i := strings.IndexByte(string(a), '/')
	if i < 0 {
		return string(a)
	}
	return string(a)[i+1:]
}

// Tag returns the output Tags column value for the article's category.
func (a Article) Tag() string {
	switch a.Category() {
	case "kt":
		return "keyterm"
	case "names":
		return "name"
	default:
		return ""
	}
}

// TWLink formats the article as a translationWords resource-container link.
func (a Article) TWLink() string {
	return "rc://*/tw/dict/bible/" + string(a)
}

// VocabEntry holds one article's term list and Strong's-sequence evidence.
type VocabEntry struct {
	Article         Article
	Terms           []string     // longest-first, case-insensitively de-duplicated
	StrongSequences [][]StrongID // each inner slice is one lemma sequence
}

// Token is one word extracted from USFM: its position and Strong's
// attributions, if any.
type Token struct {
	Chapter   int
	Verse     int
	Surface   string
	StrongIDs []StrongID
}

// Priority distinguishes an original headword match from a morphological
// variant match in trie results.
type Priority int

const (
	// PriorityOriginal marks a match against a vocabulary headword itself.
	PriorityOriginal Priority = 0
	// PriorityVariant marks a match against a generated morphological form.
	PriorityVariant Priority = 1
)

// MatchResult is one candidate produced by a trie scan.
type MatchResult struct {
	Term           string
	Articles       []Article
	MatchedText    string
	OriginalLength int
	ExtendedLength int
	Priority       Priority
}

// Row is one output line: the translation-words-link TSV schema.
type Row struct {
	Reference      string
	ID             string
	Tags           string
	OrigWords      string
	Occurrence     int
	TWLink         string
	GLQuote        string
	GLOccurrence   int
	VariantOf      string
	Disambiguation string
}

// Header is the output TSV header row, in column order.
var Header = []string{
	"Reference", "ID", "Tags", "OrigWords", "Occurrence", "TWLink",
	"GLQuote", "GLOccurrence", "Variant of", "Disambiguation",
}

// Fields returns the row's values in header-matching order.
func (r Row) Fields() []string {
	return []string{
		r.Reference,
		r.ID,
		r.Tags,
		r.OrigWords,
		strconv.Itoa(r.Occurrence),
		r.TWLink,
		r.GLQuote,
		strconv.Itoa(r.GLOccurrence),
		r.VariantOf,
		r.Disambiguation,
	}
}

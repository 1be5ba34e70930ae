// Package selector implements §4.F of the translation-words-links
// pipeline: the four-stage candidate-article matcher that combines a
// Strong's-number prior with English-surface evidence to choose one
// vocabulary article for a token, plus the disambiguation-set and
// variant-flag computations that ride along with it.
package selector

import (
	"regexp"
	"sort"
	"strings"

	"github.com/unfoldingword/twl/core/model"
	"github.com/unfoldingword/twl/core/morph"
	"github.com/unfoldingword/twl/core/strongs"
)

// Stage identifies which of the four match tests first evidenced an
// article (§4.F step 3). StageNone means no test matched.
type Stage int

const (
	StageNone Stage = iota
	StageExact
	StageExactCI
	StagePrefixBoundary
	StageStrippedCI
)

// Decision is the outcome of Choose for one (glq, sid) pair.
type Decision struct {
	Article        model.Article
	Stage          Stage
	MatchedTerm    string
	Variant        bool
	Disambiguation []model.Article
}

// Vocabulary is the article-term lookup Choose needs, built by core/vocab
// plus core/strongs.Build.
type Vocabulary map[model.Article]*model.VocabEntry

// Choose runs the full §4.F algorithm for one English phrase / Strong's id
// pair. ok is false when the Strong's id has no candidate articles at all
// (step 1 returns empty).
func Choose(glq string, sid model.StrongID, pivot *strongs.Pivot, vocab Vocabulary) (Decision, bool) {
	candidates := pivot.Lookup(sid)
	if len(candidates) == 0 {
		return Decision{}, false
	}

	prioritized := prioritize(candidates, glq)

	var best *matchAt
	for i, article := range prioritized {
		entry := vocab[article]
		if entry == nil {
			continue
		}
		isName := article.Category() == "names"
		if stage, term := bestStage(entry.Terms, glq, isName); stage != StageNone {
			if best == nil || stage < best.stage || (stage == best.stage && i < best.index) {
				best = &matchAt{article: article, stage: stage, term: term, index: i}
			}
		}
	}

	disambiguation := disambiguationSet(candidates, vocab, glq)

	if best == nil {
		return Decision{Disambiguation: disambiguation}, true
	}

	variant := best.stage >= StagePrefixBoundary
	if variant && suppressVariant(vocab[best.article], best.term, glq) {
		variant = false
	}

	return Decision{
		Article:        best.article,
		Stage:          best.stage,
		MatchedTerm:    best.term,
		Variant:        variant,
		Disambiguation: disambiguation,
	}, true
}

type matchAt struct {
	article model.Article
	stage   Stage
	term    string
	index   int
}

// prioritize implements §4.F step 2: tier 1 is every candidate whose slug
// is a case-insensitive substring of glq, longest slug first; tier 2 is
// the rest, grouped kt -> names -> other, alphabetical by slug within each
// group.
func prioritize(candidates []model.Article, glq string) []model.Article {
	lowerGlq := strings.ToLower(glq)

	sorted := append([]model.Article(nil), candidates...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var tier1, tier2 []model.Article
	for _, a := range sorted {
		if strings.Contains(lowerGlq, strings.ToLower(a.Slug())) {
			tier1 = append(tier1, a)
		} else {
			tier2 = append(tier2, a)
		}
	}
	sort.SliceStable(tier1, func(i, j int) bool {
		return len(tier1[i].Slug()) > len(tier1[j].Slug())
	})

	order := map[string]int{"kt": 0, "names": 1, "other": 2}
	sort.SliceStable(tier2, func(i, j int) bool {
		ci, cj := order[tier2[i].Category()], order[tier2[j].Category()]
		if ci != cj {
			return ci < cj
		}
		return tier2[i].Slug() < tier2[j].Slug()
	})

	return append(tier1, tier2...)
}

// bestStage finds the earliest stage at which any of terms (or its
// morphological alternates) matches glq.
func bestStage(terms []string, glq string, isName bool) (Stage, string) {
	for _, term := range terms {
		if matchExact(term, glq, true) {
			return StageExact, term
		}
		for _, alt := range stage12Alternates(term, isName) {
			if matchExact(alt, glq, true) {
				return StageExact, term
			}
		}
	}
	for _, term := range terms {
		if matchExact(term, glq, false) {
			return StageExactCI, term
		}
		for _, alt := range stage12Alternates(term, isName) {
			if matchExact(alt, glq, false) {
				return StageExactCI, term
			}
		}
	}
	for _, term := range terms {
		if matchPrefixBoundary(term, glq) {
			return StagePrefixBoundary, term
		}
	}
	for _, term := range terms {
		if matchStrippedCI(term, glq, false) {
			return StageStrippedCI, term
		}
		for _, alt := range stage12Alternates(term, isName) {
			if matchStrippedCI(alt, glq, true) {
				return StageStrippedCI, term
			}
		}
	}
	return StageNone, ""
}

// stage12Alternates returns the plural, depluralized, and irregular-verb
// alternates of term used by stages 1-2 (and, restricted to the y/e-drop
// rules, stage 4).
func stage12Alternates(term string, isName bool) []string {
	var alts []string
	if !isName {
		alts = append(alts, morph.Pluralize(term)...)
		alts = append(alts, morph.Depluralize(term)...)
	}
	last := term
	if i := strings.LastIndexAny(term, " \t"); i >= 0 {
		last = term[i+1:]
	}
	if forms := morph.IrregularForms(last); forms != nil {
		for _, f := range forms {
			if i := strings.LastIndexAny(term, " \t"); i >= 0 {
				alts = append(alts, term[:i+1]+f)
			} else {
				alts = append(alts, f)
			}
		}
	}
	return alts
}

func wordBoundaryPattern(term string) string {
	return `\b` + regexp.QuoteMeta(term) + `\b`
}

func matchExact(term, glq string, caseSensitive bool) bool {
	pattern := wordBoundaryPattern(term)
	if !caseSensitive {
		pattern = `(?i)` + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false
	}
	return re.MatchString(glq)
}

// matchPrefixBoundary implements stage 3: a case-sensitive prefix match
// anchored to a word or dash start.
func matchPrefixBoundary(term, glq string) bool {
	pattern := `(?:^|\b|[—–-])` + regexp.QuoteMeta(term)
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false
	}
	return re.MatchString(glq)
}

// stripRule is one stage-4 strip rule, applied in the fixed order
// documented in DESIGN.md (the spec leaves strip order unspecified).
type stripRule struct {
	suffix  string
	extra   func(term string) bool // extra eligibility check beyond the suffix
	replace func(term string) string
}

var stripRules = []stripRule{
	{suffix: "y", extra: func(string) bool { return true }, replace: func(t string) string { return t[:len(t)-1] }},
	{suffix: "es", extra: func(t string) bool {
		base := t[:len(t)-2]
		return hasSibilantEnding(base)
	}, replace: func(t string) string { return t[:len(t)-2] }},
	{suffix: "s", extra: func(t string) bool { return !strings.HasSuffix(t, "ss") }, replace: func(t string) string { return t[:len(t)-1] }},
	{suffix: "e", extra: func(string) bool { return true }, replace: func(t string) string { return t[:len(t)-1] }},
	{suffix: "ed", extra: func(string) bool { return true }, replace: func(t string) string { return t[:len(t)-2] }},
	{suffix: "ing", extra: func(string) bool { return true }, replace: func(t string) string { return t[:len(t)-3] }},
}

func hasSibilantEnding(base string) bool {
	for _, suf := range []string{"s", "x", "z", "ch", "sh"} {
		if strings.HasSuffix(base, suf) {
			return true
		}
	}
	return false
}

// yeOnlyRules restricts stage-4 stripping to the y/e-drop rules for
// conjugation and irregular-verb alternates, per §4.F step 3's table.
var yeOnlyRules = []stripRule{stripRules[0], stripRules[3]}

var suffixEndingRe = regexp.MustCompile(`(?i)(ed|ing|er|est|es|ies|s|d|n|t)\b`)

// matchStrippedCI implements stage 4: drop a rule-eligible suffix from
// term to get a stem, then check whether glq contains that stem
// immediately followed by one of the closed set of endings.
func matchStrippedCI(term, glq string, yeOnly bool) bool {
	lower := strings.ToLower(term)
	rules := stripRules
	if yeOnly {
		rules = yeOnlyRules
	}
	lowerGlq := strings.ToLower(glq)
	for _, rule := range rules {
		if !strings.HasSuffix(lower, rule.suffix) {
			continue
		}
		if !rule.extra(lower) {
			continue
		}
		stem := rule.replace(lower)
		if stem == "" {
			continue
		}
		pattern := `\b` + regexp.QuoteMeta(stem) + `(?:ed|ing|er|est|es|ies|s|d|n|t)\b`
		re, err := regexp.Compile(pattern)
		if err != nil {
			continue
		}
		if re.MatchString(lowerGlq) {
			return true
		}
	}
	return false
}

// suppressVariant implements §4.F step 5's suppression rule: a
// stage>=3 match is not flagged as a variant if any of the article's
// terms (case-insensitively), any plural of a term, or any -ing/-ed or
// irregular form of the matched term word-bound-matches glq.
func suppressVariant(entry *model.VocabEntry, matched, glq string) bool {
	if entry == nil {
		return false
	}
	for _, term := range entry.Terms {
		if matchExact(term, glq, false) {
			return true
		}
		for _, p := range morph.Pluralize(term) {
			if matchExact(p, glq, false) {
				return true
			}
		}
	}
	forms := append(morph.PresentParticiple(matched), morph.PastTense(matched)...)
	last := matched
	if i := strings.LastIndexAny(matched, " \t"); i >= 0 {
		last = matched[i+1:]
	}
	forms = append(forms, morph.IrregularForms(last)...)
	for _, f := range forms {
		if matchExact(f, glq, false) {
			return true
		}
	}
	return false
}

// disambiguationSet implements §4.F step 6: the union of the Strong's
// prior's candidates and every article with no (or entirely empty)
// Strong's-sequence evidence, re-matched against glq; returned sorted
// lexicographically when more than one article matches.
func disambiguationSet(priorCandidates []model.Article, vocab Vocabulary, glq string) []model.Article {
	seen := make(map[model.Article]bool)
	var enlarged []model.Article
	for _, a := range priorCandidates {
		if !seen[a] {
			seen[a] = true
			enlarged = append(enlarged, a)
		}
	}
	for a, entry := range vocab {
		if seen[a] {
			continue
		}
		if allEmpty(entry.StrongSequences) {
			seen[a] = true
			enlarged = append(enlarged, a)
		}
	}

	var matched []model.Article
	for _, a := range enlarged {
		entry := vocab[a]
		if entry == nil {
			continue
		}
		isName := a.Category() == "names"
		if stage, _ := bestStage(entry.Terms, glq, isName); stage != StageNone {
			matched = append(matched, a)
		}
	}
	if len(matched) <= 1 {
		return nil
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i] < matched[j] })
	return matched
}

func allEmpty(seqs [][]model.StrongID) bool {
	if len(seqs) == 0 {
		return true
	}
	for _, s := range seqs {
		if len(s) > 0 {
			return false
		}
	}
	return true
}

// FormatDisambiguation renders a disambiguation set as "(art1, art2, ...)",
// or "" when empty.
func FormatDisambiguation(articles []model.Article) string {
	if len(articles) == 0 {
		return ""
	}
	parts := make([]string, len(articles))
	for i, a := range articles {
		parts[i] = string(a)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Package morph generates English inflectional variants of a vocabulary
// headword: plurals, past tense, present participle, and a closed table of
// irregular verb forms. Every function here is pure and deterministic;
// nothing here touches I/O or vocabulary state — that's core/vocab and
// core/trie's job.
package morph

import (
	"strings"
	"unicode"
)

// irregularPlurals maps a singular noun to its irregular plural.
var irregularPlurals = map[string]string{
	"man":    "men",
	"woman":  "women",
	"person": "people",
	"child":  "children",
	"foot":   "feet",
	"tooth":  "teeth",
	"goose":  "geese",
	"mouse":  "mice",
	"ox":     "oxen",
}

var irregularSingulars = reverseOf(irregularPlurals)

func reverseOf(m map[string]string) map[string]string {
	r := make(map[string]string, len(m))
	for k, v := range m {
		r[v] = k
	}
	return r
}

// noRoofFamily lists -f nouns that pluralize with a plain "+s" instead of
// the "f -> ves" rule (roof, belief, chief, proof). Only these exact words
// are listed; compounds of them are not.
var noRoofFamily = map[string]bool{
	"roof": true, "belief": true, "chief": true, "proof": true,
}

// nounAllowList holds words that look verb-shaped under naive -ed/-ing
// suffixing but, in the names vocabulary, are never verbs (e.g. "well"
// should never produce "welled"). InNounAllowList checks the word both as
// given and lowercased, so capitalized headwords are covered too.
var nounAllowList = map[string]bool{
	"horn": true, "mare": true, "steed": true, "horse": true, "doe": true,
	"deer": true, "father": true, "Father": true, "cross": true, "well": true,
}

// irregularVerbs maps a base verb to its full closed form set, including
// the base itself.
var irregularVerbs = map[string][]string{
	"be":       {"am", "is", "are", "was", "were", "been", "being", "be"},
	"have":     {"has", "had", "having", "have"},
	"do":       {"does", "did", "done", "doing", "do"},
	"go":       {"goes", "went", "gone", "going", "go"},
	"say":      {"says", "said", "saying", "say"},
	"get":      {"gets", "got", "gotten", "getting", "get"},
	"make":     {"makes", "made", "making", "make"},
	"know":     {"knows", "knew", "known", "knowing", "know"},
	"think":    {"thinks", "thought", "thinking", "think"},
	"take":     {"takes", "took", "taken", "taking", "take"},
	"see":      {"sees", "saw", "seen", "seeing", "see"},
	"come":     {"comes", "came", "coming", "come"},
	"give":     {"gives", "gave", "given", "giving", "give"},
	"find":     {"finds", "found", "finding", "find"},
	"tell":     {"tells", "told", "telling", "tell"},
	"become":   {"becomes", "became", "become", "becoming"},
	"leave":    {"leaves", "left", "leaving", "leave"},
	"feel":     {"feels", "felt", "feeling", "feel"},
	"bring":    {"brings", "brought", "bringing", "bring"},
	"begin":    {"begins", "began", "begun", "beginning", "begin"},
	"keep":     {"keeps", "kept", "keeping", "keep"},
	"hold":     {"holds", "held", "holding", "hold"},
	"write":    {"writes", "wrote", "written", "writing", "write"},
	"stand":    {"stands", "stood", "standing", "stand"},
	"hear":     {"hears", "heard", "hearing", "hear"},
	"let":      {"lets", "letting", "let"},
	"mean":     {"means", "meant", "meaning", "mean"},
	"set":      {"sets", "setting", "set"},
	"meet":     {"meets", "met", "meeting", "meet"},
	"pay":      {"pays", "paid", "paying", "pay"},
	"run":      {"runs", "ran", "running", "run"},
	"sit":      {"sits", "sat", "sitting", "sit"},
	"speak":    {"speaks", "spoke", "spoken", "speaking", "speak"},
	"lie":      {"lies", "lay", "lain", "lying", "lie"},
	"lead":     {"leads", "led", "leading", "lead"},
	"read":     {"reads", "reading", "read"},
	"grow":     {"grows", "grew", "grown", "growing", "grow"},
	"lose":     {"loses", "lost", "losing", "lose"},
	"fall":     {"falls", "fell", "fallen", "falling", "fall"},
	"send":     {"sends", "sent", "sending", "send"},
	"build":    {"builds", "built", "building", "build"},
	"understand": {"understands", "understood", "understanding", "understand"},
	"draw":     {"draws", "drew", "drawn", "drawing", "draw"},
	"break":    {"breaks", "broke", "broken", "breaking", "break"},
	"spend":    {"spends", "spent", "spending", "spend"},
	"cut":      {"cuts", "cutting", "cut"},
	"rise":     {"rises", "rose", "risen", "rising", "rise"},
	"drive":    {"drives", "drove", "driven", "driving", "drive"},
	"buy":      {"buys", "bought", "buying", "buy"},
	"wear":     {"wears", "wore", "worn", "wearing", "wear"},
	"choose":   {"chooses", "chose", "chosen", "choosing", "choose"},
	"seek":     {"seeks", "sought", "seeking", "seek"},
	"throw":    {"throws", "threw", "thrown", "throwing", "throw"},
	"teach":    {"teaches", "taught", "teaching", "teach"},
	"forgive":  {"forgives", "forgave", "forgiven", "forgiving", "forgive"},
	"shine":    {"shines", "shone", "shining", "shine"},
	"swear":    {"swears", "swore", "sworn", "swearing", "swear"},
	"weep":     {"weeps", "wept", "weeping", "weep"},
	"flee":     {"flees", "fled", "fleeing", "flee"},
	"eat":      {"eats", "ate", "eaten", "eating", "eat"},
	"fight":    {"fights", "fought", "fighting", "fight"},
	"feed":     {"feeds", "fed", "feeding", "feed"},
}

var irregularVerbFormToBase = buildReverseVerbIndex()

func buildReverseVerbIndex() map[string]string {
	idx := make(map[string]string)
	for base, forms := range irregularVerbs {
		for _, f := range forms {
			idx[f] = base
		}
	}
	return idx
}

// splitHead returns everything up to the final whitespace-separated token,
// and that final token, so rules only ever touch the last word of a
// multi-word headword.
func splitHead(phrase string) (head, last string) {
	phrase = strings.TrimSpace(phrase)
	i := strings.LastIndexAny(phrase, " \t")
	if i < 0 {
		return "", phrase
	}
	return phrase[:i+1], phrase[i+1:]
}

func rejoin(head, last string) string {
	if head == "" {
		return last
	}
	return head + last
}

func isVowel(b byte) bool {
	switch b {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}

// Pluralize returns the candidate plural forms of the last word of term,
// per the closed rule set in the specification. The plain "+s" fallback
// is always included alongside any rule-derived form.
func Pluralize(term string) []string {
	head, last := splitHead(term)
	lower := strings.ToLower(last)
	var forms []string
	add := func(s string) {
		forms = append(forms, rejoin(head, s))
	}

	if irr, ok := irregularPlurals[lower]; ok {
		add(matchCase(last, irr))
	}

	n := len(lower)
	switch {
	case n >= 2 && lower[n-1] == 'y' && !isVowel(lower[n-2]):
		add(matchCase(last, lower[:n-1]+"ies"))
	case strings.HasSuffix(lower, "s") || strings.HasSuffix(lower, "x") ||
		strings.HasSuffix(lower, "z") || strings.HasSuffix(lower, "ch") ||
		strings.HasSuffix(lower, "sh"):
		add(matchCase(last, lower+"es"))
	case strings.HasSuffix(lower, "fe"):
		add(matchCase(last, lower[:n-2]+"ves"))
	case strings.HasSuffix(lower, "f") && !noRoofFamily[lower]:
		add(matchCase(last, lower[:n-1]+"ves"))
	case n >= 2 && lower[n-1] == 'o' && !isVowel(lower[n-2]):
		add(matchCase(last, lower+"es"))
	}

	add(lower + "s")
	return dedup(forms)
}

// Depluralize returns candidate singular forms of the last word of term.
func Depluralize(term string) []string {
	head, last := splitHead(term)
	lower := strings.ToLower(last)
	var forms []string
	add := func(s string) {
		forms = append(forms, rejoin(head, s))
	}

	if sing, ok := irregularSingulars[lower]; ok {
		add(matchCase(last, sing))
	}

	n := len(lower)
	switch {
	case strings.HasSuffix(lower, "ies") && n > 3:
		add(matchCase(last, lower[:n-3]+"y"))
	case (strings.HasSuffix(lower, "ses") || strings.HasSuffix(lower, "xes") ||
		strings.HasSuffix(lower, "zes") || strings.HasSuffix(lower, "ches") ||
		strings.HasSuffix(lower, "shes")) && n > 2:
		add(matchCase(last, lower[:n-2]))
	case strings.HasSuffix(lower, "ss"):
		// "ss" never drops a trailing "s".
	case strings.HasSuffix(lower, "s") && n > 1:
		add(matchCase(last, lower[:n-1]))
	}

	return dedup(forms)
}

// PastTense returns the candidate simple-past forms of the last word.
func PastTense(term string) []string {
	head, last := splitHead(term)
	lower := strings.ToLower(last)
	n := len(lower)
	var form string
	switch {
	case n >= 1 && lower[n-1] == 'e':
		form = lower + "d"
	case n >= 2 && lower[n-1] == 'y' && !isVowel(lower[n-2]):
		form = lower[:n-1] + "ied"
	case isCVC(lower) && !noDoubleStem(lower):
		form = lower + string(lower[n-1]) + "ed"
	default:
		form = lower + "ed"
	}
	return []string{rejoin(head, matchCase(last, form))}
}

// PresentParticiple returns the candidate "-ing" forms of the last word.
func PresentParticiple(term string) []string {
	head, last := splitHead(term)
	lower := strings.ToLower(last)
	n := len(lower)
	var form string
	switch {
	case strings.HasSuffix(lower, "ie"):
		form = lower[:n-2] + "ying"
	case strings.HasSuffix(lower, "ee"):
		form = lower + "ing"
	case n >= 1 && lower[n-1] == 'e' && !strings.HasSuffix(lower, "ee"):
		form = lower[:n-1] + "ing"
	case isCVC(lower) && !noDoubleStem(lower):
		form = lower + string(lower[n-1]) + "ing"
	default:
		form = lower + "ing"
	}
	return []string{rejoin(head, matchCase(last, form))}
}

// isCVC reports whether word ends consonant-vowel-consonant, excluding a
// final w, x, or y (which never double).
func isCVC(word string) bool {
	n := len(word)
	if n < 3 {
		return false
	}
	c1, v, c2 := word[n-3], word[n-2], word[n-1]
	if isVowel(c1) || !isVowel(v) || isVowel(c2) {
		return false
	}
	switch c2 {
	case 'w', 'x', 'y':
		return false
	}
	return true
}

// noDoubleStem suppresses CVC doubling for stems ending in a handful of
// unstressed-final-syllable endings where doubling is not idiomatic
// ("enter" -> "entered", not "enterred").
func noDoubleStem(word string) bool {
	for _, suf := range []string{"er", "en", "or", "on", "al"} {
		if strings.HasSuffix(word, suf) {
			return true
		}
	}
	return false
}

// IrregularForms returns every form of the irregular-verb base that word
// belongs to, or nil if word is not in the closed irregular-verb table.
func IrregularForms(word string) []string {
	base, ok := irregularVerbFormToBase[strings.ToLower(word)]
	if !ok {
		return nil
	}
	return append([]string(nil), irregularVerbs[base]...)
}

// IrregularBase returns the base form for word if it is any form of a
// known irregular verb.
func IrregularBase(word string) (string, bool) {
	base, ok := irregularVerbFormToBase[strings.ToLower(word)]
	return base, ok
}

// InNounAllowList reports whether word is in the small allow-list of
// names-category nouns that must never get verb-like -ed/-ing forms.
func InNounAllowList(word string) bool {
	return nounAllowList[word] || nounAllowList[strings.ToLower(word)]
}

// Capitalized returns s with its first rune uppercased, unless it already
// starts with something other than a lowercase ASCII letter.
func Capitalized(s string) (string, bool) {
	if s == "" {
		return s, false
	}
	r := rune(s[0])
	if r < 'a' || r > 'z' {
		return s, false
	}
	return strings.ToUpper(s[:1]) + s[1:], true
}

// Variants generates the full set of morphological alternates for a
// vocabulary headword, per §4.D. isName signals the article's category is
// names/*: pluralization/depluralization are disabled, and verb-like forms
// are suppressed for nounAllowList members.
func Variants(term string, isName bool) []string {
	var all []string
	add := func(s string) { all = append(all, s) }

	if !isName {
		for _, p := range Pluralize(term) {
			add(p)
		}
		for _, p := range Depluralize(term) {
			add(p)
		}
	}

	_, last := splitHead(term)
	suppressVerbForms := isName && InNounAllowList(last)
	if !suppressVerbForms {
		for _, p := range PastTense(term) {
			add(p)
		}
		for _, p := range PresentParticiple(term) {
			add(p)
		}
	}

	if base, ok := IrregularBase(last); ok {
		head, _ := splitHead(term)
		for _, f := range irregularVerbs[base] {
			add(rejoin(head, f))
		}
	}

	// Capitalized alternates of every variant generated so far (and of
	// the term itself, so a lowercase headword still gets a capitalized
	// scan entry).
	withCaps := append([]string(nil), all...)
	withCaps = append(withCaps, term)
	for _, v := range withCaps {
		if cap, ok := Capitalized(v); ok {
			add(cap)
		}
	}

	return dedup(all)
}

// matchCase applies the capitalization pattern of src (all-upper,
// title-case, or as-is) to dst, which is assumed lowercase.
func matchCase(src, dst string) string {
	if src == "" {
		return dst
	}
	if strings.ToUpper(src) == src && hasLetter(src) {
		return strings.ToUpper(dst)
	}
	if r := rune(src[0]); unicode.IsUpper(r) {
		if cap, ok := Capitalized(dst); ok {
			return cap
		}
	}
	return dst
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func dedup(ss []string) []string {
	seen := make(map[string]bool, len(ss))
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// Package strongs implements §4.B of the translation-words-links
// pipeline: pivoting the vocabulary's per-article Strong's-sequence
// evidence into two lookup indexes keyed by Strong's number.
package strongs

import (
	"encoding/json"
	"sort"

	"github.com/unfoldingword/twl/core/errors"
	"github.com/unfoldingword/twl/core/model"
)

// ListEntry is one article's record in the richer "tw_strongs_list" JSON
// form the driver supplies alongside the markdown archive: it carries
// both the article's term list (redundant with §4.A's parse, but present
// for articles the driver didn't have a markdown file for) and its
// Strong's-number sequences.
type ListEntry struct {
	Terms   []string   `json:"terms"`
	Strongs [][]string `json:"strongs"`
}

// SeqCandidate is one multi-lemma sequence registered under the base of
// its first Strong's id.
type SeqCandidate struct {
	Article  model.Article
	Sequence []model.StrongID
	Length   int
}

// Pivot holds the two indexes built from the vocabulary's Strong's
// evidence.
type Pivot struct {
	// Singles maps a Strong's id (both full and base forms) to the set of
	// articles whose single-lemma sequence includes it.
	Singles map[model.StrongID][]model.Article
	// SeqFirst maps the base of a sequence's first Strong's id to every
	// multi-lemma sequence starting there, longest first.
	SeqFirst map[model.StrongID][]SeqCandidate
}

// ParseList decodes a tw_strongs_list JSON document: a flat object of
// article path to ListEntry.
func ParseList(data []byte) (map[model.Article]ListEntry, error) {
	var raw map[string]ListEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.NewParse("tw_strongs_list", "", err.Error())
	}
	out := make(map[model.Article]ListEntry, len(raw))
	for path, entry := range raw {
		article, err := model.ParseArticle(path)
		if err != nil {
			return nil, err
		}
		out[article] = entry
	}
	return out, nil
}

// Build merges Strong's-sequence evidence from list into entries (adding
// any article list names that entries doesn't already have, e.g. one with
// no markdown file) and produces the singles/seqFirst pivot indexes.
//
// An article whose Strong's-sequence list is empty contributes to neither
// index but is retained in entries for disambiguation (§4.F step 6).
func Build(entries map[model.Article]*model.VocabEntry, list map[model.Article]ListEntry) (*Pivot, error) {
	pivot := &Pivot{
		Singles:  make(map[model.StrongID][]model.Article),
		SeqFirst: make(map[model.StrongID][]SeqCandidate),
	}

	articles := make([]model.Article, 0, len(list))
	for a := range list {
		articles = append(articles, a)
	}
	sort.Slice(articles, func(i, j int) bool { return articles[i] < articles[j] })

	for _, article := range articles {
		le := list[article]
		entry, ok := entries[article]
		if !ok {
			entry = &model.VocabEntry{Article: article, Terms: le.Terms}
			entries[article] = entry
		}

		var sequences [][]model.StrongID
		for _, raw := range le.Strongs {
			seq := make([]model.StrongID, 0, len(raw))
			for _, s := range raw {
				id, err := model.ParseStrongID(s)
				if err != nil {
					return nil, err
				}
				seq = append(seq, id)
			}
			if len(seq) == 0 {
				continue
			}
			sequences = append(sequences, seq)

			if len(seq) == 1 {
				registerSingle(pivot.Singles, seq[0], article)
				continue
			}
			base := seq[0].Base()
			pivot.SeqFirst[base] = append(pivot.SeqFirst[base], SeqCandidate{
				Article:  article,
				Sequence: seq,
				Length:   len(seq),
			})
		}
		entry.StrongSequences = sequences
	}

	for base, cands := range pivot.SeqFirst {
		sort.SliceStable(cands, func(i, j int) bool { return cands[i].Length > cands[j].Length })
		pivot.SeqFirst[base] = cands
	}

	return pivot, nil
}

// registerSingle records sid under both its full and base forms, each
// keyed article set de-duplicated.
func registerSingle(singles map[model.StrongID][]model.Article, sid model.StrongID, article model.Article) {
	addUnique(singles, sid, article)
	if base := sid.Base(); base != sid {
		addUnique(singles, base, article)
	}
}

func addUnique(m map[model.StrongID][]model.Article, key model.StrongID, article model.Article) {
	for _, a := range m[key] {
		if a == article {
			return
		}
	}
	m[key] = append(m[key], article)
}

// Lookup returns the candidate articles for sid, falling back to sid's
// base form if the full form has no entry (§4.F step 1).
func (p *Pivot) Lookup(sid model.StrongID) []model.Article {
	if arts, ok := p.Singles[sid]; ok && len(arts) > 0 {
		return arts
	}
	base := sid.Base()
	if base == sid {
		return nil
	}
	return p.Singles[base]
}

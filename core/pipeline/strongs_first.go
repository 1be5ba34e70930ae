package pipeline

import (
	"strings"

	"github.com/unfoldingword/twl/core/model"
	"github.com/unfoldingword/twl/core/selector"
	"github.com/unfoldingword/twl/core/strongs"
	"github.com/unfoldingword/twl/internal/logging"
)

// RunStrongsFirst implements §4.G': walk bookCode's USFM tokens in
// document order, preferring the longest registered multi-lemma sequence
// starting at each token, falling back to a per-Strong's-id lookup
// refined by the full §4.F selector (core/selector.Choose) otherwise.
// Rows whose selector decision carries no article go to noMatch rather
// than rows, per §7.
//
// A token with no Strong's attribution is skipped silently, matching the
// source behavior and avoiding the duplicated variant-suppression logic
// the original implementation carried on this path (see DESIGN.md).
func RunStrongsFirst(bookCode string, tokens []model.Token, pivot *strongs.Pivot, vocab selector.Vocabulary, gen *IDGenerator) (rows, noMatch []model.Row) {
	occ := newOccurrenceCounter()
	curChapter, curVerse := 0, 0

	for i := 0; i < len(tokens); {
		tok := tokens[i]
		if tok.Chapter != curChapter || tok.Verse != curVerse {
			curChapter, curVerse = tok.Chapter, tok.Verse
			occ = newOccurrenceCounter()
		}

		if len(tok.StrongIDs) == 0 {
			i++
			continue
		}

		if cand, consumed, ok := matchSequence(tokens, i, pivot); ok {
			surface := joinSurfaces(tokens[i : i+consumed])
			n := occ.next(surface)
			row := model.Row{
				Reference:    reference(bookCode, tok.Chapter, tok.Verse),
				ID:           gen.Next(),
				Tags:         cand.Article.Tag(),
				OrigWords:    surface,
				Occurrence:   n,
				TWLink:       cand.Article.TWLink(),
				GLQuote:      surface,
				GLOccurrence: n,
			}
			rows = append(rows, row)
			logging.MatchSelected(string(cand.Article), 0, false, "reference", row.Reference, "sequence", true)
			i += consumed
			continue
		}

		for _, sid := range tok.StrongIDs {
			decision, ok := selector.Choose(tok.Surface, sid, pivot, vocab)
			if !ok {
				continue
			}
			n := occ.next(tok.Surface)
			row := model.Row{
				Reference:      reference(bookCode, tok.Chapter, tok.Verse),
				ID:             gen.Next(),
				OrigWords:      tok.Surface,
				Occurrence:     n,
				GLQuote:        tok.Surface,
				GLOccurrence:   n,
				Disambiguation: selector.FormatDisambiguation(decision.Disambiguation),
			}
			if decision.Article == "" {
				noMatch = append(noMatch, row)
				continue
			}
			row.Tags = decision.Article.Tag()
			row.TWLink = decision.Article.TWLink()
			if decision.Variant {
				row.VariantOf = decision.MatchedTerm
			}
			rows = append(rows, row)
			logging.MatchSelected(string(decision.Article), int(decision.Stage), decision.Variant, "reference", row.Reference)
		}
		i++
	}
	return rows, noMatch
}

// matchSequence tries the longest registered multi-lemma sequence
// starting at tokens[i], confined to the same chapter/verse as
// tokens[i]. Tokens with no Strong's attribution inside the span are
// skipped over and consumed with it.
func matchSequence(tokens []model.Token, i int, pivot *strongs.Pivot) (strongs.SeqCandidate, int, bool) {
	tok := tokens[i]
	for _, sid := range tok.StrongIDs {
		candidates := pivot.SeqFirst[sid.Base()]
		for _, cand := range candidates {
			matched := true
			k := i
			for j := 0; j < cand.Length; k++ {
				if k >= len(tokens) || tokens[k].Chapter != tok.Chapter || tokens[k].Verse != tok.Verse {
					matched = false
					break
				}
				if len(tokens[k].StrongIDs) == 0 {
					continue
				}
				if !tokenMatchesStrong(tokens[k], cand.Sequence[j]) {
					matched = false
					break
				}
				j++
			}
			if matched {
				return cand, k - i, true
			}
		}
	}
	return strongs.SeqCandidate{}, 0, false
}

func tokenMatchesStrong(t model.Token, sid model.StrongID) bool {
	for _, id := range t.StrongIDs {
		if id == sid || id.Base() == sid.Base() {
			return true
		}
	}
	return false
}

func joinSurfaces(tokens []model.Token) string {
	surfaces := make([]string, len(tokens))
	for i, t := range tokens {
		surfaces[i] = t.Surface
	}
	return strings.Join(surfaces, " ")
}

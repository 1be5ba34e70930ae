package pipeline

import (
	"github.com/unfoldingword/twl/core/model"
	"github.com/unfoldingword/twl/core/selector"
	"github.com/unfoldingword/twl/core/trie"
	"github.com/unfoldingword/twl/core/usfm"
	"github.com/unfoldingword/twl/internal/logging"
)

// RunEnglishFirst implements §4.G: scan bookCode's clean verse text with
// t, greedily resolving one row per match. Rows are returned in
// (chapter, verse, in-verse position) order. gen is shared across every
// book processed in this invocation so row IDs stay unique across the
// whole run.
//
// OrigWords/Occurrence and GLQuote/GLOccurrence both start out holding
// the English surface and its in-verse count; the driver that owns the
// companion-service calls is responsible for replacing OrigWords/
// Occurrence with the GL→OL converter's output.
func RunEnglishFirst(bookCode string, verses []usfm.VerseText, t *trie.Trie, gen *IDGenerator) []model.Row {
	var rows []model.Row
	for _, verse := range verses {
		rows = append(rows, scanVerse(bookCode, verse, t, gen)...)
	}
	logging.Info("english_first_complete", "book", bookCode, "rows", len(rows))
	return rows
}

func scanVerse(bookCode string, verse usfm.VerseText, t *trie.Trie, gen *IDGenerator) []model.Row {
	runes := []rune(verse.Text)
	occ := newOccurrenceCounter()
	var rows []model.Row

	for cursor := 0; cursor < len(runes); {
		matches := t.ScanAt(verse.Text, cursor)
		if len(matches) == 0 {
			cursor++
			continue
		}

		top := matches[0]
		var candidates []model.Article
		seen := make(map[model.Article]bool)
		for _, m := range matches {
			if m.ExtendedLength != top.ExtendedLength || m.Priority != top.Priority {
				continue
			}
			for _, a := range m.Articles {
				if !seen[a] {
					seen[a] = true
					candidates = append(candidates, a)
				}
			}
		}

		chosen, disambig := selector.ResolveEnglishFirst(top.MatchedText, candidates)
		if chosen == "" {
			cursor += top.OriginalLength
			continue
		}

		variantOf := ""
		if top.ExtendedLength != top.OriginalLength {
			variantOf = top.Term
		}

		n := occ.next(top.MatchedText)
		row := model.Row{
			Reference:      reference(bookCode, verse.Chapter, verse.Verse),
			ID:             gen.Next(),
			Tags:           chosen.Tag(),
			OrigWords:      top.MatchedText,
			Occurrence:     n,
			TWLink:         chosen.TWLink(),
			GLQuote:        top.MatchedText,
			GLOccurrence:   n,
			VariantOf:      variantOf,
			Disambiguation: selector.FormatDisambiguation(disambig),
		}
		rows = append(rows, row)
		logging.MatchSelected(string(chosen), 0, variantOf != "", "reference", row.Reference)

		cursor += top.OriginalLength
	}
	return rows
}

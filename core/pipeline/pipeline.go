// Package pipeline implements §4.G/4.G' of the translation-words-links
// pipeline: the two row-generating drivers (English-first and
// Strong's-first), sharing the trie/selector/morphology machinery built
// by core/vocab, core/strongs, core/morph, core/trie, and core/selector,
// plus the §4.H output-row assembly (ID generation, tag/link derivation,
// disambiguation formatting).
package pipeline

import (
	"crypto/rand"
	"fmt"

	"github.com/unfoldingword/twl/core/model"
	"github.com/unfoldingword/twl/core/morph"
	"github.com/unfoldingword/twl/core/trie"
	"github.com/unfoldingword/twl/internal/logging"
)

// BuildTrie inserts every vocabulary article's headwords and their
// morphological variants (§4.D) into a scan trie, per §4.E. Headwords are
// inserted at model.PriorityOriginal; generated variants at
// model.PriorityVariant.
func BuildTrie(vocab map[model.Article]*model.VocabEntry) *trie.Trie {
	t := trie.New()
	for article, entry := range vocab {
		isName := article.Category() == "names"
		for _, term := range entry.Terms {
			t.Insert(term, term, []model.Article{article}, model.PriorityOriginal)
			for _, variant := range morph.Variants(term, isName) {
				t.Insert(variant, term, []model.Article{article}, model.PriorityVariant)
			}
		}
	}
	return t
}

// IDGenerator draws random four-character row IDs (first a lowercase
// letter, the rest lowercase alphanumerics), retrying on collision
// against every ID it has already handed out in this run (§4.H). Shared
// across every book in a single invocation so IDs stay unique across the
// whole output. A fixed debug ID is intentionally not supported; see
// DESIGN.md.
type IDGenerator struct {
	used map[string]bool
}

// NewIDGenerator returns an empty ID generator.
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{used: make(map[string]bool)}
}

const idLetters = "abcdefghijklmnopqrstuvwxyz"
const idAlphanumerics = "abcdefghijklmnopqrstuvwxyz0123456789"

// Next returns a fresh, not-yet-issued row ID.
func (g *IDGenerator) Next() string {
	for {
		id := randomID()
		if !g.used[id] {
			g.used[id] = true
			return id
		}
	}
}

func randomID() string {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand.Read on the standard reader does not fail in
		// practice; a degraded but still well-formed id beats a panic.
		logging.Error("id generation fallback", "error", err)
	}
	out := make([]byte, 4)
	out[0] = idLetters[int(buf[0])%len(idLetters)]
	for i := 1; i < 4; i++ {
		out[i] = idAlphanumerics[int(buf[i])%len(idAlphanumerics)]
	}
	return string(out)
}

// reference formats a Reference column value as "C:V" (§3). bookCode is
// accepted for API symmetry with the per-book drivers but does not appear
// in the output: each output TSV is already scoped to one book (§6).
func reference(bookCode string, chapter, verse int) string {
	return fmt.Sprintf("%d:%d", chapter, verse)
}

// occurrenceCounter tracks, within one verse, how many times each exact
// surface string has already been emitted, so each new row gets the next
// 1-based occurrence number for that surface (§4.H).
type occurrenceCounter struct {
	counts map[string]int
}

func newOccurrenceCounter() *occurrenceCounter {
	return &occurrenceCounter{counts: make(map[string]int)}
}

func (c *occurrenceCounter) next(surface string) int {
	c.counts[surface]++
	return c.counts[surface]
}

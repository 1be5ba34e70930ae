package usfm

import "regexp"

// Each of these implements one numbered step of §4.C's clean-text markup
// strip, applied in order, each replacement fully applied before the next
// begins.
var (
	wordSpanRe      = regexp.MustCompile(`(?s)\\w\s+(.*?)\|.*?\\w\*`)
	zalnSpanRe      = regexp.MustCompile(`(?s)\\zaln-s\b.*?\\\*`)
	zalnEndRe       = regexp.MustCompile(`\\zaln-e\\\*`)
	milestoneSRe    = regexp.MustCompile(`(?s)\\k-s\b.*?\\\*`)
	milestoneERe    = regexp.MustCompile(`\\k-e\\\*`)
	blankRunsRe     = regexp.MustCompile(`\n{3,}`)
	danglingPipeRe  = regexp.MustCompile(`\|[^\\]*\\`)
	newlineRe       = regexp.MustCompile(`\r?\n`)
	verseMarkerRe   = regexp.MustCompile(`\\v\s`)
	chapterMarkerRe = regexp.MustCompile(`\\c\s`)
	poetryMarkerRe  = regexp.MustCompile(`\\q\d*\*?|\\p\b|\\ts\\\*`)
	footnoteRe      = regexp.MustCompile(`(?s)\\f\s.*?\\f\*`)
	braceRe         = regexp.MustCompile(`[{}]`)
	firstChapterRe  = regexp.MustCompile(`\\c\s`)
)

// CleanText strips USFM alignment and structural markup from usfm,
// leaving plain text with one leading newline before each chapter/verse
// marker, per §4.C.
func CleanText(usfm string) string {
	s := usfm

	// 1. \w surface|...\w* -> surface
	s = wordSpanRe.ReplaceAllString(s, "$1")

	// 2. \zaln-s ...\* and \zaln-e\* removed
	s = zalnSpanRe.ReplaceAllString(s, "")
	s = zalnEndRe.ReplaceAllString(s, "")

	// 3. \k-s ...\* and \k-e\* removed
	s = milestoneSRe.ReplaceAllString(s, "")
	s = milestoneERe.ReplaceAllString(s, "")

	// 4. collapse 3+ blank lines to 2
	s = blankRunsRe.ReplaceAllString(s, "\n\n")

	// 5. any lingering |... before a \ — removed (the \ itself is kept)
	s = danglingPipeRe.ReplaceAllString(s, `\`)

	// 6. newlines -> spaces; then \v and \c re-introduce a leading newline
	s = newlineRe.ReplaceAllString(s, " ")
	s = verseMarkerRe.ReplaceAllString(s, "\n\\v ")
	s = chapterMarkerRe.ReplaceAllString(s, "\n\\c ")

	// 7. \q*, \p, \ts\* -> single space
	s = poetryMarkerRe.ReplaceAllString(s, " ")

	// 8. footnotes \f ...\f* -> single space
	s = footnoteRe.ReplaceAllString(s, " ")

	// 9. { and } stripped
	s = braceRe.ReplaceAllString(s, "")

	// 10. drop all content before the first \c line
	if loc := firstChapterRe.FindStringIndex(s); loc != nil {
		start := loc[0]
		if start > 0 && s[start-1] == '\n' {
			start--
		}
		s = s[start:]
	}

	return s
}

// Command twl builds a Translation Words Links TSV for one or more books of
// the reference corpus.
package main

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/ulikunitz/xz"

	"github.com/unfoldingword/twl/core/cache"
	twlerrors "github.com/unfoldingword/twl/core/errors"
	"github.com/unfoldingword/twl/core/model"
	"github.com/unfoldingword/twl/core/pipeline"
	"github.com/unfoldingword/twl/core/selector"
	"github.com/unfoldingword/twl/core/strongs"
	"github.com/unfoldingword/twl/core/trie"
	"github.com/unfoldingword/twl/core/usfm"
	"github.com/unfoldingword/twl/core/vocab"
	"github.com/unfoldingword/twl/internal/archive"
	"github.com/unfoldingword/twl/internal/casblob"
	"github.com/unfoldingword/twl/internal/logging"
	"github.com/unfoldingword/twl/internal/services"
)

const version = "0.1.0"

// CLI defines the command-line surface for twl (§6 of the original spec,
// plus the fetch/service endpoints the core treats as external
// collaborators).
var CLI struct {
	Version kong.VersionFlag `help:"Print version and exit." short:"v" version:"${version}"`

	Book          string `help:"USFM book code to process, e.g. GEN." short:"b"`
	All           bool   `help:"Process every book in the canon table."`
	Out           string `help:"Output TSV path (single-book mode)." type:"path"`
	OutDir        string `help:"Output directory for per-book TSVs (--all mode)." type:"path" name:"out-dir"`
	Mode          string `help:"Matching pipeline to run." enum:"english-first,strongs-first" default:"english-first"`
	UseCompromise bool   `help:"Enable richer conjugation in the morphology stage." name:"use-compromise"`

	VocabArchiveURL string `required:"" help:"URL of the vocabulary archive (tar.gz/tar.xz tree rooted at bible/<category>/<slug>.md)." name:"vocab-archive-url"`
	StrongsListURL  string `help:"URL of the tw_strongs_list JSON sidecar (required for --mode=strongs-first)." name:"strongs-list-url"`
	USFMURLTemplate string `required:"" help:"Reference-translation USFM URL template; {book} is replaced with the lowercase book id." name:"usfm-url-template"`

	ArchiveCacheDir string `help:"Directory for the on-disk archive cache." type:"path" default:"./.twl-cache" name:"archive-cache-dir"`

	GLOLEndpoint       string `help:"GL→OL converter service endpoint." name:"gl-ol-endpoint"`
	AddGLQuoteEndpoint string `help:"add-GL-quote service endpoint." name:"add-gl-quote-endpoint"`

	NoMatchOut    string `help:"No-match TSV path (strongs-first, single-book mode)." type:"path" name:"no-match-out"`
	NoMatchOutDir string `help:"No-match TSV directory (strongs-first, --all mode)." type:"path" name:"no-match-out-dir"`
}

func main() {
	kong.Parse(&CLI,
		kong.Name("twl"),
		kong.Description("Build a Translation Words Links TSV for one or more books."),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)
	if err := run(); err != nil {
		logging.Error("run failed", "error", err.Error())
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// useCompromise is accepted for CLI compatibility but has no effect: the
// morphology stage's closed rule tables (core/morph) do not currently carry
// a richer-conjugation source. See DESIGN.md.
var useCompromiseWarned bool

func run() error {
	if CLI.UseCompromise && !useCompromiseWarned {
		useCompromiseWarned = true
		logging.Warn("--use-compromise has no effect: core/morph has no richer-conjugation source wired in")
	}

	var books []model.Book
	if CLI.All {
		books = model.AllBooks()
	} else {
		if CLI.Book == "" {
			return twlerrors.NewValidation("book", "either --book or --all is required")
		}
		b, ok := model.BookByCode(strings.ToUpper(CLI.Book))
		if !ok {
			return twlerrors.NewUnsupported("book code", CLI.Book)
		}
		books = []model.Book{*b}
	}

	ctx := context.Background()

	if err := os.MkdirAll(CLI.ArchiveCacheDir, 0755); err != nil {
		return twlerrors.NewIO("mkdir", CLI.ArchiveCacheDir, err)
	}
	blobs, err := casblob.Open(filepath.Join(CLI.ArchiveCacheDir, "archive-cache.db"))
	if err != nil {
		return twlerrors.Wrap(err, "open archive cache")
	}
	defer blobs.Close()

	httpClient := &http.Client{Timeout: 60 * time.Second}
	fetcher := archive.NewFetcher(httpClient, blobs)
	svc := services.NewClient(httpClient, CLI.GLOLEndpoint, CLI.AddGLQuoteEndpoint)

	entries, pivot, t, err := loadVocabulary(ctx, fetcher)
	if err != nil {
		return twlerrors.Wrap(err, "load vocabulary")
	}
	vocabulary := selector.Vocabulary(entries)
	gen := pipeline.NewIDGenerator()

	for _, book := range books {
		if err := processBook(ctx, book, fetcher, svc, t, pivot, vocabulary, gen, len(books) > 1); err != nil {
			if len(books) > 1 {
				logging.Error("book failed, continuing", "book", book.Code, "error", err.Error())
				continue
			}
			return err
		}
	}
	return nil
}

// vocabArtifacts bundles the pieces derived once from the vocabulary
// archive and shared across every book processed in this invocation.
type vocabArtifacts struct {
	entries map[model.Article]*model.VocabEntry
	pivot   *strongs.Pivot
	trie    *trie.Trie
}

// vocabCache holds parsed vocabularies and built tries keyed by the fetched
// archive's content digest, so a run that re-fetches the same archive bytes
// (e.g. a cache-busted retry) does not re-parse and re-insert the whole
// trie. Process-local, not required to persist between invocations (§5).
var vocabCache = cache.NewLRUCache[string, *vocabArtifacts](cache.Config{MaxSize: 4})

func loadVocabulary(ctx context.Context, fetcher *archive.Fetcher) (map[model.Article]*model.VocabEntry, *strongs.Pivot, *trie.Trie, error) {
	archiveBytes, err := fetcher.FetchArchive(ctx, CLI.VocabArchiveURL)
	if err != nil {
		return nil, nil, nil, err
	}

	digest, _ := casblob.Digest(archiveBytes)
	if cached, ok := vocabCache.Get(digest); ok {
		return cached.entries, cached.pivot, cached.trie, nil
	}

	entries, err := vocab.Load(iterateArchive(archiveBytes))
	if err != nil {
		return nil, nil, nil, err
	}

	list := map[model.Article]strongs.ListEntry{}
	if CLI.StrongsListURL != "" {
		listBytes, err := fetcher.FetchArchive(ctx, CLI.StrongsListURL)
		if err != nil {
			return nil, nil, nil, err
		}
		list, err = strongs.ParseList(listBytes)
		if err != nil {
			return nil, nil, nil, err
		}
	}
	pivot, err := strongs.Build(entries, list)
	if err != nil {
		return nil, nil, nil, err
	}

	t := pipeline.BuildTrie(entries)

	vocabCache.Put(digest, &vocabArtifacts{entries: entries, pivot: pivot, trie: t})
	return entries, pivot, t, nil
}

func processBook(ctx context.Context, book model.Book, fetcher *archive.Fetcher, svc *services.Client, t *trie.Trie, pivot *strongs.Pivot, vocabulary selector.Vocabulary, gen *pipeline.IDGenerator, batch bool) error {
	url := strings.ReplaceAll(CLI.USFMURLTemplate, "{book}", book.ID)
	usfmBytes, err := fetcher.FetchUSFM(ctx, url)
	if err != nil {
		return twlerrors.Wrap(err, "fetch usfm for "+book.Code)
	}
	usfmText := string(usfmBytes)

	var rows, noMatch []model.Row
	switch CLI.Mode {
	case "strongs-first":
		tokens := usfm.Tokenize(usfmText)
		logging.BookTokenized(book.Code, len(tokens), 0)
		rows, noMatch = pipeline.RunStrongsFirst(book.Code, tokens, pivot, vocabulary, gen)
		rows = applyStrongsFirstConversion(ctx, rows, svc)
	default:
		verses := usfm.Verses(usfmText)
		logging.BookTokenized(book.Code, 0, len(verses))
		rows = pipeline.RunEnglishFirst(book.Code, verses, t, gen)
		rows = applyEnglishFirstConversion(ctx, rows, svc)
	}

	outPath := CLI.Out
	if batch || outPath == "" {
		dir := CLI.OutDir
		if dir == "" {
			dir = "."
		}
		outPath = filepath.Join(dir, strings.ToLower(book.ID)+".tsv")
	}
	if err := writeTSV(outPath, rows); err != nil {
		return err
	}

	if len(noMatch) > 0 {
		noMatchPath := CLI.NoMatchOut
		if batch || noMatchPath == "" {
			dir := CLI.NoMatchOutDir
			if dir == "" {
				dir = CLI.OutDir
			}
			if dir == "" {
				dir = "."
			}
			noMatchPath = filepath.Join(dir, strings.ToLower(book.ID)+".no-match.tsv")
		}
		if err := writeTSV(noMatchPath, noMatch); err != nil {
			return err
		}
	}
	return nil
}

func writeTSV(path string, rows []model.Row) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil && filepath.Dir(path) != "." {
		return twlerrors.NewIO("mkdir", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(model.EncodeTSV(rows)), 0644); err != nil {
		return twlerrors.NewIO("write", path, err)
	}
	return nil
}

// serviceTSV renders rows in the companion services' input column set:
// Reference, ID, Tags, OrigWords, Occurrence, TWLink (§6).
func serviceTSV(rows []model.Row) string {
	var b strings.Builder
	b.WriteString("Reference\tID\tTags\tOrigWords\tOccurrence\tTWLink\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "%s\t%s\t%s\t%s\t%d\t%s\n", r.Reference, r.ID, r.Tags, r.OrigWords, r.Occurrence, r.TWLink)
	}
	return b.String()
}

func mergeByID(rows []model.Row, decoded []model.Row, apply func(dst *model.Row, src model.Row)) {
	byID := make(map[string]model.Row, len(decoded))
	for _, d := range decoded {
		byID[d.ID] = d
	}
	for i := range rows {
		if d, ok := byID[rows[i].ID]; ok {
			apply(&rows[i], d)
		}
	}
}

// applyEnglishFirstConversion implements §4.G step 4: GL→OL converter
// first (replacing OrigWords/Occurrence), then add-GL-quote (appending
// GLQuote/GLOccurrence). On add-GL-quote failure, GLQuote/GLOccurrence
// fall back to a duplicate of the row's current OrigWords/Occurrence (§7).
func applyEnglishFirstConversion(ctx context.Context, rows []model.Row, svc *services.Client) []model.Row {
	if converted, ok := svc.ConvertGLToOL(ctx, serviceTSV(rows)); ok {
		if decoded, err := model.DecodeTSV(converted); err == nil {
			mergeByID(rows, decoded, func(dst *model.Row, src model.Row) {
				dst.OrigWords = src.OrigWords
				dst.Occurrence = src.Occurrence
			})
		}
	}

	if quoted, ok := svc.AddGLQuote(ctx, serviceTSV(rows)); ok {
		if decoded, err := model.DecodeTSV(quoted); err == nil {
			mergeByID(rows, decoded, func(dst *model.Row, src model.Row) {
				dst.GLQuote = src.GLQuote
				dst.GLOccurrence = src.GLOccurrence
			})
			return rows
		}
	}
	for i := range rows {
		rows[i].GLQuote = rows[i].OrigWords
		rows[i].GLOccurrence = rows[i].Occurrence
	}
	return rows
}

// applyStrongsFirstConversion implements §4.G' step 3: add-GL-quote first,
// then its GLQuote/GLOccurrence are copied into OrigWords/Occurrence, then
// the GL→OL converter replaces those with the true original-language
// quotation. Article refinement is not repeated here: core/selector.Choose
// already ran the full §4.F staged match once per token in
// core/pipeline.RunStrongsFirst (see DESIGN.md, Open Question 1).
func applyStrongsFirstConversion(ctx context.Context, rows []model.Row, svc *services.Client) []model.Row {
	if quoted, ok := svc.AddGLQuote(ctx, serviceTSV(rows)); ok {
		if decoded, err := model.DecodeTSV(quoted); err == nil {
			mergeByID(rows, decoded, func(dst *model.Row, src model.Row) {
				dst.GLQuote = src.GLQuote
				dst.GLOccurrence = src.GLOccurrence
			})
		} else {
			for i := range rows {
				rows[i].GLQuote = rows[i].OrigWords
				rows[i].GLOccurrence = rows[i].Occurrence
			}
		}
	} else {
		for i := range rows {
			rows[i].GLQuote = rows[i].OrigWords
			rows[i].GLOccurrence = rows[i].Occurrence
		}
	}

	for i := range rows {
		rows[i].OrigWords = rows[i].GLQuote
		rows[i].Occurrence = rows[i].GLOccurrence
	}

	if converted, ok := svc.ConvertGLToOL(ctx, serviceTSV(rows)); ok {
		if decoded, err := model.DecodeTSV(converted); err == nil {
			mergeByID(rows, decoded, func(dst *model.Row, src model.Row) {
				dst.OrigWords = src.OrigWords
				dst.Occurrence = src.Occurrence
			})
		}
	}
	return rows
}

// iterateArchive adapts in-memory archive bytes (tar, tar.gz, or tar.xz) to
// core/vocab.Load's Iterator shape, the same archive.Reader.Iterate visitor
// signature the teacher's archive package uses for on-disk archives.
func iterateArchive(data []byte) vocab.Iterator {
	return func(visit func(header *tar.Header, content io.Reader) (bool, error)) error {
		r, err := decompress(data)
		if err != nil {
			return err
		}
		tr := tar.NewReader(r)
		for {
			header, err := tr.Next()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return twlerrors.NewParse("vocabulary-archive", "", err.Error())
			}
			stop, err := visit(header, tr)
			if err != nil {
				return err
			}
			if stop {
				return nil
			}
		}
	}
}

var xzMagic = []byte{0xFD, '7', 'z', 'X', 'Z', 0x00}

func decompress(data []byte) (io.Reader, error) {
	switch {
	case len(data) >= 2 && data[0] == 0x1f && data[1] == 0x8b:
		return gzip.NewReader(bytes.NewReader(data))
	case len(data) >= len(xzMagic) && bytes.Equal(data[:len(xzMagic)], xzMagic):
		return xz.NewReader(bytes.NewReader(data))
	default:
		return bytes.NewReader(data), nil
	}
}

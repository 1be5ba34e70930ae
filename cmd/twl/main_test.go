package main

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/unfoldingword/twl/core/model"
	"github.com/unfoldingword/twl/internal/services"
)

func TestWriteTSV(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "nested", "gen.tsv")
	rows := []model.Row{
		{Reference: "1:1", ID: "abc1234567", Tags: "keyterm", OrigWords: "God", Occurrence: 1, TWLink: "rc://*/tw/dict/bible/kt/god"},
	}

	if err := writeTSV(path, rows); err != nil {
		t.Fatalf("writeTSV() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read written TSV: %v", err)
	}
	if !strings.Contains(string(data), "God") {
		t.Errorf("written TSV missing expected content: %q", string(data))
	}
	if !strings.HasPrefix(string(data), strings.Join(model.Header, "\t")) {
		t.Errorf("written TSV missing header: %q", string(data))
	}
}

func TestServiceTSV(t *testing.T) {
	rows := []model.Row{
		{Reference: "1:1", ID: "id1", Tags: "keyterm", OrigWords: "God", Occurrence: 1, TWLink: "rc://*/tw/dict/bible/kt/god"},
	}
	out := serviceTSV(rows)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), out)
	}
	if lines[0] != "Reference\tID\tTags\tOrigWords\tOccurrence\tTWLink" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "1:1\tid1\tkeyterm\tGod\t1\trc://*/tw/dict/bible/kt/god" {
		t.Errorf("row = %q", lines[1])
	}
}

func TestMergeByID(t *testing.T) {
	rows := []model.Row{
		{ID: "a", OrigWords: "old-a"},
		{ID: "b", OrigWords: "old-b"},
	}
	decoded := []model.Row{
		{ID: "b", OrigWords: "new-b"},
		{ID: "c", OrigWords: "new-c"},
	}
	mergeByID(rows, decoded, func(dst *model.Row, src model.Row) {
		dst.OrigWords = src.OrigWords
	})

	if rows[0].OrigWords != "old-a" {
		t.Errorf("row a should be untouched, got %q", rows[0].OrigWords)
	}
	if rows[1].OrigWords != "new-b" {
		t.Errorf("row b should be merged, got %q", rows[1].OrigWords)
	}
}

func TestApplyEnglishFirstConversion_BothServicesSucceed(t *testing.T) {
	glOL := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		rows, _ := model.DecodeTSV(string(body))
		for i := range rows {
			rows[i].OrigWords = "OL-" + rows[i].OrigWords
			rows[i].Occurrence = rows[i].Occurrence + 10
		}
		io.WriteString(w, serviceTSV(rows))
	}))
	defer glOL.Close()

	addGLQuote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		rows, _ := model.DecodeTSV(string(body))
		var b strings.Builder
		b.WriteString("Reference\tID\tTags\tOrigWords\tOccurrence\tTWLink\tGLQuote\tGLOccurrence\n")
		for _, row := range rows {
			b.WriteString(row.Reference + "\t" + row.ID + "\t" + row.Tags + "\t" + row.OrigWords + "\t")
			b.WriteString("1\t" + row.TWLink + "\tGLQ-" + row.OrigWords + "\t99\n")
		}
		io.WriteString(w, b.String())
	}))
	defer addGLQuote.Close()

	svc := services.NewClient(http.DefaultClient, glOL.URL, addGLQuote.URL)
	rows := []model.Row{
		{Reference: "1:1", ID: "id1", Tags: "keyterm", OrigWords: "God", Occurrence: 1, TWLink: "rc://*/tw/dict/bible/kt/god"},
	}

	out := applyEnglishFirstConversion(context.Background(), rows, svc)
	if len(out) != 1 {
		t.Fatalf("rows = %d, want 1", len(out))
	}
	if out[0].OrigWords != "OL-God" {
		t.Errorf("OrigWords = %q, want OL-God", out[0].OrigWords)
	}
	if out[0].GLQuote != "GLQ-OL-God" || out[0].GLOccurrence != 99 {
		t.Errorf("GLQuote/GLOccurrence = %q/%d", out[0].GLQuote, out[0].GLOccurrence)
	}
}

func TestApplyEnglishFirstConversion_AddGLQuoteFailsFallsBack(t *testing.T) {
	glOL := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		rows, _ := model.DecodeTSV(string(body))
		for i := range rows {
			rows[i].OrigWords = "OL-" + rows[i].OrigWords
		}
		io.WriteString(w, serviceTSV(rows))
	}))
	defer glOL.Close()

	svc := services.NewClient(http.DefaultClient, glOL.URL, "")
	rows := []model.Row{
		{Reference: "1:1", ID: "id1", Tags: "keyterm", OrigWords: "God", Occurrence: 1, TWLink: "rc://*/tw/dict/bible/kt/god"},
	}

	out := applyEnglishFirstConversion(context.Background(), rows, svc)
	if out[0].GLQuote != out[0].OrigWords || out[0].GLOccurrence != out[0].Occurrence {
		t.Errorf("expected GLQuote/GLOccurrence to fall back to post-conversion OrigWords/Occurrence, got %+v", out[0])
	}
	if out[0].OrigWords != "OL-God" {
		t.Errorf("GL->OL conversion should still have applied, got %q", out[0].OrigWords)
	}
}

func TestApplyStrongsFirstConversion_Ordering(t *testing.T) {
	addGLQuote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		rows, _ := model.DecodeTSV(string(body))
		var b strings.Builder
		b.WriteString("Reference\tID\tTags\tOrigWords\tOccurrence\tTWLink\tGLQuote\tGLOccurrence\n")
		for _, row := range rows {
			b.WriteString(row.Reference + "\t" + row.ID + "\t" + row.Tags + "\t" + row.OrigWords + "\t1\t" + row.TWLink + "\t")
			b.WriteString("Son of God\t1\n")
		}
		io.WriteString(w, b.String())
	}))
	defer addGLQuote.Close()

	glOL := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		rows, _ := model.DecodeTSV(string(body))
		if rows[0].OrigWords != "Son of God" {
			t.Errorf("GL->OL should see add-GL-quote's GLQuote copied into OrigWords, got %q", rows[0].OrigWords)
		}
		for i := range rows {
			rows[i].OrigWords = "huios theou"
		}
		io.WriteString(w, serviceTSV(rows))
	}))
	defer glOL.Close()

	svc := services.NewClient(http.DefaultClient, glOL.URL, addGLQuote.URL)
	rows := []model.Row{
		{Reference: "1:1", ID: "id1", Tags: "keyterm", OrigWords: "Son", Occurrence: 1, TWLink: "rc://*/tw/dict/bible/kt/sonofgod"},
	}

	out := applyStrongsFirstConversion(context.Background(), rows, svc)
	if out[0].GLQuote != "Son of God" {
		t.Errorf("GLQuote = %q, want Son of God", out[0].GLQuote)
	}
	if out[0].OrigWords != "huios theou" {
		t.Errorf("OrigWords = %q, want final OL quotation", out[0].OrigWords)
	}
}

func TestDecompressPlainTar(t *testing.T) {
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	content := []byte("hello")
	if err := tw.WriteHeader(&tar.Header{Name: "f.txt", Size: int64(len(content)), Mode: 0644}); err != nil {
		t.Fatalf("write header: %v", err)
	}
	tw.Write(content)
	tw.Close()

	r, err := decompress(buf.Bytes())
	if err != nil {
		t.Fatalf("decompress() error = %v", err)
	}
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, buf.Bytes()) {
		t.Error("plain tar should pass through unchanged")
	}
}

func TestDecompressGzip(t *testing.T) {
	var plain bytes.Buffer
	tw := tar.NewWriter(&plain)
	tw.WriteHeader(&tar.Header{Name: "f.txt", Size: 5, Mode: 0644})
	tw.Write([]byte("hello"))
	tw.Close()

	var gz bytes.Buffer
	gw := gzip.NewWriter(&gz)
	gw.Write(plain.Bytes())
	gw.Close()

	r, err := decompress(gz.Bytes())
	if err != nil {
		t.Fatalf("decompress() error = %v", err)
	}
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, plain.Bytes()) {
		t.Errorf("gzip decompression mismatch")
	}
}

func TestIterateArchive(t *testing.T) {
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	files := map[string]string{
		"bible/kt/god.md":   "# God\n",
		"bible/names/eve.md": "# Eve\n",
	}
	for name, content := range files {
		tw.WriteHeader(&tar.Header{Name: name, Size: int64(len(content)), Mode: 0644})
		tw.Write([]byte(content))
	}
	tw.Close()

	visited := map[string]string{}
	err := iterateArchive(buf.Bytes())(func(header *tar.Header, content io.Reader) (bool, error) {
		data, err := io.ReadAll(content)
		if err != nil {
			return false, err
		}
		visited[header.Name] = string(data)
		return false, nil
	})
	if err != nil {
		t.Fatalf("iterateArchive() error = %v", err)
	}
	if len(visited) != len(files) {
		t.Fatalf("visited %d entries, want %d", len(visited), len(files))
	}
	for name, content := range files {
		if visited[name] != content {
			t.Errorf("entry %q = %q, want %q", name, visited[name], content)
		}
	}
}

func TestRunRequiresBookOrAll(t *testing.T) {
	origBook, origAll := CLI.Book, CLI.All
	defer func() { CLI.Book, CLI.All = origBook, origAll }()
	CLI.Book, CLI.All = "", false

	err := run()
	if err == nil {
		t.Error("expected error when neither --book nor --all is set")
	}
}

func TestRunRejectsUnknownBookCode(t *testing.T) {
	origBook, origAll := CLI.Book, CLI.All
	defer func() { CLI.Book, CLI.All = origBook, origAll }()
	CLI.Book, CLI.All = "ZZZ", false

	err := run()
	if err == nil {
		t.Error("expected error for unknown book code")
	}
}

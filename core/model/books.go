// Package model holds the data types shared across the translation-words
// pipeline: the 66-book canon table, vocabulary article identifiers,
// tokens, match results, and the output row shape.
package model

import (
	_ "embed"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/unfoldingword/twl/core/errors"
)

//go:embed books.yaml
var booksYAML []byte

// Book describes one of the 66 canonical Protestant-Bible books.
type Book struct {
	ID    string `yaml:"id"`   // lowercase identifier, e.g. "gen"
	Code  string `yaml:"code"` // uppercase USFM code, e.g. "GEN"
	Sort  int    `yaml:"sort"` // canonical order, 1-66
	Abbr  string `yaml:"abbr"`
	Short string `yaml:"short"`
	Long  string `yaml:"long"`
}

var (
	allBooks []Book
	byID     map[string]*Book
	byCode   map[string]*Book
)

func init() {
	if err := yaml.Unmarshal(booksYAML, &allBooks); err != nil {
		panic(errors.Wrap(err, "parse embedded book table"))
	}
	byID = make(map[string]*Book, len(allBooks))
	byCode = make(map[string]*Book, len(allBooks))
	for i := range allBooks {
		b := &allBooks[i]
		byID[b.ID] = b
		byCode[b.Code] = b
	}
}

// AllBooks returns the ordered canon table.
func AllBooks() []Book {
	return allBooks
}

// BookByID looks up a book by its lowercase identifier (e.g. "gen").
func BookByID(id string) (*Book, bool) {
	b, ok := byID[strings.ToLower(id)]
	return b, ok
}

// BookByCode looks up a book by its uppercase USFM code (e.g. "GEN").
func BookByCode(code string) (*Book, bool) {
	b, ok := byCode[strings.ToUpper(code)]
	return b, ok
}

// IsBookCode reports whether code is a recognized USFM book code.
func IsBookCode(code string) bool {
	_, ok := byCode[strings.ToUpper(code)]
	return ok
}

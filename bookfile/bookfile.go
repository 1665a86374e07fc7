// Package bookfile reads and writes the line format used to import and export the catalog:
//
//	Title, Author, Year, [Genre1, Genre2, ...]
//
// Title and author hold no commas or brackets, the year has four digits and
// whitespace around every field is ignored. The format is lossy.
package bookfile

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/supakorn-kn/go-bookshelf/errors"
	"github.com/supakorn-kn/go-bookshelf/objects"
)

var linePattern = regexp.MustCompile(`^\s*([^,\[\]]*[^,\[\]\s])\s*,\s*([^,\[\]]*[^,\[\]\s])\s*,\s*(\d{4})\s*,\s*\[([^\[\]]*)\]\s*$`)

type BookAdder interface {
	AddBook(ctx context.Context, book objects.NewBook) (objects.Book, error)
}

type BookLister interface {
	ListAll(ctx context.Context) ([]objects.Book, error)
}

func ParseLine(line string) (objects.NewBook, error) {

	matches := linePattern.FindStringSubmatch(line)
	if matches == nil {
		return objects.NewBook{}, errors.InvalidLineFormatError.New(line)
	}

	year, err := strconv.Atoi(matches[3])
	if err != nil {
		return objects.NewBook{}, errors.InvalidLineFormatError.New(line)
	}

	genres := lo.Compact(lo.Map(strings.Split(matches[4], ","), func(g string, _ int) string {
		return strings.TrimSpace(g)
	}))

	return objects.NewBook{
		Title:  strings.TrimSpace(matches[1]),
		Author: strings.TrimSpace(matches[2]),
		Year:   year,
		Genres: genres,
	}, nil
}

func FormatLine(book objects.Book) string {
	return fmt.Sprintf("%s, %s, %04d, [%s]", book.Title, book.Author, book.Year, strings.Join(book.GenreNames(), ", "))
}

type Exporter struct {
	books BookLister
}

func NewExporter(books BookLister) *Exporter {
	return &Exporter{books: books}
}

// ExportAll writes one line per book in catalog order and returns how many books were written.
func (e Exporter) ExportAll(ctx context.Context, w io.Writer) (int, error) {

	books, err := e.books.ListAll(ctx)
	if err != nil {
		return 0, err
	}

	for ix, book := range books {
		if _, err := fmt.Fprintln(w, FormatLine(book)); err != nil {
			return ix, err
		}
	}

	return len(books), nil
}

// AllowedFile reports whether filename has one of the allowed extensions, compared case-insensitively.
func AllowedFile(filename string, extensions []string) bool {

	ext := strings.TrimPrefix(filepath.Ext(filename), ".")
	if ext == "" {
		return false
	}

	return lo.ContainsBy(extensions, func(allowed string) bool {
		return strings.EqualFold(strings.TrimPrefix(allowed, "."), ext)
	})
}

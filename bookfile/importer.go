package bookfile

import (
	"bufio"
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/supakorn-kn/go-bookshelf/errors"
	"github.com/supakorn-kn/go-bookshelf/objects"
)

type Importer struct {
	books BookAdder
}

func NewImporter(books BookAdder) *Importer {
	return &Importer{books: books}
}

// ImportLine parses line and adds the book. Duplicate and storage errors from the catalog are returned unchanged.
func (i Importer) ImportLine(ctx context.Context, line string) (objects.Book, error) {

	newBook, err := ParseLine(line)
	if err != nil {
		return objects.Book{}, err
	}

	return i.books.AddBook(ctx, newBook)
}

// MaxLineLength bounds one line of an import file. A longer line is recorded as a format failure.
const MaxLineLength = 4096

// ImportAll imports every non-blank line of r on its own. A failed line is recorded in the report and
// the next line is still imported. Only a read failure of r stops the batch.
func (i Importer) ImportAll(ctx context.Context, fileName string, r io.Reader) (objects.ImportReport, error) {

	report := objects.ImportReport{
		ReportID:  uuid.NewString(),
		FileName:  fileName,
		StartedAt: time.Now().UTC(),
		Failures:  []objects.LineFailure{},
	}

	reader := bufio.NewReader(r)

	for lineNumber := 1; ; lineNumber++ {

		raw, err := reader.ReadString('\n')
		if err != nil && !stderrors.Is(err, io.EOF) {
			return report, err
		}

		if raw != "" {
			i.importNumberedLine(ctx, &report, lineNumber, strings.TrimRight(raw, "\r\n"))
		}

		if err != nil {
			break
		}
	}

	slog.Info("Import finished", "file", fileName, "total", report.Total, "imported", report.Imported, "failed", report.Failed())

	return report, nil
}

func (i Importer) importNumberedLine(ctx context.Context, report *objects.ImportReport, lineNumber int, line string) {

	if strings.TrimSpace(line) == "" {
		return
	}

	report.Total++

	var err error
	if len(line) > MaxLineLength {
		line = strings.ToValidUTF8(line[:MaxLineLength], "") + "..."
		err = errors.InvalidLineFormatError.New(line)
	} else {
		_, err = i.ImportLine(ctx, line)
	}

	if err != nil {

		slog.Warn("Import line failed", "file", report.FileName, "line", lineNumber, "error", err.Error())
		report.Failures = append(report.Failures, objects.LineFailure{
			Line:  lineNumber,
			Text:  line,
			Error: asBaseError(err),
		})
		return
	}

	report.Imported++
}

func asBaseError(err error) errors.BaseError {

	if asserted, ok := errors.TryAssertError(err); ok {
		return asserted
	}

	return errors.UnknownError.New(err)
}

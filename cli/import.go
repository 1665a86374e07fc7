package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/supakorn-kn/go-bookshelf/bookfile"
	"github.com/supakorn-kn/go-bookshelf/errors"
	"github.com/supakorn-kn/go-bookshelf/objects"
)

func newImportCommand(opts *rootOptions) *cobra.Command {

	return &cobra.Command{
		Use:   "import <file>...",
		Short: "Import books from text files",
		Long: `Import books from files holding one book per line:

  Title, Author, Year, [genre1, genre2]

A malformed or duplicate line is reported and the rest of the file is still imported.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {

			ctx := cmd.Context()

			catalog, closeCatalog, err := openCatalog(ctx, opts.config)
			if err != nil {
				return err
			}
			defer closeCatalog()

			journal, closeJournal, err := openJournal(ctx, opts.config)
			if err != nil {
				return err
			}
			defer closeJournal()

			importer := bookfile.NewImporter(catalog)

			for _, path := range args {

				if !bookfile.AllowedFile(path, opts.config.Upload.AllowedExtensions) {
					return errors.UnsupportedFileTypeError.New(path)
				}

				report, err := importFile(cmd, importer, path)
				if err != nil {
					return err
				}

				if err := journal.Record(ctx, report); err != nil {
					return err
				}

				printReport(cmd, report)
			}

			return nil
		},
	}
}

func importFile(cmd *cobra.Command, importer *bookfile.Importer, path string) (objects.ImportReport, error) {

	f, err := os.Open(path)
	if err != nil {
		return objects.ImportReport{}, err
	}
	defer f.Close()

	return importer.ImportAll(cmd.Context(), filepath.Base(path), f)
}

func printReport(cmd *cobra.Command, report objects.ImportReport) {

	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "%s: %d of %d imported\n", report.FileName, report.Imported, report.Total)
	for _, failure := range report.Failures {
		fmt.Fprintf(out, "  line %d: %s\n", failure.Line, failure.Error.Message)
	}
}

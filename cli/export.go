package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/supakorn-kn/go-bookshelf/bookfile"
)

func newExportCommand(opts *rootOptions) *cobra.Command {

	return &cobra.Command{
		Use:   "export [file]",
		Short: "Export every book as text lines",
		Long:  "Export every book ordered by title, to file when given or to stdout otherwise.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {

			ctx := cmd.Context()

			catalog, closeCatalog, err := openCatalog(ctx, opts.config)
			if err != nil {
				return err
			}
			defer closeCatalog()

			exporter := bookfile.NewExporter(catalog)

			if len(args) == 0 {
				_, err := exporter.ExportAll(ctx, cmd.OutOrStdout())
				return err
			}

			written, err := exportFile(ctx, exporter, args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "%d books exported to %s\n", written, args[0])

			return nil
		},
	}
}

// exportFile writes the export to path. A failed close is reported since it can lose buffered data.
func exportFile(ctx context.Context, exporter *bookfile.Exporter, path string) (written int, err error) {

	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}

	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	return exporter.ExportAll(ctx, f)
}

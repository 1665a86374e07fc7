package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/supakorn-kn/go-bookshelf/env"
	"github.com/supakorn-kn/go-bookshelf/models/books"
	"github.com/supakorn-kn/go-bookshelf/models/imports"
	"github.com/supakorn-kn/go-bookshelf/mongodb"
	"github.com/supakorn-kn/go-bookshelf/sqlite"
)

type rootOptions struct {
	envFiles []string
	logJSON  bool
	config   *env.Env
}

// Execute runs the bookshelf command tree with args.
func Execute(ctx context.Context, args []string) error {

	rootCmd := newRootCommand()
	rootCmd.SetArgs(args)

	return rootCmd.ExecuteContext(ctx)
}

func newRootCommand() *cobra.Command {

	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "bookshelf",
		Short: "Personal book tracker",
		Long: `Bookshelf keeps a catalog of books and their genres, imports and exports
it as plain text lines and reports reading preferences.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {

			if opts.logJSON {
				slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))
			}

			config, err := env.Load(opts.envFiles...)
			if err != nil {
				return err
			}

			opts.config = config
			return nil
		},
	}

	rootCmd.PersistentFlags().StringSliceVar(&opts.envFiles, "env-file", nil, "env files to load (default is ./.env)")
	rootCmd.PersistentFlags().BoolVar(&opts.logJSON, "log-json", false, "log as JSON instead of text")

	rootCmd.AddCommand(
		newServeCommand(opts),
		newImportCommand(opts),
		newExportCommand(opts),
	)

	return rootCmd
}

func openCatalog(ctx context.Context, config *env.Env) (*books.BooksModel, func(), error) {

	conn, err := sqlite.InitConnection(ctx, config.SQLite.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("open catalog: %w", err)
	}

	return books.NewBooksModel(conn), func() { conn.Disconnect() }, nil
}

// openJournal connects the import journal when MongoDB is configured, otherwise nothing is recorded.
func openJournal(ctx context.Context, config *env.Env) (imports.Journal, func(), error) {

	if !config.MongoDB.Enabled() {
		return imports.NoopJournal{}, func() {}, nil
	}

	conn, err := mongodb.InitConnection(ctx, config.MongoDB.URI, config.MongoDB.DB)
	if err != nil {
		return nil, nil, fmt.Errorf("open import journal: %w", err)
	}

	model, err := imports.NewImportsModel(ctx, conn)
	if err != nil {
		conn.Disconnect(ctx)
		return nil, nil, fmt.Errorf("open import journal: %w", err)
	}

	return model, func() { conn.Disconnect(context.Background()) }, nil
}

package cli

import (
	"github.com/spf13/cobra"
	"github.com/supakorn-kn/go-bookshelf/server"
)

func newServeCommand(opts *rootOptions) *cobra.Command {

	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {

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

			if cmd.Flags().Changed("port") {
				opts.config.Server.Port = port
			}

			handler := server.New(server.Dependencies{
				Books:          catalog,
				Journal:        journal,
				Upload:         opts.config.Upload,
				AnalyticsLimit: opts.config.Analytics.Limit,
			})

			return server.Run(ctx, handler, opts.config.Server.Port)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "server port (overrides SERVER_PORT)")

	return cmd
}

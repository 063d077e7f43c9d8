package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/moodisland/internal/buildinfo"
	"github.com/dmitrijs2005/moodisland/internal/client/config"
	"github.com/dmitrijs2005/moodisland/internal/client/devserver"
	"github.com/dmitrijs2005/moodisland/internal/client/router"
	"github.com/dmitrijs2005/moodisland/internal/client/store"
	"github.com/dmitrijs2005/moodisland/internal/logging"
)

type rootOptions struct {
	configPath string
	apiBaseURL string
	dbPath     string
	ephemeral  bool
	verbose    bool
	port       int

	getenv func(string) string
	stderr io.Writer
}

func (o *rootOptions) load() (*config.Config, logging.Logger, error) {
	cfg, err := config.LoadConfig(o.configPath, o.getenv, config.Overrides{
		APIBaseURL: o.apiBaseURL,
		DBPath:     o.dbPath,
		Ephemeral:  o.ephemeral,
		Port:       o.port,
	})
	if err != nil {
		return nil, nil, err
	}
	return cfg, logging.New(o.stderr, o.verbose), nil
}

// NewRootCommand builds the moodisland command tree. Without a subcommand
// it starts the interactive client.
func NewRootCommand() *cobra.Command {
	return newRootCommand(os.Getenv, os.Stderr)
}

func newRootCommand(getenv func(string) string, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{getenv: getenv, stderr: stderr}

	replCmd := &cobra.Command{
		Use:   "repl",
		Short: "Start the interactive client",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd.Context(), opts)
		},
	}

	rootCmd := &cobra.Command{
		Use:   "moodisland",
		Short: "Mood journal client for the terminal",
		Long: `moodisland is a terminal client for the mood journal service.

It keeps a diary of moods, talks to the AI companion, runs CBT exercises
and reads the anonymous treehole feed.

Quick Start:
  moodisland                  # interactive client
  moodisland routes           # list client routes
  moodisland serve -p 5173    # local dev server with /api proxy
  moodisland migrate          # migrate legacy quick emoji preferences`,
		Version:       buildinfo.String(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          replCmd.RunE,
	}
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "Path to a JSON config file")
	pf.StringVarP(&opts.apiBaseURL, "api", "a", "", "API base URL (absolute, or a path served by the backend app)")
	pf.StringVar(&opts.dbPath, "db", "", "Path to the local preferences database")
	pf.BoolVar(&opts.ephemeral, "ephemeral", false, "Keep preferences in memory only")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve client pages and proxy /api to the backend app",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	serveCmd.Flags().IntVarP(&opts.port, "port", "p", 0, "Port to listen on (default from VITE_FRONTEND_PORT or 5173)")

	routesCmd := &cobra.Command{
		Use:   "routes",
		Short: "Print the client route table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printRoutes(cmd.OutOrStdout(), router.Routes)
		},
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Move legacy custom quick emojis to the current preference key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	rootCmd.AddCommand(replCmd, serveCmd, routesCmd, migrateCmd)
	return rootCmd
}

func runInteractive(ctx context.Context, opts *rootOptions) error {
	cfg, logger, err := opts.load()
	if err != nil {
		return err
	}
	app, err := NewApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	return app.Run(ctx)
}

// openStore opens preferences and builds a store with the legacy migration
// already applied.
func openStore(ctx context.Context, cfg *config.Config, logger logging.Logger) (*store.Store, store.MigrationResult, func() error, error) {
	prefs, db, err := openPreferences(ctx, cfg)
	if err != nil {
		return nil, store.MigrationResult{}, nil, err
	}
	closeFn := func() error { return nil }
	if db != nil {
		closeFn = db.Close
	}

	st := store.New(ctx, prefs, store.WithLogger(logger))
	res := st.MigrateOldCustomQuickEmojis(ctx)
	st.UpdateGreeting()
	return st, res, closeFn, nil
}

func runServe(ctx context.Context, opts *rootOptions) error {
	cfg, logger, err := opts.load()
	if err != nil {
		return err
	}
	st, res, closeFn, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeFn()
	if res.Err != nil {
		logger.Warn(ctx, "quick emoji migration failed", "err", res.Err)
	}

	srv, err := devserver.New(cfg, st, logger)
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}

func runMigrate(ctx context.Context, w io.Writer, opts *rootOptions) error {
	cfg, logger, err := opts.load()
	if err != nil {
		return err
	}
	_, res, closeFn, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeFn()

	switch {
	case res.Err != nil:
		return fmt.Errorf("migrate quick emojis: %w", res.Err)
	case res.Skipped:
		fmt.Fprintln(w, "nothing to migrate")
	default:
		fmt.Fprintf(w, "migrated %d custom quick emojis\n", res.Migrated)
	}
	return nil
}

func printRoutes(w io.Writer, routes []router.Route) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PATH\tVIEW\tLAYOUT")
	for _, r := range routes {
		target, layout := string(r.View), r.Layout
		switch {
		case r.Redirect != "":
			target, layout = "-> "+r.Redirect, "-"
		case layout == "":
			layout = "app"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Path, target, layout)
	}
	fmt.Fprintf(tw, "%s\t%s\t%s\n", "*", router.ViewNotFound, "app")
	return tw.Flush()
}

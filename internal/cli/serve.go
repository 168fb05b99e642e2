package cli

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dungeonforge/internal/api"
	"github.com/matzehuels/dungeonforge/pkg/cache"
)

const shutdownTimeout = 10 * time.Second

// serveOpts holds flags for the serve command.
type serveOpts struct {
	addr     string
	scope    string
	backends backendFlags
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve exposes dungeon builds over HTTP. Layouts are cached in Redis with
--redis (the file cache otherwise) and stored in MongoDB with --mongo (in
memory otherwise, lost on restart).`,
		Example: `  dungeonforge serve --addr :8080
  dungeonforge serve --redis redis://localhost:6379/0 --mongo mongodb://localhost:27017`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&opts.scope, "cache-scope", "", "prefix for cache keys when several deployments share a cache")
	opts.backends.register(cmd, true)

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(ctx, opts.backends)
	if err != nil {
		return err
	}
	defer runner.Close()
	if opts.scope != "" {
		runner.Keyer = cache.NewScopedKeyer(runner.Keyer, opts.scope+":")
	}

	srv := &http.Server{
		Addr:              opts.addr,
		Handler:           api.NewServer(runner, logger).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", opts.addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

package cli

import (
	"context"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/maxcopeland/openml-go/internal/server"
	"github.com/maxcopeland/openml-go/pkg/registry"
)

// serveCommand creates the "serve" subcommand running the local registry
// server.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local flow and trace registry server",
		Long: `Run the local flow and trace registry server.

Flows and traces are persisted in MongoDB when a URI is configured under
[mongo] in the config file; without one, everything lives in memory and is
lost on shutdown.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = store.Close(shutdownCtx)
			}()

			srv := &http.Server{
				Addr:    addr,
				Handler: server.New(store, c.Logger).Handler(),
			}
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()

			c.Logger.Info("registry server listening", "addr", addr)
			if err := srv.ListenAndServe(); err != http.ErrServerClosed {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}

// newStore builds the configured registry store.
func (c *CLI) newStore(ctx context.Context) (registry.Store, error) {
	if c.Config.Mongo.URI == "" {
		c.Logger.Warn("no mongo uri configured, using the in-memory store")
		return registry.NewMemoryStore(), nil
	}
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return registry.NewMongoStore(connectCtx, c.Config.Mongo.URI, c.Config.Mongo.Database)
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/ridoystarlord/bakery/graph"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the GraphQL server",
	Long: `Serve bakeries and chefs over GraphQL.

Routes:
  POST /graphql   execute a query or mutation
  GET  /graphql   GraphQL playground
  GET  /health    liveness probe
  GET  /metrics   Prometheus metrics

Examples:
  bakery serve                 # Listen on PORT or 8000
  bakery serve --port 3000     # Listen on port 3000
  bakery serve --debug         # Log every SQL statement
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustLoadConfig()
		log := newLogger(cfg.Debug)
		defer log.Sync()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		db, store := mustOpenStore(ctx, cfg, log, reg)
		defer db.Close()

		handler, err := graph.NewHandler(graph.Options{Store: store, Logger: log, Registry: reg})
		if err != nil {
			fmt.Println("❌ Failed to build GraphQL schema:", err)
			os.Exit(1)
		}

		srv := &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		fmt.Printf("🚀 Starting bakery GraphQL server on http://localhost:%s/graphql\n", cfg.Port)
		fmt.Println("Press Ctrl+C to stop the server")

		if err := serve(ctx, srv); err != nil {
			fmt.Println("❌ Server failed:", err)
			os.Exit(1)
		}
		fmt.Println("👋 Server stopped")
	},
}

func init() {
	serveCmd.Flags().StringP("port", "p", "8000", "Port to run the GraphQL server on")
	viper.BindPFlag("port", serveCmd.Flags().Lookup("port"))
}

// serve runs srv until ctx is cancelled, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

package cmd

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"gpa-calculator/controllers"

	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the GPA/CGPA HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8000)")
	serveCmd.Flags().Bool("watch", false, "reload catalogs when spreadsheet files change")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}

	if a.cfg.Cache.Enabled && a.cfg.Cache.Watch {
		go func() {
			if err := a.cache.Watch(ctx); err != nil {
				level.Error(a.logger).Log("msg", "catalog watch stopped", "err", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:              a.cfg.Addr,
		Handler:           controllers.NewRouter(a.cache, a.engine, a.logger),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		level.Info(a.logger).Log("msg", "server started", "addr", a.cfg.Addr, "data_dir", a.cfg.DataDir)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	level.Info(a.logger).Log("msg", "shutting down")
	return srv.Shutdown(shutdownCtx)
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/f3rmion/custseg/internal/web"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the predictor form over HTTP",
	Long: `Serve the customer form as a web page. Each request assembles its own
record; the loaded model is shared by all sessions.

Routes:
  GET  /             the form
  POST /predict      predict from submitted form values
  GET  /api/schema   field schema as JSON
  POST /api/predict  predict from a JSON object of field values
  GET  /healthz      liveness

Example:
  custseg serve --addr 127.0.0.1:8501`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8501", "listen address")
	viper.BindPFlag("addr", serveCmd.Flags().Lookup("addr"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	m, err := loadModel(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	log := cliLogger(cfg, cmd)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           web.NewServer(m, cfg.ModelPath(), log).Handler(cmd.ErrOrStderr()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", cfg.Addr, "model", cfg.ModelPath(), "clusters", m.K())
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	log.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

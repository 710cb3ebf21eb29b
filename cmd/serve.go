package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/fmuoria/ats-filter/internal/api"
	"github.com/fmuoria/ats-filter/internal/config"
	"github.com/fmuoria/ats-filter/internal/dictionary"
	"github.com/fmuoria/ats-filter/internal/extract"
	"github.com/fmuoria/ats-filter/internal/ingestion"
	"github.com/fmuoria/ats-filter/internal/logger"
	"github.com/fmuoria/ats-filter/internal/scoring"
	"github.com/fmuoria/ats-filter/internal/screener"
	"github.com/fmuoria/ats-filter/internal/store"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the screening HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(viper.GetViper(), cfgFile)
		if err != nil {
			return err
		}
		return runServe(cmd.Context(), cfg)
	},
}

func init() {
	serveCmd.Flags().String("listen", "", "HTTP listen address")
	serveCmd.Flags().String("uploads-dir", "", "directory for original document bytes")
	serveCmd.Flags().String("dictionary", "", "path to a YAML skills dictionary")

	viper.BindPFlag("listen_addr", serveCmd.Flags().Lookup("listen"))
	viper.BindPFlag("uploads_dir", serveCmd.Flags().Lookup("uploads-dir"))
	viper.BindPFlag("dictionary_path", serveCmd.Flags().Lookup("dictionary"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context, cfg *config.Config) error {
	log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer log.Sync()

	dict, err := dictionary.Load(cfg.DictionaryPath)
	if err != nil {
		return fmt.Errorf("loading dictionary: %w", err)
	}

	files := ingestion.NewFileHandler(cfg.UploadsDir)
	sc := screener.New(
		store.New(),
		extract.New(dict, log),
		scoring.NewScorer(cfg.Weights),
		files,
		log,
	)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           api.NewServer(sc, files, log).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", cfg.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

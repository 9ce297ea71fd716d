package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Himanshusinh/Vachanamrut-backend/internal/config"
	"github.com/Himanshusinh/Vachanamrut-backend/internal/logger"
	"github.com/Himanshusinh/Vachanamrut-backend/pkg/genai"
	"github.com/Himanshusinh/Vachanamrut-backend/pkg/history"
	"github.com/Himanshusinh/Vachanamrut-backend/pkg/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the backend HTTP server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	// Optional .env next to the binary, same shape as the deployment env.
	_ = godotenv.Load()

	cfg, err := config.NewLoader(cfgFile).Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	lg, err := logger.New(logger.Config{
		Level:   cfg.Logging.Level,
		File:    cfg.Logging.File,
		Console: cfg.Logging.Console,
		Pretty:  cfg.Logging.Pretty,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer lg.Close()

	store, err := history.NewStore(cfg.History.Dir)
	if err != nil {
		return fmt.Errorf("failed to initialize history store: %w", err)
	}
	matcher := history.NewMatcher(store)

	provider, err := genai.NewClient(genai.Options{
		APIKey:  cfg.GoogleAI.APIKey,
		BaseURL: cfg.GoogleAI.BaseURL,
		Timeout: time.Duration(cfg.GoogleAI.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize gemini client: %w", err)
	}

	srv, err := server.NewServer(server.Options{
		Host:      cfg.Server.Host,
		Port:      cfg.Server.Port,
		Threshold: cfg.History.Threshold,
	}, store, matcher, provider, lg.Zerolog())
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		zl := lg.Zerolog()
		zl.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		return srv.Stop()
	}
}

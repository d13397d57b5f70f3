package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/knottin/enquiry-api/internal/config"
	"github.com/knottin/enquiry-api/internal/logging"
	"github.com/knottin/enquiry-api/internal/server"
	"github.com/knottin/enquiry-api/internal/telemetry"
	"github.com/knottin/enquiry-api/internal/version"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var (
	cfg    *config.Config
	logger *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "enquiry-api",
	Short: "Knottin website enquiry API",
	Long: `enquiry-api accepts contact form submissions, screens the sender's email
address and forwards each enquiry to the school inbox.

Running without a subcommand starts the HTTP server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == versionCmd.Name() {
			return nil
		}
		return setup()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Info())
	},
}

// setup loads configuration and installs the global logger
func setup() error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return err
	}

	logConfig := logging.DefaultConfig()
	logConfig.Level = cfg.LogLevel
	logConfig.File = cfg.LogFile
	if err := logging.InitLogger(logConfig); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = logging.GetGlobalLogger()
	return nil
}

func serve(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting %s %s in %s mode", server.ServiceName, version.Version, cfg.Environment)

	shutdownTracer, err := telemetry.InitTracer(ctx, server.ServiceName, version.Version, cfg.OTLPEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracer(flushCtx); err != nil {
			logger.Error("Failed to flush traces: %v", err)
		}
	}()

	srv := server.NewServer(cfg, logger)
	if err := srv.Init(ctx); err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("Shutdown signal received, draining connections...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logger.Info("Server stopped")
	return nil
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(checkEmailCmd)
	rootCmd.AddCommand(renderTemplateCmd)

	renderTemplateCmd.Flags().String("template", "", "Template path (default: ENQUIRY_TEMPLATE_PATH)")
	renderTemplateCmd.Flags().String("parent-name", "Jane Doe", "Parent name")
	renderTemplateCmd.Flags().String("email", "jane@example.com", "Contact email")
	renderTemplateCmd.Flags().String("mobile", "0400 000 000", "Mobile number")
	renderTemplateCmd.Flags().StringSlice("program", []string{"Before School Care", "Vacation Care"}, "Selected program (repeatable)")
	renderTemplateCmd.Flags().String("message", "We would like to enrol next term.", "Enquiry message")
}

func main() {
	err := rootCmd.Execute()
	if logger != nil {
		logger.Close()
	}
	if err != nil {
		os.Exit(1)
	}
}

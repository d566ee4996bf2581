package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/genricoloni/marqueed/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

const envConfigPath = "MARQUEED_CONFIG"

var (
	configPath string
	debug      bool
	logFile    string
)

var rootCmd = &cobra.Command{
	Use:   "marqueed",
	Short: "marqueed: keeps the marquee screen in sync with the frontend",
	Long: `marqueed watches the frontend signal file and shows the marquee of the
selected system or game on a dedicated screen through an external player.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDaemon(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath(), "Path to config.ini")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Also write logs to this file")
}

func defaultConfigPath() string {
	if p := os.Getenv(envConfigPath); p != "" {
		return p
	}
	return config.DefaultPath
}

func currentLogOptions() logOptions {
	return logOptions{Debug: debug, File: logFile}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// runDaemon runs the agent until SIGINT/SIGTERM or the exit hotkey
func runDaemon(parent context.Context) error {
	app := fx.New(appOptions(configPath, currentLogOptions()))
	if err := app.Err(); err != nil {
		return err
	}

	// Handle graceful shutdown
	ctx, cancel := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	startCtx, cancelStart := context.WithTimeout(ctx, app.StartTimeout())
	defer cancelStart()

	// Start the application
	if err := app.Start(startCtx); err != nil {
		return err
	}

	// Wait for a signal or a shutdown request from the exit hotkey
	select {
	case <-ctx.Done():
	case <-app.Done():
	}

	// Stop the application gracefully
	stopCtx, cancelStop := context.WithTimeout(context.Background(), app.StopTimeout())
	defer cancelStop()

	return app.Stop(stopCtx)
}

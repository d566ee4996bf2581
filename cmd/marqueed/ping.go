package main

import (
	"context"
	"fmt"
	"time"

	"github.com/genricoloni/marqueed/internal/config"
	"github.com/genricoloni/marqueed/internal/executor"
	"github.com/genricoloni/marqueed/internal/player"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(cmdPing)
}

var pingTimeoutSeconds int

func init() {
	cmdPing.Flags().IntVarP(&pingTimeoutSeconds, "timeout", "t", 2, "Timeout in seconds for the player test command")
}

// `marqueed ping` runs MPVTestCommand and prints "pong" when the player answers
var cmdPing = &cobra.Command{
	Use:   "ping",
	Short: "Check that the marquee player answers on its IPC channel",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger(currentLogOptions())
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		cfg, err := config.NewConfig(logger, configPath)
		if err != nil {
			return err
		}

		parent := cmd.Context()
		if parent == nil {
			parent = context.Background()
		}
		ctx, cancel := context.WithTimeout(parent, time.Duration(pingTimeoutSeconds)*time.Second)
		defer cancel()

		p := player.NewPlayer(logger, cfg, executor.NewExecutor(logger))
		if err := p.Ping(ctx); err != nil {
			return fmt.Errorf("player not answering: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "pong")
		return nil
	},
}

package main

import (
	"fmt"
	"os"

	"github.com/genricoloni/marqueed/internal/config"
	"github.com/genricoloni/marqueed/internal/domain"
	"github.com/genricoloni/marqueed/internal/monitor"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(cmdEmit)
}

var (
	emitEvent  string
	emitParam1 string
	emitParam2 string
	emitFile   string
)

func init() {
	cmdEmit.Flags().StringVarP(&emitEvent, "event", "e", domain.EventGameSelected, "Event name")
	cmdEmit.Flags().StringVar(&emitParam1, "param1", "", "System name")
	cmdEmit.Flags().StringVar(&emitParam2, "param2", "", "Game name")
	cmdEmit.Flags().StringVarP(&emitFile, "file", "f", "", "Signal file (defaults to SignalFile from the config)")
}

// `marqueed emit` writes a selection record the way the frontend does
var cmdEmit = &cobra.Command{
	Use:   "emit",
	Short: "Write a selection event into the signal file",
	Example: `  marqueed emit --event system-selected --param1 snes
  marqueed emit --event game-selected --param1 snes --param2 "Super Mario World"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if emitEvent == "" {
			return fmt.Errorf("--event is required")
		}

		path := emitFile
		if path == "" {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			path = cfg.Settings.SignalFile
		}

		record, err := monitor.EncodeSignal(domain.SelectionEvent{
			Name:   emitEvent,
			Param1: emitParam1,
			Param2: emitParam2,
		})
		if err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}

		if err := os.WriteFile(path, []byte(record), 0o644); err != nil {
			return fmt.Errorf("failed to write signal file: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), record)
		return nil
	},
}

package main

import (
	"fmt"

	"github.com/genricoloni/marqueed/internal/config"
	"github.com/genricoloni/marqueed/internal/domain"
	"github.com/genricoloni/marqueed/internal/marquee"
	"github.com/genricoloni/marqueed/internal/systems"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(cmdResolve)
}

var (
	resolveSystem     string
	resolveGame       string
	resolveCollection string
)

func init() {
	cmdResolve.Flags().StringVarP(&resolveSystem, "system", "s", "", "System name")
	cmdResolve.Flags().StringVarP(&resolveGame, "game", "g", "", "Game name (requires --system)")
	cmdResolve.Flags().StringVar(&resolveCollection, "collection", "", "Collection name")
}

// `marqueed resolve` prints the marquee the daemon would show
var cmdResolve = &cobra.Command{
	Use:   "resolve",
	Short: "Print the marquee image for a system, game or collection",
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := resolveRequest()
		if err != nil {
			return err
		}

		logger, err := newLogger(currentLogOptions())
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		cfg, err := config.NewConfig(logger, configPath)
		if err != nil {
			return err
		}

		reg, err := systems.Load(logger, cfg.Settings.SystemsConfigPath)
		if err != nil {
			return err
		}

		resolver := marquee.NewResolver(logger, afero.NewOsFs(), cfg, reg)
		fmt.Fprintln(cmd.OutOrStdout(), resolver.Resolve(req))
		return nil
	},
}

func resolveRequest() (domain.MarqueeRequest, error) {
	switch {
	case resolveCollection != "" && (resolveSystem != "" || resolveGame != ""):
		return domain.MarqueeRequest{}, fmt.Errorf("--collection cannot be combined with --system or --game")
	case resolveCollection != "":
		return domain.CollectionMarquee(resolveCollection), nil
	case resolveGame != "":
		if resolveSystem == "" {
			return domain.MarqueeRequest{}, fmt.Errorf("--game requires --system")
		}
		return domain.GameMarquee(resolveSystem, resolveGame), nil
	case resolveSystem != "":
		return domain.SystemMarquee(resolveSystem), nil
	default:
		return domain.MarqueeRequest{}, fmt.Errorf("one of --system or --collection is required")
	}
}

package main

import (
	"context"

	"github.com/genricoloni/marqueed/internal/config"
	"github.com/genricoloni/marqueed/internal/display"
	"github.com/genricoloni/marqueed/internal/domain"
	"github.com/genricoloni/marqueed/internal/engine"
	"github.com/genricoloni/marqueed/internal/executor"
	"github.com/genricoloni/marqueed/internal/generator"
	"github.com/genricoloni/marqueed/internal/hotkey"
	"github.com/genricoloni/marqueed/internal/marquee"
	"github.com/genricoloni/marqueed/internal/monitor"
	"github.com/genricoloni/marqueed/internal/notifier"
	"github.com/genricoloni/marqueed/internal/player"
	"github.com/genricoloni/marqueed/internal/state"
	"github.com/genricoloni/marqueed/internal/systems"
	"github.com/spf13/afero"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// logOptions controls the root logger
type logOptions struct {
	Debug bool
	File  string
}

// appOptions assembles the daemon dependency graph
func appOptions(cfgPath string, logOpts logOptions) fx.Option {
	return fx.Options(
		// Logger configuration
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),

		fx.Supply(logOpts),

		// Provide dependencies
		fx.Provide(
			newLogger,
			func(logger *zap.Logger) (*config.Config, error) {
				return config.NewConfig(logger, cfgPath)
			},
			newFs,
			state.NewSelection,
			display.NewMarqueeResolution,
			fx.Annotate(newRegistry, fx.As(new(marquee.FolderLookup))),
			fx.Annotate(executor.NewExecutor, fx.As(new(domain.Runner))),
			fx.Annotate(marquee.NewResolver, fx.As(new(domain.Resolver))),
			fx.Annotate(player.NewPlayer, fx.As(new(domain.Player))),
			fx.Annotate(generator.NewCompositor, fx.As(new(domain.Generator))),
			fx.Annotate(notifier.NewDesktopNotifier, fx.As(fx.Self()), fx.As(new(domain.Notifier))),
			fx.Annotate(monitor.NewSignalWatcher, fx.As(new(domain.SignalSource))),
			fx.Annotate(hotkey.NewSource, fx.As(new(domain.KeySource))),
			engine.NewEngine,
			engine.NewDispatcher,
		),

		// Lifecycle hooks
		fx.Invoke(registerHooks),
	)
}

// newLogger creates the root zap logger
func newLogger(opts logOptions) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if opts.Debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	if opts.File != "" {
		cfg.OutputPaths = append(cfg.OutputPaths, opts.File)
		cfg.ErrorOutputPaths = append(cfg.ErrorOutputPaths, opts.File)
	}
	return cfg.Build()
}

func newFs() afero.Fs {
	return afero.NewOsFs()
}

func newRegistry(logger *zap.Logger, cfg *config.Config) (*systems.Registry, error) {
	return systems.Load(logger, cfg.Settings.SystemsConfigPath)
}

// registerHooks sets up application lifecycle hooks
func registerHooks(
	lc fx.Lifecycle,
	logger *zap.Logger,
	eng *engine.Engine,
	disp *engine.Dispatcher,
	notif *notifier.DesktopNotifier,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("Marqueed started")

			if err := eng.Start(ctx); err != nil {
				return err
			}
			if err := disp.Start(ctx); err != nil {
				return multierr.Append(err, eng.Stop(ctx))
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Shutting down")
			// The engine kills the player, so it goes before anything that may stall
			return multierr.Combine(
				eng.Stop(ctx),
				disp.Stop(ctx),
				notif.Close(),
			)
		},
	})
}

// Package player owns the lifecycle of the external marquee display process.
package player

import (
	"context"
	"errors"
	"strconv"

	"github.com/genricoloni/marqueed/internal/config"
	"github.com/genricoloni/marqueed/internal/domain"
	"github.com/genricoloni/marqueed/internal/pathutil"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// Placeholders understood by the player command templates
const (
	MPVPathToken          = "MPVPath"
	IPCChannelToken       = "IPCChannel"
	ScreenNumberToken     = "ScreenNumber"
	DefaultImagePathToken = "DefaultImagePath"
	MarqueeFileToken      = "marquee_file"
)

// ErrNoTestCommand is returned by Ping when MPVTestCommand is not configured
var ErrNoTestCommand = errors.New("no player test command configured")

// Player drives the external media player through configured command templates.
// Every command is best-effort: failures are logged and never returned.
type Player struct {
	logger   *zap.Logger
	runner   domain.Runner
	settings *config.Settings
	commands config.Commands
	running  atomic.Bool
}

// NewPlayer creates a player controller in the Stopped state
func NewPlayer(logger *zap.Logger, cfg *config.Config, runner domain.Runner) *Player {
	return &Player{
		logger:   logger,
		runner:   runner,
		settings: &cfg.Settings,
		commands: cfg.Commands,
	}
}

// Launch kills any running instance, then starts a new detached player
// showing the default image
func (p *Player) Launch(ctx context.Context) {
	p.Kill(ctx)

	command := pathutil.Substitute(p.settings.MPVLaunchCommand, pathutil.Bindings{
		MPVPathToken:          p.settings.MPVPath,
		IPCChannelToken:       p.settings.IPCChannel,
		ScreenNumberToken:     strconv.Itoa(p.settings.ScreenNumber),
		DefaultImagePathToken: p.settings.DefaultImagePath,
	})

	p.logger.Info("Launching player", zap.String("command", command))

	if err := p.runner.Spawn(ctx, command); err != nil {
		p.logger.Error("Failed to launch player", zap.Error(err))
		return
	}

	p.running.Store(true)
	p.logger.Info("Player launched")
}

// Kill runs the configured kill command. A player that is not running is not an error.
func (p *Player) Kill(ctx context.Context) {
	p.logger.Info("Stopping player", zap.String("command", p.settings.MPVKillCommand))

	if err := p.runner.Run(ctx, p.settings.MPVKillCommand); err != nil {
		p.logger.Debug("Kill command reported failure", zap.Error(err))
	}

	p.running.Store(false)
}

// UpdateDisplay asks the running player to show imagePath. It is a no-op when
// no command is registered for game-selected.
func (p *Player) UpdateDisplay(ctx context.Context, imagePath string) {
	template, ok := p.commands.Lookup(domain.EventGameSelected)
	if !ok {
		p.logger.Debug("No display update command configured")
		return
	}

	command := pathutil.Substitute(template, pathutil.Bindings{
		MarqueeFileToken: imagePath,
		IPCChannelToken:  p.settings.IPCChannel,
	})

	p.logger.Info("Updating marquee", zap.String("path", imagePath))

	if err := p.runner.Run(ctx, command); err != nil {
		p.logger.Warn("Display update failed",
			zap.String("path", imagePath),
			zap.Error(err))
	}
}

// Ping runs the configured test command against the player's control channel
func (p *Player) Ping(ctx context.Context) error {
	if p.settings.MPVTestCommand == "" {
		return ErrNoTestCommand
	}

	command := pathutil.Substitute(p.settings.MPVTestCommand, pathutil.Bindings{
		MPVPathToken:    p.settings.MPVPath,
		IPCChannelToken: p.settings.IPCChannel,
	})
	return p.runner.Run(ctx, command)
}

// Running reports whether the last launch succeeded and no kill followed it
func (p *Player) Running() bool {
	return p.running.Load()
}

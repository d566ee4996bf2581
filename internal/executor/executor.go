package executor

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// ErrEmptyCommand is returned when a command template expands to nothing
var ErrEmptyCommand = errors.New("empty command")

// ShellExecutor runs command lines through the platform shell with all
// standard streams attached to the null device
type ShellExecutor struct {
	logger *zap.Logger
}

// NewExecutor creates a new shell-backed command runner
func NewExecutor(logger *zap.Logger) *ShellExecutor {
	logger.Debug("Shell executor initialized", zap.String("shell", shellName))
	return &ShellExecutor{logger: logger}
}

// Spawn starts command detached from the caller and returns once it is
// running. The process outlives ctx; it is reaped in the background.
func (e *ShellExecutor) Spawn(ctx context.Context, command string) error {
	if strings.TrimSpace(command) == "" {
		return ErrEmptyCommand
	}

	// Background context: cancelling the caller must not kill a detached process
	cmd := shellCommand(context.Background(), command)
	detach(cmd)

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %q: %w", command, err)
	}

	pid := cmd.Process.Pid
	e.logger.Debug("Process spawned", zap.Int("pid", pid), zap.String("command", command))

	go func() {
		err := cmd.Wait()
		e.logger.Debug("Spawned process exited", zap.Int("pid", pid), zap.Error(err))
	}()

	return nil
}

// Run executes command and waits for it to finish
func (e *ShellExecutor) Run(ctx context.Context, command string) error {
	if strings.TrimSpace(command) == "" {
		return ErrEmptyCommand
	}

	cmd := shellCommand(ctx, command)
	hide(cmd)

	e.logger.Debug("Running command", zap.String("command", command))

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("command %q exited with code %d", command, exitErr.ExitCode())
		}
		return fmt.Errorf("failed to run %q: %w", command, err)
	}

	return nil
}

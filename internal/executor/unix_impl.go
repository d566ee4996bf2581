//go:build !windows
// +build !windows

package executor

import (
	"context"
	"os/exec"
	"syscall"
)

const shellName = "/bin/sh"

func shellCommand(ctx context.Context, command string) *exec.Cmd {
	return exec.CommandContext(ctx, shellName, "-c", command)
}

// detach puts the child in its own process group so terminal signals
// aimed at the agent do not reach the player
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// hide is a no-op: Unix processes have no console window
func hide(cmd *exec.Cmd) {}

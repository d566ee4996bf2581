//go:build windows
// +build windows

package executor

import (
	"context"
	"os/exec"
	"syscall"

	"golang.org/x/sys/windows"
)

const shellName = "cmd"

// shellCommand passes command to cmd /C verbatim; the default argument
// quoting would break templates that carry their own quotes
func shellCommand(ctx context.Context, command string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, shellName)
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CmdLine: shellName + " /C " + command,
	}
	return cmd
}

func detach(cmd *exec.Cmd) {
	hide(cmd)
	cmd.SysProcAttr.CreationFlags |= windows.CREATE_NEW_PROCESS_GROUP
}

// hide prevents a console window from flashing up
func hide(cmd *exec.Cmd) {
	cmd.SysProcAttr.HideWindow = true
	cmd.SysProcAttr.CreationFlags |= windows.CREATE_NO_WINDOW
}

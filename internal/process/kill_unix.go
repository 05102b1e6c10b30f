//go:build !windows

// Package process manages the lifetime of external renderer processes.
package process

import (
	"os/exec"
	"syscall"
)

// KillProcessGroup kills a process and all its children by sending SIGKILL
// to the process group (negative PID).
func KillProcessGroup(pid int) {
	// Best-effort; exec.Cmd still reaps the leader.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}

// Configure places cmd in its own process group and makes context
// cancellation kill the whole group, so a renderer that forks helpers
// does not outlive an interrupted run.
func Configure(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process != nil {
			KillProcessGroup(cmd.Process.Pid)
		}
		return nil
	}
}

//go:build !windows

// Package process provides cleanup helpers for the browser process tree.
package process

import "syscall"

// KillProcessGroup kills a process and all its children by sending SIGKILL
// to the process group (negative PID). Chromium spawns renderer and GPU
// children that outlive the main process if only it is killed.
func KillProcessGroup(pid int) {
	// Best-effort cleanup; error ignored as launcher.Kill() provides fallback
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}

//go:build !windows

package process

import "syscall"

// KillProcessGroup sends SIGKILL to the process group led by pid, taking
// Chrome's renderer and GPU children down with it. PIDs below 2 are ignored
// so a zero value never signals the caller's own group or init.
func KillProcessGroup(pid int) {
	if pid < 2 {
		return
	}
	// Errors are ignored: the launcher's own Kill runs afterwards.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}

//go:build !windows

package process

import "syscall"

// KillProcessGroup sends SIGKILL to the process group led by pid, taking
// Chrome's renderer and GPU helpers down with the browser.
// Non-positive pids are ignored: -0 and -(-1) would signal the wrong group.
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	// Best effort: launcher.Kill runs afterwards anyway.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}

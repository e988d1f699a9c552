//go:build windows

package executor

import "os/exec"

// Windows has no process groups to signal; exec kills the direct child.
func setProcessGroup(cmd *exec.Cmd) {}

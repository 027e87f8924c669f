//go:build !windows

package launch

import "os/exec"

func configurePlatformImpl(cmd *exec.Cmd) {}

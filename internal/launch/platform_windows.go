//go:build windows

package launch

import (
	"os/exec"
	"syscall"
)

func configurePlatformImpl(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{CreationFlags: 0x08000000} // CREATE_NO_WINDOW
}

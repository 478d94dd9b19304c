//go:build !unix

package reformat

import (
	"os/exec"
	"time"
)

func setupProcessGroup(cmd *exec.Cmd) {
	cmd.WaitDelay = time.Second
}

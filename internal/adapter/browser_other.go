//go:build !windows

package adapter

import (
	"os/exec"
	"runtime"
)

func openFolder(path string) error {
	if runtime.GOOS == "darwin" {
		return exec.Command("open", path).Run()
	}

	return exec.Command("xdg-open", path).Run()
}

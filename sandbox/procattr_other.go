//go:build !unix

package sandbox

import "os/exec"

func isolateProcessGroup(*exec.Cmd) {}

func ulimitSupported() bool {
	return false
}

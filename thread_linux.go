//go:build linux

package visor

import "golang.org/x/sys/unix"

// currentThreadID returns the kernel id of the calling OS thread.
func currentThreadID() int {
	return unix.Gettid()
}

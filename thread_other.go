//go:build !linux

package visor

// currentThreadID returns 0 where no thread id is available, which disables
// render-thread assertions.
func currentThreadID() int {
	return 0
}

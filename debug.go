package visor

import (
	"fmt"
	"log"
	"os"
)

// globalDebug enables the extra checks on entity mutations. Set through
// App.SetDebugMode or SetDebug.
var globalDebug bool

// SetDebug toggles the package-wide debug checks.
func SetDebug(enabled bool) {
	globalDebug = enabled
}

// defaultLogger is used when no logger is configured.
var defaultLogger = log.New(os.Stderr, "[visor] ", log.LstdFlags)

// debugCheckDisposed panics with a descriptive message when a disposed entity
// is used in a tree operation. In release mode callers skip this entirely.
func debugCheckDisposed(e *Entity, op string) {
	if e.disposed {
		panic(fmt.Sprintf("visor debug: %s on disposed entity %q (ID was %d)", op, e.Name, e.ID))
	}
}

// debugCheckThread panics if e belongs to an App and the caller is not on
// that App's render thread.
func (e *Entity) debugCheckThread(op string) {
	if e.app != nil {
		e.app.assertRenderThread(op)
	}
}

// debugCheckTreeDepth warns if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(e *Entity) {
	depth := 0
	for p := e; p != nil; p = p.parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		loggerFor(e).Printf("warning: tree depth %d exceeds %d (entity %q)",
			depth, debugMaxTreeDepth, e.Name)
	}
}

// debugCheckChildCount warns if an entity has more than 1000 children.
const debugMaxChildCount = 1000

func debugCheckChildCount(e *Entity) {
	if len(e.children) > debugMaxChildCount {
		loggerFor(e).Printf("warning: entity %q has %d children (threshold %d)",
			e.Name, len(e.children), debugMaxChildCount)
	}
}

func loggerFor(e *Entity) *log.Logger {
	if e.app != nil {
		return e.app.log
	}
	return defaultLogger
}

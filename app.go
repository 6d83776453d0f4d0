package visor

import (
	"fmt"
	"log"
	"runtime"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// AppConfig holds optional App settings.
type AppConfig struct {
	// Logger receives warnings and recovered UI-thread panics. Defaults to
	// stderr with a "[visor] " prefix.
	Logger *log.Logger
	// Registerer receives the App's metrics. Nil leaves them unregistered.
	Registerer prometheus.Registerer
	// Debug enables the debug checks (see SetDebugMode).
	Debug bool
}

// App is the frame driver. It owns the handle registry for one Native, the
// current Scene, the render-thread action queue and the UI thread.
//
// The goroutine that first calls Frame (or Bind) becomes the render thread:
// it is locked to its OS thread and every later Frame, SetScene and HandleKey
// must come from it. Other goroutines hand work over with RunOnRenderThread.
type App struct {
	native  Native
	handles *Handles
	log     *log.Logger
	metrics *appMetrics
	debug   bool

	scene       *Scene
	frameNumber int

	bound     bool
	renderTID int

	mu       sync.Mutex
	deferred []func()

	uiMu    sync.Mutex
	uiQueue []uiTask
	uiWake  chan struct{}
	uiStop  chan struct{}
	uiStart sync.Once
	closed  bool

	animators []*Animator
	animBuf   []*Animator
	finished  []*Animator

	injectQueue []injectedInput
	testRunner  *TestRunner
}

type uiTask struct {
	fn   func()
	done func()
}

// NewApp creates an App driving native.
func NewApp(native Native, cfg AppConfig) *App {
	a := &App{
		native:  native,
		handles: NewHandles(native),
		log:     cfg.Logger,
		metrics: newAppMetrics(cfg.Registerer),
		uiWake:  make(chan struct{}, 1),
		uiStop:  make(chan struct{}),
	}
	if a.log == nil {
		a.log = defaultLogger
	}
	if cfg.Debug {
		a.SetDebugMode(true)
	}
	return a
}

// Handles returns the App's handle registry.
func (a *App) Handles() *Handles { return a.handles }

// Native returns the renderer the App drives.
func (a *App) Native() Native { return a.native }

// Logger returns the App's logger.
func (a *App) Logger() *log.Logger { return a.log }

// NewEntity returns an entity backed by a new foreign object.
func (a *App) NewEntity() *Entity { return a.handles.NewEntity() }

// FrameNumber returns the frame number of the frame in progress or last run.
func (a *App) FrameNumber() int { return a.frameNumber }

// SetDebugMode enables or disables debug mode. When enabled, disposed-entity
// access panics, mutating an attached entity (tree, components, transform,
// opacity, visibility, listeners) off the render thread panics, and tree
// depth and child count warnings are logged.
func (a *App) SetDebugMode(enabled bool) {
	a.debug = enabled
	SetDebug(enabled)
}

// Bind makes the calling goroutine the render thread. Frame binds implicitly
// on its first call. Binding twice from the same thread is a no-op.
func (a *App) Bind() {
	if a.bound {
		a.assertRenderThread("Bind")
		return
	}
	runtime.LockOSThread()
	a.bound = true
	a.renderTID = currentThreadID()
}

// assertRenderThread panics if the App is bound and the caller runs on some
// other OS thread.
func (a *App) assertRenderThread(op string) {
	if !a.bound || a.renderTID == 0 {
		return
	}
	if tid := currentThreadID(); tid != a.renderTID {
		panic(fmt.Sprintf("visor: %s called off the render thread (thread %d, render thread %d)", op, tid, a.renderTID))
	}
}

// Scene returns the current scene, or nil.
func (a *App) Scene() *Scene { return a.scene }

// SetScene makes s the current scene. The previous scene's OnStop runs and
// the animators of its entities are cancelled without firing OnEnd. Then
// s's OnInit (first time only) and OnStart run. Passing nil clears the scene.
func (a *App) SetScene(s *Scene) {
	a.assertRenderThread("SetScene")
	if s == a.scene {
		return
	}
	if old := a.scene; old != nil {
		if old.OnStop != nil {
			old.OnStop(old)
		}
		old.Entity.setApp(nil)
		a.cancelDetachedAnimators()
	}
	a.scene = s
	if s == nil {
		return
	}
	s.Entity.setApp(a)
	s.init()
	if s.OnStart != nil {
		s.OnStart(s)
	}
}

// RunOnRenderThread queues fn to run at the start of the next Frame. Safe
// for concurrent use. Actions run in FIFO order; actions queued while the
// queue drains run in the same frame.
func (a *App) RunOnRenderThread(fn func()) {
	if fn == nil {
		return
	}
	a.mu.Lock()
	a.deferred = append(a.deferred, fn)
	a.mu.Unlock()
}

// drainDeferred runs queued actions until the queue is empty and returns how
// many ran.
func (a *App) drainDeferred() int {
	n := 0
	var batch []func()
	for {
		a.mu.Lock()
		batch, a.deferred = a.deferred, batch[:0]
		a.mu.Unlock()
		if len(batch) == 0 {
			return n
		}
		for i, fn := range batch {
			fn()
			batch[i] = nil
		}
		n += len(batch)
	}
}

// RunOnUIThread runs fn on the App's UI thread, a dedicated goroutine locked
// to its own OS thread. If done is non-nil it is queued back onto the render
// thread after fn returns. Safe for concurrent use. Returns false once the
// App is closed.
func (a *App) RunOnUIThread(fn func(), done func()) bool {
	if fn == nil {
		return false
	}
	a.uiMu.Lock()
	if a.closed {
		a.uiMu.Unlock()
		return false
	}
	a.uiQueue = append(a.uiQueue, uiTask{fn: fn, done: done})
	a.uiMu.Unlock()
	a.uiStart.Do(func() { go a.uiLoop() })
	select {
	case a.uiWake <- struct{}{}:
	default:
	}
	return true
}

func (a *App) uiLoop() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	for {
		select {
		case <-a.uiWake:
		case <-a.uiStop:
			return
		}
		for {
			a.uiMu.Lock()
			if len(a.uiQueue) == 0 {
				a.uiMu.Unlock()
				break
			}
			task := a.uiQueue[0]
			a.uiQueue[0] = uiTask{}
			a.uiQueue = a.uiQueue[1:]
			a.uiMu.Unlock()

			a.runUITask(task)
		}
	}
}

func (a *App) runUITask(task uiTask) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Printf("ui thread: recovered panic: %v", r)
		}
	}()
	task.fn()
	if task.done != nil {
		a.RunOnRenderThread(task.done)
	}
}

// Frame runs one frame: bind or check the render thread, drain the deferred
// actions, consume one injected input, advance animators, dispatch button
// gestures, update the scene, then sweep unreachable handles.
func (a *App) Frame(frame FrameInput) {
	start := time.Now()
	a.Bind()
	frame.DeltaSeconds = ClampDelta(frame.DeltaSeconds)
	a.frameNumber = frame.FrameNumber

	ran := a.drainDeferred()

	if a.testRunner != nil {
		a.testRunner.step(a)
	}
	a.processInjectedInput(frame)

	a.stepAnimators(frame.DeltaSeconds)

	if s := a.scene; s != nil {
		for _, g := range gestureForButtons(frame) {
			s.DispatchGesture(g, frame)
		}
		s.Update(frame)
	}

	reclaimed := a.handles.Sweep()

	m := a.metrics
	m.frames.Inc()
	m.deferred.Add(float64(ran))
	m.reclaimed.Add(float64(reclaimed))
	m.liveHandles.Set(float64(a.handles.Live()))
	m.animators.Set(float64(len(a.animators)))
	m.frameDuration.Observe(time.Since(start).Seconds())
}

// HandleKey forwards ev to the current scene. Returns whether it was
// consumed.
func (a *App) HandleKey(ev KeyEvent) bool {
	a.assertRenderThread("HandleKey")
	if a.scene == nil {
		return false
	}
	return a.scene.HandleKey(ev)
}

// Close stops the UI thread and the current scene. Queued UI work that has
// not started is dropped.
func (a *App) Close() {
	a.uiMu.Lock()
	if a.closed {
		a.uiMu.Unlock()
		return
	}
	a.closed = true
	a.uiQueue = nil
	a.uiMu.Unlock()
	close(a.uiStop)
	a.SetScene(nil)
}

// --- Animators ---

func (a *App) addAnimator(an *Animator) {
	for _, x := range a.animators {
		if x == an {
			return
		}
	}
	a.animators = append(a.animators, an)
}

func (a *App) removeAnimator(an *Animator) {
	for i, x := range a.animators {
		if x == an {
			copy(a.animators[i:], a.animators[i+1:])
			a.animators[len(a.animators)-1] = nil
			a.animators = a.animators[:len(a.animators)-1]
			return
		}
	}
}

// cancelDetachedAnimators cancels the animators whose target no longer
// belongs to this App.
func (a *App) cancelDetachedAnimators() {
	for _, an := range append([]*Animator(nil), a.animators...) {
		if an.target.app != a {
			an.Cancel()
		}
	}
}

// stepAnimators advances every registered animator, then fires the
// completions of those that finished.
func (a *App) stepAnimators(dt float32) {
	if len(a.animators) == 0 {
		return
	}
	a.animBuf = append(a.animBuf[:0], a.animators...)
	a.finished = a.finished[:0]
	for _, an := range a.animBuf {
		if an.app != a {
			continue
		}
		if an.advance(dt) {
			a.finished = append(a.finished, an)
		} else if !an.running {
			// target disposed
			a.removeAnimator(an)
			an.app = nil
		}
	}
	for _, an := range a.finished {
		a.removeAnimator(an)
		an.app = nil
	}
	for i, an := range a.finished {
		if an.OnEnd != nil {
			an.OnEnd()
		}
		a.finished[i] = nil
	}
	clear(a.animBuf)
}

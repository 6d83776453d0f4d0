package visor

// injectedInput is a single synthetic input event. Exactly one of key and
// gesture is set.
type injectedInput struct {
	key     KeyEvent
	isKey   bool
	gesture string
}

// InjectKey queues a key event. Events are consumed one per frame, in order,
// before animators and the scene update run.
func (a *App) InjectKey(ev KeyEvent) {
	a.injectQueue = append(a.injectQueue, injectedInput{key: ev, isKey: true})
}

// InjectKeyPress queues the sequence a platform reports for a short press:
// down, up, then pressed. Consumes three frames.
func (a *App) InjectKeyPress(code KeyCode) {
	a.InjectKey(KeyEvent{Code: code, Type: KeyEventDown})
	a.InjectKey(KeyEvent{Code: code, Type: KeyEventUp})
	a.InjectKey(KeyEvent{Code: code, Type: KeyEventPressed})
}

// InjectGesture queues a gesture dispatched through Scene.DispatchGesture.
func (a *App) InjectGesture(name string) {
	a.injectQueue = append(a.injectQueue, injectedInput{gesture: name})
}

// PendingInjections returns the number of queued synthetic events.
func (a *App) PendingInjections() int {
	return len(a.injectQueue)
}

// processInjectedInput pops one event and delivers it to the current scene.
// Returns true if an event was consumed.
func (a *App) processInjectedInput(frame FrameInput) bool {
	if len(a.injectQueue) == 0 {
		return false
	}
	evt := a.injectQueue[0]
	copy(a.injectQueue, a.injectQueue[1:])
	a.injectQueue[len(a.injectQueue)-1] = injectedInput{}
	a.injectQueue = a.injectQueue[:len(a.injectQueue)-1]

	if a.scene == nil {
		return true
	}
	if evt.isKey {
		a.scene.HandleKey(evt.key)
	} else {
		a.scene.DispatchGesture(evt.gesture, frame)
	}
	return true
}

package visor

// FrameInput carries per-frame timing and controller state. The driver fills
// one in every tick and hands it to App.Frame.
type FrameInput struct {
	// PredictedDisplayTime is the absolute time in seconds this frame is
	// expected to be displayed.
	PredictedDisplayTime float64
	// DeltaSeconds is the time since the previous frame, clamped to
	// MaxDeltaSeconds by the driver.
	DeltaSeconds float32
	// FrameNumber is incremented once per frame.
	FrameNumber int
	// SwipeFraction ranges from 0 to 1 during a swipe.
	SwipeFraction float32

	ButtonState    ButtonMask // buttons currently held
	ButtonPressed  ButtonMask // buttons pressed since the previous frame
	ButtonReleased ButtonMask // buttons released since the previous frame
}

// MaxDeltaSeconds bounds FrameInput.DeltaSeconds so a long pause (loading,
// suspension) does not turn into a large jump.
const MaxDeltaSeconds = 0.1

// ClampDelta limits dt to [0, MaxDeltaSeconds].
func ClampDelta(dt float32) float32 {
	if dt < 0 {
		return 0
	}
	if dt > MaxDeltaSeconds {
		return MaxDeltaSeconds
	}
	return dt
}

// ButtonMask is a bitmask of headset / controller buttons.
type ButtonMask uint32

const (
	ButtonA ButtonMask = 1 << iota
	ButtonB
	ButtonBack
	ButtonTouch
	ButtonSwipeUp
	ButtonSwipeDown
	ButtonSwipeForward
	ButtonSwipeBack
)

// KeyCode identifies a key reported by the platform.
type KeyCode int

const (
	KeyNone      KeyCode = 0
	KeyUp        KeyCode = 9
	KeyDown      KeyCode = 10
	KeyLeft      KeyCode = 11
	KeyRight     KeyCode = 12
	KeyReturn    KeyCode = 27
	KeySpace     KeyCode = 28
	KeyEscape    KeyCode = 40
	KeyBack      KeyCode = KeyEscape // escape and back are synonymous
	KeyButtonA   KeyCode = 96
	KeyButtonB   KeyCode = 97
	KeyButtonX   KeyCode = 99
	KeyButtonY   KeyCode = 100
	KeyButtonL1  KeyCode = 102
	KeyButtonR1  KeyCode = 103
	KeyButtonTap KeyCode = 104
)

// KeyEventType distinguishes how a key was actuated.
type KeyEventType uint8

const (
	KeyEventPressed      KeyEventType = iota // short press and release
	KeyEventDoubleTapped                     // two short presses in quick succession
	KeyEventLongPressed                      // held past the long-press threshold
	KeyEventDown                             // key went down
	KeyEventUp                               // key went up
	KeyEventMax                              // repeat limit reached while held
)

// String returns the lower-case name used in scripts and test scripts.
func (t KeyEventType) String() string {
	switch t {
	case KeyEventPressed:
		return "pressed"
	case KeyEventDoubleTapped:
		return "doubletapped"
	case KeyEventLongPressed:
		return "longpressed"
	case KeyEventDown:
		return "down"
	case KeyEventUp:
		return "up"
	case KeyEventMax:
		return "max"
	default:
		return "unknown"
	}
}

// ParseKeyEventType is the inverse of KeyEventType.String.
func ParseKeyEventType(s string) (KeyEventType, bool) {
	for t := KeyEventPressed; t <= KeyEventMax; t++ {
		if t.String() == s {
			return t, true
		}
	}
	return 0, false
}

// KeyEvent is a single key notification delivered to the active Scene.
type KeyEvent struct {
	Code        KeyCode
	Type        KeyEventType
	RepeatCount int
}

// Gesture names emitted as entity events by Scene.DispatchGesture.
const (
	GestureSwipeUp        = "swipeup"
	GestureSwipeDown      = "swipedown"
	GestureSwipeForward   = "swipeforward"
	GestureSwipeBack      = "swipeback"
	GestureTouchSingle    = "touchsingle"
	GestureTouchDouble    = "touchdouble"
	GestureTouchLongPress = "touchlongpress"
)

// Lifecycle event names emitted by the core.
const (
	EventAttach    = "attach"    // a component was attached; Data is the Component
	EventDetach    = "detach"    // a component was detached; Data is the Component
	EventLookStart = "lookstart" // a LookDetector started reporting true
	EventLookEnd   = "lookend"   // a LookDetector stopped reporting true
)

package visor

import (
	"encoding/json"
	"fmt"
)

// testStep represents a single action in a test script.
type testStep struct {
	Action  string  `json:"action"`
	Label   string  `json:"label,omitempty"`
	Code    KeyCode `json:"code,omitempty"`
	Type    string  `json:"type,omitempty"`
	Repeat  int     `json:"repeat,omitempty"`
	Gesture string  `json:"gesture,omitempty"`
	Frames  int     `json:"frames,omitempty"`
}

// testScript is the top-level JSON structure for a test script.
type testScript struct {
	Steps []testStep `json:"steps"`
}

// TestRunner sequences injected input across frames for automated testing.
// Attach to an App via SetTestRunner.
//
// Supported actions:
//
//	{"action": "key", "code": 27, "type": "pressed"}
//	{"action": "keypress", "code": 27}
//	{"action": "gesture", "gesture": "swipeup"}
//	{"action": "wait", "frames": 10}
//	{"action": "log", "label": "checkpoint"}
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
}

// LoadTestScript parses a JSON test script and returns a TestRunner ready
// to be attached to an App via SetTestRunner.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	for i, st := range script.Steps {
		switch st.Action {
		case "key":
			if _, ok := ParseKeyEventType(st.Type); !ok {
				return nil, fmt.Errorf("parse test script: step %d: unknown key event type %q", i, st.Type)
			}
		case "keypress", "wait", "log":
		case "gesture":
			if st.Gesture == "" {
				return nil, fmt.Errorf("parse test script: step %d: gesture name required", i)
			}
		default:
			return nil, fmt.Errorf("parse test script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// SetTestRunner attaches a TestRunner to the App. The runner's step method
// is called from Frame before injected input is processed.
func (a *App) SetTestRunner(runner *TestRunner) {
	a.testRunner = runner
}

// Done reports whether all steps in the test script have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// step advances the test runner by one frame. Called from App.Frame.
func (r *TestRunner) step(a *App) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(a.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		if r.waitCount == 0 && r.cursor >= len(r.steps) {
			r.done = true
		}
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "key":
		typ, _ := ParseKeyEventType(st.Type)
		a.InjectKey(KeyEvent{Code: st.Code, Type: typ, RepeatCount: st.Repeat})
	case "keypress":
		a.InjectKeyPress(st.Code)
	case "gesture":
		a.InjectGesture(st.Gesture)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "log":
		a.log.Printf("test runner: %s (frame %d)", st.Label, a.frameNumber)
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(a.injectQueue) == 0 {
		r.done = true
	}
}

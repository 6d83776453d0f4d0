package visor

import "testing"

func TestNewScene(t *testing.T) {
	s := NewScene()
	if s.Root() == nil {
		t.Fatal("Root should not be nil")
	}
	if s.Root().Scene() != s {
		t.Error("root's Scene should point back at the scene")
	}
	if s.Name != "scene" {
		t.Errorf("root Name = %q, want %q", s.Name, "scene")
	}
}

func TestNewSceneFromRejectsChild(t *testing.T) {
	parent := NewEntity()
	child := NewEntity()
	parent.AddChild(child)
	defer func() {
		if recover() == nil {
			t.Error("expected panic for a root with a parent")
		}
	}()
	NewSceneFrom(child)
}

func TestSceneHandleKey(t *testing.T) {
	s := NewScene()
	var got []string
	s.OnKeyPressed = func(code KeyCode, repeat int) bool {
		got = append(got, "pressed")
		return code == KeyBack
	}
	s.OnKeyLongPressed = func(KeyCode, int) bool {
		got = append(got, "long")
		return true
	}
	s.OnKeyMax = func(_ KeyCode, repeat int) bool {
		if repeat != 4 {
			t.Errorf("repeat = %d, want 4", repeat)
		}
		return true
	}

	if !s.HandleKey(KeyEvent{Code: KeyBack, Type: KeyEventPressed}) {
		t.Error("back press should be consumed")
	}
	if s.HandleKey(KeyEvent{Code: KeyButtonA, Type: KeyEventPressed}) {
		t.Error("A press should not be consumed")
	}
	if !s.HandleKey(KeyEvent{Code: KeyButtonA, Type: KeyEventLongPressed}) {
		t.Error("long press should be consumed")
	}
	if s.HandleKey(KeyEvent{Code: KeyButtonA, Type: KeyEventDoubleTapped}) {
		t.Error("unhandled type should report false")
	}
	s.HandleKey(KeyEvent{Code: KeyButtonA, Type: KeyEventMax, RepeatCount: 4})

	if len(got) != 3 {
		t.Errorf("hooks ran %v, want [pressed pressed long]", got)
	}
}

func TestDispatchGestureToRootAndLooked(t *testing.T) {
	s := NewScene()
	looked := NewEntity()
	ignored := NewEntity()
	s.AddChild(looked)
	s.AddChild(ignored)

	looked.AddComponent(NewLookDetector(GazeFunc(func(*Entity) bool { return true })))
	ignored.AddComponent(NewLookDetector(GazeFunc(func(*Entity) bool { return false })))
	s.Update(FrameInput{})

	var hits []*Entity
	record := func(ev Event) { hits = append(hits, ev.Target) }
	s.On(GestureSwipeUp, record)
	looked.On(GestureSwipeUp, record)
	ignored.On(GestureSwipeUp, record)

	s.DispatchGesture(GestureSwipeUp, FrameInput{FrameNumber: 3})

	if len(hits) != 2 || hits[0] != s.Root() || hits[1] != looked {
		t.Errorf("gesture reached %d entities, want root then looked entity", len(hits))
	}
}

func TestGestureForButtons(t *testing.T) {
	frame := FrameInput{
		ButtonPressed:  ButtonSwipeUp | ButtonSwipeBack,
		ButtonReleased: ButtonTouch,
	}
	got := gestureForButtons(frame)
	want := []string{GestureSwipeUp, GestureSwipeBack, GestureTouchSingle}
	if len(got) != len(want) {
		t.Fatalf("gestures = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("gesture[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if gestureForButtons(FrameInput{ButtonState: ButtonTouch}) != nil {
		t.Error("held buttons alone should not produce gestures")
	}
}

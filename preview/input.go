package preview

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/visor"
)

// longPressTicks is how long a key must be held to count as a long press.
const longPressTicks = 30

var keyCodes = []struct {
	key  ebiten.Key
	code visor.KeyCode
}{
	{ebiten.KeyEscape, visor.KeyBack},
	{ebiten.KeyEnter, visor.KeyReturn},
	{ebiten.KeySpace, visor.KeySpace},
	{ebiten.KeyArrowUp, visor.KeyUp},
	{ebiten.KeyArrowDown, visor.KeyDown},
	{ebiten.KeyArrowLeft, visor.KeyLeft},
	{ebiten.KeyArrowRight, visor.KeyRight},
	{ebiten.KeyZ, visor.KeyButtonA},
	{ebiten.KeyX, visor.KeyButtonB},
	{ebiten.KeyC, visor.KeyButtonX},
	{ebiten.KeyV, visor.KeyButtonY},
	{ebiten.KeyT, visor.KeyButtonTap},
}

var buttonKeys = []struct {
	key    ebiten.Key
	button visor.ButtonMask
}{
	{ebiten.KeyZ, visor.ButtonA},
	{ebiten.KeyX, visor.ButtonB},
	{ebiten.KeyEscape, visor.ButtonBack},
	{ebiten.KeySpace, visor.ButtonTouch},
	{ebiten.KeyQ, visor.ButtonSwipeUp},
	{ebiten.KeyE, visor.ButtonSwipeDown},
	{ebiten.KeyW, visor.ButtonSwipeForward},
	{ebiten.KeyS, visor.ButtonSwipeBack},
}

// keyTracker turns per-tick key state into key events: down on the first
// tick, long press once the key has been held longPressTicks, and on
// release up followed by pressed for a short press.
type keyTracker struct {
	held map[ebiten.Key]int
}

func newKeyTracker() *keyTracker {
	return &keyTracker{held: make(map[ebiten.Key]int)}
}

func (t *keyTracker) step(pressed func(ebiten.Key) bool, dst []visor.KeyEvent) []visor.KeyEvent {
	for _, kc := range keyCodes {
		n := t.held[kc.key]
		if pressed(kc.key) {
			n++
			t.held[kc.key] = n
			switch n {
			case 1:
				dst = append(dst, visor.KeyEvent{Code: kc.code, Type: visor.KeyEventDown})
			case longPressTicks:
				dst = append(dst, visor.KeyEvent{Code: kc.code, Type: visor.KeyEventLongPressed})
			}
			continue
		}
		if n == 0 {
			continue
		}
		delete(t.held, kc.key)
		dst = append(dst, visor.KeyEvent{Code: kc.code, Type: visor.KeyEventUp})
		if n < longPressTicks {
			dst = append(dst, visor.KeyEvent{Code: kc.code, Type: visor.KeyEventPressed})
		}
	}
	return dst
}

// buttonState returns the buttons whose keys are held.
func buttonState(pressed func(ebiten.Key) bool) visor.ButtonMask {
	var m visor.ButtonMask
	for _, bk := range buttonKeys {
		if pressed(bk.key) {
			m |= bk.button
		}
	}
	return m
}

// headTurn returns the yaw and pitch change in degrees for this tick.
func headTurn(pressed func(ebiten.Key) bool, degPerTick float32) (dyaw, dpitch float32) {
	if pressed(ebiten.KeyArrowLeft) {
		dyaw += degPerTick
	}
	if pressed(ebiten.KeyArrowRight) {
		dyaw -= degPerTick
	}
	if pressed(ebiten.KeyArrowUp) {
		dpitch += degPerTick
	}
	if pressed(ebiten.KeyArrowDown) {
		dpitch -= degPerTick
	}
	return dyaw, dpitch
}

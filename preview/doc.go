// Package preview runs a visor App in a desktop window with Ebitengine.
//
// It stands in for a headset during development: [Native] keeps foreign
// objects in memory, [Camera] is the head pose driven by the arrow keys,
// [Gaze] answers look queries along the centre of the screen, and [Game]
// feeds keyboard input to the App and draws plane geometry as flat quads.
//
// Keyboard mapping:
//
//	Arrows      turn the head
//	W / S       swipe forward / back
//	Q / E       swipe up / down
//	Space       touch
//	Z / X       A / B buttons
//	Escape      back
//	F3          toggle the FPS overlay
//	F12         screenshot
package preview

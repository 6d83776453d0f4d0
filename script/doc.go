// Package script attaches tengo programs to visor entities.
//
// A script registers callbacks in the predeclared handlers map. The reserved
// keys attach, update and detach are lifecycle phases; every other key
// subscribes to the entity event of that name:
//
//	handlers.attach = func(engine, state) {
//		state.spins = 0
//	}
//	handlers.update = func(engine, state, dt) {
//		engine.rotate_by(0, 90 * dt, 0)
//	}
//	handlers.swipeforward = func(engine, state, event) {
//		state.spins += 1
//		engine.animate({scale_to: [1.2, 1.2, 1.2], duration: 0.2})
//	}
//
// state is a map that persists across calls. Top-level script variables are
// re-initialised on every phase, so keep anything long-lived in state.
package script

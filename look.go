package visor

// GazeOracle answers whether the user is looking at an entity. The math
// behind it (ray casts against geometry) lives outside the core.
type GazeOracle interface {
	IsLookingAt(e *Entity) bool
}

// GazeFunc adapts a plain function to GazeOracle.
type GazeFunc func(e *Entity) bool

// IsLookingAt calls f(e).
func (f GazeFunc) IsLookingAt(e *Entity) bool { return f(e) }

// LookDetector reports gaze transitions for its entity. Each frame it asks
// the oracle and fires:
//
//	false -> true:  OnLookStart, then OnLooking
//	true  -> true:  OnLooking
//	true  -> false: OnLookEnd
//
// It also emits EventLookStart and EventLookEnd on the entity.
type LookDetector struct {
	BaseComponent

	Oracle GazeOracle

	OnLookStart func(e *Entity, frame FrameInput)
	OnLooking   func(e *Entity, frame FrameInput)
	OnLookEnd   func(e *Entity, frame FrameInput)

	looking bool
}

// NewLookDetector returns a detector driven by oracle.
func NewLookDetector(oracle GazeOracle) *LookDetector {
	return &LookDetector{Oracle: oracle}
}

// Looking reports the state observed on the last Update.
func (d *LookDetector) Looking() bool { return d.looking }

// Update samples the oracle and fires the transition callbacks.
func (d *LookDetector) Update(frame FrameInput) {
	e := d.Entity()
	if e == nil || d.Oracle == nil {
		return
	}
	now := d.Oracle.IsLookingAt(e)
	switch {
	case now && !d.looking:
		d.looking = true
		if d.OnLookStart != nil {
			d.OnLookStart(e, frame)
		}
		e.emit(EventLookStart, frame)
		if d.OnLooking != nil {
			d.OnLooking(e, frame)
		}
	case now:
		if d.OnLooking != nil {
			d.OnLooking(e, frame)
		}
	case d.looking:
		d.looking = false
		if d.OnLookEnd != nil {
			d.OnLookEnd(e, frame)
		}
		e.emit(EventLookEnd, frame)
	}
}

// OnDetach resets the state so a later attach starts from not looking.
func (d *LookDetector) OnDetach(*Entity) {
	d.looking = false
}

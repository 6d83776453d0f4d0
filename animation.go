package visor

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// DefaultAnimationDuration is the per-track duration in seconds of a new
// Animator.
const DefaultAnimationDuration = 0.3

type animProperty uint8

const (
	animPosition animProperty = iota
	animScale
	animRotation
	animOpacity
)

// animTrack animates one property from an origin to a target. A track whose
// origin is the entity's live value re-reads it at every Start.
type animTrack struct {
	prop animProperty

	fromLive bool
	fromVec  mgl32.Vec3
	toVec    mgl32.Vec3
	fromQuat mgl32.Quat
	toQuat   mgl32.Quat
	fromVal  float32
	toVal    float32

	tween      *gween.Tween
	start, end float32
	done       bool
}

// Animator interpolates position, scale, rotation and opacity of one entity.
// Tracks are queued with the builder methods, then played with Start:
//
//	a := e.Animate().MoveTo(mgl32.Vec3{0, 1, -3}).FadeTo(1)
//	a.Duration = 0.5
//	a.OnEnd = func() { fmt.Println("arrived") }
//	a.Start()
//
// If the entity is attached to an App, Start registers the animator and the
// App advances it every frame. Otherwise the caller drives it with Update.
type Animator struct {
	// Duration is the length of each track in seconds.
	Duration float32
	// Delay postpones the first track.
	Delay float32
	// Easing shapes every track. Nil means ease.InOutSine.
	Easing ease.TweenFunc
	// Sequential plays tracks one after another instead of together.
	Sequential bool
	// OnEnd fires once when a run completes. It does not fire on Cancel.
	OnEnd func()

	target  *Entity
	tracks  []animTrack
	elapsed float32
	total   float32
	running bool
	app     *App
}

// NewAnimator returns an empty animator for e.
func NewAnimator(e *Entity) *Animator {
	if e == nil {
		panic("visor: NewAnimator requires an entity")
	}
	return &Animator{Duration: DefaultAnimationDuration, target: e}
}

// Animate is shorthand for NewAnimator(e).
func (e *Entity) Animate() *Animator {
	return NewAnimator(e)
}

// Target returns the animated entity.
func (a *Animator) Target() *Entity { return a.target }

// Running reports whether a run is in progress.
func (a *Animator) Running() bool { return a.running }

// lastTrack returns the most recently queued track for prop, or nil.
func (a *Animator) lastTrack(prop animProperty) *animTrack {
	for i := len(a.tracks) - 1; i >= 0; i-- {
		if a.tracks[i].prop == prop {
			return &a.tracks[i]
		}
	}
	return nil
}

func (a *Animator) originVec(prop animProperty) (mgl32.Vec3, bool) {
	if prev := a.lastTrack(prop); prev != nil {
		return prev.toVec, false
	}
	if prop == animScale {
		return a.target.scale, true
	}
	return a.target.position, true
}

func (a *Animator) addVec(prop animProperty, to mgl32.Vec3, from mgl32.Vec3, live bool) *Animator {
	a.tracks = append(a.tracks, animTrack{prop: prop, fromLive: live, fromVec: from, toVec: to})
	return a
}

// MoveTo animates the position to p.
func (a *Animator) MoveTo(p mgl32.Vec3) *Animator {
	from, live := a.originVec(animPosition)
	return a.addVec(animPosition, p, from, live)
}

// MoveBy animates the position by d relative to its origin.
func (a *Animator) MoveBy(d mgl32.Vec3) *Animator {
	from, live := a.originVec(animPosition)
	return a.addVec(animPosition, from.Add(d), from, live)
}

// ScaleTo animates the scale to s.
func (a *Animator) ScaleTo(s mgl32.Vec3) *Animator {
	from, live := a.originVec(animScale)
	return a.addVec(animScale, s, from, live)
}

// ScaleBy multiplies the origin scale component-wise by s.
func (a *Animator) ScaleBy(s mgl32.Vec3) *Animator {
	from, live := a.originVec(animScale)
	to := mgl32.Vec3{from[0] * s[0], from[1] * s[1], from[2] * s[2]}
	return a.addVec(animScale, to, from, live)
}

func (a *Animator) originQuat() (mgl32.Quat, bool) {
	if prev := a.lastTrack(animRotation); prev != nil {
		return prev.toQuat, false
	}
	return a.target.rotation, true
}

// RotateTo animates the rotation to q.
func (a *Animator) RotateTo(q mgl32.Quat) *Animator {
	from, live := a.originQuat()
	a.tracks = append(a.tracks, animTrack{prop: animRotation, fromLive: live, fromQuat: from, toQuat: q})
	return a
}

// RotateBy animates the rotation to origin * q.
func (a *Animator) RotateBy(q mgl32.Quat) *Animator {
	from, live := a.originQuat()
	a.tracks = append(a.tracks, animTrack{prop: animRotation, fromLive: live, fromQuat: from, toQuat: from.Mul(q)})
	return a
}

// RotateToEuler is RotateTo with angles in degrees about X, Y and Z.
func (a *Animator) RotateToEuler(x, y, z float32) *Animator {
	return a.RotateTo(EulerToQuat(x, y, z, mgl32.XYZ))
}

// RotateByEuler is RotateBy with angles in degrees about X, Y and Z.
func (a *Animator) RotateByEuler(x, y, z float32) *Animator {
	return a.RotateBy(EulerToQuat(x, y, z, mgl32.XYZ))
}

// FadeTo animates the opacity to v, clamped to [0, 1].
func (a *Animator) FadeTo(v float32) *Animator {
	v = min(max(v, 0), 1)
	t := animTrack{prop: animOpacity, toVal: v}
	if prev := a.lastTrack(animOpacity); prev != nil {
		t.fromVal = prev.toVal
	} else {
		t.fromLive = true
		t.fromVal = a.target.opacity
	}
	a.tracks = append(a.tracks, t)
	return a
}

// Start begins a run from the beginning. A running animator is cancelled and
// restarted. Live origins are re-read from the entity.
func (a *Animator) Start() {
	if a.running {
		a.Cancel()
	}
	easing := a.Easing
	if easing == nil {
		easing = ease.InOutSine
	}
	d := a.Duration
	if d < 0 {
		d = 0
	}
	e := a.target
	for i := range a.tracks {
		t := &a.tracks[i]
		if t.fromLive {
			switch t.prop {
			case animPosition:
				t.fromVec = e.position
			case animScale:
				t.fromVec = e.scale
			case animRotation:
				t.fromQuat = e.rotation
			case animOpacity:
				t.fromVal = e.opacity
			}
		}
		t.start = a.Delay
		if a.Sequential {
			t.start += float32(i) * d
		}
		t.end = t.start + d
		t.done = false
		t.tween = nil
		if d > 0 {
			t.tween = gween.New(0, 1, d, easing)
		}
	}
	a.total = a.Delay
	if a.Sequential {
		a.total += float32(len(a.tracks)) * d
	} else if len(a.tracks) > 0 {
		a.total += d
	}
	a.elapsed = 0
	a.running = true
	if e.app != nil {
		a.app = e.app
		a.app.addAnimator(a)
	}
}

// Cancel stops the run, leaving the last interpolated values in place. OnEnd
// does not fire.
func (a *Animator) Cancel() {
	if !a.running {
		return
	}
	a.running = false
	if a.app != nil {
		a.app.removeAnimator(a)
		a.app = nil
	}
}

// Update advances the run by dt seconds and fires OnEnd if it completed.
// It reports whether the run completed during this call.
func (a *Animator) Update(dt float32) bool {
	if !a.advance(dt) {
		return false
	}
	if a.app != nil {
		a.app.removeAnimator(a)
		a.app = nil
	}
	if a.OnEnd != nil {
		a.OnEnd()
	}
	return true
}

// advance applies the tracks for the new elapsed time. It reports natural
// completion without firing OnEnd. A disposed target stops the run silently.
func (a *Animator) advance(dt float32) bool {
	if !a.running {
		return false
	}
	if a.target.disposed {
		a.running = false
		return false
	}
	a.elapsed += dt
	for i := range a.tracks {
		t := &a.tracks[i]
		if t.done || a.elapsed < t.start {
			continue
		}
		if a.elapsed >= t.end {
			a.finish(t)
			t.done = true
			continue
		}
		p := float32(1)
		if t.tween != nil {
			p, _ = t.tween.Set(a.elapsed - t.start)
		}
		a.apply(t, p)
	}
	if a.elapsed < a.total {
		return false
	}
	a.running = false
	return true
}

// apply sets the property at eased progress p. Overshooting easings give p
// outside [0,1] and the value follows them past the target.
func (a *Animator) apply(t *animTrack, p float32) {
	e := a.target
	switch t.prop {
	case animPosition:
		e.SetPosition(lerpVec(t.fromVec, t.toVec, p))
	case animScale:
		e.SetScale(lerpVec(t.fromVec, t.toVec, p))
	case animRotation:
		e.SetRotation(interpQuat(t.fromQuat, t.toQuat, p))
	case animOpacity:
		e.SetOpacity(t.fromVal + (t.toVal-t.fromVal)*p)
	}
}

// finish snaps the property to the track's target.
func (a *Animator) finish(t *animTrack) {
	e := a.target
	switch t.prop {
	case animPosition:
		e.SetPosition(t.toVec)
	case animScale:
		e.SetScale(t.toVec)
	case animRotation:
		e.SetRotation(t.toQuat)
	case animOpacity:
		e.SetOpacity(t.toVal)
	}
}

func lerpVec(from, to mgl32.Vec3, p float32) mgl32.Vec3 {
	return from.Add(to.Sub(from).Mul(p))
}

// interpQuat slerps inside [0,1] and falls back to a normalized lerp along
// the shortest arc when an easing overshoots.
func interpQuat(from, to mgl32.Quat, p float32) mgl32.Quat {
	if p >= 0 && p <= 1 {
		return mgl32.QuatSlerp(from, to, p)
	}
	if from.Dot(to) < 0 {
		to = to.Scale(-1)
	}
	return mgl32.QuatLerp(from, to, p).Normalize()
}

package script

import (
	"bytes"
	"fmt"
	"log"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/phanxgames/visor"
)

const epsilon = 1e-4

func mustNew(t *testing.T, src string, opts Options) *Script {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger = log.New(&bytes.Buffer{}, "", 0)
	}
	s, err := New("test", []byte(src), opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestNewCompileError(t *testing.T) {
	_, err := New("broken", []byte(`handlers.attach = func(engine {`), Options{})
	if err == nil || !strings.Contains(err.Error(), "script broken") {
		t.Errorf("err = %v, want compile error naming the script", err)
	}
}

func TestNewRejectsNonMapHandlers(t *testing.T) {
	if _, err := New("bad", []byte(`handlers = 3`), Options{}); err == nil {
		t.Error("non-map handlers should fail")
	}
}

func TestNewRestrictsModules(t *testing.T) {
	src := `math := import("math")
handlers.attach = func(engine, state) { state.pi = math.pi }`
	if _, err := New("m", []byte(src), Options{Modules: []string{}}); err == nil {
		t.Error("import of a disallowed module should fail")
	}
	s := mustNew(t, src, Options{})
	e := visor.NewEntity()
	e.AddComponent(s)
	if pi, _ := s.State()["pi"].(float64); pi < 3.14 || pi > 3.15 {
		t.Errorf("state.pi = %v", s.State()["pi"])
	}
}

func TestLifecyclePhases(t *testing.T) {
	s := mustNew(t, `
handlers.attach = func(engine, state) {
	state.phases = ["attach"]
	state.ticks = 0
	engine.set_position(1, 2, 3)
}
handlers.update = func(engine, state, dt) {
	state.ticks += 1
	engine.move_by([0, 0, dt])
}
handlers.detach = func(engine, state) {
	state.phases = append(state.phases, "detach")
}
`, Options{})

	e := visor.NewEntity()
	if !e.AddComponent(s) {
		t.Fatal("AddComponent = false")
	}
	if e.Position() != (mgl32.Vec3{1, 2, 3}) {
		t.Errorf("position after attach = %v", e.Position())
	}
	e.Update(visor.FrameInput{DeltaSeconds: 0.5})
	e.Update(visor.FrameInput{DeltaSeconds: 0.5})
	if !e.Position().ApproxEqualThreshold(mgl32.Vec3{1, 2, 4}, epsilon) {
		t.Errorf("position after updates = %v, want [1 2 4]", e.Position())
	}
	if s.State()["ticks"] != int64(2) {
		t.Errorf("ticks = %v, want 2", s.State()["ticks"])
	}

	visor.Remove[*Script](e)
	phases := fmt.Sprint(s.State()["phases"])
	if phases != "[attach detach]" {
		t.Errorf("phases = %s", phases)
	}
	if s.Err() != nil {
		t.Errorf("Err = %v", s.Err())
	}
}

func TestEventHandlers(t *testing.T) {
	s := mustNew(t, `
handlers.attach = func(engine, state) { state.order = [] }
handlers.ping = func(engine, state, ev) {
	state.last = ev.data
	state.from = ev.target
}
handlers.a = func(engine, state, ev) {
	engine.emit("b")
	state.order = append(state.order, "a")
}
handlers.b = func(engine, state, ev) {
	state.order = append(state.order, "b")
}
`, Options{})
	e := visor.NewEntity()
	e.SetStringID("panel")
	e.AddComponent(s)

	e.Emit("ping", 5)
	if s.State()["last"] != int64(5) || s.State()["from"] != "panel" {
		t.Errorf("state = %v", s.State())
	}

	e.Emit("a", nil)
	if got := fmt.Sprint(s.State()["order"]); got != "[a b]" {
		t.Errorf("order = %s, want events emitted by a handler to run after it", got)
	}

	visor.Remove[*Script](e)
	e.Emit("ping", 9)
	if s.State()["last"] != int64(5) {
		t.Error("events after detach should not reach the script")
	}
	if e.HasListeners("ping") {
		t.Error("detach should remove subscriptions")
	}
}

func TestOnOff(t *testing.T) {
	s := mustNew(t, `
handlers.attach = func(engine, state) {
	state.hits = 0
	state.off = engine.off("ping")
	state.on = engine.on("later")
	state.phase = engine.on("update")
}
handlers.ping = func(engine, state, ev) { state.hits += 1 }
`, Options{})
	e := visor.NewEntity()
	e.AddComponent(s)

	e.Emit("ping", nil)
	st := s.State()
	if st["hits"] != int64(0) || st["off"] != true {
		t.Errorf("state = %v, want ping unsubscribed", st)
	}
	if st["on"] != true || !e.HasListeners("later") {
		t.Error("on should subscribe to a new event")
	}
	if st["phase"] != false {
		t.Error("phase names cannot be subscribed")
	}
}

func TestRuntimeErrorRecorded(t *testing.T) {
	var buf bytes.Buffer
	s := mustNew(t, `
handlers.update = func(engine, state, dt) { engine.set_opacity("bright") }
`, Options{Logger: log.New(&buf, "", 0)})
	e := visor.NewEntity()
	e.AddComponent(s)
	e.Update(visor.FrameInput{DeltaSeconds: 0.1})

	if s.Err() == nil {
		t.Fatal("Err = nil, want runtime error")
	}
	if !strings.Contains(s.Err().Error(), "update") {
		t.Errorf("Err = %v, want phase in message", s.Err())
	}
	if !strings.Contains(buf.String(), "script test") {
		t.Errorf("log = %q", buf.String())
	}
}

func TestEngineTransformAccessors(t *testing.T) {
	s := mustNew(t, `
handlers.attach = func(engine, state) {
	engine.set_scale(2)
	state.uniform = engine.scale()
	engine.set_scale(1, 2, 3)
	engine.set_rotation(0, 90, 0)
	engine.set_opacity(0.5)
	engine.set_visible(false)
	state.rot = engine.rotation()
	state.opacity = engine.opacity()
	state.shown = engine.is_shown()
	state.visible = engine.visible()
	state.rendering = engine.rendering_opacity()
	state.name = engine.name()
	state.id = engine.id()
}
`, Options{})
	parent := visor.NewEntity()
	parent.SetOpacity(0.5)
	e := visor.NewEntity()
	e.SetStringID("box")
	parent.AddChild(e)
	e.AddComponent(s)

	if e.Scale() != (mgl32.Vec3{1, 2, 3}) {
		t.Errorf("scale = %v", e.Scale())
	}
	want := visor.EulerToQuat(0, 90, 0, mgl32.XYZ)
	if !e.Rotation().ApproxEqualThreshold(want, epsilon) {
		t.Errorf("rotation = %v, want %v", e.Rotation(), want)
	}
	st := s.State()
	if fmt.Sprint(st["uniform"]) != "[2 2 2]" {
		t.Errorf("uniform scale = %v", st["uniform"])
	}
	if st["opacity"] != 0.5 || st["rendering"] != 0.25 {
		t.Errorf("opacity = %v, rendering = %v", st["opacity"], st["rendering"])
	}
	if st["shown"] != false || st["visible"] != false {
		t.Errorf("shown = %v, visible = %v", st["shown"], st["visible"])
	}
	if st["name"] != "box" || st["id"] != fmt.Sprint(visor.HashID("box")) {
		t.Errorf("name = %v, id = %v", st["name"], st["id"])
	}
	if rot, _ := st["rot"].([]any); len(rot) != 4 {
		t.Errorf("rotation() = %v, want 4 components", st["rot"])
	}
}

func TestRotationOrderArgument(t *testing.T) {
	s := mustNew(t, `
handlers.attach = func(engine, state) { engine.set_rotation([10, 20, 30], "zyx") }
`, Options{})
	e := visor.NewEntity()
	e.AddComponent(s)
	want := visor.EulerToQuat(10, 20, 30, mgl32.ZYX)
	if !e.Rotation().ApproxEqualThreshold(want, epsilon) {
		t.Errorf("rotation = %v, want %v", e.Rotation(), want)
	}
}

type factory map[string]func() visor.Component

func (f factory) NewComponent(name string) (visor.Component, error) {
	fn, ok := f[name]
	if !ok {
		return nil, fmt.Errorf("unknown component %q", name)
	}
	return fn(), nil
}

type marker struct {
	visor.BaseComponent
}

func TestFindAndComponents(t *testing.T) {
	s := mustNew(t, `
handlers.attach = func(engine, state) {
	other := engine.find("other")
	other.set_position(0, 5, 0)
	state.missing = engine.find("nobody")
	state.added = other.add_component("marker")
	state.again = other.add_component("marker")
	state.has = other.has_component("marker")
	state.unknown = other.add_component("ghost")
	state.removed = other.remove_component("marker")
	state.self = engine.find("self").name()
}
`, Options{Components: factory{"marker": func() visor.Component { return &marker{} }}})

	root := visor.NewEntity()
	self := visor.NewEntity()
	self.SetStringID("self")
	other := visor.NewEntity()
	other.SetStringID("other")
	root.AddChild(self)
	root.AddChild(other)
	self.AddComponent(s)

	if s.Err() != nil {
		t.Fatalf("Err = %v", s.Err())
	}
	if other.Position() != (mgl32.Vec3{0, 5, 0}) {
		t.Errorf("other position = %v", other.Position())
	}
	st := s.State()
	if st["missing"] != nil {
		t.Errorf("find(nobody) = %v, want undefined", st["missing"])
	}
	if st["added"] != true || st["again"] != false || st["has"] != true {
		t.Errorf("add/has = %v %v %v", st["added"], st["again"], st["has"])
	}
	if st["unknown"] != false || st["removed"] != true {
		t.Errorf("unknown = %v, removed = %v", st["unknown"], st["removed"])
	}
	if st["self"] != "self" {
		t.Errorf("self = %v", st["self"])
	}
	if visor.HasComponent[*marker](other) {
		t.Error("marker should have been removed")
	}
}

func TestComponentsWithoutFactory(t *testing.T) {
	s := mustNew(t, `
handlers.attach = func(engine, state) { engine.add_component("x") }
`, Options{})
	e := visor.NewEntity()
	e.AddComponent(s)
	if s.Err() == nil {
		t.Error("add_component without a factory should record an error")
	}
}

type nopNative struct{ next uintptr }

func (n *nopNative) Allocate(visor.ResourceKind) uintptr { n.next++; return n.next }
func (n *nopNative) Bind(uintptr, uintptr)               {}
func (n *nopNative) Unbind(uintptr, uintptr)             {}
func (n *nopNative) SetWorldMatrix(uintptr, mgl32.Mat4)  {}
func (n *nopNative) SetOpacity(uintptr, float32)         {}
func (n *nopNative) Delete(uintptr)                      {}

func TestAnimate(t *testing.T) {
	app := visor.NewApp(&nopNative{}, visor.AppConfig{Logger: log.New(&bytes.Buffer{}, "", 0)})
	t.Cleanup(app.Close)
	scene := visor.NewScene()
	app.SetScene(scene)

	s := mustNew(t, `
handlers.attach = func(engine, state) {
	engine.animate({
		duration: 0.2,
		easing: "linear",
		sequential: true,
		steps: [{move_to: [0, 1, 0]}, {fade_to: 0}]
	})
}
`, Options{})
	e := visor.NewEntity()
	scene.AddChild(e)
	e.AddComponent(s)
	if s.Err() != nil {
		t.Fatalf("Err = %v", s.Err())
	}

	for i := 0; i < 6; i++ {
		app.Frame(visor.FrameInput{DeltaSeconds: 0.1})
	}
	if !e.Position().ApproxEqualThreshold(mgl32.Vec3{0, 1, 0}, epsilon) {
		t.Errorf("position = %v, want [0 1 0]", e.Position())
	}
	if e.Opacity() != 0 {
		t.Errorf("opacity = %v, want 0", e.Opacity())
	}
}

func TestAnimateErrors(t *testing.T) {
	for _, arg := range []string{
		`3`,
		`{easing: "wobbly"}`,
		`{duration: "long"}`,
		`{steps: [{move_to: [1, 2]}]}`,
		`{fade_to: "none"}`,
	} {
		s := mustNew(t, `handlers.attach = func(engine, state) { engine.animate(`+arg+`) }`, Options{})
		visor.NewEntity().AddComponent(s)
		if s.Err() == nil {
			t.Errorf("animate(%s) succeeded, want error", arg)
		}
	}
}

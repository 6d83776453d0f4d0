package script

import (
	"errors"
	"fmt"
	"log"
	"slices"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/phanxgames/visor"
)

// Lifecycle phases. Handler keys with these names are not treated as events.
const (
	PhaseAttach = "attach"
	PhaseUpdate = "update"
	PhaseDetach = "detach"
	PhaseEvent  = "event"
)

const dispatchSource = `
if __phase != "" {
	__h := handlers[__key]
	if is_callable(__h) {
		if __phase == "update" || __phase == "event" {
			__h(__engine, __state, __arg)
		} else {
			__h(__engine, __state)
		}
	}
}
`

// ComponentFactory builds components by name for add_component and friends.
// *markup.Registry satisfies it.
type ComponentFactory interface {
	NewComponent(name string) (visor.Component, error)
}

// Options configures a Script.
type Options struct {
	// Logger receives runtime errors. Nil uses the standard logger.
	Logger *log.Logger
	// Components resolves names passed to add_component, remove_component
	// and has_component. Nil disables those functions.
	Components ComponentFactory
	// Modules lists the tengo stdlib modules scripts may import. Nil allows
	// all of them.
	Modules []string
}

// Script is a component that runs a compiled tengo program. An entity holds
// at most one Script.
type Script struct {
	visor.BaseComponent

	name     string
	opts     Options
	compiled *tengo.Compiled
	state    *tengo.Map
	engine   *tengo.ImmutableMap

	subs    map[string]visor.EventHandle
	running bool
	queue   []visor.Event
	err     error
}

// New compiles src. name identifies the script in log lines and errors.
// The source runs once immediately so handler registration errors surface
// here rather than on attach.
func New(name string, src []byte, opts Options) (*Script, error) {
	full := make([]byte, 0, len(src)+len(dispatchSource)+1)
	full = append(full, src...)
	full = append(full, '\n')
	full = append(full, dispatchSource...)

	sc := tengo.NewScript(full)
	for _, v := range []struct {
		name  string
		value any
	}{
		{"handlers", map[string]any{}},
		{"__phase", ""},
		{"__key", ""},
		{"__arg", nil},
		{"__engine", map[string]any{}},
		{"__state", map[string]any{}},
	} {
		if err := sc.Add(v.name, v.value); err != nil {
			return nil, fmt.Errorf("script %s: %w", name, err)
		}
	}
	modules := opts.Modules
	if modules == nil {
		modules = stdlib.AllModuleNames()
	}
	sc.SetImports(stdlib.GetModuleMap(modules...))

	compiled, err := sc.Compile()
	if err != nil {
		return nil, fmt.Errorf("script %s: %w", name, err)
	}
	s := &Script{
		name:     name,
		opts:     opts,
		compiled: compiled,
		state:    &tengo.Map{Value: map[string]tengo.Object{}},
	}
	if err := s.run("", "", nil); err != nil {
		return nil, fmt.Errorf("script %s: %w", name, err)
	}
	if _, ok := s.handlers(); !ok {
		return nil, fmt.Errorf("script %s: handlers must be a map", name)
	}
	return s, nil
}

// Name returns the name given to New.
func (s *Script) Name() string { return s.name }

// Err returns the last runtime error, or nil.
func (s *Script) Err() error { return s.err }

// State returns the persistent state map converted to Go values.
func (s *Script) State() map[string]any {
	out := make(map[string]any, len(s.state.Value))
	for k, v := range s.state.Value {
		out[k] = tengo.ToInterface(v)
	}
	return out
}

// OnAttach subscribes to handler events and runs the attach phase.
func (s *Script) OnAttach(e *visor.Entity) {
	s.engine = newEngine(s, e)
	if h, ok := s.handlers(); ok {
		for key := range h.Value {
			if !isPhase(key) {
				s.subscribe(key)
			}
		}
	}
	s.call(PhaseAttach, PhaseAttach, nil)
}

// Update runs the update phase with the frame's delta in seconds.
func (s *Script) Update(frame visor.FrameInput) {
	if !s.hasHandler(PhaseUpdate) {
		return
	}
	s.call(PhaseUpdate, PhaseUpdate, &tengo.Float{Value: float64(frame.DeltaSeconds)})
}

// OnDetach runs the detach phase and drops every event subscription.
func (s *Script) OnDetach(*visor.Entity) {
	s.call(PhaseDetach, PhaseDetach, nil)
	for name, h := range s.subs {
		h.Remove()
		delete(s.subs, name)
	}
	s.queue = nil
	s.engine = nil
}

func isPhase(key string) bool {
	return key == PhaseAttach || key == PhaseUpdate || key == PhaseDetach
}

func (s *Script) handlers() (*tengo.Map, bool) {
	v := s.compiled.Get("handlers")
	if v == nil {
		return nil, false
	}
	m, ok := v.Object().(*tengo.Map)
	return m, ok
}

func (s *Script) hasHandler(key string) bool {
	h, ok := s.handlers()
	if !ok {
		return false
	}
	_, ok = h.Value[key]
	return ok
}

// subscribe routes entity events named name to the handler of that name.
func (s *Script) subscribe(name string) bool {
	e := s.Entity()
	if e == nil || name == "" || isPhase(name) {
		return false
	}
	if s.subs == nil {
		s.subs = make(map[string]visor.EventHandle)
	}
	if _, ok := s.subs[name]; ok {
		return true
	}
	s.subs[name] = e.On(name, s.onEvent)
	return true
}

func (s *Script) unsubscribe(name string) bool {
	h, ok := s.subs[name]
	if !ok {
		return false
	}
	h.Remove()
	delete(s.subs, name)
	return true
}

func (s *Script) onEvent(ev visor.Event) {
	if s.running {
		s.queue = append(s.queue, ev)
		return
	}
	s.dispatchEvent(ev)
}

func (s *Script) dispatchEvent(ev visor.Event) {
	s.call(PhaseEvent, ev.Name, eventObject(ev))
}

// call runs one phase, then any events emitted while it ran. Errors are
// recorded and logged, never propagated.
func (s *Script) call(phase, key string, arg tengo.Object) {
	if err := s.run(phase, key, arg); err != nil {
		s.fail(phase, err)
	}
	for len(s.queue) > 0 && !s.running {
		ev := s.queue[0]
		s.queue = slices.Delete(s.queue, 0, 1)
		s.dispatchEvent(ev)
	}
}

func (s *Script) run(phase, key string, arg tengo.Object) error {
	if s.running {
		return errors.New("re-entrant run")
	}
	s.running = true
	defer func() { s.running = false }()

	if arg == nil {
		arg = tengo.UndefinedValue
	}
	engine := s.engine
	if engine == nil {
		engine = &tengo.ImmutableMap{Value: map[string]tengo.Object{}}
	}
	for _, v := range []struct {
		name  string
		value any
	}{
		{"__phase", phase},
		{"__key", key},
		{"__arg", arg},
		{"__engine", engine},
		{"__state", s.state},
	} {
		if err := s.compiled.Set(v.name, v.value); err != nil {
			return err
		}
	}
	return s.compiled.Run()
}

func (s *Script) fail(phase string, err error) {
	s.err = fmt.Errorf("script %s: %s: %w", s.name, phase, err)
	logger := s.opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger.Print(s.err)
}

func eventObject(ev visor.Event) tengo.Object {
	data, err := tengo.FromInterface(ev.Data)
	if err != nil {
		data = &tengo.String{Value: fmt.Sprint(ev.Data)}
	}
	m := map[string]tengo.Object{
		"name":  &tengo.String{Value: ev.Name},
		"frame": &tengo.Int{Value: int64(ev.Frame)},
		"data":  data,
	}
	if ev.Target != nil {
		m["target"] = &tengo.String{Value: ev.Target.Name}
	}
	return &tengo.ImmutableMap{Value: m}
}

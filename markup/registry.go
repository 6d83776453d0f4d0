package markup

import (
	"fmt"
	"sort"

	"github.com/phanxgames/visor"
)

// TagFunc builds the entity for one element. Attributes and children are
// applied by the loader afterwards.
type TagFunc func(l *Loader, el *Element) (*visor.Entity, error)

// AttrFunc applies one attribute value to e. A returned error causes the
// attribute to be logged and skipped.
type AttrFunc func(l *Loader, e *visor.Entity, value string) error

// ComponentFunc constructs a fresh component instance.
type ComponentFunc func() visor.Component

// SurfaceFunc builds a surface from the parsed inline properties of a
// surface attribute. The renderer key is always present in props.
type SurfaceFunc func(l *Loader, props map[string]string) (*visor.Surface, error)

// Registry holds everything the loader looks up by name. Build it once with
// NewRegistry, extend it before loading, and share it between loaders.
// A Registry is not safe for concurrent modification.
type Registry struct {
	tags       map[string]TagFunc
	attrs      map[string]AttrFunc
	components map[string]ComponentFunc
	surfaces   map[string]SurfaceFunc
}

// NewRegistry returns a registry with the built-in tags (scene, entity),
// attributes (id, position, scale, rotation, opacity, visible, geometry,
// surface, component) and the solid surface renderer.
func NewRegistry() *Registry {
	r := &Registry{
		tags:       make(map[string]TagFunc),
		attrs:      make(map[string]AttrFunc),
		components: make(map[string]ComponentFunc),
		surfaces:   make(map[string]SurfaceFunc),
	}
	r.Tag("scene", sceneTag)
	r.Tag("entity", entityTag)

	r.Attribute("id", idAttr)
	r.Attribute("position", positionAttr)
	r.Attribute("scale", scaleAttr)
	r.Attribute("rotation", rotationAttr)
	r.Attribute("opacity", opacityAttr)
	r.Attribute("visible", visibleAttr)
	r.Attribute("geometry", geometryAttr)
	r.Attribute("surface", surfaceAttr)
	r.Attribute("component", componentAttr)

	r.Surface("solid", solidSurface)
	return r
}

// Tag registers or replaces the constructor for a tag.
func (r *Registry) Tag(name string, fn TagFunc) {
	if fn == nil {
		panic("markup: nil TagFunc for " + name)
	}
	r.tags[name] = fn
}

// Attribute registers or replaces the handler for an attribute name.
func (r *Registry) Attribute(name string, fn AttrFunc) {
	if fn == nil {
		panic("markup: nil AttrFunc for " + name)
	}
	r.attrs[name] = fn
}

// Component registers a component constructor under name, for use in the
// component attribute.
func (r *Registry) Component(name string, fn ComponentFunc) {
	if fn == nil {
		panic("markup: nil ComponentFunc for " + name)
	}
	r.components[name] = fn
}

// Surface registers a surface factory for a renderer name.
func (r *Registry) Surface(renderer string, fn SurfaceFunc) {
	if fn == nil {
		panic("markup: nil SurfaceFunc for " + renderer)
	}
	r.surfaces[renderer] = fn
}

// NewComponent constructs the component registered under name.
func (r *Registry) NewComponent(name string) (visor.Component, error) {
	fn, ok := r.components[name]
	if !ok {
		return nil, fmt.Errorf("unknown component %q", name)
	}
	return fn(), nil
}

// Components returns the registered component names, sorted.
func (r *Registry) Components() []string {
	names := make([]string, 0, len(r.components))
	for name := range r.components {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) tag(name string) (TagFunc, bool) {
	fn, ok := r.tags[name]
	return fn, ok
}

func (r *Registry) attr(name string) (AttrFunc, bool) {
	fn, ok := r.attrs[name]
	return fn, ok
}

func sceneTag(l *Loader, _ *Element) (*visor.Entity, error) {
	return visor.NewSceneFrom(l.newEntity()).Root(), nil
}

func entityTag(l *Loader, _ *Element) (*visor.Entity, error) {
	return l.newEntity(), nil
}

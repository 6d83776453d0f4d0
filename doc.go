// Package visor is a retained-mode scene graph for head-mounted rendering.
//
// Visor keeps a tree of positioned entities consistent every frame and hands
// the result to an external renderer: cached local and world matrices,
// inherited opacity and visibility, and the lifetime of the foreign objects
// that back each entity.
//
// # Quick start
//
// Create an [App] over a [Native] renderer, build a [Scene], and call
// [App.Frame] once per display frame from the render thread:
//
//	app := visor.NewApp(native, visor.AppConfig{})
//	scene := visor.NewScene()
//
//	panel := app.NewEntity()
//	panel.SetPosition(mgl32.Vec3{0, 0, -3})
//	panel.AddComponent(visor.NewGeometry(visor.Plane(2, 1), nil))
//	panel.AddComponent(visor.NewSurface("solid", [4]float32{1, 1, 1, 1}, nil))
//	scene.AddChild(panel)
//
//	app.SetScene(scene)
//	for {
//		app.Frame(nextFrameInput())
//	}
//
// # Scene graph
//
// Every element is an [Entity]. Children inherit their parent's transform,
// opacity and visibility. Behaviour is attached as a [Component]; at most one
// component of each concrete type lives on an entity. Embed [BaseComponent]
// to implement one.
//
// # Frame order
//
// [App.Frame] drains the actions queued with [App.RunOnRenderThread],
// consumes one injected input, advances [Animator]s, updates the scene tree
// (components first, then transforms, then children), and finally sweeps
// foreign objects whose [Handle] the garbage collector found unreachable.
//
// # Packages
//
// Declarative scenes are loaded by visor/markup, scripted components live in
// visor/script, an ECS bridge for [Donburi] is in visor/ecs, and
// visor/preview runs a scene in a desktop window with [Ebitengine].
//
// [Ebitengine]: https://ebitengine.org
// [Donburi]: https://github.com/yohamta/donburi
package visor

package preview

import (
	"errors"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/phanxgames/visor"
	"github.com/phanxgames/visor/markup"
)

// ErrQuit can be returned from Game.OnUpdate to close the window cleanly.
var ErrQuit = errors.New("preview: quit")

// Game drives a visor App from Ebitengine's update and draw callbacks.
type Game struct {
	// OnUpdate runs after the App's frame each tick. A non-nil error ends
	// the game; ErrQuit ends it without error.
	OnUpdate func() error

	app    *visor.App
	cfg    RunConfig
	camera *Camera
	gaze   *Gaze

	keys        *keyTracker
	keyEvents   []visor.KeyEvent
	prevButtons visor.ButtonMask
	frame       int
	time        float64

	white      *ebiten.Image
	fps        *fpsOverlay
	background color.RGBA
	items      []visor.DrawItem
	quads      []quad
	verts      []ebiten.Vertex
	indices    []uint16

	screenshotQueue []string
}

// NewGame returns a game for app. cfg is completed with WithDefaults.
func NewGame(app *visor.App, cfg RunConfig) *Game {
	if app == nil {
		panic("preview: NewGame with nil App")
	}
	cfg = cfg.WithDefaults()
	cam := NewCamera(cfg.FOV)
	g := &Game{
		app:    app,
		cfg:    cfg,
		camera: cam,
		gaze:   NewGaze(cam),
		keys:   newKeyTracker(),
	}
	bg, err := markup.ParseColor(cfg.Background)
	if err != nil {
		app.Logger().Printf("preview: background: %v", err)
		bg = [4]float32{0, 0, 0, 1}
	}
	g.background = toRGBA(bg)
	return g
}

// Camera returns the head pose the game renders from.
func (g *Game) Camera() *Camera { return g.camera }

// Gaze returns the oracle to hand to visor.NewLookDetector.
func (g *Game) Gaze() *Gaze { return g.gaze }

// Config returns the completed run config.
func (g *Game) Config() RunConfig { return g.cfg }

// Update implements ebiten.Game.
func (g *Game) Update() error {
	dt := 1 / float64(ebiten.TPS())
	g.time += dt
	g.frame++

	dyaw, dpitch := headTurn(ebiten.IsKeyPressed, g.cfg.TurnSpeed*float32(dt))
	g.camera.Turn(dyaw, dpitch)

	g.keyEvents = g.keys.step(ebiten.IsKeyPressed, g.keyEvents[:0])
	for _, ev := range g.keyEvents {
		g.app.HandleKey(ev)
	}

	buttons := buttonState(ebiten.IsKeyPressed)
	g.app.Frame(visor.FrameInput{
		PredictedDisplayTime: g.time,
		DeltaSeconds:         float32(dt),
		FrameNumber:          g.frame,
		ButtonState:          buttons,
		ButtonPressed:        buttons &^ g.prevButtons,
		ButtonReleased:       g.prevButtons &^ buttons,
	})
	g.prevButtons = buttons

	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		g.cfg.ShowFPS = !g.cfg.ShowFPS
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		g.Screenshot("f12")
	}
	if g.cfg.ShowFPS {
		if g.fps == nil {
			g.fps = newFPSOverlay()
		}
		g.fps.update(dt, g.app.Handles().Live())
	}

	if g.OnUpdate != nil {
		if err := g.OnUpdate(); err != nil {
			if errors.Is(err, ErrQuit) {
				return ebiten.Termination
			}
			return err
		}
	}
	return nil
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.white == nil {
		g.white = ebiten.NewImage(1, 1)
		g.white.Fill(color.White)
	}
	g.items = g.items[:0]
	if s := g.app.Scene(); s != nil {
		g.items = visor.Collect(s.Root(), g.items)
	}
	if sky, ok := skyColor(g.items); ok {
		screen.Fill(toRGBA(sky))
	} else {
		screen.Fill(g.background)
	}

	b := screen.Bounds()
	w, h := b.Dx(), b.Dy()
	vp := g.camera.ViewProjection(float32(w) / float32(h))
	g.quads = buildQuads(g.quads[:0], g.items, vp, w, h)

	g.verts = g.verts[:0]
	g.indices = g.indices[:0]
	for i, q := range g.quads {
		g.verts = appendQuadVertices(g.verts, q)
		base := uint16(i * 4)
		for _, idx := range quadIndices {
			g.indices = append(g.indices, base+idx)
		}
		// keep index values inside uint16
		if len(g.verts) >= 65532 {
			screen.DrawTriangles(g.verts, g.indices, g.white, nil)
			g.verts, g.indices = g.verts[:0], g.indices[:0]
		}
	}
	if len(g.verts) > 0 {
		screen.DrawTriangles(g.verts, g.indices, g.white, nil)
	}

	if g.cfg.ShowFPS && g.fps != nil {
		g.fps.draw(screen)
	}
	g.flushScreenshots(screen)
}

// Layout implements ebiten.Game.
func (g *Game) Layout(_, _ int) (int, int) {
	return g.cfg.Width, g.cfg.Height
}

// Run opens the window and blocks until it closes.
func (g *Game) Run() error {
	ebiten.SetWindowTitle(g.cfg.Title)
	ebiten.SetWindowSize(g.cfg.Width, g.cfg.Height)
	ebiten.SetTPS(g.cfg.TPS)
	return ebiten.RunGame(g)
}

// Run is NewGame(app, cfg).Run().
func Run(app *visor.App, cfg RunConfig) error {
	return NewGame(app, cfg).Run()
}

func toRGBA(c [4]float32) color.RGBA {
	to8 := func(v float32) uint8 { return uint8(min(max(v, 0), 1)*255 + 0.5) }
	a := min(max(c[3], 0), 1)
	return color.RGBA{to8(c[0] * a), to8(c[1] * a), to8(c[2] * a), to8(a)}
}

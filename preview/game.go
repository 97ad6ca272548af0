// Package preview runs an orbit Session in a desktop window, with a
// wireframe stand-in for the 3D renderer. It is the quickest way to try
// gestures, scroll choreography and the overlay without a browser.
package preview

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/phanxgames/orbit"
	"golang.org/x/text/language"
)

const maxPointers = 10 // pointer 0 = mouse, 1-9 = touch

// wheelStep is the scroll distance of one wheel notch, in pixels.
const wheelStep = 60.0

var tabKeys = [...]ebiten.Key{
	ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3,
	ebiten.KeyDigit4, ebiten.KeyDigit5, ebiten.KeyDigit6,
	ebiten.KeyDigit7, ebiten.KeyDigit8, ebiten.KeyDigit9,
}

// RunConfig holds window settings for Run.
type RunConfig struct {
	Title         string
	Width, Height int
	ShowFPS       bool
	Lang          language.Tag
	// Glide overrides the camera's smooth transition length.
	Glide time.Duration
}

// Game implements ebiten.Game around a Session.
type Game struct {
	session  *orbit.Session
	renderer *Renderer
	cfg      RunConfig

	scroll       float64
	prevTouchIDs []ebiten.TouchID
	touchMap     [maxPointers]ebiten.TouchID
	touchUsed    [maxPointers]bool
	touchPos     [maxPointers][2]float64
	lastFrame    time.Time
}

// NewGame attaches a preview renderer to s. The stand-in renderer loads
// instantly, so queued states flush right away.
func NewGame(s *orbit.Session, cfg RunConfig) (*Game, error) {
	if cfg.Width <= 0 {
		cfg.Width = 800
	}
	if cfg.Height <= 0 {
		cfg.Height = 600
	}
	if cfg.Title == "" {
		cfg.Title = "Orbit Preview"
	}
	if cfg.Lang == language.Und {
		cfg.Lang = language.English
	}

	g := &Game{session: s, renderer: NewRenderer(), cfg: cfg}
	if cfg.Glide > 0 {
		g.renderer.Camera.GlideDuration = cfg.Glide
	}
	s.SetViewport(orbit.Rect{Width: float64(cfg.Width), Height: float64(cfg.Height)})
	s.Attach(g.renderer)
	if err := s.HandleRendererEvent(orbit.RendererEvent{Kind: orbit.RendererProgress, Progress: 1}); err != nil {
		return nil, err
	}
	if err := s.HandleRendererEvent(orbit.RendererEvent{Kind: orbit.RendererLoad}); err != nil {
		return nil, fmt.Errorf("deliver initial state: %w", err)
	}
	return g, nil
}

// Run opens a window and blocks until it is closed.
func Run(s *orbit.Session, cfg RunConfig) error {
	g, err := NewGame(s, cfg)
	if err != nil {
		return err
	}
	ebiten.SetWindowTitle(g.cfg.Title)
	ebiten.SetWindowSize(g.cfg.Width, g.cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(g)
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	now := time.Now()
	dt := float32(1.0 / float64(ebiten.TPS()))
	if !g.lastFrame.IsZero() {
		dt = float32(now.Sub(g.lastFrame).Seconds())
	}
	g.lastFrame = now

	g.session.Update(now)
	if g.session.InjectPending() == 0 {
		g.processMousePointer(now)
		g.processTouchPointers(now)
	}
	g.processWheel(now)
	g.processKeys(now)

	g.renderer.SetOverlay(g.session.OverlayVisible())
	g.renderer.Update(dt)
	return nil
}

func (g *Game) processMousePointer(now time.Time) {
	mx, my := ebiten.CursorPosition()
	pressed := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	g.session.ProcessPointer(0, float64(mx), float64(my), pressed, now)
}

func (g *Game) processTouchPointers(now time.Time) {
	touchIDs := ebiten.AppendTouchIDs(g.prevTouchIDs[:0])
	g.prevTouchIDs = touchIDs

	var activeSlots [maxPointers]bool
	for _, tid := range touchIDs {
		slot := g.touchSlot(tid)
		if slot < 0 {
			continue
		}
		activeSlots[slot] = true
		tx, ty := ebiten.TouchPosition(tid)
		g.touchPos[slot] = [2]float64{float64(tx), float64(ty)}
		g.session.ProcessPointer(slot, float64(tx), float64(ty), true, now)
	}

	// A lifted touch releases at its last known position.
	for i := 1; i < maxPointers; i++ {
		if g.touchUsed[i] && !activeSlots[i] {
			g.session.ProcessPointer(i, g.touchPos[i][0], g.touchPos[i][1], false, now)
			g.touchUsed[i] = false
			g.touchMap[i] = 0
		}
	}
}

// touchSlot maps a touch to a pointer slot (1-9). Returns -1 if full.
func (g *Game) touchSlot(tid ebiten.TouchID) int {
	for i := 1; i < maxPointers; i++ {
		if g.touchUsed[i] && g.touchMap[i] == tid {
			return i
		}
	}
	for i := 1; i < maxPointers; i++ {
		if !g.touchUsed[i] {
			g.touchUsed[i] = true
			g.touchMap[i] = tid
			return i
		}
	}
	return -1
}

func (g *Game) processWheel(now time.Time) {
	_, wy := ebiten.Wheel()
	if wy == 0 {
		return
	}
	m := g.session.ScrollMapper()
	limit := m.SectionHeight * float64(m.SectionCount)
	g.scroll = math.Max(0, math.Min(limit, g.scroll-wy*wheelStep))
	g.session.Scroll(g.scroll, now)
}

func (g *Game) processKeys(now time.Time) {
	for i, k := range tabKeys {
		if inpututil.IsKeyJustPressed(k) {
			g.session.SelectSection(i, now)
		}
	}
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyE):
		g.session.ToggleMode(now)
	case inpututil.IsKeyJustPressed(ebiten.KeyO):
		g.session.ToggleOverlay(now)
	case inpututil.IsKeyJustPressed(ebiten.KeyL):
		if _, err := g.session.ToggleLike(context.Background()); err != nil {
			fmt.Printf("like: %v\n", err)
		}
	}
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 0x14, G: 0x16, B: 0x1c, A: 0xff})
	g.renderer.Draw(screen, g.session.Viewport(), g.session.Overlay())
	ebitenutil.DebugPrintAt(screen, g.hud(), 8, g.cfg.Height-48)
	if g.cfg.ShowFPS {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()), 8, 8)
	}
}

func (g *Game) hud() string {
	s := g.session
	c := s.Controller()
	if c == nil {
		return s.State().String()
	}
	label := ""
	if secs := c.Sections(); len(secs) > 0 {
		label = secs[c.ActiveSection()].Label
	}
	n := s.Counters()
	return fmt.Sprintf("%s  [%s] %s  %s\n%s  %s",
		s.Model().Name, c.Mode(), label, orbit.FormatProgress(g.cfg.Lang, s.Progress()),
		orbit.FormatViews(g.cfg.Lang, n.Views), orbit.FormatLikes(g.cfg.Lang, n.Likes))
}

// Layout implements ebiten.Game.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.cfg.Width || outsideHeight != g.cfg.Height {
		g.cfg.Width, g.cfg.Height = outsideWidth, outsideHeight
		g.session.SetViewport(orbit.Rect{Width: float64(outsideWidth), Height: float64(outsideHeight)})
	}
	return outsideWidth, outsideHeight
}

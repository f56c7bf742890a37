package main

import (
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/bodybind/physics"
	"github.com/milk9111/bodybind/scenefile"
	"github.com/milk9111/bodybind/script"
	"golang.org/x/image/colornames"
)

const (
	defaultWidth  = 640
	defaultHeight = 480

	pickRadius   = 4
	clickImpulse = 180
)

type Game struct {
	frames int
	paused bool
	debug  bool

	sceneName string
	scene     *scenefile.Scene
	runner    *script.Runner
	watcher   *scenefile.Watcher
	ui        *ebitenui.UI
	drawer    *spaceDrawer

	selected *physics.Body
}

func NewGame(sceneName string, debug, watch bool) (*Game, error) {
	g := &Game{
		debug:     debug,
		sceneName: sceneName,
		runner:    script.NewRunner(scenefile.LoadScript),
		drawer:    &spaceDrawer{},
	}
	if err := g.load(); err != nil {
		return nil, err
	}
	g.ui = NewPauseUI(g)

	if watch {
		dirs := watchDirs(scenefile.Dir)
		if len(dirs) > 0 {
			w, err := scenefile.NewWatcher(dirs...)
			if err != nil {
				log.Printf("bodyview: watcher disabled: %v", err)
			} else {
				g.watcher = w
			}
		}
	}
	return g, nil
}

func watchDirs(root string) []string {
	var dirs []string
	for _, d := range []string{root, filepath.Join(root, "scripts")} {
		if info, err := os.Stat(d); err == nil && info.IsDir() {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

// load replaces the current scene with a fresh build of sceneName.
func (g *Game) load() error {
	s, err := scenefile.LoadScene(g.sceneName)
	if err != nil {
		return fmt.Errorf("bodyview: load %s: %w", g.sceneName, err)
	}
	if g.scene != nil {
		g.scene.Close()
	}
	g.runner.Reset()
	g.scene = s
	g.selected = nil
	if err := g.runner.AttachScene(s); err != nil {
		log.Printf("bodyview: %v", err)
	}
	return nil
}

// reloadScripts recompiles scripts without rebuilding the world.
func (g *Game) reloadScripts() {
	g.runner.Reset()
	if err := g.runner.AttachScene(g.scene); err != nil {
		log.Printf("bodyview: %v", err)
	}
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
	g.scene.Close()
}

// pollWatcher applies file changes collected since the last frame. A scene
// change rebuilds everything, which also reattaches scripts.
func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	changes, open := g.watcher.Poll()
	if err := g.watcher.Err(); err != nil {
		log.Printf("bodyview: watcher: %v", err)
	}
	if !open {
		g.watcher = nil
	}

	var scenes, scripts int
	for _, c := range changes {
		log.Printf("bodyview: %s changed: %s", c.Kind, c.Path)
		switch c.Kind {
		case scenefile.SceneChange:
			scenes++
		case scenefile.ScriptChange:
			scripts++
		}
	}
	switch {
	case scenes > 0:
		if err := g.load(); err != nil {
			log.Printf("bodyview: keeping previous scene: %v", err)
		}
	case scripts > 0:
		g.reloadScripts()
	}
}

func (g *Game) Update() error {
	g.frames++
	g.pollWatcher()

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.paused = !g.paused
	}
	if g.paused {
		g.ui.Update()
		return nil
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := g.load(); err != nil {
			log.Printf("bodyview: %v", err)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.scene.World.SetRunning(!g.scene.World.Running())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyD) {
		g.debug = !g.debug
	}
	g.handleMouse()

	if g.scene.World.Running() {
		if err := g.runner.Update(g.scene.World.TimeStep()); err != nil {
			log.Printf("bodyview: %v", err)
		}
	}
	g.scene.World.Step()
	return nil
}

// handleMouse selects the body under the cursor. A left click kicks it away
// from the click point; a right click toggles whether it sleeps.
func (g *Game) handleMouse() {
	left := inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	right := inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight)
	if !left && !right {
		return
	}
	mx, my := ebiten.CursorPosition()
	point := cp.Vector{X: float64(mx), Y: float64(my)}
	b, ok := g.scene.World.BodyAt(point, pickRadius)
	if !ok {
		g.selected = nil
		return
	}
	g.selected = b

	switch {
	case left && b.BodyType() == physics.Dynamic:
		dir := b.WorldCenter().Sub(point)
		if dir.LengthSq() == 0 {
			dir = cp.Vector{Y: -1}
		}
		b.SetAwake(true)
		b.ApplyLinearImpulse(dir.Normalize().Mult(clickImpulse*math.Sqrt(b.Mass())), point)
	case right:
		b.SetAwake(!b.IsAwake())
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Midnightblue)
	g.drawer.Draw(screen, g.scene.World.Space())

	w := g.scene.World
	awake := 0
	for _, b := range w.Bodies() {
		if b.IsAwake() {
			awake++
		}
	}
	status := "running"
	if !w.Running() {
		status = "stopped"
	}
	ebitenutil.DebugPrint(screen, fmt.Sprintf("%s  step %d  bodies %d (awake %d)  %s  FPS %.1f",
		g.scene.Name, w.StepCount(), w.BodyCount(), awake, status, ebiten.ActualFPS()))

	if g.debug {
		for _, b := range w.Bodies() {
			drawBodyLabel(screen, b)
		}
	}
	if g.selected != nil && g.selected.World() == w {
		drawSelection(screen, g.selected)
	}

	if g.paused {
		g.ui.Draw(screen)
	}
}

func drawBodyLabel(screen *ebiten.Image, b *physics.Body) {
	c := b.WorldCenter()
	v := b.LinearVelocity()
	label := fmt.Sprintf("%s %s\nv=(%.0f,%.0f) w=%.2f", b.Item.Name, b.BodyType(), v.X, v.Y, b.AngularVelocity())
	if !b.IsAwake() {
		label += " zz"
	}
	ebitenutil.DebugPrintAt(screen, label, int(c.X)+6, int(c.Y)-6)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.scene != nil && g.scene.Root.Width() > 0 && g.scene.Root.Height() > 0 {
		return int(g.scene.Root.Width()), int(g.scene.Root.Height())
	}
	return defaultWidth, defaultHeight
}

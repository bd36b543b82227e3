package main

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/milk9111/stealth/camera"
	"github.com/milk9111/stealth/config"
	"github.com/milk9111/stealth/level"
	"github.com/milk9111/stealth/prefabs"
	"github.com/milk9111/stealth/telemetry"
	"github.com/rs/zerolog"
)

const (
	baseWidth  = 1280
	baseHeight = 720
)

var backgroundColor = color.NRGBA{R: 0x14, G: 0x16, B: 0x1c, A: 0xff}

type Game struct {
	frames int

	settings config.Settings
	log      zerolog.Logger
	rec      *telemetry.Recorder

	input   *Input
	rt      *level.Runtime
	view    *View
	watcher *prefabs.Watcher

	paused bool
	debug  bool

	ui     *ebitenui.UI
	status *widget.Text
}

func NewGame(settings config.Settings, log zerolog.Logger, debug bool) (*Game, error) {
	rec, err := telemetry.New(telemetry.Meter())
	if err != nil {
		return nil, err
	}

	g := &Game{
		settings: settings,
		log:      log,
		rec:      rec,
		input:    NewInput(),
		debug:    debug,
	}
	if err := g.load(); err != nil {
		return nil, err
	}

	dirs := []string{prefabs.Dir}
	if st, err := os.Stat(filepath.Join(prefabs.Dir, "scripts")); err == nil && st.IsDir() {
		dirs = append(dirs, filepath.Join(prefabs.Dir, "scripts"))
	}
	w, err := prefabs.NewWatcher(dirs...)
	if err != nil {
		log.Warn().Err(err).Str("dir", prefabs.Dir).Msg("hot reload disabled")
	} else {
		g.watcher = w
	}
	return g, nil
}

// load (re)builds the level from its spec and resets the pause menu.
func (g *Game) load() error {
	rt, err := level.Load(g.settings.Level, level.Options{Logger: g.log, Seed: g.settings.Seed})
	if err != nil {
		return err
	}
	rt.Subscribe(g.rec.Observe)
	g.rt = rt
	g.view = NewView(rt, baseWidth, baseHeight)
	g.ui, g.status = NewPauseUI(g)
	return nil
}

func (g *Game) restart() {
	if err := g.load(); err != nil {
		g.log.Error().Err(err).Str("level", g.settings.Level).Msg("failed to reload level")
	}
}

func (g *Game) Close() error {
	if g.watcher == nil {
		return nil
	}
	return g.watcher.Close()
}

func (g *Game) Update() error {
	g.frames++
	g.input.Update()
	g.drainReloads()

	if g.input.PausePressed {
		g.paused = !g.paused
	}
	if g.input.ResetPressed {
		g.restart()
	}
	if g.input.DebugPressed {
		g.debug = !g.debug
	}

	if g.paused {
		g.status.Label = g.statusText()
		g.ui.Update()
		if g.input.StepPressed {
			g.step()
		}
		return nil
	}

	g.rt.SetPlayerInput(g.input.Move)
	g.step()
	return nil
}

func (g *Game) step() {
	if g.rt.State() != level.StatePlaying {
		return
	}
	g.rt.Tick(g.settings.DeltaTime())
	g.rec.Tick()
}

func (g *Game) drainReloads() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case change, ok := <-g.watcher.Changes:
			if !ok {
				g.watcher = nil
				return
			}
			if change.Affects(g.rt.Spec) {
				g.log.Info().Str("file", change.Path).Msg("level changed on disk, reloading")
				g.restart()
			}
		case err, ok := <-g.watcher.Errors:
			if ok {
				g.log.Warn().Err(err).Msg("watcher error")
			}
		default:
			return
		}
	}
}

// toggleDevice flips a camera between static and sentry mode, or an alarm
// between ringing and silenced.
func (g *Game) toggleDevice(name string) {
	for _, c := range g.rt.Cameras() {
		if c.Name != name {
			continue
		}
		if c.State() == camera.StateStatic {
			g.rt.SetDeviceState(name, "Set to SENTRY MODE")
		} else {
			g.rt.SetDeviceState(name, "Set to STATIC")
		}
		return
	}
	for _, a := range g.rt.Alarms() {
		if a.Config().Name != name {
			continue
		}
		if a.Ringing() {
			g.rt.SetDeviceState(name, "Silenced")
		} else {
			g.rt.SetDeviceState(name, "Ringing")
		}
		return
	}
}

func (g *Game) statusText() string {
	var b strings.Builder
	for _, c := range g.rt.Cameras() {
		fmt.Fprintf(&b, "%s: %s\n", c.Name, c.State())
	}
	for _, a := range g.rt.Alarms() {
		state := "silent"
		if a.Ringing() {
			state = "ringing"
		}
		fmt.Fprintf(&b, "%s: %s\n", a.Config().Name, state)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	g.view.Draw(screen, g.rt)
	if g.debug {
		DrawPhysics(screen, g.rt.Physics(), g.view)
	}

	w := g.rt.World()
	ebitenutil.DebugPrint(screen, fmt.Sprintf("%s  %s  tick %d  %.1fs  FPS: %.2f",
		g.rt.Name, g.rt.State(), w.Tick(), w.Elapsed(), ebiten.ActualFPS()))
	switch g.rt.State() {
	case level.StateCaught:
		ebitenutil.DebugPrintAt(screen, "CAUGHT - press R to retry", baseWidth/2-75, 20)
	case level.StateComplete:
		ebitenutil.DebugPrintAt(screen, "ESCAPED - press R to play again", baseWidth/2-90, 20)
	}

	if g.paused {
		g.ui.Draw(screen)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/grapple/common"
	"github.com/milk9111/grapple/ecs"
	"github.com/milk9111/grapple/ecs/component"
	"github.com/milk9111/grapple/ecs/system"
	"github.com/milk9111/grapple/levels"
	"github.com/milk9111/grapple/prefabs"
)

type Game struct {
	debug  bool
	paused bool

	world     *ecs.World
	scene     *system.Scene
	scheduler *ecs.Scheduler
	input     *deviceInput
	renderer  *renderer
	pauseUI   *ebitenui.UI
	watcher   *prefabs.Watcher
}

func NewGame(levelName string, debug bool) (*Game, error) {
	lvl, err := levels.LoadLevelFromFS(levelName)
	if err != nil {
		return nil, err
	}
	player, err := prefabs.LoadPlayerSpec()
	if err != nil {
		return nil, err
	}
	camera, err := prefabs.LoadCameraSpec()
	if err != nil {
		return nil, err
	}
	colors, err := prefabs.LoadPaletteSpec()
	if err != nil {
		slog.Warn("palette unavailable, using defaults", "err", err)
	}

	w := ecs.NewWorld()
	scene, err := system.Spawn(w, lvl, system.SpawnOptions{
		Movement:     player.Movement,
		PlayerWidth:  player.Body.Width,
		PlayerHeight: player.Body.Height,
		Camera: component.Camera{
			Width:      common.BaseWidth,
			Height:     common.BaseHeight,
			MaxOffset:  camera.MaxOffset,
			LookWeight: camera.LookWeight,
		},
	})
	if err != nil {
		return nil, err
	}

	g := &Game{
		debug:    debug,
		world:    w,
		scene:    scene,
		input:    &deviceInput{},
		renderer: newRenderer(newPalette(colors)),
	}
	g.scheduler = system.NewScheduler(g.input, 1/float64(common.TPS), time.Now().UnixNano())
	g.pauseUI = NewPauseUI(g)

	if debug {
		watcher, err := prefabs.NewWatcher("prefabs")
		if err != nil {
			slog.Warn("prefab hot reload disabled", "err", err)
		} else {
			g.watcher = watcher
		}
	}
	return g, nil
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) Update() error {
	g.drainReloads()

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.paused = !g.paused
	}
	if g.paused {
		g.pauseUI.Update()
		return nil
	}

	g.scheduler.Update(g.world)
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.draw(screen, g.world, g.debug)
	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

func (g *Game) resume() { g.paused = false }

func (g *Game) respawn() {
	g.input.requestRestart()
	g.paused = false
}

func (g *Game) drainReloads() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case change, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			if err := g.reload(change); err != nil {
				slog.Warn("prefab reload failed", "file", change.Path, "err", err)
			}
		case err, ok := <-g.watcher.Errors:
			if ok {
				slog.Warn("prefab watcher error", "err", err)
			}
		default:
			return
		}
	}
}

func (g *Game) reload(change prefabs.Change) error {
	switch change.Name() {
	case prefabs.PlayerFile:
		spec, err := prefabs.LoadPlayerSpec()
		if err != nil {
			return err
		}
		p, ok := ecs.Get(g.world, g.scene.Player, component.PlayerComponent.Kind())
		if !ok {
			return fmt.Errorf("player entity %v is gone", g.scene.Player)
		}
		p.Controller.SetConfig(spec.Movement)
	case prefabs.CameraFile:
		spec, err := prefabs.LoadCameraSpec()
		if err != nil {
			return err
		}
		cam, ok := ecs.Get(g.world, g.scene.Camera, component.CameraComponent.Kind())
		if !ok {
			return fmt.Errorf("camera entity %v is gone", g.scene.Camera)
		}
		cam.MaxOffset = spec.MaxOffset
		cam.LookWeight = spec.LookWeight
	case prefabs.PaletteFile:
		spec, err := prefabs.LoadPaletteSpec()
		if err != nil {
			return err
		}
		g.renderer = newRenderer(newPalette(spec))
	default:
		return nil
	}
	slog.Info("prefab reloaded", "file", change.Name())
	return nil
}

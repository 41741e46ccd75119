// Command simulate runs a level headless, driven by a replay script.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/milk9111/grapple/common"
	"github.com/milk9111/grapple/ecs"
	"github.com/milk9111/grapple/ecs/component"
	"github.com/milk9111/grapple/ecs/system"
	"github.com/milk9111/grapple/levels"
	"github.com/milk9111/grapple/prefabs"
	"github.com/milk9111/grapple/replay"
	"github.com/milk9111/grapple/tui"
)

func main() {
	levelName := flag.String("level", "arena", "level name in levels/ (basename, .json optional)")
	scriptName := flag.String("script", "swing", "replay script in prefabs/scripts")
	ticks := flag.Int("ticks", 600, "number of fixed ticks to simulate")
	seed := flag.Int64("seed", 1, "particle seed")
	useTUI := flag.Bool("tui", false, "draw the run in the terminal")
	debug := flag.Bool("debug", false, "log every state transition")
	flag.Parse()

	level := "info"
	if *debug {
		level = "debug"
	}
	common.InitLogger(level, os.Stderr)

	if err := run(*levelName, *scriptName, *ticks, *seed, *useTUI); err != nil {
		slog.Error("simulate failed", "err", err)
		os.Exit(1)
	}
}

func run(levelName, scriptName string, ticks int, seed int64, useTUI bool) error {
	sim, err := newSimulation(levelName, scriptName, seed)
	if err != nil {
		return err
	}

	if !useTUI {
		for i := 0; i < ticks; i++ {
			sim.step()
		}
		return sim.finish()
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	defer screen.Fini()

	quit := make(chan struct{})
	go func() {
		for {
			switch ev := screen.PollEvent().(type) {
			case nil:
				return
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
					close(quit)
					return
				}
			case *tcell.EventResize:
				screen.Sync()
			}
		}
	}()

	view := tui.New(screen)
	ticker := time.NewTicker(time.Second / time.Duration(common.TPS))
	defer ticker.Stop()
	for i := 0; i < ticks; i++ {
		select {
		case <-quit:
			return sim.finish()
		case <-ticker.C:
		}
		sim.step()
		view.Draw(sim.world, sim.scheduler.Tick())
		screen.Show()
	}
	return sim.finish()
}

type simulation struct {
	world     *ecs.World
	scene     *system.Scene
	scheduler *ecs.Scheduler
	script    *replay.Script
}

func newSimulation(levelName, scriptName string, seed int64) (*simulation, error) {
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
	script, err := replay.Load(scriptName)
	if err != nil {
		return nil, err
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
	script.Observe(observer(w, scene))

	return &simulation{
		world:     w,
		scene:     scene,
		scheduler: system.NewScheduler(script, 1/float64(common.TPS), seed),
		script:    script,
	}, nil
}

func (s *simulation) step() {
	s.scheduler.Update(s.world)
}

func (s *simulation) finish() error {
	p, ok := ecs.Get[component.Player](s.world, s.scene.Player, component.PlayerComponent.Kind())
	if !ok {
		return errors.New("simulate: player entity is gone")
	}
	body := p.Controller.Body()
	slog.Info("simulation finished",
		"ticks", s.scheduler.Tick(),
		"state", body.State,
		"x", body.Position.X,
		"y", body.Position.Y,
		"speed", body.Velocity.Length(),
	)
	return s.script.Err()
}

// observer exposes the player's body to the replay script.
func observer(w *ecs.World, scene *system.Scene) func() replay.Observation {
	return func() replay.Observation {
		p, ok := ecs.Get[component.Player](w, scene.Player, component.PlayerComponent.Kind())
		if !ok || p.Controller == nil {
			return replay.Observation{}
		}
		body := p.Controller.Body()
		return replay.Observation{
			Position: body.Position,
			Velocity: body.Velocity,
			State:    body.State.String(),
			Selected: scene.Arbiter.Selected() != nil,
		}
	}
}

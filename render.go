package main

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/grapple/common"
	"github.com/milk9111/grapple/ecs"
	"github.com/milk9111/grapple/ecs/component"
	"github.com/milk9111/grapple/levels"
	"github.com/milk9111/grapple/prefabs"
	"golang.org/x/image/colornames"
)

const (
	hookImageSize = 64
	anchorRadius  = 10
)

type palette struct {
	background     color.Color
	solid          color.Color
	hazard         color.Color
	player         color.Color
	rope           color.Color
	anchor         color.Color
	anchorSelected color.Color
	particle       color.Color
}

func newPalette(spec *prefabs.PaletteSpec) palette {
	if spec == nil {
		spec = &prefabs.PaletteSpec{}
	}
	return palette{
		background:     spec.Background.Or(colornames.Black),
		solid:          spec.Solid.Or(colornames.Slategray),
		hazard:         spec.Hazard.Or(colornames.Crimson),
		player:         spec.Player.Or(colornames.Gold),
		rope:           spec.Rope.Or(colornames.Lightgray),
		anchor:         spec.Anchor.Or(colornames.Skyblue),
		anchorSelected: spec.AnchorSelected.Or(colornames.White),
		particle:       spec.Particle.Or(colornames.Tan),
	}
}

type renderer struct {
	colors palette
	hook   *ebiten.Image
	rope   []cp.Vector
}

func newRenderer(colors palette) *renderer {
	return &renderer{colors: colors, hook: newHookImage(colors.rope)}
}

// newHookImage draws a three-pronged claw pointing along +X.
func newHookImage(clr color.Color) *ebiten.Image {
	img := ebiten.NewImage(hookImageSize, hookImageSize)
	const c = hookImageSize / 2
	vector.StrokeLine(img, 4, c, hookImageSize-4, c, 6, clr, true)
	vector.StrokeLine(img, hookImageSize-4, c, c+4, 8, 6, clr, true)
	vector.StrokeLine(img, hookImageSize-4, c, c+4, hookImageSize-8, 6, clr, true)
	return img
}

func (r *renderer) draw(screen *ebiten.Image, w *ecs.World, debug bool) {
	screen.Fill(r.colors.background)

	_, cam, ok := ecs.First(w, component.CameraComponent.Kind())
	if !ok {
		return
	}

	if pw := w.PhysicsWorld(); pw != nil {
		r.drawTiles(screen, cam, pw.Level())
	}

	ecs.ForEach(w, component.AnchorComponent.Kind(), func(_ ecs.Entity, a *component.Anchor) {
		if !a.Point.Active() {
			return
		}
		p := cam.ToScreen(a.Point.Position())
		vector.FillCircle(screen, float32(p.X), float32(p.Y), anchorRadius, r.colors.anchor, true)
		if a.Point.Highlighted() {
			vector.StrokeCircle(screen, float32(p.X), float32(p.Y), anchorRadius+4, 2, r.colors.anchorSelected, true)
		}
	})

	ecs.ForEach(w, component.ParticlesComponent.Kind(), func(_ ecs.Entity, ps *component.Particles) {
		for _, pt := range ps.Live {
			p := cam.ToScreen(pt.Position)
			vector.FillRect(screen, float32(p.X)-1.5, float32(p.Y)-1.5, 3, 3, fade(r.colors.particle, pt.Life/pt.MaxLife), false)
		}
	})

	ecs.ForEach(w, component.PlayerComponent.Kind(), func(_ ecs.Entity, p *component.Player) {
		r.drawPlayer(screen, cam, p)
		if debug {
			r.drawTelemetry(screen, p)
		}
	})
}

func (r *renderer) drawTiles(screen *ebiten.Image, cam *component.Camera, level *levels.Level) {
	if level == nil {
		return
	}
	const size = float32(common.TileSize)
	for _, layer := range level.PhysicsLayers() {
		for i, t := range layer {
			if t == levels.TileEmpty {
				continue
			}
			world := cp.Vector{X: float64(i%level.Width) * common.TileSize, Y: float64(i/level.Width) * common.TileSize}
			p := cam.ToScreen(world)
			if p.X < -common.TileSize || p.Y < -common.TileSize || p.X > cam.Width || p.Y > cam.Height {
				continue
			}
			x, y := float32(p.X), float32(p.Y)
			if t == levels.TileHazard {
				vector.StrokeLine(screen, x, y+size, x+size/2, y, 2, r.colors.hazard, true)
				vector.StrokeLine(screen, x+size/2, y, x+size, y+size, 2, r.colors.hazard, true)
				continue
			}
			vector.FillRect(screen, x, y, size, size, r.colors.solid, false)
		}
	}
}

func (r *renderer) drawPlayer(screen *ebiten.Image, cam *component.Camera, p *component.Player) {
	ctrl := p.Controller
	body := ctrl.Body()

	r.rope = ctrl.Rope(r.rope)
	for i := 1; i < len(r.rope); i++ {
		a, b := cam.ToScreen(r.rope[i-1]), cam.ToScreen(r.rope[i])
		vector.StrokeLine(screen, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), 2, r.colors.rope, true)
	}
	if sprite, ok := ctrl.HookSprite(); ok {
		pos := cam.ToScreen(sprite.Position)
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(-hookImageSize/2, -hookImageSize/2)
		op.GeoM.Scale(sprite.Scale, sprite.Scale)
		op.GeoM.Rotate(sprite.Rotation)
		op.GeoM.Translate(pos.X, pos.Y)
		screen.DrawImage(r.hook, op)
	}

	pos := cam.ToScreen(body.Position)
	vector.FillRect(screen, float32(pos.X-p.Width/2), float32(pos.Y-p.Height/2), float32(p.Width), float32(p.Height), r.colors.player, false)
}

func (r *renderer) drawTelemetry(screen *ebiten.Image, p *component.Player) {
	msg := fmt.Sprintf("FPS: %.1f\n", ebiten.ActualFPS())
	for _, line := range p.Controller.Telemetry().Lines() {
		msg += fmt.Sprintf("%-22s %s\n", line[0], line[1])
	}
	msg += fmt.Sprintf("%-22s %.3f\n", "Coyote:", p.Controller.CoyoteTimeLeft())
	ebitenutil.DebugPrintAt(screen, msg, 10, 10)
}

func fade(c color.Color, alpha float64) color.Color {
	r, g, b, a := c.RGBA()
	alpha = common.Clamp(alpha, 0, 1)
	return color.RGBA64{
		R: uint16(float64(r) * alpha),
		G: uint16(float64(g) * alpha),
		B: uint16(float64(b) * alpha),
		A: uint16(float64(a) * alpha),
	}
}

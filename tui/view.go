// Package tui draws a running scene into a terminal, one cell per tile.
package tui

import (
	"strconv"

	"github.com/gdamore/tcell/v2"
	"github.com/jakecoffman/cp"
	"github.com/mattn/go-runewidth"
	"github.com/milk9111/grapple/common"
	"github.com/milk9111/grapple/ecs"
	"github.com/milk9111/grapple/ecs/component"
	"github.com/milk9111/grapple/levels"
)

const panelWidth = 34

const (
	glyphSolid    = '█'
	glyphHazard   = '^'
	glyphPlayer   = '@'
	glyphAnchor   = 'o'
	glyphSelected = 'O'
	glyphRope     = '·'
)

var (
	styleDefault  = tcell.StyleDefault
	styleSolid    = tcell.StyleDefault.Foreground(tcell.ColorSlateGray)
	styleHazard   = tcell.StyleDefault.Foreground(tcell.ColorRed)
	stylePlayer   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleAnchor   = tcell.StyleDefault.Foreground(tcell.ColorSkyblue)
	styleSelected = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleRope     = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	styleLabel    = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

type View struct {
	screen tcell.Screen
	rope   []cp.Vector
}

func New(screen tcell.Screen) *View {
	return &View{screen: screen}
}

// Draw renders the level around the player plus a telemetry panel. The
// caller owns Show.
func (v *View) Draw(w *ecs.World, tick uint64) {
	v.screen.Clear()
	sw, sh := v.screen.Size()
	mapWidth := sw - panelWidth
	if mapWidth < 1 || sh < 1 {
		return
	}

	_, player, ok := ecs.First[component.Player](w, component.PlayerComponent.Kind())
	if !ok || player.Controller == nil {
		return
	}
	body := player.Controller.Body()
	centre := cellOf(body.Position)
	originX := centre.x - mapWidth/2
	originY := centre.y - sh/2

	put := func(c cell, r rune, st tcell.Style) {
		x, y := c.x-originX, c.y-originY
		if x < 0 || y < 0 || x >= mapWidth || y >= sh {
			return
		}
		v.screen.SetContent(x, y, r, nil, st)
	}

	if pw := w.PhysicsWorld(); pw != nil {
		drawTiles(pw.Level(), put)
	}

	v.rope = player.Controller.Rope(v.rope[:0])
	for _, p := range v.rope {
		put(cellOf(p), glyphRope, styleRope)
	}

	ecs.ForEach(w, component.AnchorComponent.Kind(), func(_ ecs.Entity, a *component.Anchor) {
		if !a.Point.Active() {
			return
		}
		if a.Point.Selected() {
			put(cellOf(a.Point.Position()), glyphSelected, styleSelected)
			return
		}
		put(cellOf(a.Point.Position()), glyphAnchor, styleAnchor)
	})

	put(centre, glyphPlayer, stylePlayer)

	lines := append([][2]string{{"Tick:", strconv.FormatUint(tick, 10)}}, player.Controller.Telemetry().Lines()...)
	for i, line := range lines {
		if i >= sh {
			break
		}
		drawRow(v.screen, mapWidth+1, i, panelWidth-1, line[0], line[1])
	}
}

type cell struct{ x, y int }

func cellOf(p cp.Vector) cell {
	return cell{x: int(p.X) / common.TileSize, y: int(p.Y) / common.TileSize}
}

func drawTiles(level *levels.Level, put func(cell, rune, tcell.Style)) {
	if level == nil {
		return
	}
	for _, layer := range level.PhysicsLayers() {
		for i, t := range layer {
			c := cell{x: i % level.Width, y: i / level.Width}
			switch t {
			case levels.TileEmpty:
			case levels.TileHazard:
				put(c, glyphHazard, styleHazard)
			default:
				put(c, glyphSolid, styleSolid)
			}
		}
	}
}

// drawRow writes label at x and right-aligns value inside width columns.
func drawRow(scr tcell.Screen, x, y, width int, label, value string) {
	putText(scr, x, y, label, styleLabel)
	vx := x + width - runewidth.StringWidth(value)
	if floor := x + runewidth.StringWidth(label) + 1; vx < floor {
		vx = floor
	}
	putText(scr, vx, y, value, styleDefault)
}

func putText(scr tcell.Screen, x, y int, s string, st tcell.Style) {
	sw, _ := scr.Size()
	for _, r := range s {
		if x >= sw {
			break
		}
		scr.SetContent(x, y, r, nil, st)
		x += runewidth.RuneWidth(r)
	}
}

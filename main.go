package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/grapple/common"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug overlay, transition logging and prefab hot reload")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	levelName := flag.String("level", "arena", "level name in levels/ (basename, .json optional)")
	flag.Parse()

	level := "info"
	if *debug {
		level = "debug"
	}
	common.InitLogger(level, os.Stderr)

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(common.BaseWidth, common.BaseHeight)
	ebiten.SetWindowTitle("grapple")
	ebiten.SetTPS(common.TPS)

	game, err := NewGame(*levelName, *debug)
	if err != nil {
		slog.Error("failed to start", "level", *levelName, "err", err)
		os.Exit(1)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		slog.Error("game exited", "err", err)
		os.Exit(1)
	}
}

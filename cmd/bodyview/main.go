package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/bodybind/scenefile"
)

func main() {
	sceneName := flag.String("scene", "default", "scene name in scenes/ (basename, .yaml optional)")
	sceneDir := flag.String("dir", scenefile.Dir, "directory checked for scene and script overrides")
	debug := flag.Bool("debug", false, "draw body labels and velocities")
	paused := flag.Bool("paused", false, "start with the pause menu open")
	watch := flag.Bool("watch", true, "reload the scene when its files change")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	scenefile.Dir = *sceneDir

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	game, err := NewGame(*sceneName, *debug, *watch)
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()
	game.paused = *paused

	w, h := game.Layout(0, 0)
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowTitle("bodyview - " + *sceneName)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}

package main

import (
	"flag"
	"log"
)

func main() {
	levelName := flag.String("level", "arena", "level name in prefabs/levels/ (basename, .yaml optional)")
	ticks := flag.Int("ticks", 1200, "number of ticks to simulate")
	dt := flag.Float64("dt", 1.0/60.0, "seconds per tick")
	debug := flag.Bool("debug", false, "log agent decisions")
	watch := flag.Bool("watch", false, "hot reload prefab edits between ticks")
	flag.Parse()

	game, err := NewGame(*levelName, *debug)
	if err != nil {
		log.Fatal(err)
	}
	if *watch {
		if err := game.Watch(); err != nil {
			log.Printf("watch: %v", err)
		}
	}
	defer game.Close()

	game.Run(*ticks, *dt)
	game.LogSummary()
}

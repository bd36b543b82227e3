package main

import (
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/stealth/config"
	"github.com/milk9111/stealth/logging"
	"github.com/milk9111/stealth/prefabs"
)

func main() {
	configDir := flag.String("config", ".", "directory holding guardsim.yaml")
	levelName := flag.String("level", "", "level name in prefabs/ (basename, .yaml optional)")
	seed := flag.Uint64("seed", 0, "random seed for guard waits (0 keeps the configured seed)")
	debug := flag.Bool("debug", false, "draw collision shapes")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	if err := config.Load(*configDir); err != nil {
		log.Fatal(err)
	}
	if *levelName != "" {
		config.Set("level", *levelName)
	}
	if *seed != 0 {
		config.Set("seed", *seed)
	}
	settings := config.Current()

	logger, err := logging.New(os.Stdout, settings.LogLevel, settings.LogFormat)
	if err != nil {
		log.Fatal(err)
	}
	prefabs.Dir = settings.PrefabsDir

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("stealth - " + settings.Level)
	ebiten.SetTPS(settings.TickRate)

	game, err := NewGame(settings, logger, *debug)
	if err != nil {
		logger.Fatal().Err(err).Str("level", settings.Level).Msg("failed to load level")
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		logger.Fatal().Err(err).Msg("game exited")
	}
}

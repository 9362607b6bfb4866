package main

import (
	"embed"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"go.uber.org/zap"

	"github.com/trestlecad/trestle/pkg/config"
	"github.com/trestlecad/trestle/pkg/logger"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		// The logger is not up yet; fall back to a fresh default.
		cfg = config.Default()
	}

	if lerr := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); lerr != nil {
		panic(lerr)
	}
	defer logger.Sync()
	if err != nil {
		logger.Warn("config load failed, using defaults", zap.Error(err))
	}

	app := NewApp(cfg)

	if err := wails.Run(&options.App{
		Title:  "Trestle",
		Width:  1280,
		Height: 800,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		OnStartup: app.startup,
		Bind: []interface{}{
			app,
		},
	}); err != nil {
		logger.Fatal("wails run failed", zap.Error(err))
	}
}

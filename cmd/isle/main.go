package main

import (
	"flag"
	"os"

	"Isle3D/internal/config"
	"Isle3D/internal/engine"
	"Isle3D/internal/logger"
	"Isle3D/internal/renderer"

	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "configs/isle.yaml", "path to the YAML config")
	debug := flag.Bool("debug", false, "debug logging and GL error checks")
	flag.Parse()

	logger.Init()
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Log.Fatal("Could not load config", zap.String("path", *configPath), zap.Error(err))
	}

	opts := logger.Options{Level: cfg.Log.Level, Development: cfg.Log.Development}
	if *debug {
		opts.Level, opts.Development = "debug", true
		renderer.Debug = true
	}
	if err := logger.InitWith(opts); err != nil {
		logger.Log.Warn("Invalid log settings, keeping defaults", zap.Error(err))
	}
	defer logger.Sync()

	logger.Log.Info("Isle3D starting", zap.String("config", *configPath))
	if err := engine.New(cfg, *configPath).Run(); err != nil {
		logger.Log.Error("Isle3D stopped", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

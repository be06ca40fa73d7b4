package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"arabic-reader/internal/app"
	"arabic-reader/internal/config"
	"arabic-reader/internal/logging"
	"arabic-reader/internal/tui"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/arabic-reader/config.yaml if not provided)")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: reader [--config=config.yaml] [file.txt ...]")
		flag.PrintDefaults()
	}
	flag.Parse()

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		log.Fatalf("failed to init logging: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	a, err := app.Build(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to start: %v", err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn("shutdown", zap.Error(err))
		}
	}()

	// Every file is submitted; the last one is opened.
	m := tui.New(ctx, a.Service)
	for _, path := range flag.Args() {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Fatalf("read %s: %v", path, err)
		}
		id, err := a.Service.Submit(ctx, string(data))
		if err != nil {
			log.Fatalf("submit %s: %v", path, err)
		}
		doc, err := a.Service.Open(ctx, id)
		if err != nil {
			log.Fatalf("open %s: %v", path, err)
		}
		logger.Info("submitted", zap.String("file", path), zap.String("id", id))
		m = m.WithDocument(doc)
	}

	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		log.Fatal(err)
	}
}

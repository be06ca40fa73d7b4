package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"

	"arabic-reader/internal/app"
	"arabic-reader/internal/config"
	"arabic-reader/internal/domain"
	"arabic-reader/internal/logging"
)

type output struct {
	Source     string                  `json:"source"`
	ID         string                  `json:"id,omitempty"`
	Tokens     []domain.AnnotatedToken `json:"tokens,omitempty"`
	Vocabulary domain.Vocabulary       `json:"vocabulary"`
}

func main() {
	_ = godotenv.Load()

	cfgPath := flag.String("config", "config.yaml", "Path to config YAML")
	store := flag.Bool("store", false, "Keep texts in the content store and report their ids")
	summary := flag.Bool("summary", false, "Print only the vocabulary report")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	// Log to stderr unless a file is configured; stdout carries the JSON.
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
	defer a.Close()

	inputs := flag.Args()
	if len(inputs) == 0 {
		inputs = []string{"-"}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	for _, path := range inputs {
		text, err := read(path)
		if err != nil {
			log.Fatalf("read %s: %v", path, err)
		}
		out := output{Source: path}
		if *store {
			id, err := a.Service.Submit(ctx, text)
			if err != nil {
				log.Fatalf("submit %s: %v", path, err)
			}
			doc, err := a.Service.Open(ctx, id)
			if err != nil {
				log.Fatalf("open %s: %v", path, err)
			}
			out.ID, out.Tokens = id, doc.Tokens
		} else {
			out.Tokens, err = a.Service.Annotate(ctx, text)
			if err != nil {
				log.Fatalf("annotate %s: %v", path, err)
			}
		}
		out.Vocabulary = a.Service.Summarize(out.Tokens)
		if *summary {
			out.Tokens = nil
		}
		if err := enc.Encode(out); err != nil {
			log.Fatal(err)
		}
	}
}

func read(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	return string(data), err
}

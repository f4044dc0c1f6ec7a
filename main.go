package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"gotyche/adapters/api"
	"gotyche/adapters/excel"
	"gotyche/internal"
	"gotyche/internal/config"
	"gotyche/internal/nist"
)

func main() {
	config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := internal.NewLogger(internal.ParseLogLevel(cfg.Runtime.LogLevel))

	params, err := cfg.EncodingParams()
	if err != nil {
		log.Fatalf("Invalid encoding configuration: %v", err)
	}

	// Refuse to serve if the test implementations drift from the reference vectors
	if results := nist.SelfTest(); !nist.SelfTestPassed(results) {
		for _, r := range results {
			if !r.Passed {
				logger.Error("self-test %s: got %.6f, want %.6f", r.Name, r.Actual, r.Expected)
			}
		}
		log.Fatal("Battery self-test failed")
	}
	log.Printf("✅ Battery self-test passed")

	server := api.NewServer(api.Config{
		Port:           cfg.Server.Port,
		RequestTimeout: cfg.Server.RequestTimeout,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		Workers:        cfg.Runtime.Workers,
		Params:         params,
		Battery:        cfg.NistConfig(),
		Thresholds:     cfg.AggregateConfig(),
		Generators:     cfg.GeneratorConfig(),
		Reader:         excel.ReaderConfigFrom(cfg.Data),
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
	log.Printf("Server stopped")
}

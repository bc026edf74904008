package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/bloomscroll/bloomscroll/pkg/config"
	"github.com/bloomscroll/bloomscroll/pkg/content"
	"github.com/bloomscroll/bloomscroll/pkg/curation"
	"github.com/bloomscroll/bloomscroll/pkg/db"
	"github.com/bloomscroll/bloomscroll/pkg/embedding"
	"github.com/bloomscroll/bloomscroll/pkg/ingest"
	"github.com/bloomscroll/bloomscroll/pkg/llm"
	"github.com/bloomscroll/bloomscroll/pkg/scheduler"
	"github.com/bloomscroll/bloomscroll/server"
)

// Opts with all CLI options
type Opts struct {
	Config string `short:"c" long:"config" env:"CONFIG" default:"bloomscroll.yml" description:"config file path"`

	// Common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	SetupLog(opts.Debug)

	log.Printf("[INFO] starting bloomscroll version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	err := run(ctx, opts)
	cancel()

	if err != nil {
		log.Printf("[ERROR] server failed: %v", err)
		os.Exit(1)
	}

	log.Print("[INFO] shutdown complete")
}

// run wires the application together and blocks until the context is canceled
func run(ctx context.Context, opts Opts) error {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	database, err := db.New(db.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := database.Close(); closeErr != nil {
			log.Printf("[WARN] failed to close database: %v", closeErr)
		}
	}()

	embedder := embedding.New(cfg.Embedding)

	var annotator scheduler.Annotator
	if cfg.LLM.Enabled {
		annotator = llm.NewSummarizer(cfg.LLM)
		log.Printf("[INFO] LLM summarization enabled with model %s", cfg.LLM.Model)
	}

	connectors := buildConnectors(cfg)
	log.Printf("[INFO] configured %d ingestion sources", len(connectors))

	sched := scheduler.NewScheduler(database, connectors, embedder, annotator, scheduler.Config{
		UpdateInterval: time.Duration(cfg.Schedule.UpdateInterval) * time.Minute,
		EmbedInterval:  time.Duration(cfg.Schedule.EmbedInterval) * time.Minute,
		MaxWorkers:     cfg.Schedule.MaxWorkers,
		BatchSize:      cfg.Schedule.BatchSize,
		LLMBatchSize:   cfg.LLM.BatchSize,
	})
	sched.Start(ctx)
	defer sched.Stop()

	zone := curation.ZoneConfig{
		MinDistance: cfg.Curation.MinDistance,
		MaxDistance: cfg.Curation.MaxDistance,
	}
	selector := curation.NewSelector(database, zone, cfg.Embedding.Dimensions)
	feedSvc := curation.NewService(selector, cfg.Curation.DailyLimit)

	srv := server.New(cfg, database, feedSvc, sched, revision, opts.Debug)
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// buildConnectors creates the ingestion connectors enabled by the config
func buildConnectors(cfg *config.Config) []ingest.Connector {
	var connectors []ingest.Connector

	if len(cfg.Sources.RSS) > 0 {
		var extractor ingest.TextExtractor
		minDescription := 0
		if cfg.Extraction.Enabled {
			extractor = content.NewExtractor(content.ExtractorOptions{
				Timeout:       cfg.Extraction.Timeout,
				UserAgent:     cfg.Extraction.UserAgent,
				MinTextLength: cfg.Extraction.MinTextLength,
			})
			// descriptions shorter than the extraction threshold get the
			// full article text pulled in for embedding
			minDescription = cfg.Extraction.MinTextLength
		}
		connectors = append(connectors, ingest.NewRSS(ingest.RSSOptions{
			Feeds:          cfg.Sources.RSS,
			UserAgent:      cfg.Extraction.UserAgent,
			Extractor:      extractor,
			MinDescription: minDescription,
		}))
	}

	if len(cfg.Sources.OWID) > 0 {
		connectors = append(connectors, ingest.NewOWID(ingest.OWIDOptions{
			Charts:  cfg.Sources.OWID,
			BaseURL: cfg.Sources.OWIDBaseURL,
		}))
	}

	if len(cfg.Sources.Arena) > 0 {
		connectors = append(connectors, ingest.NewArena(ingest.ArenaOptions{
			Channels: cfg.Sources.Arena,
			BaseURL:  cfg.Sources.ArenaBaseURL,
		}))
	}

	return connectors
}

// SetupLog configures the logger, optionally masking the given secrets
func SetupLog(dbg bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))
	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}

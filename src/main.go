package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/crivero/shoebox/src/features/config"
	"github.com/crivero/shoebox/src/features/extracting"
	"github.com/crivero/shoebox/src/features/hosting"
	"github.com/crivero/shoebox/src/features/jobs"
	"github.com/crivero/shoebox/src/features/logging"
	"github.com/crivero/shoebox/src/features/metrics"
	"github.com/crivero/shoebox/src/infra/database"
	"github.com/crivero/shoebox/src/infra/exiftool"
	"github.com/crivero/shoebox/src/infra/files"
	"github.com/crivero/shoebox/src/infra/geo"
	"github.com/crivero/shoebox/src/infra/watcher"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	// Load configuration
	cfgManager, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Setup default logger with slog
	logger := logging.SetupLogger(cfgManager)
	slog.SetDefault(logger)

	registry := prometheus.NewRegistry()
	recorder := metrics.NewRecorder(registry)

	// Create the catalog database
	catalog, err := database.NewSqliteCatalog(cfgManager.Get().Database.Path)
	if err != nil {
		log.Fatalf("failed to create catalog: %v", err)
	}
	defer catalog.Close()

	// Create the exiftool worker pool
	exifCfg := cfgManager.Get().Exiftool
	pool, err := exiftool.NewPool(exiftool.PathResolver{}, exifCfg.Binary, exifCfg.Workers)
	if err != nil {
		log.Fatalf("failed to start exiftool workers: %v", err)
	}
	pool.OnReplace = recorder.WorkerReplaced
	defer pool.Close()

	client := exiftool.NewClient(pool, exiftoolOptions(exifCfg))

	// Create the organizer and the extracting service
	pathParser := files.NewTemplatePathParser(cfgManager)
	fileOrganizer := files.NewFileOrganizer(cfgManager, pathParser)

	// Create the job service
	jobService := jobs.NewService(&cfgManager.Get().Jobs)

	extractingService := extracting.NewService(client, catalog, fileOrganizer, cfgManager, recorder)

	scanTask := extracting.NewDirectoryScanTask(extractingService)
	jobService.RegisterHandler("scan", jobs.NewBaseTaskHandler(scanTask))

	// Create and start the inbox watcher if enabled
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var inboxWatcher *watcher.Watcher
	if cfgManager.Get().Watch.Enabled {
		eventChan := make(chan watcher.FileEvent, 8)
		inboxWatcher, err = watcher.NewWatcher(eventChan)
		if err != nil {
			log.Fatalf("failed to create inbox watcher: %v", err)
		}
		if err := inboxWatcher.Start(ctx, cfgManager.Get().InboxPath); err != nil {
			log.Fatalf("failed to start inbox watcher: %v", err)
		}
		go func() {
			for event := range eventChan {
				if _, err := jobService.StartJob("scan", "Inbox Scan", map[string]any{"path": event.Path}); err != nil {
					slog.Warn("Could not start inbox scan", "error", err)
				}
			}
		}()
		if cfgManager.Get().Watch.AutoStart {
			if _, err := jobService.StartJob("scan", "Inbox Scan", map[string]any{"path": cfgManager.Get().InboxPath}); err != nil {
				slog.Warn("Could not start initial inbox scan", "error", err)
			}
		}
	}

	// Create and start the Telegram bot if enabled
	var telegramBot *hosting.TelegramBot
	if cfgManager.Get().Telegram.Enabled {
		var err error
		telegramBot, err = hosting.NewTelegramBot(cfgManager, extractingService, jobService)
		if err != nil {
			slog.Error("Failed to initialize Telegram bot", "error", err)
		} else {
			go telegramBot.Start()
			slog.Info("Telegram bot started")
		}
	}

	// Create and start the HTTP server
	server := hosting.NewServer(cfgManager, extractingService, jobService, registry, catalog)
	go func() {
		if err := server.Start(); err != nil {
			slog.Error("server stopped", "error", err)
		}
	}()
	slog.Info("Server started. Press Ctrl+C to shut down.", "port", cfgManager.Get().Server.Port)

	// Wait for a shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	slog.Info("Shutting down server...")

	if inboxWatcher != nil {
		inboxWatcher.Stop()
	}

	if telegramBot != nil {
		telegramBot.Stop()
		slog.Info("Telegram bot stopped")
	}

	if err := server.Shutdown(); err != nil {
		log.Fatalf("failed to shutdown server: %v", err)
	}
	slog.Info("Server gracefully shut down.")
}

// exiftoolOptions maps the config block onto worker options, wiring the
// coordinate-to-timezone lookup when geolocation is on.
func exiftoolOptions(cfg config.Exiftool) exiftool.Options {
	opts := exiftool.Options{
		GroupNames:            cfg.GroupNames,
		NumericTags:           cfg.NumericTags,
		Geolocation:           cfg.Geolocation,
		ImageHashType:         cfg.ImageHashType,
		StructFormat:          cfg.StructFormat,
		DefaultVideosToUTC:    cfg.DefaultVideosToUTC,
		PreferTzFromGps:       cfg.PreferTzFromGps,
		BackfillTimezones:     cfg.BackfillTimezones,
		InferTzFromDatestamps: cfg.InferTzFromDatestamps,
		IgnoreZeroZeroLatLon:  cfg.IgnoreZeroZeroLatLon,
	}

	finder, err := geo.NewFinder()
	if err != nil {
		slog.Warn("Timezone lookup unavailable", "error", err)
		return opts
	}
	opts.TimezoneLookup = finder.TimezoneName
	return opts
}

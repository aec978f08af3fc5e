package main

import (
	"fmt"
	"net/http"
	"os"

	"go.uber.org/zap"

	"memeforge/internal/app"
	"memeforge/internal/camera"
	"memeforge/internal/config"
	"memeforge/internal/export"
	"memeforge/internal/imageload"
	"memeforge/internal/logging"
	"memeforge/internal/render"
	"memeforge/internal/share"
	"memeforge/internal/storage"
	"memeforge/internal/templates"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "memeforge failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	path, err := config.Path()
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	store, err := storage.Open(cfg.Storage.Path, storage.Options{
		Compression: cfg.Storage.Compression,
		Password:    cfg.Storage.Passphrase,
	})
	if err != nil {
		return fmt.Errorf("open template store: %w", err)
	}

	watcher, err := templates.NewWatcher(store.Path(), log.Named("watcher"))
	if err != nil {
		log.Warn("template watcher disabled", zap.Error(err))
		watcher = nil
	}

	fonts, err := render.NewFonts()
	if err != nil {
		return fmt.Errorf("load fonts: %w", err)
	}

	log.Info("starting",
		zap.String("config", path),
		zap.String("store", store.Path()),
		zap.String("export_dir", cfg.Export.Dir))

	application := app.New(app.Deps{
		Config:    cfg,
		Log:       log,
		Fonts:     fonts,
		Loader:    imageload.New(log.Named("loader"), &http.Client{}),
		Camera:    camera.NewSession(camera.Unavailable{}, log.Named("camera")),
		Library:   templates.NewLibrary(store, log.Named("templates")),
		Watcher:   watcher,
		Sharer:    share.NewSharer(cfg.Share.Caption, cfg.Share.PageURL, log.Named("share")),
		Clipboard: &export.SystemClipboard{},
	})
	return application.Run()
}

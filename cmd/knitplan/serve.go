package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/piwi3910/KnitPlan/internal/logging"
	"github.com/piwi3910/KnitPlan/internal/project"
	"github.com/piwi3910/KnitPlan/internal/server"
)

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func runServe(e *env, args []string) error {
	cfg := server.LoadConfig()
	fs := newFlagSet(e, "serve")
	fs.StringVar(&cfg.Port, "port", cfg.Port, "listen port")
	fs.StringVar(&cfg.LibraryPath, "library", cfg.LibraryPath, "pattern library database (empty disables it)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if cfg.CatalogPath == "" {
		cfg.CatalogPath = project.DefaultGarmentsPath()
	}
	gc, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var lib *project.Library
	if cfg.LibraryPath != "" {
		lib, err = project.OpenLibrary(ctx, cfg.LibraryPath)
		if err != nil {
			return err
		}
		defer lib.Close()
	}

	srv := server.New(server.Options{
		Config:     cfg,
		Catalog:    gc,
		Library:    lib,
		Settings:   e.settings,
		RequestLog: true,
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			logging.Logger().Info("interrupted, shutting down")
			if err := srv.Shutdown(); err != nil {
				logging.Logger().Error("shutdown failed", "error", err)
			}
		case <-ctx.Done():
		}
	}()

	return srv.Listen()
}

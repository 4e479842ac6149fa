package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gigboard-dev/gigboard/internal/config"
	"github.com/gigboard-dev/gigboard/internal/facade"
	"github.com/gigboard-dev/gigboard/internal/remote"
	"github.com/gigboard-dev/gigboard/internal/router"
	"github.com/gigboard-dev/gigboard/internal/session"
	"github.com/gigboard-dev/gigboard/internal/view"
)

func main() {
	/**********************************************
	 * logger
	 **********************************************/
	// the console owns stdout, logs go to stderr
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(logger)

	/**********************************************
	 * config
	 **********************************************/
	cfg, err := config.LoadClientConfig()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	/**********************************************
	 * client layer
	 **********************************************/
	client := remote.New(cfg.BaseURL,
		remote.WithTimeout(time.Duration(cfg.RequestTimeout)*time.Second),
		remote.WithSessionStore(&remote.FileSessionStore{Path: cfg.SessionFile}),
	)
	f := facade.New(client)
	store := session.NewStore(client, f.Profiles)

	r := router.New(ctx, store)
	env := view.NewEnv(store, f, r, time.Duration(cfg.PollInterval)*time.Second)
	router.Register(r, env)

	c := newConsole(ctx, os.Stdin, os.Stdout, env, r, f)
	r.OnChange(c.render)

	go func() {
		if err := store.Init(ctx); err != nil {
			logger.Warn("failed to restore session", "error", err)
		}
	}()

	r.Navigate(view.PathHome)
	c.run()
	r.Close()
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/dmitrijs2005/herocards/internal/buildinfo"
	"github.com/dmitrijs2005/herocards/internal/client/cli"
	"github.com/dmitrijs2005/herocards/internal/client/client"
	"github.com/dmitrijs2005/herocards/internal/client/config"
	"github.com/dmitrijs2005/herocards/internal/client/identity"
	"github.com/dmitrijs2005/herocards/internal/client/media"
	"github.com/dmitrijs2005/herocards/internal/client/services"
	"github.com/dmitrijs2005/herocards/internal/client/session"
	"github.com/dmitrijs2005/herocards/internal/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "herocards:", err)
		os.Exit(1)
	}
}

func run() error {
	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		return err
	}

	log, logCloser := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	defer logCloser.Close()

	if cfg.IdentityToken == "" || cfg.IdentitySecret == "" {
		return errors.New("identity token and secret are required (HEROCARDS_IDENTITY_TOKEN, HEROCARDS_IDENTITY_SECRET)")
	}
	tokens := identity.NewTokenProvider([]byte(cfg.IdentitySecret))
	if err := tokens.SetToken(cfg.IdentityToken); err != nil {
		return fmt.Errorf("identity token: %w", err)
	}
	subject, ok := tokens.Identity()
	if !ok {
		return identity.ErrSignedOut
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o700); err != nil {
		return err
	}
	repos, err := client.InitDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("open local cache: %w", err)
	}
	defer repos.Close()

	remote, err := client.NewCardStoreClient(cfg.RemoteAddr, buildinfo.Version, tokens)
	if err != nil {
		return fmt.Errorf("remote client: %w", err)
	}
	defer remote.Close()

	engine := services.NewSyncEngine(remote, repos, log, cfg.EventBuffer)
	defer engine.Close()

	slotName := strings.TrimSuffix(filepath.Base(cfg.DatabasePath), filepath.Ext(cfg.DatabasePath))
	guard := session.NewGuard(session.NewFileSlot(cfg.SessionDir, slotName), engine, log)
	if err := guard.SignIn(ctx, subject); err != nil {
		return err
	}

	var uploader cli.Uploader
	if cfg.MediaEnabled() {
		up, err := media.NewUploader(ctx, media.Config{
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3BaseEndpoint,
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
			Prefix:       "herocards",
		}, nil)
		if err != nil {
			return err
		}
		uploader = up
	}

	app := cli.NewApp(engine, guard, remote, uploader, os.Stdin, os.Stdout, log)
	app.Run(ctx, cfg.OnlineCheckInterval)

	if guard.State() == session.NoSession {
		tokens.SignOut()
	}
	return nil
}

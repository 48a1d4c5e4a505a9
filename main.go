package main

import (
	"cndash/api/capi"
	"cndash/bot"
	"cndash/bot/slashcommands"
	"cndash/dashboard"
	"cndash/database"
	"cndash/utils/config"
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func loadEnv() {
	err := godotenv.Load(".env")
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatal(err)
	}
}

func main() {
	loadEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid config:\n%v", err)
	}

	log.SetLevel(cfg.LogLevel)

	if err := run(cfg); err != nil {
		log.Fatal(err)
	}
}

func run(cfg config.Config) error {
	db, err := database.NewSnapshotDB(cfg.DBDir)
	if err != nil {
		return err
	}

	kv, err := database.OpenKV(cfg.DBDir)
	if err != nil {
		return err
	}
	defer kv.Close()

	if cfg.SnapshotFile != "" {
		res, err := database.ImportSnapshotFile(db, cfg.SnapshotFile, cfg.Location)
		if err != nil && res.Nations == 0 {
			return err
		}
		if err != nil {
			log.Warnf("skipped %d records from %s:\n%v", res.Skipped, cfg.SnapshotFile, err)
		}
	}

	svc := dashboard.New(database.NewRepository(db, kv), cfg.Location)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Infof("Loaded config. Starting with %d threads.", runtime.GOMAXPROCS(-1))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return capi.Serve(ctx, cfg.APIAddr, capi.NewMux(svc))
	})

	if cfg.BotEnabled() {
		g.Go(func() error {
			return bot.Run(ctx, cfg.BotToken, slashcommands.Deps{Service: svc, KV: kv})
		})
	} else {
		log.Warn("BOT_TOKEN is not set. Discord bot disabled.")
	}

	if cfg.SnapshotURL != "" {
		g.Go(func() error {
			return database.RefreshLoop(ctx, db, cfg.SnapshotURL, cfg.SnapshotInterval, cfg.Location)
		})
	}

	err = g.Wait()
	if flushErr := db.Flush(); flushErr != nil {
		err = errors.Join(err, flushErr)
	}

	return err
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"statuswatch/internal/config"
	"statuswatch/internal/engine"
	"statuswatch/internal/models"
	"statuswatch/internal/monitor"
	"statuswatch/internal/render"
	"statuswatch/internal/server"
	"statuswatch/internal/storage"
)

func main() {
	var (
		configPath   = flag.String("config", "config.yaml", "path to configuration file (YAML)")
		simple       = flag.Bool("simple", false, "simple one-line status output (default)")
		detailed     = flag.Bool("detailed", false, "detailed status output")
		jsonOut      = flag.Bool("json", false, "JSON status output")
		forceRefresh = flag.Bool("force-refresh", false, "bypass the result cache")
		monitorEvery = flag.Duration("monitor", 0, "monitor mode: re-check on this interval (e.g. 30s)")
		serve        = flag.Bool("serve", false, "run the HTTP/websocket status API")
		addr         = flag.String("addr", ":8080", "address for the status API")
	)
	flag.Parse()

	if *simple {
		*detailed = false
		*jsonOut = false
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	eng, err := engine.New(cfg)
	if err != nil {
		log.Fatalf("initialise engine: %v", err)
	}

	var store *storage.SnapshotStore
	if cfg.DataDirectory != "" {
		snapshotPath := filepath.Join(cfg.DataDirectory, "status_history.json")
		store, err = storage.NewSnapshotStore(snapshotPath)
		if err != nil {
			log.Fatalf("initialise storage: %v", err)
		}
		samples, err := store.Load()
		if err != nil {
			log.Printf("load history snapshot: %v", err)
		} else if len(samples) > 0 {
			eng.RestoreHistory(samples)
		}
	}

	switch {
	case *serve:
		runServe(eng, store, cfg, *addr)
	case *monitorEvery > 0:
		runMonitor(eng, store, *monitorEvery, *detailed, *jsonOut)
	default:
		runOnce(eng, store, *forceRefresh, *detailed, *jsonOut)
	}
}

func runOnce(eng *engine.Engine, store *storage.SnapshotStore, force, detailed, jsonOut bool) {
	sample, err := eng.Status(context.Background(), force)
	if err != nil {
		log.Fatalf("status check: %v", err)
	}
	printSample(sample, detailed, jsonOut, false)
	persist(eng, store)
}

func runMonitor(eng *engine.Engine, store *storage.SnapshotStore, interval time.Duration, detailed, jsonOut bool) {
	fmt.Println("🔄 Starting status monitoring...")

	loop := monitor.New(eng, interval, func(sample models.StatusSample) {
		printSample(sample, detailed, jsonOut, true)
		persist(eng, store)
	})
	loop.Start()
	defer loop.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	fmt.Println("\n⏹️  Monitoring stopped")
}

func runServe(eng *engine.Engine, store *storage.SnapshotStore, cfg config.Config, addr string) {
	loop := monitor.New(eng, cfg.CacheTTL(), func(models.StatusSample) {
		persist(eng, store)
	})
	loop.Start()
	defer loop.Stop()

	srv := server.New(addr, eng)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("server shutdown: %v", err)
		}
	}()

	log.Printf("statuswatch listening on %s (poll every %s)", addr, cfg.CacheTTL())
	if err := srv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
}

func printSample(sample models.StatusSample, detailed, jsonOut, stamped bool) {
	var line string
	switch {
	case jsonOut:
		out, err := render.JSON(sample)
		if err != nil {
			log.Printf("render sample: %v", err)
			return
		}
		line = out
	case detailed:
		line = render.Detailed(sample, time.Now())
	default:
		line = render.Simple(sample)
	}
	if stamped && !jsonOut {
		line = fmt.Sprintf("[%s] %s", time.Now().Format("15:04:05"), line)
	}
	fmt.Println(line)
}

func persist(eng *engine.Engine, store *storage.SnapshotStore) {
	if store == nil {
		return
	}
	if err := store.Save(eng.History()); err != nil {
		log.Printf("save history snapshot: %v", err)
	}
}

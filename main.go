package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/banshee-data/motion.report/internal/api"
	"github.com/banshee-data/motion.report/internal/config"
	"github.com/banshee-data/motion.report/internal/db"
	"github.com/banshee-data/motion.report/internal/pipeline"
	"github.com/banshee-data/motion.report/internal/profile"
	"github.com/banshee-data/motion.report/internal/session"
	"github.com/banshee-data/motion.report/internal/version"
)

var (
	configPath  = flag.String("config", "", "Path to a service config JSON file (flags override it)")
	listen      = flag.String("listen", "", "HTTP listen address")
	dbFile      = flag.String("db", "", "Path to the SQLite database file")
	profiles    = flag.String("profiles", "", "Path to a sport profiles JSON file (empty: built-in profiles)")
	recordings  = flag.String("recordings", "", "Directory replay recordings must live under (empty: unrestricted)")
	devMode     = flag.Bool("dev", false, "Run in dev mode with diagnostic pipeline logging")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("motion.report %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		return
	}

	cfg := config.EmptyServiceConfig()
	if *configPath != "" {
		loaded, err := config.LoadServiceConfig(*configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		cfg = loaded
	}

	listenAddr := cfg.GetListenAddr()
	dbPath := cfg.GetDBPath()
	profilesPath := cfg.GetProfilesPath()
	recordingsDir := cfg.GetRecordingsDir()
	dev := cfg.GetDev() || *devMode
	if *listen != "" {
		listenAddr = *listen
	}
	if *dbFile != "" {
		dbPath = *dbFile
	}
	if *profiles != "" {
		profilesPath = *profiles
	}
	if *recordings != "" {
		recordingsDir = *recordings
	}

	if dev {
		pipeline.SetLogWriters(pipeline.LogWriters{
			Ops:  os.Stderr,
			Diag: os.Stderr,
		})
	}

	registry := profile.NewRegistry()
	if profilesPath != "" {
		if err := registry.LoadFile(profilesPath); err != nil {
			log.Fatalf("failed to load sport profiles: %v", err)
		}
	}

	database, err := db.NewDB(dbPath)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer database.Close()

	coord := session.NewCoordinator(registry, database)
	coord.SetDefaults(cfg.GetQueueCapacity(), cfg.GetHistoryCapacity())

	server := api.NewServer(coord, database)
	if recordingsDir != "" {
		server.SetRecordingsDir(recordingsDir)
	}

	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// HTTP server goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()

		httpServer := &http.Server{
			Addr:    listenAddr,
			Handler: api.LoggingMiddleware(server.ServeMux()),
		}

		go func() {
			log.Printf("motion.report %s listening on %s", version.Version, listenAddr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("failed to start server: %v", err)
			}
		}()

		<-ctx.Done()
		log.Println("shutting down HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
		}
		log.Printf("HTTP server routine stopped")
	}()

	wg.Wait()

	// Drain any sessions still running so their reports are persisted
	// before the database closes.
	coord.StopAll()
	log.Printf("Graceful shutdown complete")
}

package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bryanwahyu/accessiscan/internal/application"
	appai "github.com/bryanwahyu/accessiscan/internal/application/ai"
	appscans "github.com/bryanwahyu/accessiscan/internal/application/scans"
	"github.com/bryanwahyu/accessiscan/internal/config"
	domai "github.com/bryanwahyu/accessiscan/internal/domain/ai"
	domain "github.com/bryanwahyu/accessiscan/internal/domain/scans"
	"github.com/bryanwahyu/accessiscan/internal/infra/ai/openai"
	"github.com/bryanwahyu/accessiscan/internal/infra/db/memory"
	mysqlp "github.com/bryanwahyu/accessiscan/internal/infra/db/mysql"
	"github.com/bryanwahyu/accessiscan/internal/infra/db/postgres"
	"github.com/bryanwahyu/accessiscan/internal/infra/engine"
	"github.com/bryanwahyu/accessiscan/internal/infra/httpserver"
	minioStore "github.com/bryanwahyu/accessiscan/internal/infra/storage"
	"github.com/bryanwahyu/accessiscan/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()
	checkers := map[string]middleware.HealthChecker{}

	// history repo
	repo, db, err := openRepository(ctx, cfg)
	if err != nil {
		log.Fatalf("%s connect error: %v", cfg.Database.Driver, err)
	}
	if db != nil {
		defer db.Close()
		checkers["database"] = &middleware.DatabaseHealthChecker{DB: db}
	}

	eng := engine.NewClient(engine.Config{BaseURL: cfg.Engine.BaseURL, Timeout: cfg.EngineTimeout()})
	checkers["engine"] = middleware.CheckerFunc(func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, eng.BaseURL(), nil)
		if err != nil {
			return err
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return err
		}
		resp.Body.Close()
		return nil
	})

	svc := &appscans.Service{
		Engine:       eng,
		Repo:         repo,
		Clock:        application.SystemClock{},
		PollInterval: cfg.PollInterval(),
	}

	// init minio (optional)
	if cfg.Minio.Enabled {
		store, err := minioStore.New(ctx, minioStore.Options{
			Endpoint:  cfg.Minio.Endpoint,
			Region:    cfg.Minio.Region,
			Bucket:    cfg.Minio.BucketName,
			AccessKey: cfg.Minio.AccessKey,
			SecretKey: cfg.Minio.SecretKey,
			UseSSL:    cfg.Minio.UseSSL,
		})
		if err != nil {
			log.Fatalf("minio init error: %v", err)
		}
		svc.Archive = store
		checkers["archive"] = store
	}

	// init AI (optional)
	var aiClient domai.Client
	if cfg.AI.APIKey != "" {
		aiClient = openai.NewClient(cfg.AI.APIKey, cfg.AI.Model)
	}

	router := httpserver.NewRouter(httpserver.Options{
		Scans:               svc,
		AI:                  appai.NewService(aiClient),
		Checkers:            checkers,
		AllowedOrigins:      cfg.Server.AllowedOrigins,
		AllowPrivateTargets: cfg.Server.AllowPrivateTargets,
		RateCapacity:        cfg.Server.RateLimit.Capacity,
		RateRefillPerSecond: cfg.Server.RateLimit.RefillPerSecond,
	})

	// scans left unfinished by a previous run
	go func() {
		n, err := svc.RefreshActive(ctx, 100)
		if err != nil {
			log.Printf("level=warn msg=\"refresh active scans failed\" err=%v", err)
			return
		}
		log.Printf("msg=\"refreshed active scans\" count=%d", n)
	}()

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// PDF streams and websocket sessions outlive a fixed write timeout.
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		log.Printf("server listening on %s engine=%s history=%s", addr, eng.BaseURL(), cfg.Database.Driver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
	router.Close()
}

// openRepository picks the history store. The returned *sql.DB is nil for
// the in-memory store.
func openRepository(ctx context.Context, cfg *config.Config) (domain.Repository, *sql.DB, error) {
	switch cfg.Database.Driver {
	case "mysql":
		db, err := mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			return nil, nil, err
		}
		if err := mysqlp.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
		return mysqlp.NewScanRepository(db), db, nil
	case "postgres":
		db, err := postgres.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
		return postgres.NewScanRepository(db), db, nil
	case "memory":
		return memory.NewScanRepository(), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/shamoevthomas/CloseOS-sub001/internal/api"
	"github.com/shamoevthomas/CloseOS-sub001/internal/availability"
	"github.com/shamoevthomas/CloseOS-sub001/internal/booking"
	"github.com/shamoevthomas/CloseOS-sub001/internal/config"
	"github.com/shamoevthomas/CloseOS-sub001/internal/db"
	"github.com/shamoevthomas/CloseOS-sub001/internal/meeting"
	"github.com/shamoevthomas/CloseOS-sub001/internal/notify"
	"github.com/shamoevthomas/CloseOS-sub001/internal/redisclient"
)

const version = "0.1.0"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("api-server starting up")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	log.Printf("running in env=%s http_port=%s", cfg.Env, cfg.HTTPPort)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect Postgres
	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		log.Fatalf("postgres connection error: %v", err)
	}
	defer pgPool.Close()
	log.Println("connected to Postgres")

	// Connect Redis
	rdb, err := redisclient.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("redis connection error: %v", err)
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Printf("error closing redis: %v", err)
		}
	}()
	log.Println("connected to Redis")

	pages := availability.NewPgRepository(pgPool)
	repo := booking.NewPgRepository(pgPool)
	locker := redisclient.NewRedisSlotLocker(rdb, cfg.LockTTL)
	rooms := meeting.NewClient(cfg.RoomsAPIURL, cfg.RoomsAPIKey)
	mailer := notify.NewMailer(cfg.MailAPIURL, cfg.MailAPIKey, cfg.MailSenderName, cfg.MailSenderEmail)
	composer := notify.NewComposer(cfg.EventDuration)
	bookings := booking.NewService(repo, locker, rooms, mailer, composer, cfg)

	handler := api.NewRouter(api.RouterConfig{
		Pages:    pages,
		Bookings: bookings,
		PgPool:   pgPool,
		Redis:    rdb,
		Env:      cfg.Env,
		Version:  version,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	case <-rootCtx.Done():
	}

	log.Println("shutting down api-server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown error: %v", err)
	}
}

package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/shamoevthomas/CloseOS-sub001/internal/booking"
	"github.com/shamoevthomas/CloseOS-sub001/internal/config"
	"github.com/shamoevthomas/CloseOS-sub001/internal/db"
	"github.com/shamoevthomas/CloseOS-sub001/internal/meeting"
	"github.com/shamoevthomas/CloseOS-sub001/internal/notify"
	"github.com/shamoevthomas/CloseOS-sub001/internal/redisclient"
)

// room-reaper sweeps meeting rooms that were provisioned but never became an
// appointment: crashes between provisioning and the compensating delete leave
// provision ledger rows open, and this worker closes them.
func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("room-reaper starting up")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	log.Printf("running room reaper in env=%s cron=%q min_age=%s", cfg.Env, cfg.ReaperCron, cfg.ReaperMinAge)

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

	repo := booking.NewPgRepository(pgPool)
	locker := redisclient.NewRedisSlotLocker(rdb, cfg.LockTTL)
	rooms := meeting.NewClient(cfg.RoomsAPIURL, cfg.RoomsAPIKey)
	mailer := notify.NewMailer(cfg.MailAPIURL, cfg.MailAPIKey, cfg.MailSenderName, cfg.MailSenderEmail)
	composer := notify.NewComposer(cfg.EventDuration)
	svc := booking.NewService(repo, locker, rooms, mailer, composer, cfg)

	// Run once at startup
	runOnce(rootCtx, svc)

	c := cron.New()
	if _, err := c.AddFunc(cfg.ReaperCron, func() { runOnce(rootCtx, svc) }); err != nil {
		log.Fatalf("invalid REAPER_CRON %q: %v", cfg.ReaperCron, err)
	}
	c.Start()

	<-rootCtx.Done()
	log.Println("shutdown signal received, stopping room reaper")

	stopCtx := c.Stop()
	<-stopCtx.Done()
}

func runOnce(ctx context.Context, svc *booking.Service) {
	runCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	start := time.Now()
	if err := svc.ReapOrphanedRooms(runCtx); err != nil {
		log.Printf("reap run error: %v", err)
		return
	}
	log.Printf("reap run complete in %s", time.Since(start))
}

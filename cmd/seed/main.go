package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shamoevthomas/CloseOS-sub001/internal/db"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	gofakeit.Seed(time.Now().UnixNano())

	if err := seedBookingPages(context.Background(), pool, 50); err != nil {
		log.Fatalf("seed booking pages: %v", err)
	}

	log.Println("seed complete")
}

type seedRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type seedDay struct {
	Enabled bool        `json:"enabled"`
	Slots   []seedRange `json:"slots"`
}

func seedBookingPages(ctx context.Context, pool *pgxpool.Pool, count int) error {
	log.Printf("seeding %d booking pages", count)

	timezones := []string{
		"UTC",
		"Europe/Paris",
		"Europe/London",
		"America/New_York",
		"America/Los_Angeles",
		"Asia/Singapore",
	}
	leadTimes := []int{0, 2, 4, 12, 24, 48}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i := 0; i < count; i++ {
		ownerID := uuid.New()
		firstName := gofakeit.FirstName()
		lastName := gofakeit.LastName()
		ownerName := firstName + " " + lastName
		slug := fmt.Sprintf("%s-%s-%d", firstName, lastName, gofakeit.Number(100, 999))

		days, err := json.Marshal(randomWeek())
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO booking_pages (slug, owner_id, owner_name, owner_email, min_lead_time_hours, timezone, days, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		`,
			slug,
			ownerID,
			ownerName,
			gofakeit.Email(),
			leadTimes[gofakeit.Number(0, len(leadTimes)-1)],
			timezones[gofakeit.Number(0, len(timezones)-1)],
			days,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func randomWeek() map[string]seedDay {
	week := make(map[string]seedDay, 7)
	for _, name := range []string{"monday", "tuesday", "wednesday", "thursday", "friday"} {
		if gofakeit.Bool() {
			startHour := gofakeit.Number(7, 10)
			endHour := gofakeit.Number(15, 19)
			week[name] = seedDay{
				Enabled: true,
				Slots: []seedRange{{
					Start: fmt.Sprintf("%02d:00", startHour),
					End:   fmt.Sprintf("%02d:00", endHour),
				}},
			}
		} else {
			week[name] = seedDay{Enabled: false}
		}
	}
	return week
}

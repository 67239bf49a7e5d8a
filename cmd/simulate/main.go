package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

// simulate hammers the public booking API with concurrent visitors racing
// for the same slots, to observe how many bookings succeed versus collide.
type simConfig struct {
	APIBaseURL string
	Slug       string
	Workers    int
	Duration   time.Duration
}

type metrics struct {
	total    int64
	success  int64
	conflict int64
	errored  int64

	mu        sync.Mutex
	latencies []time.Duration
}

func (m *metrics) record(latency time.Duration, status int) {
	atomic.AddInt64(&m.total, 1)
	switch {
	case status == http.StatusCreated:
		atomic.AddInt64(&m.success, 1)
	case status == http.StatusConflict:
		atomic.AddInt64(&m.conflict, 1)
	default:
		atomic.AddInt64(&m.errored, 1)
	}

	m.mu.Lock()
	m.latencies = append(m.latencies, latency)
	m.mu.Unlock()
}

func (m *metrics) stats() (avg, p50, p95 time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.latencies) == 0 {
		return 0, 0, 0
	}

	sorted := make([]time.Duration, len(m.latencies))
	copy(sorted, m.latencies)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var sum time.Duration
	for _, l := range sorted {
		sum += l
	}
	avg = sum / time.Duration(len(sorted))
	p50 = sorted[len(sorted)*50/100]
	p95 = sorted[min(len(sorted)*95/100, len(sorted)-1)]
	return avg, p50, p95
}

type datesResponse struct {
	Dates []string `json:"dates"`
}

type slotsResponse struct {
	Slots []string `json:"slots"`
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg := simConfig{}
	flag.StringVar(&cfg.APIBaseURL, "api", "http://localhost:8080", "booking API base URL")
	flag.StringVar(&cfg.Slug, "slug", "", "booking page slug to hammer (required)")
	flag.IntVar(&cfg.Workers, "workers", 20, "number of concurrent visitors")
	flag.DurationVar(&cfg.Duration, "duration", 30*time.Second, "how long to run")
	flag.Parse()

	if cfg.Slug == "" {
		flag.Usage()
		os.Exit(2)
	}

	gofakeit.Seed(time.Now().UnixNano())
	client := &http.Client{Timeout: 15 * time.Second}

	dates, slots, err := fetchOfferable(client, cfg)
	if err != nil {
		log.Fatalf("fetch offerable slots: %v", err)
	}
	if len(slots) == 0 {
		log.Fatalf("page %s has no offerable slots to race for", cfg.Slug)
	}
	log.Printf("racing %d workers over %d slots on %s for %s", cfg.Workers, len(slots), dates[0], cfg.Duration)

	m := &metrics{}
	deadline := time.Now().Add(cfg.Duration)

	var wg sync.WaitGroup
	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(deadline) {
				// Everyone clusters on the first few slots so conflicts
				// actually happen.
				slot := slots[rand.Intn(min(3, len(slots)))]
				status, latency := attemptBooking(client, cfg, dates[0], slot)
				m.record(latency, status)
			}
		}()
	}
	wg.Wait()

	avg, p50, p95 := m.stats()
	fmt.Printf("\nresults for %s\n", cfg.Slug)
	fmt.Printf("  total:     %d\n", m.total)
	fmt.Printf("  booked:    %d\n", m.success)
	fmt.Printf("  conflicts: %d\n", m.conflict)
	fmt.Printf("  errors:    %d\n", m.errored)
	fmt.Printf("  latency:   avg=%s p50=%s p95=%s\n", avg, p50, p95)
}

func fetchOfferable(client *http.Client, cfg simConfig) ([]string, []string, error) {
	var dates datesResponse
	if err := getJSON(client, fmt.Sprintf("%s/pages/%s/dates", cfg.APIBaseURL, cfg.Slug), &dates); err != nil {
		return nil, nil, err
	}
	if len(dates.Dates) == 0 {
		return nil, nil, fmt.Errorf("no bookable dates for %s", cfg.Slug)
	}

	var slots slotsResponse
	url := fmt.Sprintf("%s/pages/%s/slots?date=%s", cfg.APIBaseURL, cfg.Slug, dates.Dates[0])
	if err := getJSON(client, url, &slots); err != nil {
		return nil, nil, err
	}

	return dates.Dates, slots.Slots, nil
}

func getJSON(client *http.Client, url string, out any) error {
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func attemptBooking(client *http.Client, cfg simConfig, date, slot string) (int, time.Duration) {
	payload := map[string]string{
		"first_name": gofakeit.FirstName(),
		"last_name":  gofakeit.LastName(),
		"email":      gofakeit.Email(),
		"phone":      gofakeit.Phone(),
		"date":       date,
		"start":      slot,
	}
	body, _ := json.Marshal(payload)

	start := time.Now()
	resp, err := client.Post(
		fmt.Sprintf("%s/pages/%s/bookings", cfg.APIBaseURL, cfg.Slug),
		"application/json",
		bytes.NewReader(body),
	)
	latency := time.Since(start)
	if err != nil {
		return 0, latency
	}
	resp.Body.Close()

	return resp.StatusCode, latency
}

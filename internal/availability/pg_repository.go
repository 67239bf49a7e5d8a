package availability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// dayRuleRecord is the stored shape of one weekday: the dashboard persists a
// slots array, of which the booking engine models the single contiguous range.
type dayRuleRecord struct {
	Enabled bool        `json:"enabled"`
	Slots   []TimeRange `json:"slots"`
}

func (r *PgRepository) GetPageBySlug(ctx context.Context, slug string) (*Template, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT slug, owner_id, owner_name, owner_email, min_lead_time_hours, timezone, days
		FROM booking_pages
		WHERE slug = $1
	`, slug)

	var t Template
	var daysJSON []byte

	err := row.Scan(
		&t.Slug,
		&t.OwnerID,
		&t.OwnerName,
		&t.OwnerEmail,
		&t.MinLeadTimeHours,
		&t.Timezone,
		&daysJSON,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPageNotFound
		}
		return nil, err
	}

	days, err := decodeDays(daysJSON)
	if err != nil {
		return nil, fmt.Errorf("decode days for page %s: %w", slug, err)
	}
	t.Days = days

	return &t, nil
}

func decodeDays(raw []byte) (map[string]DayRule, error) {
	if len(raw) == 0 {
		return map[string]DayRule{}, nil
	}

	var records map[string]dayRuleRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, err
	}

	days := make(map[string]DayRule, len(records))
	for name, rec := range records {
		rule := DayRule{Enabled: rec.Enabled}
		if len(rec.Slots) > 0 {
			rule.Range = rec.Slots[0]
		} else {
			// Enabled without a configured range offers nothing.
			rule.Enabled = false
		}
		days[name] = rule
	}

	return days, nil
}

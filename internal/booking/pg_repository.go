package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolationCode = "23505"

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) InsertAppointment(ctx context.Context, appt *Appointment) error {
	if appt.ID == uuid.Nil {
		appt.ID = uuid.New()
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO appointments (id, owner_id, title, contact_label, date, time_range, kind, status, join_url, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now())
		RETURNING created_at
	`, appt.ID, appt.OwnerID, appt.Title, appt.ContactLabel, appt.Date, appt.TimeRange,
		appt.Kind, appt.Status, appt.JoinURL, appt.Notes)

	if err := row.Scan(&appt.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return ErrAppointmentConflict
		}
		return fmt.Errorf("insert appointment: %w", err)
	}

	return nil
}

func (r *PgRepository) InsertProvision(ctx context.Context, p *RoomProvision) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO room_provisions (id, owner_id, meeting_id, room_url, created_at)
		VALUES ($1, $2, $3, $4, now())
	`, p.ID, p.OwnerID, p.MeetingID, p.RoomURL)
	if err != nil {
		return fmt.Errorf("insert room provision: %w", err)
	}

	return nil
}

func (r *PgRepository) MarkProvisionConsumed(ctx context.Context, id uuid.UUID) error {
	return r.markProvision(ctx, id, "consumed_at")
}

func (r *PgRepository) MarkProvisionReleased(ctx context.Context, id uuid.UUID) error {
	return r.markProvision(ctx, id, "released_at")
}

func (r *PgRepository) markProvision(ctx context.Context, id uuid.UUID, column string) error {
	// column is one of two fixed identifiers, never user input.
	tag, err := r.pool.Exec(ctx, fmt.Sprintf(`
		UPDATE room_provisions
		SET %s = now()
		WHERE id = $1 AND %s IS NULL
	`, column, column), id)
	if err != nil {
		return fmt.Errorf("mark provision %s: %w", column, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProvisionNotFound
	}

	return nil
}

func (r *PgRepository) FindStaleProvisions(ctx context.Context, olderThan time.Time) ([]RoomProvision, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, owner_id, meeting_id, room_url, created_at, consumed_at, released_at
		FROM room_provisions
		WHERE consumed_at IS NULL
		  AND released_at IS NULL
		  AND created_at < $1
	`, olderThan)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []RoomProvision
	for rows.Next() {
		p, err := scanProvision(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func scanProvision(row pgx.Row) (*RoomProvision, error) {
	var p RoomProvision
	var consumedAt, releasedAt *time.Time

	err := row.Scan(
		&p.ID,
		&p.OwnerID,
		&p.MeetingID,
		&p.RoomURL,
		&p.CreatedAt,
		&consumedAt,
		&releasedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProvisionNotFound
		}
		return nil, err
	}

	p.ConsumedAt = consumedAt
	p.ReleasedAt = releasedAt
	return &p, nil
}

package availability

import (
	"context"
	"errors"
)

var ErrPageNotFound = errors.New("booking page not found")

// Repository loads booking-page templates for the public flow.
type Repository interface {
	GetPageBySlug(ctx context.Context, slug string) (*Template, error)
}

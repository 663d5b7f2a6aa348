// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"github.com/ashureev/widget-assist/internal/domain"
)

// Listing limits for ListSubmissions.
const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// Repository defines the interface for persisting widget submissions.
type Repository interface {
	// SaveSubmission inserts a new submission. ID and CreatedAt must be set.
	SaveSubmission(ctx context.Context, sub *domain.Submission) error

	// GetSubmission retrieves a submission by ID. Returns nil, nil if not found.
	GetSubmission(ctx context.Context, id string) (*domain.Submission, error)

	// ListSubmissions returns the newest submissions first. An empty widget
	// lists all widgets. limit is clamped to [1, MaxListLimit]; zero means
	// DefaultListLimit.
	ListSubmissions(ctx context.Context, widget string, limit int) ([]*domain.Submission, error)

	// DeleteSubmissionsBefore removes submissions created before cutoff and
	// returns how many were deleted.
	DeleteSubmissionsBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// Ping verifies database connectivity and returns an error if the database is unreachable.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}

// ClampLimit applies the ListSubmissions limit rules.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	default:
		return limit
	}
}

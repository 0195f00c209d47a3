// Package services contains the business logic layer for the happy thoughts feed
package services

import (
	"context"
	"errors"
	"time"

	customerrors "github.com/axellelanca/happythoughts/internal/errors"
	"github.com/axellelanca/happythoughts/internal/models"
	"github.com/axellelanca/happythoughts/internal/repository"
)

// DefaultFeedLimit is the number of thoughts returned by the recent feed.
const DefaultFeedLimit = 20

// ThoughtService provides business logic methods for the thoughts feed.
// It holds no state of its own between calls; the repository owns every record.
type ThoughtService struct {
	thoughtRepo repository.ThoughtRepository
	feedLimit   int
	now         func() time.Time
}

// Option customizes a ThoughtService.
type Option func(*ThoughtService)

// WithFeedLimit overrides the maximum number of thoughts returned by ListRecentThoughts.
func WithFeedLimit(limit int) Option {
	return func(s *ThoughtService) {
		if limit > 0 {
			s.feedLimit = limit
		}
	}
}

// WithClock overrides the clock used to stamp new thoughts.
func WithClock(now func() time.Time) Option {
	return func(s *ThoughtService) {
		s.now = now
	}
}

// NewThoughtService creates and returns a new instance of ThoughtService.
func NewThoughtService(thoughtRepo repository.ThoughtRepository, opts ...Option) *ThoughtService {
	s := &ThoughtService{
		thoughtRepo: thoughtRepo,
		feedLimit:   DefaultFeedLimit,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FeedLimit returns the maximum size of the recent feed.
func (s *ThoughtService) FeedLimit() int {
	return s.feedLimit
}

// ListRecentThoughts returns the newest thoughts first, at most FeedLimit of them.
func (s *ThoughtService) ListRecentThoughts(ctx context.Context) ([]models.Thought, error) {
	thoughts, err := s.thoughtRepo.ListRecentThoughts(ctx, s.feedLimit)
	if err != nil {
		return nil, customerrors.StorageError{Op: "list", Err: err}
	}
	return thoughts, nil
}

// CreateThought validates the message and persists a new thought.
// Only the message comes from the caller: hearts start at zero, the creation time is now,
// and the identifier is assigned by the repository.
func (s *ThoughtService) CreateThought(ctx context.Context, message string) (*models.Thought, error) {
	trimmed, err := models.ValidateMessage(message)
	if err != nil {
		return nil, err
	}

	thought := models.NewThought(trimmed, s.now().UTC())
	if err := s.thoughtRepo.CreateThought(ctx, thought); err != nil {
		return nil, customerrors.StorageError{Op: "create", Err: err}
	}
	return thought, nil
}

// LikeThought adds one heart to the thought and returns it as stored after the increment.
// The increment itself is performed by the repository; the service never writes hearts.
func (s *ThoughtService) LikeThought(ctx context.Context, id string) (*models.Thought, error) {
	if !models.IsValidThoughtID(id) {
		return nil, customerrors.ErrInvalidThoughtID
	}

	thought, err := s.thoughtRepo.IncrementHearts(ctx, id)
	if err != nil {
		if errors.Is(err, customerrors.ErrThoughtNotFound) {
			return nil, customerrors.ErrThoughtNotFound
		}
		return nil, customerrors.StorageError{Op: "like", Err: err}
	}
	return thought, nil
}

// FeedStats summarizes the whole store.
type FeedStats struct {
	Thoughts    int64
	TotalHearts int64
}

// GetFeedStats counts thoughts and hearts across the store.
func (s *ThoughtService) GetFeedStats(ctx context.Context) (*FeedStats, error) {
	count, err := s.thoughtRepo.CountThoughts(ctx)
	if err != nil {
		return nil, customerrors.StorageError{Op: "count", Err: err}
	}
	hearts, err := s.thoughtRepo.TotalHearts(ctx)
	if err != nil {
		return nil, customerrors.StorageError{Op: "count", Err: err}
	}
	return &FeedStats{Thoughts: count, TotalHearts: hearts}, nil
}

// Health reports whether the store is reachable.
func (s *ThoughtService) Health(ctx context.Context) error {
	if err := s.thoughtRepo.Ping(ctx); err != nil {
		return customerrors.StorageError{Op: "ping", Err: err}
	}
	return nil
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/tripatlas/destinations/internal/domain"
	"github.com/tripatlas/destinations/internal/repository"
	"github.com/tripatlas/destinations/pkg/events"
	"github.com/tripatlas/destinations/pkg/logger"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// ListQuery carries the raw listing parameters from the HTTP layer.
// Zero values fall back to defaults; filter strings are validated here.
type ListQuery struct {
	Page        int
	Limit       int
	Type        string
	CountryCode string
}

type DestinationService interface {
	List(ctx context.Context, q ListQuery) (*domain.DestinationPage, error)
	Get(ctx context.Context, id int64) (*domain.Destination, error)
	Create(ctx context.Context, userID int64, req *domain.CreateDestinationRequest) (*domain.Destination, error)
	Update(ctx context.Context, id, actingID int64, patch domain.DestinationPatch) (*domain.Destination, error)
	Delete(ctx context.Context, id, actingID int64) error
}

type destinationService struct {
	repo     repository.DestinationRepository
	eventBus events.Publisher
}

func NewDestinationService(repo repository.DestinationRepository, eventBus events.Publisher) DestinationService {
	return &destinationService{repo: repo, eventBus: eventBus}
}

func (s *destinationService) List(ctx context.Context, q ListQuery) (*domain.DestinationPage, error) {
	page := q.Page
	if page < 1 {
		page = defaultPage
	}
	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	var filters domain.ListFilters
	var v domain.ValidationError
	if q.Type != "" {
		t, ok := domain.ParseDestinationType(q.Type)
		if !ok {
			v.Fields = append(v.Fields, domain.FieldError{
				Field:   "type",
				Message: "type must be one of: Beach, Mountain, City, Cultural, Adventure",
			})
		} else {
			filters.Type = &t
		}
	}
	if q.CountryCode != "" {
		cc := q.CountryCode
		if !domain.IsValidCountryCode(cc) {
			v.Fields = append(v.Fields, domain.FieldError{
				Field:   "countryCode",
				Message: "country code must be exactly 2 uppercase letters",
			})
		} else {
			filters.CountryCode = &cc
		}
	}
	if len(v.Fields) > 0 {
		return nil, &v
	}

	offset := (page - 1) * limit
	destinations, total, err := s.repo.List(ctx, filters, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list destinations: %w", err)
	}
	if destinations == nil {
		destinations = []domain.Destination{}
	}

	totalPages := (total + int64(limit) - 1) / int64(limit)

	return &domain.DestinationPage{
		Destinations: destinations,
		Pagination: domain.Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}, nil
}

func (s *destinationService) Get(ctx context.Context, id int64) (*domain.Destination, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get destination: %w", err)
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}
	return d, nil
}

func (s *destinationService) Create(ctx context.Context, userID int64, req *domain.CreateDestinationRequest) (*domain.Destination, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	d, err := s.repo.Create(ctx, userID, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create destination: %w", err)
	}

	if err := s.eventBus.Publish(ctx, events.DestinationCreated, events.DestinationCreatedEvent{
		DestinationID: d.ID,
		Name:          d.Name,
		CountryCode:   d.CountryCode,
		Type:          string(d.Type),
		UserID:        d.UserID,
		CreatedAt:     d.CreatedAt,
	}); err != nil {
		logger.WarnContext(ctx, "Failed to publish destination.created event", "error", err, "destination_id", d.ID)
	}

	return d, nil
}

// Update applies a partial patch after the ownership check. Not-found and
// ownership are resolved before any mutation is attempted.
func (s *destinationService) Update(ctx context.Context, id, actingID int64, patch domain.DestinationPatch) (*domain.Destination, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get destination: %w", err)
	}
	if existing == nil {
		return nil, domain.ErrNotFound
	}
	if !existing.IsOwnedBy(actingID) {
		return nil, domain.ErrForbidden
	}

	patch.Normalize()
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	d, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update destination: %w", err)
	}
	if d == nil {
		// Deleted between the ownership check and the update; last write wins.
		return nil, domain.ErrNotFound
	}

	if err := s.eventBus.Publish(ctx, events.DestinationUpdated, events.DestinationUpdatedEvent{
		DestinationID: d.ID,
		UserID:        d.UserID,
		UpdatedAt:     d.LastModified,
	}); err != nil {
		logger.WarnContext(ctx, "Failed to publish destination.updated event", "error", err, "destination_id", d.ID)
	}

	return d, nil
}

func (s *destinationService) Delete(ctx context.Context, id, actingID int64) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get destination: %w", err)
	}
	if existing == nil {
		return domain.ErrNotFound
	}
	if !existing.IsOwnedBy(actingID) {
		return domain.ErrForbidden
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete destination: %w", err)
	}
	if !deleted {
		return domain.ErrNotFound
	}

	if err := s.eventBus.Publish(ctx, events.DestinationDeleted, events.DestinationDeletedEvent{
		DestinationID: id,
		UserID:        actingID,
		DeletedAt:     time.Now(),
	}); err != nil {
		logger.WarnContext(ctx, "Failed to publish destination.deleted event", "error", err, "destination_id", id)
	}

	return nil
}

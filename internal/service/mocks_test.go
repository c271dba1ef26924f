package service_test

import (
	"context"
	"sort"
	"time"

	"github.com/tripatlas/destinations/internal/domain"
)

// ---------- Mocks ----------

type mockUserRepo struct {
	nextID  int64
	byEmail map[string]*domain.User
	byID    map[int64]*domain.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		nextID:  1,
		byEmail: make(map[string]*domain.User),
		byID:    make(map[int64]*domain.User),
	}
}

func (m *mockUserRepo) Create(_ context.Context, email, passwordHash, name string) (*domain.User, error) {
	if _, exists := m.byEmail[email]; exists {
		return nil, domain.ErrEmailTaken
	}
	u := &domain.User{
		ID:           m.nextID,
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	m.nextID++
	m.byEmail[email] = u
	m.byID[u.ID] = u
	return u, nil
}

func (m *mockUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	return m.byEmail[email], nil
}

func (m *mockUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	return m.byID[id], nil
}

func (m *mockUserRepo) Delete(_ context.Context, id int64) error {
	u, exists := m.byID[id]
	if !exists {
		return domain.ErrNotFound
	}
	delete(m.byID, id)
	delete(m.byEmail, u.Email)
	return nil
}

type mockDestinationRepo struct {
	nextID       int64
	destinations map[int64]*domain.Destination
	clock        time.Time
}

func newMockDestinationRepo() *mockDestinationRepo {
	return &mockDestinationRepo{
		nextID:       1,
		destinations: make(map[int64]*domain.Destination),
		clock:        time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *mockDestinationRepo) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *mockDestinationRepo) List(_ context.Context, filters domain.ListFilters, limit, offset int) ([]domain.Destination, int64, error) {
	var matched []domain.Destination
	for _, d := range m.destinations {
		if filters.Type != nil && d.Type != *filters.Type {
			continue
		}
		if filters.CountryCode != nil && d.CountryCode != *filters.CountryCode {
			continue
		}
		matched = append(matched, *d)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (m *mockDestinationRepo) GetByID(_ context.Context, id int64) (*domain.Destination, error) {
	d, exists := m.destinations[id]
	if !exists {
		return nil, nil
	}
	copied := *d
	return &copied, nil
}

func (m *mockDestinationRepo) Create(_ context.Context, userID int64, req *domain.CreateDestinationRequest) (*domain.Destination, error) {
	now := m.tick()
	d := &domain.Destination{
		ID:           m.nextID,
		Name:         req.Name,
		Description:  req.Description,
		CountryCode:  req.CountryCode,
		Type:         domain.DestinationType(req.Type),
		LastModified: now,
		UserID:       userID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.nextID++
	m.destinations[d.ID] = d
	copied := *d
	return &copied, nil
}

func (m *mockDestinationRepo) Update(_ context.Context, id int64, patch domain.DestinationPatch) (*domain.Destination, error) {
	d, exists := m.destinations[id]
	if !exists {
		return nil, nil
	}
	if patch.Name != nil {
		d.Name = *patch.Name
	}
	if patch.Description != nil {
		d.Description = *patch.Description
	}
	if patch.CountryCode != nil {
		d.CountryCode = *patch.CountryCode
	}
	if patch.Type != nil {
		d.Type = domain.DestinationType(*patch.Type)
	}
	now := m.tick()
	d.LastModified = now
	d.UpdatedAt = now
	copied := *d
	return &copied, nil
}

func (m *mockDestinationRepo) Delete(_ context.Context, id int64) (bool, error) {
	if _, exists := m.destinations[id]; !exists {
		return false, nil
	}
	delete(m.destinations, id)
	return true, nil
}

type recordedEvent struct {
	subject string
	data    interface{}
}

type mockEventBus struct {
	published  []recordedEvent
	publishErr error
}

func (m *mockEventBus) Publish(_ context.Context, subject string, data interface{}) error {
	if m.publishErr != nil {
		return m.publishErr
	}
	m.published = append(m.published, recordedEvent{subject: subject, data: data})
	return nil
}

func (m *mockEventBus) Close() error { return nil }

type mockMailer struct {
	lastTo   string
	lastName string
	sendErr  error
}

func (m *mockMailer) SendWelcomeEmail(toEmail, toName string) error {
	m.lastTo = toEmail
	m.lastName = toName
	return m.sendErr
}

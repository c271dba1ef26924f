package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/tripatlas/destinations/internal/domain"
	"github.com/tripatlas/destinations/internal/service"
	"github.com/tripatlas/destinations/pkg/events"
)

func seedDestinations(t *testing.T, svc service.DestinationService, n int, userID int64, destType string) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := svc.Create(context.Background(), userID, &domain.CreateDestinationRequest{
			Name:        fmt.Sprintf("Destination %02d", i),
			Description: "A sufficiently long description for testing",
			CountryCode: "MX",
			Type:        destType,
		})
		if err != nil {
			t.Fatalf("seed Create %d: %v", i, err)
		}
	}
}

func TestListPagination(t *testing.T) {
	svc := service.NewDestinationService(newMockDestinationRepo(), &mockEventBus{})
	seedDestinations(t, svc, 25, 1, "Beach")

	page1, err := svc.List(context.Background(), service.ListQuery{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("List page 1: %v", err)
	}
	if len(page1.Destinations) != 10 {
		t.Errorf("page 1 size = %d, want 10", len(page1.Destinations))
	}
	if page1.Pagination.Total != 25 {
		t.Errorf("total = %d, want 25", page1.Pagination.Total)
	}
	if page1.Pagination.TotalPages != 3 {
		t.Errorf("totalPages = %d, want 3", page1.Pagination.TotalPages)
	}

	page3, err := svc.List(context.Background(), service.ListQuery{Page: 3, Limit: 10})
	if err != nil {
		t.Fatalf("List page 3: %v", err)
	}
	if len(page3.Destinations) != 5 {
		t.Errorf("page 3 size = %d, want 5", len(page3.Destinations))
	}
}

func TestListOrderedMostRecentFirst(t *testing.T) {
	svc := service.NewDestinationService(newMockDestinationRepo(), &mockEventBus{})
	seedDestinations(t, svc, 3, 1, "City")

	page, err := svc.List(context.Background(), service.ListQuery{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page.Destinations) != 3 {
		t.Fatalf("size = %d, want 3", len(page.Destinations))
	}
	for i := 1; i < len(page.Destinations); i++ {
		prev, cur := page.Destinations[i-1], page.Destinations[i]
		if cur.CreatedAt.After(prev.CreatedAt) {
			t.Errorf("listing not ordered by creation time descending at index %d", i)
		}
	}
}

func TestListDefaultsAndCap(t *testing.T) {
	svc := service.NewDestinationService(newMockDestinationRepo(), &mockEventBus{})
	seedDestinations(t, svc, 15, 1, "Beach")

	page, err := svc.List(context.Background(), service.ListQuery{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Pagination.Page != 1 || page.Pagination.Limit != 10 {
		t.Errorf("defaults = page %d limit %d, want page 1 limit 10", page.Pagination.Page, page.Pagination.Limit)
	}
	if len(page.Destinations) != 10 {
		t.Errorf("default page size = %d, want 10", len(page.Destinations))
	}

	capped, err := svc.List(context.Background(), service.ListQuery{Limit: 500})
	if err != nil {
		t.Fatalf("List with oversized limit: %v", err)
	}
	if capped.Pagination.Limit != 100 {
		t.Errorf("limit = %d, want capped at 100", capped.Pagination.Limit)
	}
}

func TestListFilterByType(t *testing.T) {
	svc := service.NewDestinationService(newMockDestinationRepo(), &mockEventBus{})
	seedDestinations(t, svc, 4, 1, "Beach")
	seedDestinations(t, svc, 3, 1, "Mountain")

	page, err := svc.List(context.Background(), service.ListQuery{Type: "Beach"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Pagination.Total != 4 {
		t.Errorf("total = %d, want 4", page.Pagination.Total)
	}
	for _, d := range page.Destinations {
		if d.Type != domain.TypeBeach {
			t.Errorf("filtered listing contains type %q", d.Type)
		}
	}
}

func TestListInvalidFilters(t *testing.T) {
	svc := service.NewDestinationService(newMockDestinationRepo(), &mockEventBus{})

	_, err := svc.List(context.Background(), service.ListQuery{Type: "Desert"})
	var v *domain.ValidationError
	if !errors.As(err, &v) {
		t.Errorf("type filter error = %v, want *ValidationError", err)
	}

	_, err = svc.List(context.Background(), service.ListQuery{CountryCode: "mex"})
	if !errors.As(err, &v) {
		t.Errorf("country filter error = %v, want *ValidationError", err)
	}
}

func TestGetNotFound(t *testing.T) {
	svc := service.NewDestinationService(newMockDestinationRepo(), &mockEventBus{})

	_, err := svc.Get(context.Background(), 404)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestCreateSetsOwnerAndPublishes(t *testing.T) {
	bus := &mockEventBus{}
	svc := service.NewDestinationService(newMockDestinationRepo(), bus)

	d, err := svc.Create(context.Background(), 7, &domain.CreateDestinationRequest{
		Name:        "Foo Bar",
		Description: "A nice long description here",
		CountryCode: "MX",
		Type:        "Beach",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if d.UserID != 7 {
		t.Errorf("UserID = %d, want 7", d.UserID)
	}
	if d.LastModified.IsZero() {
		t.Error("expected last-modified to be set on creation")
	}
	if len(bus.published) != 1 || bus.published[0].subject != events.DestinationCreated {
		t.Errorf("published = %+v, want one %s event", bus.published, events.DestinationCreated)
	}
}

func TestMutationsSucceedWhenPublishFails(t *testing.T) {
	bus := &mockEventBus{publishErr: errors.New("nats down")}
	svc := service.NewDestinationService(newMockDestinationRepo(), bus)

	d, err := svc.Create(context.Background(), 1, &domain.CreateDestinationRequest{
		Name:        "Foo Bar",
		Description: "A nice long description here",
		CountryCode: "MX",
		Type:        "Beach",
	})
	if err != nil {
		t.Fatalf("Create should not fail on publish error: %v", err)
	}

	name := "Renamed Destination"
	if _, err := svc.Update(context.Background(), d.ID, 1, domain.DestinationPatch{Name: &name}); err != nil {
		t.Fatalf("Update should not fail on publish error: %v", err)
	}

	if err := svc.Delete(context.Background(), d.ID, 1); err != nil {
		t.Fatalf("Delete should not fail on publish error: %v", err)
	}
	if _, err := svc.Get(context.Background(), d.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("after delete, Get error = %v, want ErrNotFound", err)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := service.NewDestinationService(newMockDestinationRepo(), &mockEventBus{})

	_, err := svc.Create(context.Background(), 1, &domain.CreateDestinationRequest{
		Name:        "X",
		Description: "short",
		CountryCode: "mex",
		Type:        "Desert",
	})
	var v *domain.ValidationError
	if !errors.As(err, &v) {
		t.Fatalf("error = %v, want *ValidationError", err)
	}
}

func TestUpdateOwnership(t *testing.T) {
	repo := newMockDestinationRepo()
	svc := service.NewDestinationService(repo, &mockEventBus{})

	d, err := svc.Create(context.Background(), 1, &domain.CreateDestinationRequest{
		Name:        "Original Name",
		Description: "The original long description",
		CountryCode: "MX",
		Type:        "Beach",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	newName := "Renamed Destination"

	// Non-owner must be rejected and the record left untouched.
	_, err = svc.Update(context.Background(), d.ID, 2, domain.DestinationPatch{Name: &newName})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("non-owner update error = %v, want ErrForbidden", err)
	}
	unchanged, err := svc.Get(context.Background(), d.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if unchanged.Name != "Original Name" {
		t.Errorf("record changed after forbidden update: name = %q", unchanged.Name)
	}

	// Owner update succeeds and refreshes last-modified.
	updated, err := svc.Update(context.Background(), d.ID, 1, domain.DestinationPatch{Name: &newName})
	if err != nil {
		t.Fatalf("owner update: %v", err)
	}
	if updated.Name != newName {
		t.Errorf("name = %q, want %q", updated.Name, newName)
	}
	if !updated.LastModified.After(d.LastModified) {
		t.Error("expected last-modified to be refreshed on update")
	}
}

func TestUpdateTrimsPatchFields(t *testing.T) {
	svc := service.NewDestinationService(newMockDestinationRepo(), &mockEventBus{})

	d, err := svc.Create(context.Background(), 1, &domain.CreateDestinationRequest{
		Name:        "Original Name",
		Description: "The original long description",
		CountryCode: "MX",
		Type:        "Beach",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	padded := "  Foo Bar  "
	updated, err := svc.Update(context.Background(), d.ID, 1, domain.DestinationPatch{Name: &padded})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "Foo Bar" {
		t.Errorf("stored name = %q, want trimmed %q", updated.Name, "Foo Bar")
	}
}

func TestUpdatePartialKeepsOtherFields(t *testing.T) {
	svc := service.NewDestinationService(newMockDestinationRepo(), &mockEventBus{})

	d, err := svc.Create(context.Background(), 1, &domain.CreateDestinationRequest{
		Name:        "Original Name",
		Description: "The original long description",
		CountryCode: "MX",
		Type:        "Beach",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	desc := "A completely different description"
	updated, err := svc.Update(context.Background(), d.ID, 1, domain.DestinationPatch{Description: &desc})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Description != desc {
		t.Errorf("description = %q, want %q", updated.Description, desc)
	}
	if updated.Name != d.Name || updated.CountryCode != d.CountryCode || updated.Type != d.Type {
		t.Errorf("unpatched fields changed: %+v", updated)
	}
}

func TestUpdateNotFound(t *testing.T) {
	svc := service.NewDestinationService(newMockDestinationRepo(), &mockEventBus{})

	name := "Whatever Name"
	_, err := svc.Update(context.Background(), 404, 1, domain.DestinationPatch{Name: &name})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestDeleteOwnership(t *testing.T) {
	svc := service.NewDestinationService(newMockDestinationRepo(), &mockEventBus{})

	d, err := svc.Create(context.Background(), 1, &domain.CreateDestinationRequest{
		Name:        "Foo Bar",
		Description: "A nice long description here",
		CountryCode: "MX",
		Type:        "Beach",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Delete(context.Background(), d.ID, 2); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("non-owner delete error = %v, want ErrForbidden", err)
	}

	if err := svc.Delete(context.Background(), d.ID, 1); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if _, err := svc.Get(context.Background(), d.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("after delete, Get error = %v, want ErrNotFound", err)
	}
}

func TestDeleteNotFound(t *testing.T) {
	svc := service.NewDestinationService(newMockDestinationRepo(), &mockEventBus{})

	if err := svc.Delete(context.Background(), 404, 1); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

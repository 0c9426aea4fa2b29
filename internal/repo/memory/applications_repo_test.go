package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jobhunt/jobhunt/internal/domain/application"
	"github.com/jobhunt/jobhunt/internal/repo/memory"
)

func mustCreate(t *testing.T, r *memory.ApplicationsRepo, ownerID, company string) application.Application {
	t.Helper()

	a, err := r.Create(context.Background(), ownerID, application.CreateApplicationRequest{
		Company: company,
		Role:    "Engineer",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	return a
}

func TestListByOwnerScoping(t *testing.T) {
	r := memory.NewApplicationsRepo()

	mine := mustCreate(t, r, "owner-1", "Acme")
	mustCreate(t, r, "owner-2", "Other")

	items, err := r.ListByOwner(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if len(items) != 1 || items[0].ID != mine.ID {
		t.Errorf("expected only owner-1's item, got %+v", items)
	}

	empty, err := r.ListByOwner(context.Background(), "owner-3")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("unknown owner should get an empty slice, got %+v", empty)
	}
}

func TestListByOwnerOrdering(t *testing.T) {
	r := memory.NewApplicationsRepo()

	first := mustCreate(t, r, "owner-1", "First")
	mustCreate(t, r, "owner-1", "Second")

	// touching the older record moves it to the front
	time.Sleep(time.Millisecond)

	notes := "followed up"
	if _, err := r.Update(context.Background(), "owner-1", first.ID, application.UpdateApplicationRequest{Notes: &notes}); err != nil {
		t.Fatalf("update: %v", err)
	}

	items, err := r.ListByOwner(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if len(items) != 2 || items[0].ID != first.ID {
		t.Errorf("expected most recently updated first, got %+v", items)
	}
}

func TestUpdateForeignOwner(t *testing.T) {
	r := memory.NewApplicationsRepo()

	a := mustCreate(t, r, "owner-1", "Acme")

	notes := "stolen"
	_, err := r.Update(context.Background(), "owner-2", a.ID, application.UpdateApplicationRequest{Notes: &notes})

	// a foreign id must look exactly like a missing one
	if !errors.Is(err, application.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}

	items, _ := r.ListByOwner(context.Background(), "owner-1")
	if items[0].Notes != "" {
		t.Errorf("record mutated by a foreign owner: %+v", items[0])
	}
}

func TestDelete(t *testing.T) {
	r := memory.NewApplicationsRepo()

	a := mustCreate(t, r, "owner-1", "Acme")

	if err := r.Delete(context.Background(), "owner-2", a.ID); !errors.Is(err, application.ErrNotFound) {
		t.Fatalf("foreign delete: got %v, want ErrNotFound", err)
	}

	if err := r.Delete(context.Background(), "owner-1", a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if err := r.Delete(context.Background(), "owner-1", a.ID); !errors.Is(err, application.ErrNotFound) {
		t.Fatalf("second delete: got %v, want ErrNotFound", err)
	}
}

func TestUpdateMergePatch(t *testing.T) {
	r := memory.NewApplicationsRepo()

	when := time.Now().UTC().Add(72 * time.Hour).Truncate(time.Second)
	a, err := r.Create(context.Background(), "owner-1", application.CreateApplicationRequest{
		Company:      "Acme",
		Role:         "Engineer",
		Notes:        "initial",
		NextActionAt: &when,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	status := application.StatusInterview
	patch := application.UpdateApplicationRequest{Status: &status}

	got, err := r.Update(context.Background(), "owner-1", a.ID, patch)
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if got.Status != application.StatusInterview {
		t.Errorf("got status %q, want INTERVIEW", got.Status)
	}
	if got.Notes != "initial" || got.Company != "Acme" {
		t.Errorf("absent fields must survive the patch: %+v", got)
	}
	if got.NextActionAt == nil || !got.NextActionAt.Equal(when) {
		t.Errorf("nextActionAt must survive when the key is absent, got %v", got.NextActionAt)
	}

	var clear application.UpdateApplicationRequest
	clear.SetNextActionAt(nil)

	got, err = r.Update(context.Background(), "owner-1", a.ID, clear)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.NextActionAt != nil {
		t.Errorf("explicit null should clear nextActionAt, got %v", got.NextActionAt)
	}
}

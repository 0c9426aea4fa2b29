package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jobhunt/jobhunt/internal/domain/application"
)

// ApplicationsRepo is the in-memory counterpart of the postgres repo,
// with the same owner-scoping behavior. Used in tests and local dev.
type ApplicationsRepo struct {
	mu    sync.RWMutex
	items map[string]application.Application
}

func NewApplicationsRepo() *ApplicationsRepo {
	return &ApplicationsRepo{
		items: make(map[string]application.Application),
	}
}

func (r *ApplicationsRepo) ListByOwner(ctx context.Context, ownerID string) ([]application.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	output := make([]application.Application, 0)

	for _, a := range r.items {
		if a.OwnerID == ownerID {
			output = append(output, a)
		}
	}

	// most recently updated first, to match the postgres ordering
	sort.Slice(output, func(i, j int) bool {
		return output[i].UpdatedAt.After(output[j].UpdatedAt)
	})

	return output, nil
}

func (r *ApplicationsRepo) Create(ctx context.Context, ownerID string, req application.CreateApplicationRequest) (application.Application, error) {
	a := application.NewFromCreateRequest(ownerID, req)

	r.mu.Lock()
	r.items[a.ID] = a
	r.mu.Unlock()

	return a, nil
}

func (r *ApplicationsRepo) Update(ctx context.Context, ownerID, id string, req application.UpdateApplicationRequest) (application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.items[id]

	if !ok || a.OwnerID != ownerID {
		return application.Application{}, application.ErrNotFound
	}

	req.Apply(&a)
	r.items[id] = a

	return a, nil
}

func (r *ApplicationsRepo) Delete(ctx context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.items[id]

	if !ok || a.OwnerID != ownerID {
		return application.ErrNotFound
	}

	delete(r.items, id)

	return nil
}

package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jobhunt/jobhunt/internal/cache"
	"github.com/jobhunt/jobhunt/internal/config"
	"github.com/jobhunt/jobhunt/internal/domain/application"
	"github.com/jobhunt/jobhunt/internal/http/middlewares"
)

// ApplicationsStore is the owner-scoped persistence surface. Every
// method takes the caller's identity; the implementation guarantees a
// foreign id is indistinguishable from a missing one.
type ApplicationsStore interface {
	ListByOwner(ctx context.Context, ownerID string) ([]application.Application, error)
	Create(ctx context.Context, ownerID string, req application.CreateApplicationRequest) (application.Application, error)
	Update(ctx context.Context, ownerID, id string, req application.UpdateApplicationRequest) (application.Application, error)
	Delete(ctx context.Context, ownerID, id string) error
}

type ApplicationsHandler struct {
	repo      ApplicationsStore
	summaries cache.SummaryCache
}

func NewApplicationsHandler(repo ApplicationsStore, summaries cache.SummaryCache) *ApplicationsHandler {
	return &ApplicationsHandler{repo: repo, summaries: summaries}
}

func (h *ApplicationsHandler) List(ctx *gin.Context) {
	ownerID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "unauthorized", "Not authenticated")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	items, err := h.repo.ListByOwner(cctx, ownerID)

	if err != nil {
		RespondInternal(ctx, "Could not list applications")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *ApplicationsHandler) Create(ctx *gin.Context) {
	ownerID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "unauthorized", "Not authenticated")
		return
	}

	var req application.CreateApplicationRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	item, err := h.repo.Create(cctx, ownerID, req)

	if err != nil {
		RespondInternal(ctx, "Could not create application")
		return
	}

	h.invalidateSummary(cctx, ownerID)

	ctx.JSON(http.StatusCreated, gin.H{"item": item})
}

func (h *ApplicationsHandler) Update(ctx *gin.Context) {
	ownerID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "unauthorized", "Not authenticated")
		return
	}

	id := ctx.Param("id")

	var req application.UpdateApplicationRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	item, err := h.repo.Update(cctx, ownerID, id, req)

	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			RespondNotFound(ctx, "Application not found")
			return
		}

		RespondInternal(ctx, "Could not update application")
		return
	}

	h.invalidateSummary(cctx, ownerID)

	ctx.JSON(http.StatusOK, gin.H{"item": item})
}

func (h *ApplicationsHandler) Delete(ctx *gin.Context) {
	ownerID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "unauthorized", "Not authenticated")
		return
	}

	id := ctx.Param("id")

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	err := h.repo.Delete(cctx, ownerID, id)

	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			RespondNotFound(ctx, "Application not found")
			return
		}

		RespondInternal(ctx, "Could not delete application")
		return
	}

	h.invalidateSummary(cctx, ownerID)

	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}

// any write makes the cached summary stale
func (h *ApplicationsHandler) invalidateSummary(ctx context.Context, ownerID string) {
	if h.summaries != nil {
		h.summaries.Invalidate(ctx, ownerID)
	}
}

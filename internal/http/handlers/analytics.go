package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jobhunt/jobhunt/internal/cache"
	"github.com/jobhunt/jobhunt/internal/config"
	"github.com/jobhunt/jobhunt/internal/domain/application"
	"github.com/jobhunt/jobhunt/internal/http/middlewares"
)

type AnalyticsHandler struct {
	repo      ApplicationsStore
	summaries cache.SummaryCache
}

func NewAnalyticsHandler(repo ApplicationsStore, summaries cache.SummaryCache) *AnalyticsHandler {
	return &AnalyticsHandler{repo: repo, summaries: summaries}
}

// Summary recomputes the aggregate from the owner's current set on
// every miss. Collections are small, so a full scan beats maintaining
// a persisted aggregate.
func (h *AnalyticsHandler) Summary(ctx *gin.Context) {
	ownerID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "unauthorized", "Not authenticated")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	if h.summaries != nil {
		if s, hit := h.summaries.Get(cctx, ownerID); hit {
			ctx.JSON(http.StatusOK, s)
			return
		}
	}

	items, err := h.repo.ListByOwner(cctx, ownerID)

	if err != nil {
		RespondInternal(ctx, "Could not compute summary")
		return
	}

	s := application.Summarize(items)

	if h.summaries != nil {
		h.summaries.Set(cctx, ownerID, s)
	}

	ctx.JSON(http.StatusOK, s)
}

package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sped-tracker-api/internal/dto"
	"github.com/noah-isme/sped-tracker-api/internal/middleware"
	"github.com/noah-isme/sped-tracker-api/internal/models"
	appErrors "github.com/noah-isme/sped-tracker-api/pkg/errors"
	"github.com/noah-isme/sped-tracker-api/pkg/response"
)

type dashboardService interface {
	Summary(ctx context.Context, identity models.Identity) (*dto.DashboardSummary, error)
}

// DashboardHandler wires dashboard service to HTTP endpoints.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service dashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Summary godoc
// @Summary Landing page summary
// @Description Number of the caller's students and the active schedule, if any
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	summary, err := h.service.Summary(c.Request.Context(), middleware.Identity(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil, middleware.Meta(c))
}

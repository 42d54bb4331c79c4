package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sped-tracker-api/internal/dto"
	"github.com/noah-isme/sped-tracker-api/internal/middleware"
	"github.com/noah-isme/sped-tracker-api/internal/models"
	"github.com/noah-isme/sped-tracker-api/internal/service"
	appErrors "github.com/noah-isme/sped-tracker-api/pkg/errors"
	"github.com/noah-isme/sped-tracker-api/pkg/response"
)

type scheduleService interface {
	List(ctx context.Context, identity models.Identity, filter models.ScheduleFilter) ([]models.Schedule, *models.Pagination, error)
	Get(ctx context.Context, identity models.Identity, id string) (*models.Schedule, error)
	GetActive(ctx context.Context, identity models.Identity) (*models.Schedule, error)
	WeekView(ctx context.Context, identity models.Identity, id string) (*dto.WeekView, bool, error)
	SlotView(ctx context.Context, identity models.Identity, id string) (*dto.SlotWeekView, error)
	Create(ctx context.Context, identity models.Identity, req service.ScheduleRequest) (*models.Schedule, error)
	Update(ctx context.Context, identity models.Identity, id string, req service.ScheduleRequest) (*models.Schedule, error)
	SetActive(ctx context.Context, identity models.Identity, id string) (*models.Schedule, error)
	Delete(ctx context.Context, identity models.Identity, id string) error
}

type scheduleExporter interface {
	Export(ctx context.Context, identity models.Identity, scheduleID string, format service.ExportFormat) (*service.ExportResult, error)
}

// ScheduleHandler exposes schedule endpoints including the weekly views
// and file exports.
type ScheduleHandler struct {
	schedules scheduleService
	exporter  scheduleExporter
}

// NewScheduleHandler constructs ScheduleHandler.
func NewScheduleHandler(schedules scheduleService, exporter scheduleExporter) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules, exporter: exporter}
}

// List godoc
// @Summary List the caller's schedules
// @Tags Schedules
// @Produce json
// @Param active query bool false "Only active or inactive schedules"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /schedules [get]
func (h *ScheduleHandler) List(c *gin.Context) {
	var filter models.ScheduleFilter
	filter.Page, filter.PageSize = pageRequestFromQuery(c)
	if raw := strings.TrimSpace(c.Query("active")); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "active must be a boolean"))
			return
		}
		filter.Active = &active
	}

	schedules, pagination, err := h.schedules.List(c.Request.Context(), middleware.Identity(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedules, pagination)
}

// Get godoc
// @Summary Get schedule
// @Tags Schedules
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id} [get]
func (h *ScheduleHandler) Get(c *gin.Context) {
	schedule, err := h.schedules.Get(c.Request.Context(), middleware.Identity(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule, nil)
}

// Active godoc
// @Summary Get the active schedule
// @Tags Schedules
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /schedules/active [get]
func (h *ScheduleHandler) Active(c *gin.Context) {
	schedule, err := h.schedules.GetActive(c.Request.Context(), middleware.Identity(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule, nil)
}

// Week godoc
// @Summary Weekly view of a schedule
// @Description Instances bucketed by weekday, Monday through Friday
// @Tags Schedules
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/week [get]
func (h *ScheduleHandler) Week(c *gin.Context) {
	view, hit, err := h.schedules.WeekView(c.Request.Context(), middleware.Identity(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, view, nil, middleware.Meta(c))
}

// Slots godoc
// @Summary Hour-slot grid of a schedule
// @Description Instances bucketed by weekday and starting hour, 7 AM through 3 PM
// @Tags Schedules
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/slots [get]
func (h *ScheduleHandler) Slots(c *gin.Context) {
	view, err := h.schedules.SlotView(c.Request.Context(), middleware.Identity(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// Export godoc
// @Summary Download a schedule
// @Tags Schedules
// @Produce octet-stream
// @Param id path string true "Schedule ID"
// @Param format query string false "csv, pdf, xlsx or ics" default(csv)
// @Success 200 {file} binary
// @Router /schedules/{id}/export [get]
func (h *ScheduleHandler) Export(c *gin.Context) {
	format := service.ExportFormat(strings.ToLower(c.DefaultQuery("format", string(service.ExportCSV))))
	result, err := h.exporter.Export(c.Request.Context(), middleware.Identity(c), c.Param("id"), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, result.Filename, result.ContentType, result.Body)
}

// Create godoc
// @Summary Create schedule
// @Description Creating an active schedule deactivates every other schedule
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body service.ScheduleRequest true "Schedule payload"
// @Success 201 {object} response.Envelope
// @Router /schedules [post]
func (h *ScheduleHandler) Create(c *gin.Context) {
	var req service.ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid schedule payload"))
		return
	}
	schedule, err := h.schedules.Create(c.Request.Context(), middleware.Identity(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, schedule)
}

// Update godoc
// @Summary Replace schedule
// @Tags Schedules
// @Accept json
// @Produce json
// @Param id path string true "Schedule ID"
// @Param payload body service.ScheduleRequest true "Schedule payload"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id} [put]
func (h *ScheduleHandler) Update(c *gin.Context) {
	var req service.ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid schedule payload"))
		return
	}
	schedule, err := h.schedules.Update(c.Request.Context(), middleware.Identity(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule, nil)
}

// Activate godoc
// @Summary Make a schedule the active one
// @Tags Schedules
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/activate [post]
func (h *ScheduleHandler) Activate(c *gin.Context) {
	schedule, err := h.schedules.SetActive(c.Request.Context(), middleware.Identity(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule, nil)
}

// Delete godoc
// @Summary Delete schedule
// @Description Instances on the schedule are kept with no schedule
// @Tags Schedules
// @Param id path string true "Schedule ID"
// @Success 204
// @Router /schedules/{id} [delete]
func (h *ScheduleHandler) Delete(c *gin.Context) {
	if err := h.schedules.Delete(c.Request.Context(), middleware.Identity(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

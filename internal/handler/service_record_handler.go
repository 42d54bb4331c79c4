package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sped-tracker-api/internal/middleware"
	"github.com/noah-isme/sped-tracker-api/internal/models"
	"github.com/noah-isme/sped-tracker-api/internal/service"
	"github.com/noah-isme/sped-tracker-api/pkg/response"
)

type serviceRecordService interface {
	List(ctx context.Context, identity models.Identity, filter models.ServiceFilter) ([]models.Service, *models.Pagination, error)
	Get(ctx context.Context, identity models.Identity, id string) (*models.ServiceDetail, error)
	Create(ctx context.Context, identity models.Identity, req service.ServiceRecordRequest) (*models.Service, error)
	Update(ctx context.Context, identity models.Identity, id string, req service.ServiceRecordRequest) (*models.Service, error)
	Delete(ctx context.Context, identity models.Identity, id string) error
}

// ServiceRecordHandler exposes student service requirement endpoints.
type ServiceRecordHandler struct {
	services serviceRecordService
}

// NewServiceRecordHandler constructs ServiceRecordHandler.
func NewServiceRecordHandler(services serviceRecordService) *ServiceRecordHandler {
	return &ServiceRecordHandler{services: services}
}

// List godoc
// @Summary List services
// @Tags Services
// @Produce json
// @Param student_id query string false "Filter by student"
// @Param subject query string false "MATH or ELA"
// @Param service_type query string false "PI or PO"
// @Success 200 {object} response.Envelope
// @Router /services [get]
func (h *ServiceRecordHandler) List(c *gin.Context) {
	filter := models.ServiceFilter{
		StudentID:   c.Query("student_id"),
		Subject:     models.Subject(c.Query("subject")),
		ServiceType: models.ServiceType(c.Query("service_type")),
	}
	filter.Page, filter.PageSize = pageRequestFromQuery(c)

	services, pagination, err := h.services.List(c.Request.Context(), middleware.Identity(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, services, pagination)
}

// Get godoc
// @Summary Get service with instances and satisfaction state
// @Tags Services
// @Produce json
// @Param id path string true "Service ID"
// @Success 200 {object} response.Envelope
// @Router /services/{id} [get]
func (h *ServiceRecordHandler) Get(c *gin.Context) {
	detail, err := h.services.Get(c.Request.Context(), middleware.Identity(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// Create godoc
// @Summary Create service
// @Tags Services
// @Accept json
// @Produce json
// @Param payload body service.ServiceRecordRequest true "Service payload"
// @Success 201 {object} response.Envelope
// @Router /services [post]
func (h *ServiceRecordHandler) Create(c *gin.Context) {
	var req service.ServiceRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid service payload"))
		return
	}
	svc, err := h.services.Create(c.Request.Context(), middleware.Identity(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, svc)
}

// Update godoc
// @Summary Replace service
// @Tags Services
// @Accept json
// @Produce json
// @Param id path string true "Service ID"
// @Param payload body service.ServiceRecordRequest true "Service payload"
// @Success 200 {object} response.Envelope
// @Router /services/{id} [put]
func (h *ServiceRecordHandler) Update(c *gin.Context) {
	var req service.ServiceRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid service payload"))
		return
	}
	svc, err := h.services.Update(c.Request.Context(), middleware.Identity(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, svc, nil)
}

// Delete godoc
// @Summary Delete service
// @Description Instances of the service are kept with no service
// @Tags Services
// @Param id path string true "Service ID"
// @Success 204
// @Router /services/{id} [delete]
func (h *ServiceRecordHandler) Delete(c *gin.Context) {
	if err := h.services.Delete(c.Request.Context(), middleware.Identity(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

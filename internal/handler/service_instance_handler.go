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

type serviceInstanceService interface {
	Get(ctx context.Context, identity models.Identity, id string) (*models.ServiceInstance, error)
	Create(ctx context.Context, identity models.Identity, req service.ServiceInstanceRequest) (*models.ServiceInstance, error)
	Update(ctx context.Context, identity models.Identity, id string, req service.ServiceInstanceRequest) (*models.ServiceInstance, error)
	Delete(ctx context.Context, identity models.Identity, id string) error
}

// ServiceInstanceHandler exposes weekly occurrence endpoints.
type ServiceInstanceHandler struct {
	instances serviceInstanceService
}

// NewServiceInstanceHandler constructs ServiceInstanceHandler.
func NewServiceInstanceHandler(instances serviceInstanceService) *ServiceInstanceHandler {
	return &ServiceInstanceHandler{instances: instances}
}

// Get godoc
// @Summary Get service instance
// @Tags ServiceInstances
// @Produce json
// @Param id path string true "Instance ID"
// @Success 200 {object} response.Envelope
// @Router /service-instances/{id} [get]
func (h *ServiceInstanceHandler) Get(c *gin.Context) {
	instance, err := h.instances.Get(c.Request.Context(), middleware.Identity(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, instance, nil)
}

// Create godoc
// @Summary Create service instance
// @Tags ServiceInstances
// @Accept json
// @Produce json
// @Param payload body service.ServiceInstanceRequest true "Instance payload, times as HH:MM"
// @Success 201 {object} response.Envelope
// @Router /service-instances [post]
func (h *ServiceInstanceHandler) Create(c *gin.Context) {
	var req service.ServiceInstanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid service instance payload"))
		return
	}
	instance, err := h.instances.Create(c.Request.Context(), middleware.Identity(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, instance)
}

// Update godoc
// @Summary Replace service instance
// @Tags ServiceInstances
// @Accept json
// @Produce json
// @Param id path string true "Instance ID"
// @Param payload body service.ServiceInstanceRequest true "Instance payload"
// @Success 200 {object} response.Envelope
// @Router /service-instances/{id} [put]
func (h *ServiceInstanceHandler) Update(c *gin.Context) {
	var req service.ServiceInstanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid service instance payload"))
		return
	}
	instance, err := h.instances.Update(c.Request.Context(), middleware.Identity(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, instance, nil)
}

// Delete godoc
// @Summary Delete service instance
// @Tags ServiceInstances
// @Param id path string true "Instance ID"
// @Success 204
// @Router /service-instances/{id} [delete]
func (h *ServiceInstanceHandler) Delete(c *gin.Context) {
	if err := h.instances.Delete(c.Request.Context(), middleware.Identity(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

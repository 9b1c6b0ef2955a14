package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edledger/edledger/internal/api/dto"
	ierr "github.com/edledger/edledger/internal/errors"
	"github.com/edledger/edledger/internal/logger"
	"github.com/edledger/edledger/internal/service"
	"github.com/edledger/edledger/internal/types"
)

type PlanHandler struct {
	service service.PlanService
	log     *logger.Logger
}

func NewPlanHandler(service service.PlanService, log *logger.Logger) *PlanHandler {
	return &PlanHandler{service: service, log: log}
}

func (h *PlanHandler) CreatePlan(c *gin.Context) {
	var req dto.CreatePaymentPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("Failed to bind JSON", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CreatePlan(c.Request.Context(), &req)
	if err != nil {
		h.log.Error("Failed to create payment plan", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *PlanHandler) GetPlan(c *gin.Context) {
	planID := c.Param("id")
	if planID == "" {
		c.Error(ierr.NewError("plan id is required").
			WithHint("Payment plan ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.GetPlan(c.Request.Context(), planID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *PlanHandler) UpdatePlan(c *gin.Context) {
	planID := c.Param("id")
	if planID == "" {
		c.Error(ierr.NewError("plan id is required").
			WithHint("Payment plan ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	var req dto.UpdatePaymentPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.UpdatePlan(c.Request.Context(), planID, &req)
	if err != nil {
		h.log.Error("Failed to update payment plan", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *PlanHandler) CancelPlan(c *gin.Context) {
	planID := c.Param("id")
	if planID == "" {
		c.Error(ierr.NewError("plan id is required").
			WithHint("Payment plan ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CancelPlan(c.Request.Context(), planID)
	if err != nil {
		h.log.Error("Failed to cancel payment plan", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *PlanHandler) DeletePlan(c *gin.Context) {
	planID := c.Param("id")
	if planID == "" {
		c.Error(ierr.NewError("plan id is required").
			WithHint("Payment plan ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	if err := h.service.DeletePlan(c.Request.Context(), planID); err != nil {
		h.log.Error("Failed to delete payment plan", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "payment plan deleted successfully"})
}

func (h *PlanHandler) ListPlans(c *gin.Context) {
	var filter types.PaymentPlanFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid query parameters").
			Mark(ierr.ErrValidation))
		return
	}
	if filter.QueryFilter == nil {
		filter.QueryFilter = types.NewDefaultQueryFilter()
	}

	resp, err := h.service.ListPlans(c.Request.Context(), &filter)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

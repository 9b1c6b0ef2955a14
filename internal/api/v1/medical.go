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

type MedicalHandler struct {
	service service.MedicalService
	log     *logger.Logger
}

func NewMedicalHandler(service service.MedicalService, log *logger.Logger) *MedicalHandler {
	return &MedicalHandler{service: service, log: log}
}

// CreateRecord adds a medical record under /students/:id/medical-records,
// where :id is the student's admission number.
func (h *MedicalHandler) CreateRecord(c *gin.Context) {
	admissionNumber := c.Param("id")
	if admissionNumber == "" {
		c.Error(ierr.NewError("admission number is required").
			WithHint("Student admission number is required").
			Mark(ierr.ErrValidation))
		return
	}

	var req dto.CreateMedicalRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("Failed to bind JSON", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CreateRecord(c.Request.Context(), admissionNumber, &req)
	if err != nil {
		h.log.Error("Failed to create medical record", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *MedicalHandler) ListRecords(c *gin.Context) {
	admissionNumber := c.Param("id")
	if admissionNumber == "" {
		c.Error(ierr.NewError("admission number is required").
			WithHint("Student admission number is required").
			Mark(ierr.ErrValidation))
		return
	}

	var filter types.MedicalRecordFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid query parameters").
			Mark(ierr.ErrValidation))
		return
	}
	if filter.QueryFilter == nil {
		filter.QueryFilter = types.NewDefaultQueryFilter()
	}
	filter.AdmissionNumber = admissionNumber

	resp, err := h.service.ListRecords(c.Request.Context(), &filter)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *MedicalHandler) GetRecord(c *gin.Context) {
	recordID := c.Param("recordId")
	if recordID == "" {
		c.Error(ierr.NewError("record id is required").
			WithHint("Medical record ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.GetRecord(c.Request.Context(), recordID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *MedicalHandler) UpdateRecord(c *gin.Context) {
	recordID := c.Param("recordId")
	if recordID == "" {
		c.Error(ierr.NewError("record id is required").
			WithHint("Medical record ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	var req dto.UpdateMedicalRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.UpdateRecord(c.Request.Context(), recordID, &req)
	if err != nil {
		h.log.Error("Failed to update medical record", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *MedicalHandler) DeleteRecord(c *gin.Context) {
	recordID := c.Param("recordId")
	if recordID == "" {
		c.Error(ierr.NewError("record id is required").
			WithHint("Medical record ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	if err := h.service.DeleteRecord(c.Request.Context(), recordID); err != nil {
		h.log.Error("Failed to delete medical record", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "medical record deleted successfully"})
}

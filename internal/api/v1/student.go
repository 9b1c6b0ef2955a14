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

type StudentHandler struct {
	service service.StudentService
	log     *logger.Logger
}

func NewStudentHandler(service service.StudentService, log *logger.Logger) *StudentHandler {
	return &StudentHandler{service: service, log: log}
}

func (h *StudentHandler) CreateStudent(c *gin.Context) {
	var req dto.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("Failed to bind JSON", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CreateStudent(c.Request.Context(), &req)
	if err != nil {
		h.log.Error("Failed to create student", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *StudentHandler) GetStudent(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("id is required").
			WithHint("Student ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.GetStudent(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *StudentHandler) GetStudentByAdmissionNumber(c *gin.Context) {
	admissionNumber := c.Param("admissionNumber")
	if admissionNumber == "" {
		c.Error(ierr.NewError("admission number is required").
			WithHint("Admission number is required").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.GetStudentByAdmissionNumber(c.Request.Context(), admissionNumber)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *StudentHandler) UpdateStudent(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("id is required").
			WithHint("Student ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	var req dto.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.UpdateStudent(c.Request.Context(), id, &req)
	if err != nil {
		h.log.Error("Failed to update student", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *StudentHandler) DeleteStudent(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("id is required").
			WithHint("Student ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	if err := h.service.DeleteStudent(c.Request.Context(), id); err != nil {
		h.log.Error("Failed to delete student", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "student deleted successfully"})
}

func (h *StudentHandler) ListStudents(c *gin.Context) {
	var filter types.StudentFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid query parameters").
			Mark(ierr.ErrValidation))
		return
	}
	if filter.QueryFilter == nil {
		filter.QueryFilter = types.NewDefaultQueryFilter()
	}

	resp, err := h.service.ListStudents(c.Request.Context(), &filter)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

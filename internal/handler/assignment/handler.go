package assignment

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinirec/clinical-api/internal/handler"
	"github.com/clinirec/clinical-api/internal/model"
	"github.com/clinirec/clinical-api/internal/service/assignment"
	"github.com/clinirec/clinical-api/internal/service/reviewer"
	apperrors "github.com/clinirec/clinical-api/pkg/errors"
)

type Handler struct {
	assignments *assignment.Service
	reviewers   *reviewer.Service
}

func NewHandler(assignments *assignment.Service, reviewers *reviewer.Service) *Handler {
	return &Handler{assignments: assignments, reviewers: reviewers}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	assignments := r.Group("/assignments")
	{
		assignments.POST("", h.AssignDoctor)
		assignments.GET("/check/:patientID", h.CheckAssignment)
	}
	r.GET("/doctors/:email/patients", h.ListDoctorPatients)
	r.GET("/admin/notifications", h.ListNotifications)
}

func (h *Handler) AssignDoctor(c *gin.Context) {
	var req model.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	result, err := h.assignments.Assign(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(result))
}

func (h *Handler) CheckAssignment(c *gin.Context) {
	assigned, err := h.reviewers.FindAssignedDoctor(c.Request.Context(), c.Param("patientID"))
	if apperrors.IsNotFound(err) {
		c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"assigned": false}))
		return
	}
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"assigned":     true,
		"doctor_email": assigned.Email,
		"doctor_name":  assigned.Name,
	}))
}

func (h *Handler) ListDoctorPatients(c *gin.Context) {
	patients, err := h.assignments.PatientsForDoctor(c.Request.Context(), c.Param("email"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(patients))
}

func (h *Handler) ListNotifications(c *gin.Context) {
	notifications, err := h.assignments.Notifications(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(notifications))
}

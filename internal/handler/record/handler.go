package record

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinirec/clinical-api/internal/handler"
	"github.com/clinirec/clinical-api/internal/model"
	"github.com/clinirec/clinical-api/internal/service/patient"
	"github.com/clinirec/clinical-api/internal/service/submission"
)

type Handler struct {
	submissions *submission.Service
	patients    *patient.Service
}

func NewHandler(submissions *submission.Service, patients *patient.Service) *Handler {
	return &Handler{submissions: submissions, patients: patients}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	records := r.Group("/patients/:id/records/:category")
	{
		records.POST("", h.SubmitRecord)
		records.GET("", h.ListRecords)
		records.PUT("/:recordID", h.UpdateRecord)
		records.DELETE("/:recordID", h.DeleteRecord)
	}
}

func (h *Handler) SubmitRecord(c *gin.Context) {
	category, err := model.ParseCategory(c.Param("category"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	var req model.SubmitRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	result, err := h.submissions.Submit(c.Request.Context(), c.Param("id"), category, req.Record, req.AddedBy)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(result))
}

func (h *Handler) ListRecords(c *gin.Context) {
	category, err := model.ParseCategory(c.Param("category"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	records, err := h.submissions.ListRecords(c.Request.Context(), c.Param("id"), category)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(records))
}

func (h *Handler) UpdateRecord(c *gin.Context) {
	category, err := model.ParseCategory(c.Param("category"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	var req model.SubmitRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	if err := h.patients.UpdateRecord(c.Request.Context(), c.Param("id"), category, c.Param("recordID"), req.Record, req.AddedBy); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"updated": true}))
}

func (h *Handler) DeleteRecord(c *gin.Context) {
	category, err := model.ParseCategory(c.Param("category"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	deletedBy := c.Query("deleted_by")
	if deletedBy == "" {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("deleted_by query parameter is required"))
		return
	}

	if err := h.patients.DeleteRecord(c.Request.Context(), c.Param("id"), category, c.Param("recordID"), deletedBy); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"deleted": true}))
}

package familyhistory

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinirec/clinical-api/internal/handler"
	"github.com/clinirec/clinical-api/internal/model"
	"github.com/clinirec/clinical-api/internal/service/familyhistory"
)

type Handler struct {
	history *familyhistory.Service
}

func NewHandler(history *familyhistory.Service) *Handler {
	return &Handler{history: history}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	entries := r.Group("/patients/:id/family-history")
	{
		entries.POST("", h.AddEntry)
		entries.GET("", h.ListEntries)
		entries.PUT("/:entryID", h.UpdateEntry)
		entries.DELETE("/:entryID", h.DeleteEntry)
	}
}

func (h *Handler) AddEntry(c *gin.Context) {
	var req model.FamilyHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	entry, err := h.history.Add(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(entry))
}

func (h *Handler) ListEntries(c *gin.Context) {
	entries, err := h.history.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(entries))
}

func (h *Handler) UpdateEntry(c *gin.Context) {
	var req model.FamilyHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	entry, err := h.history.Update(c.Request.Context(), c.Param("id"), c.Param("entryID"), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(entry))
}

func (h *Handler) DeleteEntry(c *gin.Context) {
	deletedBy := c.Query("deleted_by")
	if deletedBy == "" {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("deleted_by query parameter is required"))
		return
	}

	if err := h.history.Delete(c.Request.Context(), c.Param("id"), c.Param("entryID"), deletedBy); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"deleted": true}))
}

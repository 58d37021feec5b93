package review

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinirec/clinical-api/internal/handler"
	"github.com/clinirec/clinical-api/internal/service/review"
)

type Handler struct {
	service *review.Service
}

func NewHandler(service *review.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	reviews := r.Group("/reviews")
	{
		reviews.GET("/pending", h.ListAllPending)
		reviews.GET("/pending/:reviewerID", h.ListPending)
		reviews.POST("/pending/:reviewerID/:submissionID/approve", h.Approve)
		reviews.POST("/pending/:reviewerID/:submissionID/reject", h.Reject)
	}
}

func (h *Handler) ListAllPending(c *gin.Context) {
	pending, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(pending))
}

func (h *Handler) ListPending(c *gin.Context) {
	pending, err := h.service.ListForReviewer(c.Request.Context(), c.Param("reviewerID"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(pending))
}

func (h *Handler) Approve(c *gin.Context) {
	result, err := h.service.Approve(c.Request.Context(), c.Param("reviewerID"), c.Param("submissionID"), c.Query("reviewer_name"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(result))
}

func (h *Handler) Reject(c *gin.Context) {
	result, err := h.service.Reject(c.Request.Context(), c.Param("reviewerID"), c.Param("submissionID"), c.Query("reviewer_name"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(result))
}

package facility

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinirec/clinical-api/internal/handler"
	"github.com/clinirec/clinical-api/internal/model"
	"github.com/clinirec/clinical-api/internal/service/facility"
)

type Handler struct {
	service *facility.Service
}

func NewHandler(service *facility.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	facilities := r.Group("/facilities")
	{
		facilities.POST("", h.RegisterFacility)
		facilities.GET("/:name", h.GetFacility)
		facilities.GET("/:name/procedures/:patientID/:category", h.ListProcedures)
	}
}

func (h *Handler) RegisterFacility(c *gin.Context) {
	var req model.CreateFacilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	created, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(created))
}

func (h *Handler) GetFacility(c *gin.Context) {
	found, err := h.service.Get(c.Request.Context(), c.Param("name"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(found))
}

func (h *Handler) ListProcedures(c *gin.Context) {
	category, err := model.ParseCategory(c.Param("category"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	procedures, err := h.service.Procedures(c.Request.Context(), c.Param("name"), c.Param("patientID"), category)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(procedures))
}

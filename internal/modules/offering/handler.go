package offering

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"tourbooking/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// Handler serves one offering kind; main.go mounts one instance under
// /tours and another under /packages.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterReadRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.POST("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

func (h *Handler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	offerings, count, err := h.service.List(c.Request.Context(), limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list offerings")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"offerings": offerings,
		"count":     count,
		"limit":     limit,
		"offset":    offset,
	})
}

func (h *Handler) Get(c *gin.Context) {
	o, err := h.service.GetEnriched(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "Failed to fetch offering")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"offering": o})
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR",
			"destination, duration_days, max_capacity and prices are required")
		return
	}

	o, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err, "Failed to create offering")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"offering": o})
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	o, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.fail(c, err, "Failed to update offering")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"offering": o})
}

func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err, "Failed to delete offering")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": id, "deleted": true})
}

func (h *Handler) fail(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Offering not found")
	case errors.Is(err, ErrValidation):
		msg := err.Error()
		if i := strings.Index(msg, ": "); i >= 0 {
			msg = msg[i+2:]
		}
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", msg)
	case errors.Is(err, ErrDuplicate):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Offering already linked to this product")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", fallback)
	}
}

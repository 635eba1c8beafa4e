package availability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"tourbooking/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the availability check under an offering prefix
// ("tours" or "packages"); both kinds share this handler.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/:id/availability", h.CheckAvailability)
}

// CheckAvailability answers GET /:id/availability?date&quantity.
// Availability conflicts are reported as 400 with a reason, never 409.
func (h *Handler) CheckAvailability(c *gin.Context) {
	id := c.Param("id")
	dateStr := c.Query("date")
	quantityStr := c.Query("quantity")

	if dateStr == "" || quantityStr == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR",
			"date and quantity are required query parameters")
		return
	}

	date, err := parseDate(dateStr)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid date")
		return
	}

	quantity, err := strconv.Atoi(quantityStr)
	if err != nil || quantity < 1 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid quantity")
		return
	}

	result, err := h.service.ValidateBooking(c.Request.Context(), id, date, quantity)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Offering not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to check availability")
		return
	}

	if !result.Valid {
		c.JSON(http.StatusBadRequest, gin.H{
			"available": false,
			"reason":    result.Reason,
		})
		return
	}

	capacity, err := h.service.GetAvailableCapacity(c.Request.Context(), id, date)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to check availability")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"available": true,
		"capacity":  capacity,
	})
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

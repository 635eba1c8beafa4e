package booking

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"tourbooking/internal/domain"
	"tourbooking/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterCartRoutes mounts the storefront cart surface under /carts.
func (h *Handler) RegisterCartRoutes(rg *gin.RouterGroup) {
	carts := rg.Group("/carts")
	{
		carts.POST("/:id/items", h.AddCartItems)
		carts.POST("/:id/validate", h.ValidateCart)
		carts.POST("/:id/complete", h.CompleteCart)
	}
}

// RegisterBookingRoutes mounts the direct booking creation endpoint
// (public, called by the storefront after payment).
func (h *Handler) RegisterBookingRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings", h.CreateBookings)
}

// RegisterAdminRoutes mounts the booking management endpoints behind the
// admin auth middleware.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	bookings := rg.Group("/bookings")
	{
		bookings.GET("", h.ListBookings)
		bookings.GET("/:id", h.GetBooking)
		bookings.PUT("/:id/status", h.UpdateStatus)
	}
}

// CreateBookings answers POST /bookings with a batch of per-passenger
// records.
func (h *Handler) CreateBookings(c *gin.Context) {
	var req CreateBookingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	created, err := h.service.CreateBookings(c.Request.Context(), req.Bookings)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", validationMessage(err))
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create bookings")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"bookings": created})
}

func (h *Handler) ListBookings(c *gin.Context) {
	offeringID := c.Query("offering_id")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	bookings, total, err := h.service.List(c.Request.Context(), offeringID, limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list bookings")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"bookings": bookings,
		"count":    total,
		"limit":    limit,
		"offset":   offset,
	})
}

func (h *Handler) GetBooking(c *gin.Context) {
	b, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch booking")
		return
	}

	response.Success(c, http.StatusOK, b)
}

// UpdateStatus answers PUT /bookings/:id/status. An unknown status value
// is a 400, an absent booking a 404.
func (h *Handler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "status is required")
		return
	}

	b, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), domain.BookingStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", validationMessage(err))
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update booking status")
		}
		return
	}

	response.Success(c, http.StatusOK, b)
}

// AddCartItems answers POST /carts/:id/items.
func (h *Handler) AddCartItems(c *gin.Context) {
	var req AddCartItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "offering_id and offering_date are required")
		return
	}

	cart, err := h.service.AddCartItems(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", validationMessage(err))
		case errors.Is(err, ErrNotAvailable):
			response.Error(c, http.StatusBadRequest, "NOT_AVAILABLE", availabilityMessage(err))
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Offering not found")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to add items to cart")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"cart": cart})
}

// ValidateCart answers POST /carts/:id/validate with a per-departure
// breakdown.
func (h *Handler) ValidateCart(c *gin.Context) {
	valid, items, err := h.service.ValidateCart(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to validate cart")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"valid": valid,
		"items": items,
	})
}

// CompleteCart answers POST /carts/:id/complete.
func (h *Handler) CompleteCart(c *gin.Context) {
	ord, err := h.service.CompleteCart(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrCartLocked):
			response.Error(c, http.StatusConflict, "CART_LOCKED", "Cart is already being completed")
		case errors.Is(err, ErrEmptyCart):
			response.Error(c, http.StatusBadRequest, "EMPTY_CART", "Cart has no bookable items")
		case errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", validationMessage(err))
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to complete cart")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"order": ord})
}

func validationMessage(err error) string {
	return strings.TrimPrefix(err.Error(), ErrValidation.Error()+": ")
}

func availabilityMessage(err error) string {
	return strings.TrimPrefix(err.Error(), ErrNotAvailable.Error()+": ")
}

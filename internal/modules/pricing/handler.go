package pricing

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"tourbooking/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterReadRoutes mounts the public quote endpoints.
func (h *Handler) RegisterReadRoutes(rg *gin.RouterGroup) {
	rg.GET("/:id/pricing", h.GetPricing)
	rg.GET("/:id/quote", h.QuoteCart)
}

// RegisterAdminRoutes mounts the admin price table endpoints.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/:id/pricing", h.GetPriceTable)
	rg.PUT("/:id/pricing", h.UpdatePricing)
}

func (h *Handler) GetPricing(c *gin.Context) {
	id := c.Param("id")
	currency := c.DefaultQuery("currency_code", DefaultCurrency)

	pricing, err := h.service.GetPricing(c.Request.Context(), id, currency)
	if err != nil {
		h.fail(c, err, "Failed to fetch pricing")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"pricing": pricing})
}

func (h *Handler) QuoteCart(c *gin.Context) {
	id := c.Param("id")
	currency := c.DefaultQuery("currency_code", DefaultCurrency)

	counts := map[string]int{}
	for _, name := range []string{"adult", "child", "infant"} {
		n, err := strconv.Atoi(c.DefaultQuery(name, "0"))
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", name+" must be an integer")
			return
		}
		counts[name] = n
	}

	quote, err := h.service.QuoteCart(c.Request.Context(), id, currency,
		counts["adult"], counts["child"], counts["infant"])
	if err != nil {
		if errors.Is(err, ErrValidation) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", validationMessage(err))
			return
		}
		h.fail(c, err, "Failed to compute quote")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"quote": quote})
}

func (h *Handler) GetPriceTable(c *gin.Context) {
	id := c.Param("id")

	table, err := h.service.GetPriceTable(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "Failed to fetch pricing")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"prices": table})
}

func (h *Handler) UpdatePricing(c *gin.Context) {
	id := c.Param("id")

	var req UpdatePricingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "prices is required")
		return
	}

	if err := h.service.UpdatePriceTable(c.Request.Context(), id, req.Prices); err != nil {
		h.fail(c, err, "Failed to update pricing")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"prices": req.Prices})
}

func validationMessage(err error) string {
	return strings.TrimPrefix(err.Error(), ErrValidation.Error()+": ")
}

func (h *Handler) fail(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Offering not found")
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", message)
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", message)
	}
}

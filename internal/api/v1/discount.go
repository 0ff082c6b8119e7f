package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/svbk/countdown/internal/api/dto"
	ierr "github.com/svbk/countdown/internal/errors"
	"github.com/svbk/countdown/internal/logger"
	"github.com/svbk/countdown/internal/service"
)

type DiscountHandler struct {
	service service.DiscountService
	log     *logger.Logger
}

func NewDiscountHandler(service service.DiscountService, log *logger.Logger) *DiscountHandler {
	return &DiscountHandler{service: service, log: log}
}

// @Summary Create a new discount
// @Description Create a promotional discount code
// @Tags Discounts
// @Accept json
// @Produce json
// @Param discount body dto.CreateDiscountRequest true "Discount configuration"
// @Success 201 {object} dto.DiscountResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Router /discounts [post]
func (h *DiscountHandler) CreateDiscount(c *gin.Context) {
	var req dto.CreateDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CreateDiscount(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Get a discount
// @Description Get a discount by ID
// @Tags Discounts
// @Produce json
// @Param id path string true "Discount ID"
// @Success 200 {object} dto.DiscountResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /discounts/{id} [get]
func (h *DiscountHandler) GetDiscount(c *gin.Context) {
	d, err := h.service.GetDiscount(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, &dto.DiscountResponse{Discount: d})
}

// @Summary List discounts
// @Description List the published discounts
// @Tags Discounts
// @Produce json
// @Success 200 {object} []dto.DiscountResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /discounts [get]
func (h *DiscountHandler) ListDiscounts(c *gin.Context) {
	resp, err := h.service.ListDiscounts(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/svbk/countdown/internal/api/dto"
	ierr "github.com/svbk/countdown/internal/errors"
	"github.com/svbk/countdown/internal/logger"
	"github.com/svbk/countdown/internal/service"
)

type CheckoutHandler struct {
	service service.CheckoutService
	log     *logger.Logger
}

func NewCheckoutHandler(service service.CheckoutService, log *logger.Logger) *CheckoutHandler {
	return &CheckoutHandler{service: service, log: log}
}

// @Summary Start a registration
// @Description Start a registration for a level; arms the caller's discount window and applies the main discount while it is active
// @Tags Checkout
// @Accept json
// @Produce json
// @Param checkout body dto.CheckoutRequest true "Checkout request"
// @Success 201 {object} dto.CheckoutResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /checkout [post]
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.Checkout(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

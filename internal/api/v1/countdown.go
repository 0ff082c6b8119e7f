package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/svbk/countdown/internal/api/dto"
	ierr "github.com/svbk/countdown/internal/errors"
	"github.com/svbk/countdown/internal/logger"
	"github.com/svbk/countdown/internal/service"
)

type CountdownHandler struct {
	renderService     service.RenderService
	expirationService service.ExpirationService
	log               *logger.Logger
}

func NewCountdownHandler(renderService service.RenderService, expirationService service.ExpirationService, log *logger.Logger) *CountdownHandler {
	return &CountdownHandler{
		renderService:     renderService,
		expirationService: expirationService,
		log:               log,
	}
}

// @Summary Countdown payload
// @Description One entry per active level whose discount window is still running for the caller
// @Tags Countdown
// @Produce json
// @Success 200 {object} []dto.CountdownEntry
// @Failure 500 {object} ierr.ErrorResponse
// @Router /countdowns [get]
func (h *CountdownHandler) GetCountdowns(c *gin.Context) {
	entries, err := h.renderService.CountdownPayload(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

// @Summary Start a level's discount window
// @Description Start the caller's discount window for the level, or return the existing one
// @Tags Countdown
// @Produce json
// @Param id path string true "Level ID"
// @Success 200 {object} dto.CountdownEntry
// @Failure 404 {object} ierr.ErrorResponse
// @Router /levels/{id}/countdown [post]
func (h *CountdownHandler) TriggerCountdown(c *gin.Context) {
	expiresAt, err := h.expirationService.TriggerExpiration(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.CountdownEntry{
		ID:              c.Param("id"),
		DiscountExpires: strconv.FormatInt(expiresAt.UnixMilli(), 10),
	})
}

// @Summary Render a level's pay button
// @Description Render the pay-button fragment with prices and optional countdown
// @Tags Countdown
// @Produce json
// @Param id path string true "Level ID"
// @Param options query dto.RenderButtonRequest false "Display options"
// @Success 200 {object} dto.HTMLResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /levels/{id}/button [get]
func (h *CountdownHandler) RenderPayButton(c *gin.Context) {
	var req dto.RenderButtonRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid display options").
			Mark(ierr.ErrValidation))
		return
	}

	html, err := h.renderService.RenderPayButton(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.HTMLResponse{HTML: html})
}

// @Summary Render a level's discount expiration label
// @Description Render the main discount's absolute expiration date through a template
// @Tags Countdown
// @Produce json
// @Param id path string true "Level ID"
// @Param options query dto.RenderExpirationRequest false "Display options"
// @Success 200 {object} dto.HTMLResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /levels/{id}/expiration [get]
func (h *CountdownHandler) RenderExpirationLabel(c *gin.Context) {
	var req dto.RenderExpirationRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid display options").
			Mark(ierr.ErrValidation))
		return
	}

	html, err := h.renderService.RenderExpirationLabel(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.HTMLResponse{HTML: html})
}

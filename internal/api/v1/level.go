package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/svbk/countdown/internal/api/dto"
	ierr "github.com/svbk/countdown/internal/errors"
	"github.com/svbk/countdown/internal/logger"
	"github.com/svbk/countdown/internal/service"
)

type LevelHandler struct {
	service         service.LevelService
	discountService service.DiscountService
	log             *logger.Logger
}

func NewLevelHandler(service service.LevelService, discountService service.DiscountService, log *logger.Logger) *LevelHandler {
	return &LevelHandler{
		service:         service,
		discountService: discountService,
		log:             log,
	}
}

// @Summary Create a new subscription level
// @Description Create a subscription level with its countdown metadata
// @Tags Levels
// @Accept json
// @Produce json
// @Param level body dto.CreateLevelRequest true "Level configuration"
// @Success 201 {object} dto.LevelResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /levels [post]
func (h *LevelHandler) CreateLevel(c *gin.Context) {
	var req dto.CreateLevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CreateLevel(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Get a subscription level
// @Description Get a subscription level by ID
// @Tags Levels
// @Produce json
// @Param id path string true "Level ID"
// @Success 200 {object} dto.LevelResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /levels/{id} [get]
func (h *LevelHandler) GetLevel(c *gin.Context) {
	resp, err := h.service.GetLevel(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Update a subscription level
// @Description Update a level's countdown metadata
// @Tags Levels
// @Accept json
// @Produce json
// @Param id path string true "Level ID"
// @Param level body dto.UpdateLevelRequest true "Fields to update"
// @Success 200 {object} dto.LevelResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /levels/{id} [put]
func (h *LevelHandler) UpdateLevel(c *gin.Context) {
	var req dto.UpdateLevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.UpdateLevel(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary List subscription levels
// @Description List the published subscription levels
// @Tags Levels
// @Produce json
// @Success 200 {object} []dto.LevelResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /levels [get]
func (h *LevelHandler) ListLevels(c *gin.Context) {
	resp, err := h.service.ListLevels(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary List discounts usable with a level
// @Description List discounts restricted to the level plus the unrestricted ones
// @Tags Levels
// @Produce json
// @Param id path string true "Level ID"
// @Success 200 {object} []dto.DiscountResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /levels/{id}/discounts [get]
func (h *LevelHandler) ListLevelDiscounts(c *gin.Context) {
	// Resolve the level first so an unknown ID 404s instead of listing.
	if _, err := h.service.GetLevel(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}

	discounts, err := h.discountService.ListForLevel(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	resp := make([]*dto.DiscountResponse, 0, len(discounts))
	for _, d := range discounts {
		resp = append(resp, &dto.DiscountResponse{Discount: d})
	}
	c.JSON(http.StatusOK, resp)
}

package caregiver

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/NextGenGk/ayursutra-docter-portal/internal/model"
)

type Service interface {
	ListAvailable(ctx context.Context) ([]model.Caregiver, error)
}

// Handler serves the public caregiver directory. Its responses use the
// {success, ...} envelope the booking widget already consumes.
type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/caregivers", h.ListCaregivers)
}

type listResponse struct {
	Success    bool              `json:"success"`
	Caregivers []model.Caregiver `json:"caregivers"`
	Total      int               `json:"total"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (h *Handler) ListCaregivers(c *gin.Context) {
	caregivers, err := h.service.ListAvailable(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg("failed to list caregivers")
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "Failed to fetch caregivers"})
		return
	}
	if caregivers == nil {
		caregivers = []model.Caregiver{}
	}

	c.JSON(http.StatusOK, listResponse{
		Success:    true,
		Caregivers: caregivers,
		Total:      len(caregivers),
	})
}

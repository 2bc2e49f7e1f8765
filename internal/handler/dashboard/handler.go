package dashboard

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/NextGenGk/ayursutra-docter-portal/internal/middleware"
	"github.com/NextGenGk/ayursutra-docter-portal/internal/model"
	"github.com/NextGenGk/ayursutra-docter-portal/pkg/httputil"
)

type Service interface {
	Get(ctx context.Context, id model.Identity) (*model.Dashboard, error)
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.GetDashboard)
}

func (h *Handler) GetDashboard(c *gin.Context) {
	ident, ok := middleware.CurrentIdentity(c)
	if !ok {
		return
	}

	dash, err := h.service.Get(c.Request.Context(), ident)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, dash)
}

package settings

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/NextGenGk/ayursutra-docter-portal/internal/middleware"
	"github.com/NextGenGk/ayursutra-docter-portal/internal/model"
	apperrors "github.com/NextGenGk/ayursutra-docter-portal/pkg/errors"
	"github.com/NextGenGk/ayursutra-docter-portal/pkg/httputil"
)

type Service interface {
	GetProfile(ctx context.Context, id model.Identity) (*model.DoctorProfile, error)
	UpdateProfile(ctx context.Context, id model.Identity, input *model.UpdateProfileInput) (*model.DoctorProfile, error)
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/profile", h.GetProfile)
	rg.PUT("/profile", h.UpdateProfile)
}

func (h *Handler) GetProfile(c *gin.Context) {
	ident, ok := middleware.CurrentIdentity(c)
	if !ok {
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context(), ident)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, profile)
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	ident, ok := middleware.CurrentIdentity(c)
	if !ok {
		return
	}

	var req model.UpdateProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body", err))
		return
	}

	profile, err := h.service.UpdateProfile(c.Request.Context(), ident, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, profile)
}

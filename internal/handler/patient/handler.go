package patient

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/NextGenGk/ayursutra-docter-portal/internal/model"
	"github.com/NextGenGk/ayursutra-docter-portal/internal/service/patient"
	apperrors "github.com/NextGenGk/ayursutra-docter-portal/pkg/errors"
	"github.com/NextGenGk/ayursutra-docter-portal/pkg/httputil"
)

type Handler struct {
	service patient.PatientService
}

func NewHandler(service patient.PatientService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.ListPatients)
	rg.GET("/:id", h.GetPatient)
}

func (h *Handler) ListPatients(c *gin.Context) {
	filters := &model.PatientFilters{Search: c.Query("search")}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			httputil.RespondWithError(c, apperrors.BadRequest("limit must be a positive integer", err))
			return
		}
		filters.Limit = limit
	}

	patients, err := h.service.ListPatients(c.Request.Context(), filters)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	if patients == nil {
		patients = []model.Patient{}
	}
	httputil.RespondWithSuccess(c, patients)
}

func (h *Handler) GetPatient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid patient ID", err))
		return
	}

	p, err := h.service.GetPatient(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, p)
}

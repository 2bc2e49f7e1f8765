package appointment

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/NextGenGk/ayursutra-docter-portal/internal/middleware"
	"github.com/NextGenGk/ayursutra-docter-portal/internal/model"
	apperrors "github.com/NextGenGk/ayursutra-docter-portal/pkg/errors"
	"github.com/NextGenGk/ayursutra-docter-portal/pkg/httputil"
)

type Service interface {
	Create(ctx context.Context, id model.Identity, input *model.CreateAppointmentInput) (*model.AppointmentDetail, error)
	Get(ctx context.Context, id model.Identity, appointmentID uuid.UUID) (*model.AppointmentDetail, error)
	List(ctx context.Context, id model.Identity, tab model.AppointmentTab, search string) ([]model.AppointmentView, error)
	Reschedule(ctx context.Context, id model.Identity, appointmentID uuid.UUID, input *model.RescheduleInput) (*model.AppointmentDetail, error)
	Cancel(ctx context.Context, id model.Identity, appointmentID uuid.UUID) (*model.AppointmentDetail, error)
	Complete(ctx context.Context, id model.Identity, appointmentID uuid.UUID) (*model.AppointmentDetail, error)
	UpdateNotes(ctx context.Context, id model.Identity, appointmentID uuid.UUID, input *model.UpdateNotesInput) (*model.AppointmentDetail, error)
}

type Handler struct {
	service Service
	loc     *time.Location
}

// NewHandler renders detail views in loc, the zone appointments are booked in.
func NewHandler(service Service, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{service: service, loc: loc}
}

// RegisterRoutes expects rg to already resolve the caller's identity.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.ListAppointments)
	rg.POST("", h.CreateAppointment)
	rg.GET("/:id", h.GetAppointment)
	rg.PUT("/:id/reschedule", h.RescheduleAppointment)
	rg.POST("/:id/cancel", h.CancelAppointment)
	rg.POST("/:id/complete", h.CompleteAppointment)
	rg.PUT("/:id/notes", h.UpdateNotes)
}

// appointmentResponse carries the stored row alongside its display form.
type appointmentResponse struct {
	Appointment *model.AppointmentDetail `json:"appointment"`
	View        model.AppointmentView    `json:"view"`
}

type listResponse struct {
	Appointments []model.AppointmentView `json:"appointments"`
	Total        int                     `json:"total"`
	Demo         bool                    `json:"demo"`
}

func (h *Handler) respondDetail(c *gin.Context, status int, apt *model.AppointmentDetail) {
	c.JSON(status, httputil.NewSuccessResponse(appointmentResponse{
		Appointment: apt,
		View:        model.FormatAppointment(*apt, h.loc),
	}))
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid appointment ID", err))
		return uuid.Nil, false
	}
	return id, true
}

func parseTab(raw string) (model.AppointmentTab, bool) {
	switch tab := model.AppointmentTab(raw); tab {
	case "":
		return model.TabAll, true
	case model.TabAll, model.TabUpcoming, model.TabCompleted, model.TabCancelled:
		return tab, true
	}
	return "", false
}

func (h *Handler) ListAppointments(c *gin.Context) {
	ident, ok := middleware.CurrentIdentity(c)
	if !ok {
		return
	}

	tab, ok := parseTab(c.Query("tab"))
	if !ok {
		httputil.RespondWithError(c, apperrors.BadRequest("tab must be one of all, upcoming, completed, cancelled", nil))
		return
	}

	views, err := h.service.List(c.Request.Context(), ident, tab, c.Query("search"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, listResponse{Appointments: views, Total: len(views), Demo: ident.Demo})
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	ident, ok := middleware.CurrentIdentity(c)
	if !ok {
		return
	}

	var req model.CreateAppointmentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body", err))
		return
	}

	apt, err := h.service.Create(c.Request.Context(), ident, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	h.respondDetail(c, http.StatusCreated, apt)
}

func (h *Handler) GetAppointment(c *gin.Context) {
	ident, ok := middleware.CurrentIdentity(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	apt, err := h.service.Get(c.Request.Context(), ident, id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	h.respondDetail(c, http.StatusOK, apt)
}

func (h *Handler) RescheduleAppointment(c *gin.Context) {
	ident, ok := middleware.CurrentIdentity(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req model.RescheduleInput
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body", err))
		return
	}

	apt, err := h.service.Reschedule(c.Request.Context(), ident, id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	h.respondDetail(c, http.StatusOK, apt)
}

func (h *Handler) CancelAppointment(c *gin.Context) {
	h.changeStatus(c, h.service.Cancel)
}

func (h *Handler) CompleteAppointment(c *gin.Context) {
	h.changeStatus(c, h.service.Complete)
}

func (h *Handler) changeStatus(c *gin.Context,
	fn func(context.Context, model.Identity, uuid.UUID) (*model.AppointmentDetail, error)) {
	ident, ok := middleware.CurrentIdentity(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	apt, err := fn(c.Request.Context(), ident, id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	h.respondDetail(c, http.StatusOK, apt)
}

func (h *Handler) UpdateNotes(c *gin.Context) {
	ident, ok := middleware.CurrentIdentity(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req model.UpdateNotesInput
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body", err))
		return
	}

	apt, err := h.service.UpdateNotes(c.Request.Context(), ident, id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	h.respondDetail(c, http.StatusOK, apt)
}

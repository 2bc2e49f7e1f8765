package receipt

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/NextGenGk/ayursutra-docter-portal/internal/middleware"
	"github.com/NextGenGk/ayursutra-docter-portal/internal/model"
	"github.com/NextGenGk/ayursutra-docter-portal/internal/service/receipt"
	"github.com/NextGenGk/ayursutra-docter-portal/pkg/httputil"
)

const (
	pdfTitle    = "Receipts"
	xlsxContent = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type Service interface {
	List(ctx context.Context, id model.Identity) (*model.ReceiptList, error)
}

type Handler struct {
	service Service
	now     func() time.Time
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service, now: time.Now}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.ListReceipts)
	rg.GET("/pdf", h.ExportPDF)
	rg.GET("/xlsx", h.ExportXLSX)
}

func (h *Handler) ListReceipts(c *gin.Context) {
	ident, ok := middleware.CurrentIdentity(c)
	if !ok {
		return
	}

	list, err := h.service.List(c.Request.Context(), ident)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, list)
}

func (h *Handler) ExportPDF(c *gin.Context) {
	ident, ok := middleware.CurrentIdentity(c)
	if !ok {
		return
	}

	list, err := h.service.List(c.Request.Context(), ident)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	now := h.now()
	doc, err := receipt.RenderPDF(list, pdfTitle, now)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	filename := fmt.Sprintf("receipts-%s.pdf", now.Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", doc)
}

func (h *Handler) ExportXLSX(c *gin.Context) {
	ident, ok := middleware.CurrentIdentity(c)
	if !ok {
		return
	}

	list, err := h.service.List(c.Request.Context(), ident)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	doc, err := receipt.RenderXLSX(list)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	filename := fmt.Sprintf("receipts-%s.xlsx", h.now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContent, doc)
}

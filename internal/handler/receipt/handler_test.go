package receipt

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NextGenGk/ayursutra-docter-portal/internal/middleware"
	"github.com/NextGenGk/ayursutra-docter-portal/internal/model"
	apperrors "github.com/NextGenGk/ayursutra-docter-portal/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeService struct {
	list *model.ReceiptList
	err  error
}

func (f *fakeService) List(context.Context, model.Identity) (*model.ReceiptList, error) {
	return f.list, f.err
}

func sampleList() *model.ReceiptList {
	return &model.ReceiptList{
		Receipts: []model.Receipt{{
			ID:          uuid.New(),
			Date:        time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC),
			Description: "Consultation - Asha Rao",
			Amount:      500,
			Status:      "completed",
		}},
		TotalEarnings: 500,
		Source:        model.ReceiptSourceAppointments,
	}
}

func setup(svc Service) *gin.Engine {
	r := gin.New()
	doctorID := uuid.New()
	g := r.Group("/receipts", func(c *gin.Context) {
		c.Set(middleware.ContextIdentity, model.Identity{DoctorID: &doctorID})
		c.Next()
	})
	h := NewHandler(svc)
	h.now = func() time.Time { return time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC) }
	h.RegisterRoutes(g)
	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestListReceipts(t *testing.T) {
	w := get(setup(&fakeService{list: sampleList()}), "/receipts")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total_earnings":500`)
	assert.Contains(t, w.Body.String(), "Consultation - Asha Rao")
}

func TestExportPDF(t *testing.T) {
	w := get(setup(&fakeService{list: sampleList()}), "/receipts/pdf")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "receipts-2024-03-06.pdf")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
}

func TestExportPDFStoreError(t *testing.T) {
	w := get(setup(&fakeService{err: apperrors.Internal(nil)}), "/receipts/pdf")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestExportXLSX(t *testing.T) {
	w := get(setup(&fakeService{list: sampleList()}), "/receipts/xlsx")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContent, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "receipts-2024-03-06.xlsx")
	// xlsx is a zip container
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")))
}

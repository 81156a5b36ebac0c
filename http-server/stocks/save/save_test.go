package save

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"ops-console/internal/form"
	"ops-console/internal/reconcile"
	"ops-console/internal/session"
)

type MockGoodsReceiver struct {
	mock.Mock
}

func (m *MockGoodsReceiver) ReceiveGoods(ctx context.Context, s *session.Session, f form.ReceiptForm) reconcile.Outcome {
	args := m.Called(ctx, s, f)
	return args.Get(0).(reconcile.Outcome)
}

func TestReceiveGoods_UnknownSKU(t *testing.T) {
	stocks := new(MockGoodsReceiver)
	stocks.On("ReceiveGoods", mock.Anything, mock.Anything, form.ReceiptForm{
		SKU: "SKU-404", Quantity: "5", Location: "A", Rack: "R1",
	}).Return(reconcile.Outcome{
		Kind:    reconcile.KindNotFound,
		Message: `SKU "SKU-404" not found in inventory. Please check the SKU and try again.`,
	})

	body := `{"sku":"SKU-404","quantity":"5","location":"A","rack":"R1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/stocks/goods-receipt", strings.NewReader(body))
	rr := httptest.NewRecorder()
	ReceiveGoods(slog.Default(), stocks).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), `SKU \"SKU-404\" not found in inventory`)
	stocks.AssertExpectations(t)
}

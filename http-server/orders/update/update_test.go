package update

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"ops-console/internal/form"
	"ops-console/internal/reconcile"
	"ops-console/internal/session"
)

type MockOrderStatusUpdater struct {
	mock.Mock
}

func (m *MockOrderStatusUpdater) UpdateOrderStatus(ctx context.Context, s *session.Session, f form.OrderStatusForm) reconcile.Outcome {
	args := m.Called(ctx, s, f)
	return args.Get(0).(reconcile.Outcome)
}

func router(orders OrderStatusUpdater) http.Handler {
	r := chi.NewRouter()
	r.Patch("/api/orders/{id}/status", UpdateOrderStatus(slog.Default(), orders))
	return r
}

func TestUpdateOrderStatus_PassesPathID(t *testing.T) {
	orders := new(MockOrderStatusUpdater)
	orders.On("UpdateOrderStatus", mock.Anything, mock.Anything, form.OrderStatusForm{
		OrderID: "ORD-1",
		Status:  "Shipped",
		ETA:     "2024-01-01T10:00",
	}).Return(reconcile.Outcome{Kind: reconcile.KindSuccess, Toast: "Order status updated"})

	req := httptest.NewRequest(http.MethodPatch, "/api/orders/ORD-1/status",
		strings.NewReader(`{"status":"Shipped","eta":"2024-01-01T10:00"}`))
	rr := httptest.NewRecorder()
	router(orders).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Order status updated")
	orders.AssertExpectations(t)
}

func TestUpdateOrderStatus_NotFound(t *testing.T) {
	orders := new(MockOrderStatusUpdater)
	orders.On("UpdateOrderStatus", mock.Anything, mock.Anything, mock.Anything).Return(reconcile.Outcome{
		Kind:    reconcile.KindNotFound,
		Message: `Order "ORD-404" not found. Please check the Order ID and try again.`,
	})

	req := httptest.NewRequest(http.MethodPatch, "/api/orders/ORD-404/status", strings.NewReader(`{"status":"Validated"}`))
	rr := httptest.NewRecorder()
	router(orders).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

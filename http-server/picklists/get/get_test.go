package get

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"ops-console/internal/form"
	"ops-console/internal/reconcile"
	"ops-console/internal/session"
)

type MockPicklists struct {
	mock.Mock
}

func (m *MockPicklists) OptimizeRoute(ctx context.Context, s *session.Session, f form.PicklistRefForm) reconcile.Outcome {
	args := m.Called(ctx, s, f)
	return args.Get(0).(reconcile.Outcome)
}

func (m *MockPicklists) PicklistQR(ctx context.Context, s *session.Session, f form.PicklistRefForm) reconcile.Outcome {
	args := m.Called(ctx, s, f)
	return args.Get(0).(reconcile.Outcome)
}

func TestPicklistLookups(t *testing.T) {
	p := new(MockPicklists)
	p.On("OptimizeRoute", mock.Anything, mock.Anything, form.PicklistRefForm{PicklistID: "PL-1"}).
		Return(reconcile.Outcome{Kind: reconcile.KindSuccess, Message: "Optimized route for Picklist PL-1 - 2 stop(s)"})
	p.On("PicklistQR", mock.Anything, mock.Anything, form.PicklistRefForm{PicklistID: "PL-404"}).
		Return(reconcile.Outcome{Kind: reconcile.KindNotFound})

	r := chi.NewRouter()
	r.Get("/api/picklists/{id}/route", OptimizeRoute(p))
	r.Get("/api/picklists/{id}/qr", PicklistQR(p))

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/picklists/PL-1/route", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "2 stop(s)")

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/picklists/PL-404/qr", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	p.AssertExpectations(t)
}

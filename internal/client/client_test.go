package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ops-console/internal/models"
	"ops-console/internal/session"
)

type MockObserver struct {
	mock.Mock
}

func (m *MockObserver) ObserveBackend(op string, code string, elapsed time.Duration) {
	m.Called(op, code, elapsed)
}

func TestSend_RefreshTwiceIssuesTwoRequests(t *testing.T) {
	var (
		mu      sync.Mutex
		queries []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		queries = append(queries, r.URL.RawQuery)
		mu.Unlock()

		assert.Equal(t, "/orders", r.URL.Path)
		assert.Equal(t, "no-cache", r.Header.Get("Cache-Control"))
		w.Write([]byte(`{"records":[]}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL, nil)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		resp, err := c.Send(context.Background(), OpListOrders, Request{}, Options{Refresh: true})
		require.NoError(t, err)
		assert.True(t, resp.OK())
		assert.NotEmpty(t, resp.RequestID)
	}

	assert.Equal(t, []string{"refresh=true", "refresh=true"}, queries)
}

func TestSend_RefreshIgnoredForMutations(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/stock-transfers/TR%2F1/approve", r.URL.EscapedPath())
		assert.Empty(t, r.URL.Query().Get("refresh"))
		w.Write([]byte(`{"transfer_id":"TR/1"}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL, nil)
	require.NoError(t, err)

	_, err = c.Send(context.Background(), OpApproveTransfer, Request{ID: "TR/1"}, Options{Refresh: true})
	require.NoError(t, err)
}

func TestSend_BodyQueryAndAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/orders":
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))

			var body models.CreateOrder
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "a@b.io", body.CustomerEmail)
			w.Write([]byte(`{"order_id":"ORD-1"}`))
		case "/stocks/goods-receipt":
			assert.Equal(t, "SKU-1", r.URL.Query().Get("sku"))
			assert.Equal(t, "4", r.URL.Query().Get("quantity"))
			b, _ := io.ReadAll(r.Body)
			assert.Empty(t, b)
			w.Write([]byte(`{"receipt_id":"GR-1"}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c, err := New(srv.URL, &session.Session{ID: "s", Token: "tok-123"})
	require.NoError(t, err)

	_, err = c.Send(context.Background(), OpCreateOrder, Request{Body: models.CreateOrder{CustomerEmail: "a@b.io"}}, Options{})
	require.NoError(t, err)

	receipt := models.GoodsReceipt{SKU: "SKU-1", Quantity: 4, Location: "Zone-A", Rack: "R1", ReceivedBy: "System"}
	_, err = c.Send(context.Background(), OpReceiveGoods, Request{Query: receipt.Query()}, Options{})
	require.NoError(t, err)
}

func TestSend_NonSuccessIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"SKU not found"}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL, nil)
	require.NoError(t, err)

	resp, err := c.Send(context.Background(), OpReceiveGoods, Request{}, Options{})
	require.NoError(t, err)
	assert.False(t, resp.OK())
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"detail":"SKU not found"}`, string(resp.Body))
}

func TestSend_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	obs := new(MockObserver)
	obs.On("ObserveBackend", "list_stocks", "transport_error", mock.Anything).Once()

	c, err := New(url, nil, WithObserver(obs))
	require.NoError(t, err)

	_, err = c.Send(context.Background(), OpListStocks, Request{}, Options{})
	require.Error(t, err)

	var terr *TransportError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, OpListStocks, terr.Op)
	obs.AssertExpectations(t)
}

func TestSend_BreakerOpensOnTransportFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	var states []gobreaker.State
	cb := NewBreaker(BreakerConfig{
		Name:     "backend",
		Failures: 2,
		Timeout:  time.Minute,
		OnState:  func(_ string, s gobreaker.State) { states = append(states, s) },
	}, slog.Default())
	c, err := New(url, nil, WithBreaker(cb))
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err = c.Send(context.Background(), OpListStocks, Request{}, Options{})
		require.Error(t, err)
	}

	_, err = c.Send(context.Background(), OpListStocks, Request{}, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend unavailable")
	assert.Equal(t, []gobreaker.State{gobreaker.StateOpen}, states)
}

func TestSend_RejectionsDoNotTripBreaker(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cb := NewBreaker(BreakerConfig{Name: "backend", Failures: 1, Timeout: time.Minute}, slog.Default())
	c, err := New(srv.URL, nil, WithBreaker(cb))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		resp, err := c.Send(context.Background(), OpListStocks, Request{}, Options{})
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	}
	assert.Equal(t, int32(3), hits.Load())
}

func TestSend_CallerCancellationDoesNotTripBreaker(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"records":[]}`))
	}))
	defer srv.Close()

	var states []gobreaker.State
	cb := NewBreaker(BreakerConfig{
		Name:     "backend",
		Failures: 2,
		Timeout:  time.Minute,
		OnState:  func(_ string, s gobreaker.State) { states = append(states, s) },
	}, slog.Default())
	c, err := New(srv.URL, nil, WithBreaker(cb))
	require.NoError(t, err)

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	for i := 0; i < 3; i++ {
		_, err = c.Send(cancelled, OpListStocks, Request{}, Options{})
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	}

	resp, err := c.Send(context.Background(), OpListStocks, Request{}, Options{})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, states)
	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestSend_MissingIDAndUnknownOp(t *testing.T) {
	c, err := New("http://backend.local", nil)
	require.NoError(t, err)

	_, err = c.Send(context.Background(), OpUpdateOrderStatus, Request{}, Options{})
	require.Error(t, err)
	var terr *TransportError
	assert.False(t, errors.As(err, &terr))

	_, err = c.Send(context.Background(), Operation("nope"), Request{}, Options{})
	assert.ErrorIs(t, err, ErrUnknownOperation)
}

func TestNew_RejectsRelativeURL(t *testing.T) {
	_, err := New("/api", nil)
	assert.Error(t, err)
}

func TestOperationTable(t *testing.T) {
	assert.True(t, OpListOrders.IsRead())
	assert.True(t, OpMetrics.IsRead())
	assert.False(t, OpCreateTransfer.IsRead())
	assert.Equal(t, http.MethodPatch, OpUpdatePicklistStatus.Method())
	assert.False(t, Operation("nope").Known())
}

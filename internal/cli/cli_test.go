package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes wmsctl against backend with no config file on disk.
func run(t *testing.T, backend string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv(tokenEnv, "")

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	if backend != "" {
		args = append([]string{"--backend", backend}, args...)
	}
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestList_PrintsTable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("refresh"))
		_, _ = w.Write([]byte(`{"records":[{"id":"ORD-1","fields":{"customer_email":"a@b.co","status":"Pending"}}]}`))
	}))
	defer srv.Close()

	out, _, err := run(t, srv.URL, "list", "orders", "--refresh")
	require.NoError(t, err)
	assert.Contains(t, out, "Order ID")
	assert.Contains(t, out, "ORD-1")
	assert.Contains(t, out, "a@b.co")
}

func TestList_EmptyAndUnknown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"records":[]}`))
	}))
	defer srv.Close()

	out, _, err := run(t, srv.URL, "list", "stocks")
	require.NoError(t, err)
	assert.Contains(t, out, "No stocks found")

	_, _, err = run(t, srv.URL, "list", "pallets")
	require.Error(t, err)
}

func TestOrderCreate_InvalidFormNeverCallsBackend(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	out, _, err := run(t, srv.URL, "order", "create", "--item", "SKU-1:2")
	require.ErrorIs(t, err, errOutcome)
	assert.Contains(t, out, "Please enter Customer Email")
	assert.Zero(t, hits.Load())
}

func TestOrderCreate_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ops@example.com", body["customer_email"])
		assert.Len(t, body["items"], 2)

		_, _ = w.Write([]byte(`{"order_id":"ORD-9","status":"Pending"}`))
	}))
	defer srv.Close()

	out, _, err := run(t, srv.URL, "order", "create",
		"--email", "ops@example.com", "--item", "SKU-1:2", "--item", "SKU-9:1")
	require.NoError(t, err)
	assert.Contains(t, out, "Order ORD-9 has been created successfully.")
}

func TestOrderStatus_ShippedNeedsETA(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	_, _, err := run(t, srv.URL, "order", "status", "ORD-1", "Shipped")
	require.ErrorIs(t, err, errOutcome)
	assert.Zero(t, hits.Load())
}

func TestTransferCreate_SplitsLocations(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stock-transfers", r.URL.Path)

		q := r.URL.Query()
		assert.Equal(t, "A", q.Get("from_location"))
		assert.Equal(t, "R1", q.Get("from_rack"))
		assert.Equal(t, "B", q.Get("to_location"))
		assert.Equal(t, "R2", q.Get("to_rack"))
		assert.Equal(t, "31", q.Get("quantity"))

		_, _ = w.Write([]byte(`{"transfer_id":"TR-1"}`))
	}))
	defer srv.Close()

	out, _, err := run(t, srv.URL, "transfer", "create",
		"--sku", "SKU-1", "--qty", "31", "--from", "A/R1", "--to", "B/R2", "--by", "sam")
	require.NoError(t, err)
	assert.Contains(t, out, "TR-1")
}

func TestTransferCreate_UnknownSKU(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code":"NOT_FOUND","message":"sku missing"}`))
	}))
	defer srv.Close()

	out, _, err := run(t, srv.URL, "transfer", "create",
		"--sku", "NOPE", "--qty", "1", "--from", "A/R1", "--to", "B/R2", "--by", "sam")
	require.ErrorIs(t, err, errOutcome)
	assert.Contains(t, out, "NOPE")
}

func TestStatuses_WorksWithoutBackend(t *testing.T) {
	out, _, err := run(t, "", "statuses", "order")
	require.NoError(t, err)
	assert.Contains(t, out, "Pending")
	assert.Contains(t, out, "requires eta")

	out, _, err = run(t, "", "statuses", "transfer")
	require.NoError(t, err)
	assert.Contains(t, out, "quantities above 30 wait for approval")

	_, _, err = run(t, "", "statuses", "pallet")
	require.Error(t, err)
}

func TestExport_WritesWorkbook(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"records":[{"id":"TR-1","fields":{"sku":"SKU-1","quantity":3,"status":"Pending"}}]}`))
	}))
	defer srv.Close()

	target := filepath.Join(t.TempDir(), "transfers.xlsx")
	out, _, err := run(t, srv.URL, "export", "stock-transfers", "-o", target)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+target)

	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

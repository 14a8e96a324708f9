package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labcheckout/internal/checkout/models"
	"labcheckout/internal/checkout/store"
)

func serve(h *Handler, path string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	h.Register(r)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestStatusAndLiveness(t *testing.T) {
	h := New("test")

	w := serve(h, "/health")
	require.Equal(t, http.StatusOK, w.Code)
	status := decode[StatusResponse](t, w)
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "test", status.Environment)
	assert.Nil(t, status.Inventory)

	assert.Equal(t, http.StatusOK, serve(h, "/health/live").Code)
}

func TestReadiness(t *testing.T) {
	h := New("test")
	h.RegisterCheck("audit_publisher", func() error { return nil })

	w := serve(h, "/health/ready")
	assert.Equal(t, http.StatusOK, w.Code)

	h.RegisterCheck("audit_sink", func() error { return errors.New("publisher closed") })
	w = serve(h, "/health/ready")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	ready := decode[ReadinessResponse](t, w)
	assert.Equal(t, "not_ready", ready.Status)
	assert.Equal(t, "up", ready.Checks["audit_publisher"])
	assert.Equal(t, "down: publisher closed", ready.Checks["audit_sink"])
}

func TestReadinessWaitsForSeededRegistries(t *testing.T) {
	ctx := context.Background()
	students := store.NewStudentStore(0)
	assets := store.NewAssetStore(2)
	h := New("test", WithInventory(students, assets), WithClampMode("applied"))

	w := serve(h, "/health/ready")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "down: student registry not seeded", decode[ReadinessResponse](t, w).Checks["registries"])

	status := decode[StatusResponse](t, serve(h, "/health"))
	assert.Equal(t, "starting", status.Status)
	assert.Equal(t, "applied", status.ClampMode)

	require.NoError(t, students.Add(ctx, &models.Student{UID: "KRG20281", Name: "Aditya"}))
	w = serve(h, "/health/ready")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "down: asset registry not seeded", decode[ReadinessResponse](t, w).Checks["registries"])

	require.NoError(t, assets.Add(ctx, &models.Asset{ID: "LAB-101", Name: "HDMI Cable", Available: true, SecurityLevel: 1}))
	require.NoError(t, assets.Add(ctx, &models.Asset{ID: "LAB-303", Name: "Extension Cable", SecurityLevel: 1}))
	w = serve(h, "/health/ready")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "up", decode[ReadinessResponse](t, w).Checks["registries"])

	status = decode[StatusResponse](t, serve(h, "/health"))
	assert.Equal(t, "healthy", status.Status)
	require.NotNil(t, status.Inventory)
	assert.Equal(t, RegistryStatus{Registered: 1, Capacity: 0}, status.Inventory.Students)
	assert.Equal(t, 2, status.Inventory.Assets.Registered)
	assert.Equal(t, 2, status.Inventory.Assets.Capacity)
	require.NotNil(t, status.Inventory.Assets.Available)
	assert.Equal(t, 1, *status.Inventory.Assets.Available)
}

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"labcheckout/internal/checkout/handler"
	"labcheckout/internal/checkout/models"
	"labcheckout/internal/checkout/service"
	"labcheckout/internal/checkout/store"
	"labcheckout/internal/seeder"
	"labcheckout/pkg/platform/audit"
	"labcheckout/pkg/platform/audit/publisher"
	"labcheckout/pkg/platform/audit/store/memory"
	request "labcheckout/pkg/platform/middleware/request"
)

// TestContext holds state between test steps
type TestContext struct {
	BaseURL          string
	HTTPClient       *http.Client
	LastResponse     *http.Response
	LastResponseBody []byte

	server   *httptest.Server
	students *store.InMemoryStudentStore
	assets   *store.InMemoryAssetStore
}

// NewTestContext creates a new test context. When BASE_URL is set the steps
// run against that server; otherwise StartServer spins one up in-process.
func NewTestContext() *TestContext {
	return &TestContext{
		BaseURL: os.Getenv("BASE_URL"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// StartServer seeds fresh registries and serves them in-process.
func (tc *TestContext) StartServer(ctx context.Context, mode service.ClampMode) error {
	if tc.BaseURL != "" {
		return nil
	}
	tc.students = store.NewStudentStore(0)
	tc.assets = store.NewAssetStore(0)
	if err := seeder.New(tc.students, tc.assets, nil).SeedAll(ctx); err != nil {
		return err
	}

	log := slog.New(slog.DiscardHandler)
	auditStore := memory.NewInMemoryStore()
	svc, err := service.New(tc.students, tc.assets,
		service.WithLogger(log),
		service.WithAuditor(audit.NewLogger(log, publisher.NewPublisher(auditStore))),
		service.WithClampMode(mode),
	)
	if err != nil {
		return err
	}

	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(request.RequestTime)
	r.Use(request.Recovery(log))
	handler.New(svc, auditStore, log).Register(r)

	tc.server = httptest.NewServer(r)
	tc.BaseURL = tc.server.URL
	return nil
}

// Close stops the in-process server, if any.
func (tc *TestContext) Close() {
	if tc.server != nil {
		tc.server.Close()
	}
}

// AddStudent registers an extra student. Only possible in-process.
func (tc *TestContext) AddStudent(ctx context.Context, uid string, fine, borrowCount int) error {
	if tc.students == nil {
		return fmt.Errorf("cannot register students against remote server %s", tc.BaseURL)
	}
	student, err := models.NewStudent(uid, "Student "+uid, fine, borrowCount)
	if err != nil {
		return err
	}
	return tc.students.Add(ctx, student)
}

// AddAsset registers an extra asset. Only possible in-process.
func (tc *TestContext) AddAsset(ctx context.Context, assetID, name string, securityLevel int) error {
	if tc.assets == nil {
		return fmt.Errorf("cannot register assets against remote server %s", tc.BaseURL)
	}
	asset, err := models.NewAsset(assetID, name, true, securityLevel)
	if err != nil {
		return err
	}
	return tc.assets.Add(ctx, asset)
}

// POST makes a POST request and stores the response
func (tc *TestContext) POST(path string, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, tc.BaseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return tc.do(req)
}

// GET makes a GET request and stores the response
func (tc *TestContext) GET(path string) error {
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, tc.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return tc.do(req)
}

func (tc *TestContext) do(req *http.Request) error {
	resp, err := tc.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}

	tc.LastResponse = resp
	tc.LastResponseBody, err = io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	return nil
}

// GetResponseField extracts a field from the JSON response
func (tc *TestContext) GetResponseField(field string) (any, error) {
	var data map[string]any
	if err := json.Unmarshal(tc.LastResponseBody, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	value, ok := data[field]
	if !ok {
		return nil, fmt.Errorf("field %s not found in response", field)
	}
	return value, nil
}

// ResponseContains checks if the response body contains a field or text
func (tc *TestContext) ResponseContains(text string) bool {
	if strings.Contains(string(tc.LastResponseBody), text) {
		return true
	}

	var data map[string]any
	if err := json.Unmarshal(tc.LastResponseBody, &data); err == nil {
		if _, ok := data[text]; ok {
			return true
		}
	}
	return false
}

func (tc *TestContext) GetLastResponseStatus() int {
	if tc.LastResponse == nil {
		return 0
	}
	return tc.LastResponse.StatusCode
}

func (tc *TestContext) GetLastResponseBody() []byte {
	return tc.LastResponseBody
}

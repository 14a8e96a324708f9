package httputil

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "labcheckout/pkg/domain-errors"
)

// testRequest is a simple test struct for JSON decoding
type testRequest struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

func TestDecodeJSON(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	ctx := context.Background()

	t.Run("successful decode", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"name":"test","value":42}`))
		w := httptest.NewRecorder()

		result, ok := DecodeJSON[testRequest](w, req, logger, ctx, "test-request-id")

		assert.True(t, ok)
		require.NotNil(t, result)
		assert.Equal(t, "test", result.Name)
		assert.Equal(t, 42, result.Value)
	})

	t.Run("invalid JSON returns invalid_input", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{invalid json}`))
		w := httptest.NewRecorder()

		result, ok := DecodeJSON[testRequest](w, req, logger, ctx, "test-request-id")

		assert.False(t, ok)
		assert.Nil(t, result)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var errResp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
		assert.Equal(t, "invalid_input", errResp.Error)
	})

	t.Run("unknown fields are rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"name":"x","extra":1}`))
		w := httptest.NewRecorder()

		_, ok := DecodeJSON[testRequest](w, req, logger, ctx, "test-request-id")

		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("empty body returns error", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(""))
		w := httptest.NewRecorder()

		result, ok := DecodeJSON[testRequest](w, req, logger, ctx, "test-request-id")

		assert.False(t, ok)
		assert.Nil(t, result)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestWriteError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
		reason string
	}{
		{dErrors.New(dErrors.CodeInvalidInput, "Invalid UID"), http.StatusBadRequest, "invalid_input", ""},
		{dErrors.NotFound("LAB-999", "Asset not found: LAB-999"), http.StatusNotFound, "not_found", ""},
		{dErrors.New(dErrors.CodeSecurityViolation, "Restricted asset for UID: STU00001"), http.StatusForbidden, "security_violation", ""},
		{&dErrors.Error{Code: dErrors.CodePolicyViolation, Reason: dErrors.ReasonFinePending, Message: "Fine pending for UID: STU12345"}, http.StatusPreconditionFailed, "policy_violation", "fine_pending"},
		{&dErrors.Error{Code: dErrors.CodeConflict, Reason: dErrors.ReasonAlreadyBorrowed, Message: "Asset already borrowed: LAB-101"}, http.StatusConflict, "conflict", "already_borrowed"},
		{dErrors.New(dErrors.CodeCapacityExceeded, "Student registry full (capacity 3)"), http.StatusInsufficientStorage, "capacity_exceeded", ""},
		{dErrors.New(dErrors.CodeInternal, "boom"), http.StatusInternalServerError, "internal_error", ""},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, tc.err)

			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			var errResp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
			assert.Equal(t, tc.code, errResp.Error)
			assert.Equal(t, tc.reason, errResp.Reason)
			assert.Equal(t, tc.err.Error(), errResp.Description)
		})
	}

	t.Run("foreign error hides its message", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, errors.New("database password is hunter2"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "hunter2")
	})
}

package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseEnvelope(t *testing.T) {
	t.Run("success omits errors", func(t *testing.T) {
		rec := httptest.NewRecorder()
		ResponseCreated(rec, "Campaign created successfully", map[string]string{"id": "c1"})

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"status":true,"message":"Campaign created successfully","data":{"id":"c1"}}`, rec.Body.String())
	})

	t.Run("bad request carries fields", func(t *testing.T) {
		rec := httptest.NewRecorder()
		ResponseBadRequest(rec, "Validation failed", map[string]string{"phone": "Invalid phone number"})

		var resp Response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.False(t, resp.Status)
		assert.Equal(t, map[string]any{"phone": "Invalid phone number"}, resp.Errors)
	})

	t.Run("no content has no body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		ResponseNoContent(rec)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
	})
}

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondNotFound(rec, "not here")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.False(t, env.Success)
	assert.Equal(t, "not here", env.Message)
}

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	var body struct {
		Action string `json:"action"`
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"action":"set","extra":1}`))
	assert.Error(t, DecodeJSON(req, &body))
}

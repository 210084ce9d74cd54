package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON_AlwaysOKWithBody(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(context.Background(), rec, map[string]any{"team_id": "mixed", "players": []any{}})

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "mixed", body["team_id"])
	require.NotContains(t, body, "error")
}

func TestWriteJSON_ErrorBodyStaysOK(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(context.Background(), rec, map[string]any{"error": "Teams not found", "home": nil, "away": nil})

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "Teams not found", body["error"])
	require.Contains(t, body, "home")
	require.Nil(t, body["home"])
}

func TestWriteJSON_UnencodablePayloadFallsBack(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(context.Background(), rec, map[string]any{"bad": make(chan int)})

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "response encoding failed", body["error"])
}

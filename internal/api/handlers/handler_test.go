package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/langchou/apexgazer/internal/service"
	"github.com/langchou/apexgazer/pkg/ws"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	logger := zap.NewNop()
	analysis := service.NewAnalysisService(logger, nil, nil, nil, nil, service.NewJobManager(nil))
	handler := NewHandler(logger, analysis, ws.NewHub(logger))

	router := gin.New()
	handler.RegisterRoutes(router)
	return router
}

func TestListCircuits(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/circuits", nil)
	newTestRouter().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data []string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Data, 21)
	assert.Contains(t, body.Data, "Monaco")
}

func TestListSessionTypes(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/session-types", nil)
	newTestRouter().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data []struct {
			Code string `json:"code"`
			Name string `json:"name"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 5)
	assert.Equal(t, "R", body.Data[0].Code)
	assert.Equal(t, "Race", body.Data[0].Name)
}

func TestRunAnalysisRejectsInvalidBody(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/analyses", strings.NewReader(`{"year":`))
	newTestRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRunAnalysisRejectsUnknownSessionType(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/analyses",
		strings.NewReader(`{"year":2024,"event_name":"Monaco","session_type":"SPRINT"}`))
	newTestRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEvictSessionRejectsInvalidID(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("DELETE", "/api/sessions/abc", nil)
	newTestRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListSessionLapsRejectsInvalidID(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/sessions/abc/laps", nil)
	newTestRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetAnalysisNotFound(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/analyses/no-such-job", nil)
	newTestRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealthCheck(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health", nil)
	newTestRouter().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

package api

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/Shr3y4sm/SpendSmart/config"
	"github.com/Shr3y4sm/SpendSmart/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEnabledInsightsHandler() *InsightsHandler {
	return NewInsightsHandler(service.NewInsightsGenerator(&config.AIConfig{
		Enabled: true,
		APIKey:  "test-key",
	}))
}

func getInsights(t *testing.T, h *InsightsHandler, target string) map[string]interface{} {
	t.Helper()
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.GET("/api/insights", h.GetInsights)

	req := httptest.NewRequest("GET", target, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp["data"].(map[string]interface{})
}

func TestInsightsHandler_ServiceUnavailable(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	h := NewInsightsHandler(service.NewInsightsGenerator(&config.AIConfig{Enabled: false}))
	router.GET("/api/insights", h.GetInsights)

	req := httptest.NewRequest("GET", "/api/insights", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 503, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "AI insights service is not available", resp["error"])
}

func TestInsightsHandler_DefaultPeriodIsWeek(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `expenses`").
		WithArgs(uint(1)).
		WillReturnRows(sqlmock.NewRows(expenseColumns()))

	data := getInsights(t, newEnabledInsightsHandler(), "/api/insights")

	analytics := data["analytics"].(map[string]interface{})
	assert.Equal(t, "week", analytics["period"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsightsHandler_UnknownPeriodFallsBackToWeek(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `expenses`").
		WithArgs(uint(1)).
		WillReturnRows(sqlmock.NewRows(expenseColumns()))

	data := getInsights(t, newEnabledInsightsHandler(), "/api/insights?period=yearly")

	analytics := data["analytics"].(map[string]interface{})
	assert.Equal(t, "week", analytics["period"])
	require.NoError(t, mock.ExpectationsWereMet())
}

package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/course-tracker/internal/config"
)

func TestRequestLoggerRecordsRouteAndEchoesID(t *testing.T) {
	metrics := NewMetrics()
	app := fiber.New()
	app.Use(RequestLogger(zap.NewNop(), metrics))
	app.Get("/api/courses/:id", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(RequestIDLocal).(string))
	})

	req := httptest.NewRequest(http.MethodGet, "/api/courses/abc", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "req-1", resp.Header.Get(RequestIDHeader))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/courses/xyz", nil), -1)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))

	assert.Equal(t, int64(2), metrics.Snapshot().Requests["/api/courses/:id|GET|200"])
}

func TestMetricsNilSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", http.MethodGet, 200, 0)
	m.RecordError("/", http.MethodGet, "X")
	m.RecordSessionRejection("expired")
	assert.Empty(t, m.Snapshot().SessionRejections)

	m = NewMetrics()
	m.RecordSessionRejection("expired")
	m.RecordSessionRejection("expired")
	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.SessionRejections["expired"])

	snap.SessionRejections["expired"] = 99
	assert.Equal(t, int64(2), m.Snapshot().SessionRejections["expired"])
}

func TestNewLoggerFallsBackToInfo(t *testing.T) {
	logger, err := NewLogger(config.LoggerConfig{Level: "chatty"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.InfoLevel))
	assert.False(t, logger.Core().Enabled(zap.DebugLevel))
}

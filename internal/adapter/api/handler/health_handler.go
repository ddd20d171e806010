package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// ConnectionCounter reports open WebSocket connections.
type ConnectionCounter interface {
	ConnectionCount() int
}

type HealthHandler struct {
	dataStore   string
	connections ConnectionCounter
	startedAt   time.Time
}

var healthHandler *HealthHandler

func NewHealthHandler(dataStore string, connections ConnectionCounter) *HealthHandler {
	return &HealthHandler{
		dataStore:   dataStore,
		connections: connections,
		startedAt:   time.Now(),
	}
}

func SetupHealthHandler(dataStore string, connections ConnectionCounter) {
	healthHandler = NewHealthHandler(dataStore, connections)
}

func GetHealthHandler() *HealthHandler {
	return healthHandler
}

func (h *HealthHandler) CheckHealth(c echo.Context) error {
	body := map[string]interface{}{
		"status":     "Server is running",
		"time":       time.Now().Format(time.RFC3339),
		"uptime":     time.Since(h.startedAt).Round(time.Second).String(),
		"data_store": h.dataStore,
	}
	if h.connections != nil {
		body["ws_connections"] = h.connections.ConnectionCount()
	}
	return c.JSON(http.StatusOK, body)
}

package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/monitor"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/handler/http/response"
)

type MonitorHandler interface {
	Check(w http.ResponseWriter, r *http.Request)
}

type monitorHandlerImpl struct {
	monitorService monitor.Service
}

func NewMonitorHandler(monitorService monitor.Service) MonitorHandler {
	return &monitorHandlerImpl{
		monitorService: monitorService,
	}
}

// Check implements MonitorHandler.
func (h *monitorHandlerImpl) Check(w http.ResponseWriter, r *http.Request) {
	var req monitor.CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode monitor body", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	verdict, err := h.monitorService.Check(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, verdict)
}

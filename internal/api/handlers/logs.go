package handlers

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"
	"trip-log-service/internal/api/dto"
	"trip-log-service/internal/domain"
	"trip-log-service/internal/ports"
)

type TripPlanner interface {
	RouteForTrip(ctx context.Context, trip *domain.Trip) (*domain.RouteResult, error)
	LogsForTrip(ctx context.Context, trip *domain.Trip) ([]domain.LogEntry, error)
}

// LogHandler serves the route and duty-status logs computed for a stored trip.
type LogHandler struct {
	Trips       ports.TripRepository
	Planner     TripPlanner
	RenderSheet func(w io.Writer, entry domain.LogEntry) error
}

func (h *LogHandler) RouteMap(w http.ResponseWriter, r *http.Request) {
	trip, ok := loadTrip(w, r, h.Trips)
	if !ok {
		return
	}

	route, err := h.Planner.RouteForTrip(r.Context(), trip)
	if err != nil {
		writeCoreError(w, r, "route map failed", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewRouteResponse(route))
}

func (h *LogHandler) GenerateLogs(w http.ResponseWriter, r *http.Request) {
	trip, ok := loadTrip(w, r, h.Trips)
	if !ok {
		return
	}

	logs, err := h.Planner.LogsForTrip(r.Context(), trip)
	if err != nil {
		writeCoreError(w, r, "generate logs failed", err)
		return
	}

	res := make([]dto.LogEntryResponse, 0, len(logs))
	for _, e := range logs {
		res = append(res, dto.NewLogEntryResponse(e))
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Sheet renders one day of the trip's logs as a PNG image.
func (h *LogHandler) Sheet(w http.ResponseWriter, r *http.Request) {
	day, ok := int64Param(r, "day")
	if !ok || day > domain.CycleDays {
		writeError(w, r, http.StatusNotFound, "Not found.")
		return
	}

	trip, ok := loadTrip(w, r, h.Trips)
	if !ok {
		return
	}

	logs, err := h.Planner.LogsForTrip(r.Context(), trip)
	if err != nil {
		writeCoreError(w, r, "log sheet failed", err)
		return
	}
	if int(day) > len(logs) {
		writeError(w, r, http.StatusNotFound, "Not found.")
		return
	}

	var buf bytes.Buffer
	if err := h.RenderSheet(&buf, logs[day-1]); err != nil {
		writeInternalError(w, r, "render log sheet failed", err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"trip-log-service/internal/api/dto"
	"trip-log-service/internal/domain"
	"trip-log-service/internal/ports"
)

const maxLocationLength = 255

// TripHandler exposes CRUD endpoints for the authenticated driver's trips.
type TripHandler struct {
	Trips ports.TripRepository
}

func (h *TripHandler) List(w http.ResponseWriter, r *http.Request) {
	driver := DriverFromContext(r.Context())
	owner := driver.ID

	if v := r.URL.Query().Get("user_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "Invalid user_id parameter.")
			return
		}
		if !driver.IsStaff && id != driver.ID {
			writeError(w, r, http.StatusForbidden, "Permission denied to view trips for this user.")
			return
		}
		owner = id
	}

	trips, err := h.Trips.ListTripsByDriver(r.Context(), owner)
	if err != nil {
		writeInternalError(w, r, "list trips failed", err)
		return
	}

	res := dto.ListTripsResponse{Trips: make([]dto.TripResponse, 0, len(trips))}
	for _, t := range trips {
		res.Trips = append(res.Trips, dto.NewTripResponse(t))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *TripHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.TripRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	trip := &domain.Trip{DriverID: DriverFromContext(r.Context()).ID}
	if msg := applyTripRequest(trip, req, true); msg != "" {
		writeError(w, r, http.StatusBadRequest, msg)
		return
	}

	created, err := h.Trips.CreateTrip(r.Context(), trip)
	if err != nil {
		writeInternalError(w, r, "create trip failed", err)
		return
	}

	writeJSON(w, r, http.StatusCreated, dto.NewTripResponse(created))
}

func (h *TripHandler) Get(w http.ResponseWriter, r *http.Request) {
	trip, ok := loadTrip(w, r, h.Trips)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, dto.NewTripResponse(trip))
}

// Update handles PUT (every field required) and PATCH (supplied fields only).
func (h *TripHandler) Update(w http.ResponseWriter, r *http.Request) {
	trip, ok := loadTrip(w, r, h.Trips)
	if !ok {
		return
	}

	var req dto.TripRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if msg := applyTripRequest(trip, req, r.Method == http.MethodPut); msg != "" {
		writeError(w, r, http.StatusBadRequest, msg)
		return
	}

	updated, err := h.Trips.UpdateTrip(r.Context(), trip)
	if errors.Is(err, ports.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, "Not found.")
		return
	}
	if err != nil {
		writeInternalError(w, r, "update trip failed", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewTripResponse(updated))
}

func (h *TripHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(r, "id")
	if !ok {
		writeError(w, r, http.StatusNotFound, "Not found.")
		return
	}

	err := h.Trips.DeleteTrip(r.Context(), id, DriverFromContext(r.Context()).ID)
	if errors.Is(err, ports.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, "Not found.")
		return
	}
	if err != nil {
		writeInternalError(w, r, "delete trip failed", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// loadTrip fetches the trip named by the :id parameter for the authenticated
// driver and writes the 404 itself when there is none.
func loadTrip(w http.ResponseWriter, r *http.Request, trips ports.TripRepository) (*domain.Trip, bool) {
	id, ok := int64Param(r, "id")
	if !ok {
		writeError(w, r, http.StatusNotFound, "Not found.")
		return nil, false
	}

	trip, err := trips.GetTrip(r.Context(), id, DriverFromContext(r.Context()).ID)
	if errors.Is(err, ports.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, "Not found.")
		return nil, false
	}
	if err != nil {
		writeInternalError(w, r, "get trip failed", err)
		return nil, false
	}
	return trip, true
}

// applyTripRequest copies supplied fields onto trip. With requireAll set, every
// field must be present. It returns a validation message, or "" on success.
func applyTripRequest(trip *domain.Trip, req dto.TripRequest, requireAll bool) string {
	locations := []struct {
		name string
		src  *string
		dst  *string
	}{
		{"current_location", req.CurrentLocation, &trip.CurrentLocation},
		{"pickup_location", req.PickupLocation, &trip.PickupLocation},
		{"dropoff_location", req.DropoffLocation, &trip.DropoffLocation},
	}

	for _, l := range locations {
		if l.src == nil {
			if requireAll {
				return l.name + " is required"
			}
			continue
		}

		v := strings.TrimSpace(*l.src)
		if v == "" {
			return l.name + " may not be blank"
		}
		if len(v) > maxLocationLength {
			return l.name + " must be at most 255 characters"
		}
		*l.dst = v
	}

	if req.CurrentCycleHours == nil {
		if requireAll {
			return "current_cycle_hours is required"
		}
		return ""
	}
	if *req.CurrentCycleHours < 0 {
		return "current_cycle_hours must not be negative"
	}
	trip.CurrentCycleHours = *req.CurrentCycleHours

	return ""
}

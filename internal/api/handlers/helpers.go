package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"trip-log-service/internal/domain"
	"trip-log-service/internal/platform/obs"

	"github.com/julienschmidt/httprouter"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		obs.FromContext(r.Context()).Error("encode failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

func writeInternalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	obs.FromContext(r.Context()).Error(msg, "error", err)
	writeError(w, r, http.StatusInternalServerError, "internal server error")
}

// writeCoreError maps failures of the route/log pipeline to responses. The three
// descriptive pipeline errors reach the client; anything else is logged.
func writeCoreError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	var parseErr *domain.ParseError
	var geocodeErr *domain.GeocodeError
	var routingErr *domain.RoutingError

	switch {
	case errors.As(err, &parseErr):
		writeError(w, r, http.StatusBadRequest, parseErr.Error())
	case errors.As(err, &geocodeErr):
		obs.FromContext(r.Context()).Warn(msg, "error", err)
		writeError(w, r, http.StatusBadGateway, geocodeErr.Error())
	case errors.As(err, &routingErr):
		obs.FromContext(r.Context()).Warn(msg, "error", err)
		writeError(w, r, http.StatusBadGateway, routingErr.Error())
	default:
		writeInternalError(w, r, msg, err)
	}
}

// decodeJSON reads exactly one JSON object from the request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	return true
}

// int64Param reads a positive integer path parameter.
func int64Param(r *http.Request, name string) (int64, bool) {
	v := httprouter.ParamsFromContext(r.Context()).ByName(name)
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

package handlers

import (
	"context"
	"errors"
	"net/http"
	"trip-log-service/internal/api/dto"
	"trip-log-service/internal/domain"
	"trip-log-service/internal/ports"
	"trip-log-service/internal/services"
)

type AccountService interface {
	Register(ctx context.Context, in services.RegisterInput) (*domain.Driver, error)
	Login(ctx context.Context, username, password string) (domain.Tokens, error)
	Logout(ctx context.Context, refresh string) error
}

// AccountHandler exposes registration and session endpoints.
type AccountHandler struct {
	Accounts AccountService
}

func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	_, err := h.Accounts.Register(r.Context(), services.RegisterInput{
		Username:            req.Username,
		Password:            req.Password,
		Carrier:             req.Carrier,
		TruckNumber:         req.TruckNumber,
		HomeTerminalAddress: req.HomeTerminalAddress,
		ShippingDocs:        req.ShippingDocs,
		DriverSignature:     req.DriverSignature,
	})
	switch {
	case errors.Is(err, services.ErrMissingCredentials),
		errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrUsernameTooLong):
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		writeInternalError(w, r, "register failed", err)
		return
	}

	writeJSON(w, r, http.StatusCreated, dto.MessageResponse{Msg: "User registered successfully"})
}

func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	tokens, err := h.Accounts.Login(r.Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, services.ErrMissingCredentials):
		writeError(w, r, http.StatusBadRequest, "Username and password are required")
		return
	case errors.Is(err, services.ErrInvalidCredentials):
		writeError(w, r, http.StatusUnauthorized, "Bad username or password")
		return
	case err != nil:
		writeInternalError(w, r, "login failed", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.TokenResponse{Access: tokens.Access, Refresh: tokens.Refresh})
}

func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req dto.LogoutRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	err := h.Accounts.Logout(r.Context(), req.Refresh)
	switch {
	case errors.Is(err, ports.ErrInvalidToken):
		writeError(w, r, http.StatusBadRequest, "Bad token")
		return
	case err != nil:
		writeInternalError(w, r, "logout failed", err)
		return
	}

	writeJSON(w, r, http.StatusResetContent, dto.MessageResponse{Msg: "Logout successful"})
}

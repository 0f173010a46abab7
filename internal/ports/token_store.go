package ports

import (
	"context"
	"errors"
	"trip-log-service/internal/domain"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Contract for issuing, verifying and revoking session tokens.
type TokenStore interface {
	Issue(ctx context.Context, driverID int64) (domain.Tokens, error)
	// Return the driver the access token belongs to.
	Verify(ctx context.Context, access string) (int64, error)
	// Revoke a refresh token together with the access token issued with it.
	Revoke(ctx context.Context, refresh string) error
}

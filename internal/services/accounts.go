package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"trip-log-service/internal/domain"
	"trip-log-service/internal/ports"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrMissingCredentials = errors.New("username and password are required")
	ErrInvalidCredentials = errors.New("bad username or password")
	ErrUsernameTaken      = errors.New("username already registered")
	ErrUsernameTooLong    = errors.New("username must be at most 150 characters")
)

const maxUsernameLength = 150

type RegisterInput struct {
	Username            string
	Password            string
	IsStaff             bool
	Carrier             string
	TruckNumber         string
	HomeTerminalAddress string
	ShippingDocs        string
	DriverSignature     string
}

// Accounts implements driver registration and session handling on top of a
// driver repository and a token store.
type Accounts struct {
	drivers ports.DriverRepository
	tokens  ports.TokenStore
	cost    int
}

func NewAccounts(drivers ports.DriverRepository, tokens ports.TokenStore) *Accounts {
	return &Accounts{drivers: drivers, tokens: tokens, cost: bcrypt.DefaultCost}
}

// WithHashCost overrides the bcrypt cost; tests use bcrypt.MinCost.
func (a *Accounts) WithHashCost(cost int) *Accounts {
	a.cost = cost
	return a
}

func (a *Accounts) Register(ctx context.Context, in RegisterInput) (*domain.Driver, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return nil, ErrMissingCredentials
	}
	if len(username) > maxUsernameLength {
		return nil, ErrUsernameTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), a.cost)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	d, err := a.drivers.CreateDriver(ctx, &domain.Driver{
		Username:            username,
		PasswordHash:        string(hash),
		IsStaff:             in.IsStaff,
		Carrier:             strings.TrimSpace(in.Carrier),
		TruckNumber:         strings.TrimSpace(in.TruckNumber),
		HomeTerminalAddress: strings.TrimSpace(in.HomeTerminalAddress),
		ShippingDocs:        strings.TrimSpace(in.ShippingDocs),
		DriverSignature:     in.DriverSignature,
	})
	if errors.Is(err, ports.ErrDuplicate) {
		return nil, ErrUsernameTaken
	}
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	return d, nil
}

func (a *Accounts) Login(ctx context.Context, username, password string) (domain.Tokens, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return domain.Tokens{}, ErrMissingCredentials
	}

	d, err := a.drivers.GetDriverByUsername(ctx, username)
	if errors.Is(err, ports.ErrNotFound) {
		return domain.Tokens{}, ErrInvalidCredentials
	}
	if err != nil {
		return domain.Tokens{}, fmt.Errorf("login: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(d.PasswordHash), []byte(password)); err != nil {
		return domain.Tokens{}, ErrInvalidCredentials
	}

	tokens, err := a.tokens.Issue(ctx, d.ID)
	if err != nil {
		return domain.Tokens{}, fmt.Errorf("login: issue tokens: %w", err)
	}
	return tokens, nil
}

// Authenticate resolves an access token to its driver.
func (a *Accounts) Authenticate(ctx context.Context, access string) (*domain.Driver, error) {
	id, err := a.tokens.Verify(ctx, access)
	if err != nil {
		return nil, err
	}

	d, err := a.drivers.GetDriverByID(ctx, id)
	if errors.Is(err, ports.ErrNotFound) {
		return nil, ports.ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	return d, nil
}

func (a *Accounts) Logout(ctx context.Context, refresh string) error {
	if strings.TrimSpace(refresh) == "" {
		return ports.ErrInvalidToken
	}
	return a.tokens.Revoke(ctx, refresh)
}

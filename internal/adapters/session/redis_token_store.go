package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"trip-log-service/internal/domain"
	"trip-log-service/internal/platform/obs"
	"trip-log-service/internal/ports"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	accessPrefix  = "access:"
	refreshPrefix = "refresh:"
)

// RedisTokenStore keeps opaque session tokens in Redis.
//
//	access:<token>  -> driver id            (expires after AccessTTL)
//	refresh:<token> -> "<driver id>:<access token>" (expires after RefreshTTL)
type RedisTokenStore struct {
	client     redis.UniversalClient
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewRedisTokenStore(client redis.UniversalClient, accessTTL, refreshTTL time.Duration) (*RedisTokenStore, error) {
	if client == nil {
		return nil, errors.New("redis token store: client is nil")
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, errors.New("redis token store: token TTLs must be positive")
	}
	return &RedisTokenStore{client: client, accessTTL: accessTTL, refreshTTL: refreshTTL}, nil
}

func (s *RedisTokenStore) Issue(ctx context.Context, driverID int64) (_ domain.Tokens, err error) {
	defer obs.Time(ctx, "tokens.Issue")(&err)

	tokens := domain.Tokens{
		Access:  uuid.NewString(),
		Refresh: uuid.NewString(),
	}
	id := strconv.FormatInt(driverID, 10)

	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, accessPrefix+tokens.Access, id, s.accessTTL)
		p.Set(ctx, refreshPrefix+tokens.Refresh, id+":"+tokens.Access, s.refreshTTL)
		return nil
	})
	if err != nil {
		return domain.Tokens{}, fmt.Errorf("issue tokens: %w", err)
	}

	return tokens, nil
}

func (s *RedisTokenStore) Verify(ctx context.Context, access string) (_ int64, err error) {
	defer obs.Time(ctx, "tokens.Verify")(&err)

	if access == "" {
		return 0, ports.ErrInvalidToken
	}

	val, err := s.client.Get(ctx, accessPrefix+access).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ports.ErrInvalidToken
	}
	if err != nil {
		return 0, fmt.Errorf("verify token: %w", err)
	}

	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("verify token: corrupt entry: %w", err)
	}
	return id, nil
}

func (s *RedisTokenStore) Revoke(ctx context.Context, refresh string) (err error) {
	defer obs.Time(ctx, "tokens.Revoke")(&err)

	if refresh == "" {
		return ports.ErrInvalidToken
	}

	val, err := s.client.GetDel(ctx, refreshPrefix+refresh).Result()
	if errors.Is(err, redis.Nil) {
		return ports.ErrInvalidToken
	}
	if err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}

	if _, access, ok := strings.Cut(val, ":"); ok && access != "" {
		if err := s.client.Del(ctx, accessPrefix+access).Err(); err != nil {
			return fmt.Errorf("revoke token: delete access token: %w", err)
		}
	}
	return nil
}

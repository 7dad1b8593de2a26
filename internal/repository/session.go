package repository

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// Session keys live in the auth_<token> namespace.
const sessionKeyPrefix = "auth_"

type SessionRepository interface {
	Create(ctx context.Context, token, userID string, ttl time.Duration) error
	UserID(ctx context.Context, token string) (string, error)
	Delete(ctx context.Context, token string) error
}

type sessionRepository struct {
	client *redis.Client
}

func NewSessionRepository(client *redis.Client) SessionRepository {
	return &sessionRepository{client: client}
}

func (r *sessionRepository) Create(ctx context.Context, token, userID string, ttl time.Duration) error {
	return r.client.Set(ctx, sessionKeyPrefix+token, userID, ttl).Err()
}

func (r *sessionRepository) UserID(ctx context.Context, token string) (string, error) {
	userID, err := r.client.Get(ctx, sessionKeyPrefix+token).Result()
	if err == redis.Nil {
		return "", ErrSessionNotFound
	}
	if err != nil {
		return "", err
	}
	return userID, nil
}

func (r *sessionRepository) Delete(ctx context.Context, token string) error {
	deleted, err := r.client.Del(ctx, sessionKeyPrefix+token).Result()
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrSessionNotFound
	}
	return nil
}

package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrTokenNotFound    = errors.New("token not found")
	ErrRedisUnavailable = errors.New("redis unavailable")
	ErrExtendFailed     = errors.New("token extend failed")
	ErrTokenDeleted     = errors.New("token delete failed")
)

const (
	UserTokenPrefix   = "login:user:token"
	UserRefreshPrefix = "login:user:refresh"
	UserTokenExpire   = 30 * time.Minute
	UserRefreshExpire = 24 * time.Hour
)

// SessionRepository 每个用户只保留一组有效 token，新登录顶掉旧会话
type SessionRepository struct{}

func tokenKey(usrID uint64) string   { return fmt.Sprintf("%s:%d", UserTokenPrefix, usrID) }
func refreshKey(usrID uint64) string { return fmt.Sprintf("%s:%d", UserRefreshPrefix, usrID) }

func (r *SessionRepository) Save(ctx context.Context, usrID uint64, access, refresh string) error {
	_, err := Client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, tokenKey(usrID), access, UserTokenExpire)
		p.Set(ctx, refreshKey(usrID), refresh, UserRefreshExpire)
		return nil
	})
	if err != nil {
		return ErrRedisUnavailable
	}
	return nil
}

func (r *SessionRepository) AccessToken(ctx context.Context, usrID uint64) (string, error) {
	return get(ctx, tokenKey(usrID))
}

func (r *SessionRepository) RefreshToken(ctx context.Context, usrID uint64) (string, error) {
	return get(ctx, refreshKey(usrID))
}

// Extend 访问成功后续期 access
func (r *SessionRepository) Extend(ctx context.Context, usrID uint64) error {
	if err := Client.Expire(ctx, tokenKey(usrID), UserTokenExpire).Err(); err != nil {
		return ErrExtendFailed
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, usrID uint64) error {
	if err := Client.Del(ctx, tokenKey(usrID), refreshKey(usrID)).Err(); err != nil {
		return ErrTokenDeleted
	}
	return nil
}

func get(ctx context.Context, key string) (string, error) {
	token, err := Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrTokenNotFound
	}
	if err != nil {
		return "", ErrRedisUnavailable
	}
	return token, nil
}

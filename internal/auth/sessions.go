package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "filmcut:session:" // filmcut:session:{token}

// ErrNoSession is returned for a missing, expired, or unknown session token.
var ErrNoSession = errors.New("no valid session")

// Session is what a valid token resolves to. The token itself is opaque; all
// state lives server-side in Redis with a TTL, so logout and expiry need no
// client cooperation.
type Session struct {
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionStore{client: client, ttl: ttl}
}

func (s *SessionStore) TTL() time.Duration {
	return s.ttl
}

// Create issues a new session token for the user.
func (s *SessionStore) Create(ctx context.Context, userID, username string) (string, error) {
	token := uuid.NewString()

	data, err := json.Marshal(Session{
		UserID:    userID,
		Username:  username,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return "", fmt.Errorf("encode session: %w", err)
	}

	if err := s.client.Set(ctx, sessionKeyPrefix+token, data, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return token, nil
}

// Get resolves a token, sliding its expiry forward on use.
func (s *SessionStore) Get(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrNoSession
	}

	key := sessionKeyPrefix + token
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, ErrNoSession
	}

	_ = s.client.Expire(ctx, key, s.ttl).Err()

	return &sess, nil
}

// Delete invalidates a token. Deleting an unknown token is not an error.
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.client.Del(ctx, sessionKeyPrefix+token).Err()
}

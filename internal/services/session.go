package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/google/uuid"

	"github.com/sagehill-community/activities-backend/internal/database"
)

const (
	// SessionDuration is 7 days
	SessionDuration = 7 * 24 * time.Hour
	// SessionKeyPrefix is the Redis key prefix for sessions
	SessionKeyPrefix = "session:"
	// UserSessionKeyPrefix is the Redis key prefix for the user->session mapping
	UserSessionKeyPrefix = "user_session:"
)

// CreateSession creates a new session for a user and stores it in Redis.
// Any existing session for the user is invalidated first, so logging in
// again resets the 7-day timer. Returns the session token.
func CreateSession(ctx context.Context, userID uuid.UUID) (string, error) {
	InvalidateUserSessions(ctx, userID)

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	sessionToken := base64.URLEncoding.EncodeToString(tokenBytes)

	if err := database.RedisClient.Set(ctx, SessionKeyPrefix+sessionToken, userID.String(), SessionDuration).Err(); err != nil {
		return "", err
	}
	if err := database.RedisClient.Set(ctx, UserSessionKeyPrefix+userID.String(), sessionToken, SessionDuration).Err(); err != nil {
		return "", err
	}

	return sessionToken, nil
}

// ValidateSession checks a session token and returns the user ID it belongs
// to. An unknown or expired token is not an error, just not valid.
func ValidateSession(ctx context.Context, sessionToken string) (uuid.UUID, bool, error) {
	if sessionToken == "" {
		return uuid.Nil, false, nil
	}

	userIDStr, err := database.RedisClient.Get(ctx, SessionKeyPrefix+sessionToken).Result()
	if err != nil {
		return uuid.Nil, false, nil
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, false, err
	}

	return userID, true, nil
}

// InvalidateSession removes a session (logout). The session's sign-up cart
// dies with it.
func InvalidateSession(ctx context.Context, sessionToken string) error {
	if sessionToken == "" {
		return nil
	}

	if userIDStr, err := database.RedisClient.Get(ctx, SessionKeyPrefix+sessionToken).Result(); err == nil && userIDStr != "" {
		database.RedisClient.Del(ctx, UserSessionKeyPrefix+userIDStr)
	}

	ClearCart(ctx, sessionToken)

	return database.RedisClient.Del(ctx, SessionKeyPrefix+sessionToken).Err()
}

// InvalidateUserSessions invalidates the user's current session, if any.
func InvalidateUserSessions(ctx context.Context, userID uuid.UUID) error {
	userSessionKey := UserSessionKeyPrefix + userID.String()

	if sessionToken, err := database.RedisClient.Get(ctx, userSessionKey).Result(); err == nil && sessionToken != "" {
		database.RedisClient.Del(ctx, SessionKeyPrefix+sessionToken)
		ClearCart(ctx, sessionToken)
	}

	return database.RedisClient.Del(ctx, userSessionKey).Err()
}

package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sagehill-community/activities-backend/internal/database"
	"github.com/sagehill-community/activities-backend/internal/models"
)

const (
	// CartKeyPrefix is the Redis key prefix for sign-up carts
	CartKeyPrefix = "cart:"
	// CartTTL matches the session duration; an abandoned cart dies with its session
	CartTTL = 7 * 24 * time.Hour
)

// The cart is a per-session buffer of activities a visitor intends to RSVP
// to in one batch. It lives in Redis keyed by session token, ordered,
// deduplicated by activity id. It is cleared after a successful batch
// sign-up and on logout, and it gates nothing.

// GetCart returns the session's cart items in insertion order.
func GetCart(ctx context.Context, session string) ([]models.CartItem, error) {
	val, err := database.RedisClient.Get(ctx, CartKeyPrefix+session).Result()
	if err != nil {
		return []models.CartItem{}, nil // missing key is an empty cart
	}

	var items []models.CartItem
	if err := json.Unmarshal([]byte(val), &items); err != nil {
		return nil, err
	}
	return items, nil
}

// AddToCart appends {id, title} unless the id is already present; adding an
// item twice is a silent success.
func AddToCart(ctx context.Context, session, activityID, title string) ([]models.CartItem, error) {
	items, err := GetCart(ctx, session)
	if err != nil {
		return nil, err
	}

	items, changed := addCartItem(items, activityID, title)
	if !changed {
		return items, nil
	}
	return items, saveCart(ctx, session, items)
}

// RemoveFromCart removes the item with the given id. Removing an absent id
// reports already-absent via the bool, not an error.
func RemoveFromCart(ctx context.Context, session, activityID string) ([]models.CartItem, bool, error) {
	items, err := GetCart(ctx, session)
	if err != nil {
		return nil, false, err
	}

	items, removed := removeCartItem(items, activityID)
	if !removed {
		return items, false, nil
	}
	return items, true, saveCart(ctx, session, items)
}

// ClearCart destroys the session's cart. Called after a successful batch
// sign-up and on logout.
func ClearCart(ctx context.Context, session string) error {
	return database.RedisClient.Del(ctx, CartKeyPrefix+session).Err()
}

func saveCart(ctx context.Context, session string, items []models.CartItem) error {
	jsonData, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return database.RedisClient.Set(ctx, CartKeyPrefix+session, jsonData, CartTTL).Err()
}

// addCartItem and removeCartItem hold the cart's ordering and dedupe rules,
// separate from the Redis round-trip.

func addCartItem(items []models.CartItem, activityID, title string) ([]models.CartItem, bool) {
	for _, item := range items {
		if item.ActivityID == activityID {
			return items, false
		}
	}
	return append(items, models.CartItem{ActivityID: activityID, Title: title}), true
}

func removeCartItem(items []models.CartItem, activityID string) ([]models.CartItem, bool) {
	for i, item := range items {
		if item.ActivityID == activityID {
			return append(items[:i], items[i+1:]...), true
		}
	}
	return items, false
}

package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagehill-community/activities-backend/internal/models"
)

func seed(t *testing.T, s *MemoryActivityStore, title, status, creator string) *models.Activity {
	t.Helper()
	a, err := s.Create(context.Background(), &models.Activity{
		Title:         title,
		Body:          "body",
		Date:          time.Now().Add(24 * time.Hour),
		Status:        status,
		CreatorUserID: creator,
	})
	require.NoError(t, err)
	return a
}

func TestMemoryFindByID(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryActivityStore()
	a := seed(t, s, "Trail Cleanup", "published", "u1")

	got, err := s.FindByID(ctx, a.ID.Hex())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Trail Cleanup", got.Title)

	// Missing and malformed ids both read as (nil, nil).
	got, err = s.FindByID(ctx, "not-an-object-id")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryFindFilters(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryActivityStore()
	seed(t, s, "A", "published", "u1")
	seed(t, s, "B", "unpublished_under_review", "u1")
	seed(t, s, "C", "published", "u2")

	all, err := s.Find(ctx, Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	published, err := s.Find(ctx, Filter{Statuses: []string{"published"}})
	require.NoError(t, err)
	assert.Len(t, published, 2)

	mine, err := s.Find(ctx, Filter{CreatorUserID: "u1"})
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	both, err := s.Find(ctx, Filter{Statuses: []string{"published"}, CreatorUserID: "u1"})
	require.NoError(t, err)
	require.Len(t, both, 1)
	assert.Equal(t, "A", both[0].Title)
}

func TestMemoryUpdateFields(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryActivityStore()
	a := seed(t, s, "Old", "unpublished_under_review", "u1")

	updated, err := s.UpdateFields(ctx, a.ID.Hex(), map[string]interface{}{
		"title":  "New",
		"status": "published",
	})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "New", updated.Title)
	assert.Equal(t, "published", updated.Status)

	missing, err := s.UpdateFields(ctx, "nope", map[string]interface{}{"title": "X"})
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMemoryRSVPPushPull(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryActivityStore()
	a := seed(t, s, "Trail Cleanup", "published", "u1")

	require.NoError(t, s.PushRSVP(ctx, a.ID.Hex(), models.RSVP{Name: "Riley", Email: "riley@example.com", Phone: "555"}))
	require.NoError(t, s.PushRSVP(ctx, a.ID.Hex(), models.RSVP{Name: "Jo", Email: "jo@example.com", Phone: "556"}))

	got, err := s.FindByID(ctx, a.ID.Hex())
	require.NoError(t, err)
	require.Len(t, got.RSVPs, 2)
	assert.Equal(t, "Riley", got.RSVPs[0].Name)

	require.NoError(t, s.PullRSVP(ctx, a.ID.Hex(), "riley@example.com"))
	got, err = s.FindByID(ctx, a.ID.Hex())
	require.NoError(t, err)
	require.Len(t, got.RSVPs, 1)
	assert.Equal(t, "jo@example.com", got.RSVPs[0].Email)

	// Pulling on a missing activity mirrors Mongo's no-match update.
	require.NoError(t, s.PullRSVP(ctx, "nope", "riley@example.com"))
}

func TestMemoryDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryActivityStore()
	a := seed(t, s, "Trail Cleanup", "published", "u1")

	require.NoError(t, s.DeleteByID(ctx, a.ID.Hex()))
	got, err := s.FindByID(ctx, a.ID.Hex())
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, s.DeleteByID(ctx, a.ID.Hex()))
}

func TestMemoryCopiesAreIsolated(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryActivityStore()
	a := seed(t, s, "Trail Cleanup", "published", "u1")

	got, _ := s.FindByID(ctx, a.ID.Hex())
	got.Title = "Mutated"
	got.RSVPs = append(got.RSVPs, models.RSVP{Name: "X"})

	again, _ := s.FindByID(ctx, a.ID.Hex())
	assert.Equal(t, "Trail Cleanup", again.Title)
	assert.Empty(t, again.RSVPs)
}

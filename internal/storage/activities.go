package storage

import (
	"context"

	"github.com/sagehill-community/activities-backend/internal/models"
)

// Filter narrows an activity listing. A nil/empty Statuses slice matches
// every status. Results are always sorted by created_at descending.
type Filter struct {
	Statuses      []string
	CreatorUserID string
}

// ActivityStore is the persistence port for activity documents. RSVPs are
// embedded in the document and mutated with targeted push/pull updates
// rather than whole-document overwrites.
//
// FindByID returns (nil, nil) when no document matches; callers decide how
// to surface that. Any other failure is a driver-level error.
type ActivityStore interface {
	Find(ctx context.Context, filter Filter) ([]models.Activity, error)
	FindByID(ctx context.Context, id string) (*models.Activity, error)
	Create(ctx context.Context, activity *models.Activity) (*models.Activity, error)
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) (*models.Activity, error)
	PushRSVP(ctx context.Context, id string, entry models.RSVP) error
	PullRSVP(ctx context.Context, id string, email string) error
	DeleteByID(ctx context.Context, id string) error
}

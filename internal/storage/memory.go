package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sagehill-community/activities-backend/internal/models"
)

// MemoryActivityStore is an in-memory ActivityStore used by tests and for
// running the server without a MongoDB instance. It mirrors the Mongo
// store's behavior: FindByID returns (nil, nil) for missing or malformed
// ids, listings sort by created_at descending.
type MemoryActivityStore struct {
	mu         sync.Mutex
	activities map[string]*models.Activity
}

func NewMemoryActivityStore() *MemoryActivityStore {
	return &MemoryActivityStore{activities: make(map[string]*models.Activity)}
}

func (s *MemoryActivityStore) Find(ctx context.Context, filter Filter) ([]models.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Activity
	for _, a := range s.activities {
		if len(filter.Statuses) > 0 && !containsString(filter.Statuses, a.Status) {
			continue
		}
		if filter.CreatorUserID != "" && a.CreatorUserID != filter.CreatorUserID {
			continue
		}
		out = append(out, *a)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryActivityStore) FindByID(ctx context.Context, id string) (*models.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.activities[id]
	if !ok {
		return nil, nil
	}
	copied := *a
	copied.RSVPs = append([]models.RSVP(nil), a.RSVPs...)
	return &copied, nil
}

func (s *MemoryActivityStore) Create(ctx context.Context, activity *models.Activity) (*models.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if activity.ID.IsZero() {
		activity.ID = primitive.NewObjectID()
	}
	now := time.Now()
	activity.CreatedAt = now
	activity.UpdatedAt = now
	if activity.RSVPs == nil {
		activity.RSVPs = []models.RSVP{}
	}

	copied := *activity
	s.activities[activity.ID.Hex()] = &copied
	return activity, nil
}

func (s *MemoryActivityStore) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) (*models.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.activities[id]
	if !ok {
		return nil, nil
	}

	for k, v := range fields {
		switch k {
		case "title":
			a.Title = v.(string)
		case "body":
			a.Body = v.(string)
		case "date":
			a.Date = v.(time.Time)
		case "leader_name":
			a.LeaderName = v.(string)
		case "leader_user_id":
			a.LeaderUserID = v.(string)
		case "creator_user_id":
			a.CreatorUserID = v.(string)
		case "status":
			a.Status = v.(string)
		case "expire_at":
			a.ExpireAt = v.(time.Time)
		}
	}
	a.UpdatedAt = time.Now()

	copied := *a
	copied.RSVPs = append([]models.RSVP(nil), a.RSVPs...)
	return &copied, nil
}

func (s *MemoryActivityStore) PushRSVP(ctx context.Context, id string, entry models.RSVP) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.activities[id]
	if !ok {
		return nil // matches Mongo's no-matched-document update
	}
	a.RSVPs = append(a.RSVPs, entry)
	a.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryActivityStore) PullRSVP(ctx context.Context, id string, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.activities[id]
	if !ok {
		return nil
	}

	kept := a.RSVPs[:0]
	for _, r := range a.RSVPs {
		if r.Email != email {
			kept = append(kept, r)
		}
	}
	a.RSVPs = kept
	a.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryActivityStore) DeleteByID(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.activities, id)
	return nil
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

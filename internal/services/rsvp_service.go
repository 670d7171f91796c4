package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sagehill-community/activities-backend/internal/models"
	"github.com/sagehill-community/activities-backend/internal/storage"
)

// RSVPService owns the set of RSVPs attached to each activity: uniqueness
// per email, add/cancel, and the batch sign-up that the cart feeds.
//
// The duplicate check is read-then-push, not atomic: two concurrent
// sign-ups with the same email can both pass the check before either push
// lands. The store's last-write-wins semantics apply; there is no
// optimistic locking.
type RSVPService struct {
	store    storage.ActivityStore
	notifier Notifier
}

func NewRSVPService(store storage.ActivityStore, notifier Notifier) *RSVPService {
	return &RSVPService{store: store, notifier: notifier}
}

type RSVPInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// BatchResult reports the per-activity outcome of a batch sign-up. Outcomes
// maps each requested activity id to nil on success or its failure; Joined
// holds the activities actually signed up for, in request order.
type BatchResult struct {
	Joined   []models.Activity
	Outcomes map[string]error
}

// placeholderEmail is stored for RSVPs submitted without an email. It embeds
// the name, and entries carrying it are never deduplicated.
func placeholderEmail(name string) string {
	return fmt.Sprintf("%s (no email)", name)
}

// AddRsvp validates and appends one RSVP to a publicly visible activity,
// then sends a confirmation to the attendee. Duplicate emails are refused;
// blank emails get a placeholder and never collide.
func (s *RSVPService) AddRsvp(ctx context.Context, id string, in RSVPInput) (*models.Activity, error) {
	activity, err := s.addEntry(ctx, id, in)
	if err != nil {
		return nil, err
	}

	if email := strings.TrimSpace(in.Email); email != "" {
		notify(s.notifier, "You are signed up: "+activity.Title,
			ActivityDigestHTML("You are signed up for the following activity", []models.Activity{*activity}),
			[]string{email})
	}

	return activity, nil
}

// CancelRsvp removes the RSVP matching the given email. ErrRSVPNotFound is
// signaled when there is no match; the web layer still reports a generic
// success for that case.
func (s *RSVPService) CancelRsvp(ctx context.Context, id string, email string) error {
	activity, err := s.store.FindByID(ctx, id)
	if err != nil {
		return storageErr("find activity", err)
	}
	if activity == nil {
		return ErrNotFound
	}

	found := false
	for _, r := range activity.RSVPs {
		if r.Email == email {
			found = true
			break
		}
	}
	if !found {
		return ErrRSVPNotFound
	}

	if err := s.store.PullRSVP(ctx, id, email); err != nil {
		return storageErr("pull rsvp", err)
	}
	return nil
}

// BatchSignUp applies AddRsvp independently per activity: a duplicate on
// one does not stop the others. One aggregated confirmation covers every
// activity actually joined.
func (s *RSVPService) BatchSignUp(ctx context.Context, ids []string, in RSVPInput) (*BatchResult, error) {
	if len(ids) == 0 {
		return nil, &ValidationError{Field: "activities", Message: "Select at least one activity"}
	}

	result := &BatchResult{Outcomes: make(map[string]error, len(ids))}
	for _, id := range ids {
		activity, err := s.addEntry(ctx, id, in)
		result.Outcomes[id] = err
		if err == nil {
			result.Joined = append(result.Joined, *activity)
		}
	}

	if email := strings.TrimSpace(in.Email); email != "" && len(result.Joined) > 0 {
		notify(s.notifier, "You are signed up!",
			ActivityDigestHTML("You are signed up for the following activities", result.Joined),
			[]string{email})
	}

	return result, nil
}

// ListRsvps returns an activity's RSVPs in submission order. Restricted to
// an admin, the creator, or the leader.
func (s *RSVPService) ListRsvps(ctx context.Context, actor Actor, id string) ([]models.RSVP, error) {
	activity, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, storageErr("find activity", err)
	}
	if activity == nil {
		return nil, ErrNotFound
	}
	if !CanViewRSVPs(actor, activity) {
		return nil, ErrForbidden
	}
	return activity.RSVPs, nil
}

// addEntry performs the validated, deduplicated append shared by AddRsvp
// and BatchSignUp. It returns the activity the entry was added to.
func (s *RSVPService) addEntry(ctx context.Context, id string, in RSVPInput) (*models.Activity, error) {
	name := strings.TrimSpace(in.Name)
	phone := strings.TrimSpace(in.Phone)
	email := strings.TrimSpace(in.Email)

	if name == "" {
		return nil, &ValidationError{Field: "name", Message: "Name is required"}
	}
	if phone == "" {
		return nil, &ValidationError{Field: "phone", Message: "Phone is required"}
	}

	activity, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, storageErr("find activity", err)
	}
	// Invisible activities take no sign-ups and read as missing.
	if activity == nil || !PubliclyVisible(activity.Status) {
		return nil, ErrNotFound
	}

	// Exact, case-sensitive match; only real emails are checked, so entries
	// without one never collide.
	if email != "" {
		for _, r := range activity.RSVPs {
			if r.Email == email {
				return nil, ErrDuplicateRSVP
			}
		}
	}

	entry := models.RSVP{Name: name, Email: email, Phone: phone}
	if entry.Email == "" {
		entry.Email = placeholderEmail(name)
	}

	if err := s.store.PushRSVP(ctx, id, entry); err != nil {
		return nil, storageErr("push rsvp", err)
	}

	activity.RSVPs = append(activity.RSVPs, entry)
	return activity, nil
}

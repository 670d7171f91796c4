package services

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/sagehill-community/activities-backend/internal/models"
	"github.com/sagehill-community/activities-backend/internal/storage"
)

// activityExpiry is how long after its occurrence date an activity sticks
// around before the TTL cleanup may remove it.
const activityExpiry = 24 * time.Hour

// UserResolver looks up users referenced by activities. References are weak:
// a lookup that finds nothing returns (nil, nil), never an error.
type UserResolver interface {
	UserByID(ctx context.Context, id string) (*models.User, error)
	UserByUsername(ctx context.Context, username string) (*models.User, error)
	AdminEmails(ctx context.Context) ([]string, error)
}

// ActivityService owns the publication lifecycle: which states exist, who
// may transition them, and who may see what. The store is the single source
// of truth; the service keeps no state of its own.
type ActivityService struct {
	store    storage.ActivityStore
	users    UserResolver
	notifier Notifier

	// fallbackAdminEmails is used when no admin user has an email on file.
	fallbackAdminEmails []string
}

func NewActivityService(store storage.ActivityStore, users UserResolver, notifier Notifier, fallbackAdminEmails []string) *ActivityService {
	return &ActivityService{
		store:               store,
		users:               users,
		notifier:            notifier,
		fallbackAdminEmails: fallbackAdminEmails,
	}
}

type CreateActivityInput struct {
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	Date       time.Time `json:"date"`
	LeaderName string    `json:"leader_name"`

	// LeaderUsername optionally links the leader to a registered user. It
	// must resolve, or creation is blocked with ErrInvalidReference.
	LeaderUsername string `json:"leader_username,omitempty"`
}

type EditActivityInput struct {
	Title          string    `json:"title"`
	Body           string    `json:"body"`
	Date           time.Time `json:"date"`
	LeaderName     string    `json:"leader_name"`
	LeaderUsername string    `json:"leader_username,omitempty"`
}

// Create validates the input and stores a new activity. An admin's activity
// is published immediately; anyone else's starts unpublished and under
// review, and the admins are notified that a submission is waiting.
func (s *ActivityService) Create(ctx context.Context, actor Actor, in CreateActivityInput) (*models.Activity, error) {
	if !actor.Authenticated {
		return nil, ErrForbidden
	}

	in.Title = strings.TrimSpace(in.Title)
	in.Body = strings.TrimSpace(in.Body)
	in.LeaderName = strings.TrimSpace(in.LeaderName)

	if in.Title == "" {
		return nil, &ValidationError{Field: "title", Message: "Title is required"}
	}
	if in.Body == "" {
		return nil, &ValidationError{Field: "body", Message: "Description is required"}
	}
	if in.Date.IsZero() {
		return nil, &ValidationError{Field: "date", Message: "Date is required"}
	}

	leaderUserID, leaderName, err := s.resolveLeader(ctx, in.LeaderUsername, in.LeaderName)
	if err != nil {
		return nil, err
	}

	status := models.StatusUnpublishedUnderReview
	if actor.IsAdmin {
		status = models.StatusPublished
	}

	activity := &models.Activity{
		Title:         in.Title,
		Body:          in.Body,
		Date:          in.Date,
		LeaderName:    leaderName,
		LeaderUserID:  leaderUserID,
		CreatorUserID: actor.UserID,
		Status:        status,
		ExpireAt:      in.Date.Add(activityExpiry),
	}

	created, err := s.store.Create(ctx, activity)
	if err != nil {
		return nil, storageErr("create activity", err)
	}

	if !actor.IsAdmin {
		notify(s.notifier,
			"New activity awaiting review: "+created.Title,
			ActivityDigestHTML("A new activity is awaiting review", []models.Activity{*created}),
			s.adminRecipients(ctx))
	}

	return created, nil
}

// Get returns a single activity, subject to the visibility predicate. An
// invisible activity reads as missing rather than forbidden.
func (s *ActivityService) Get(ctx context.Context, actor Actor, id string) (*models.Activity, error) {
	activity, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, storageErr("find activity", err)
	}
	if activity == nil || !CanView(actor, activity) {
		return nil, ErrNotFound
	}
	return activity, nil
}

// List returns the public listing used by the landing page, the sign-up
// page, and the email digests. Unpublished activities never appear here,
// regardless of who asks.
func (s *ActivityService) List(ctx context.Context) ([]models.Activity, error) {
	activities, err := s.store.Find(ctx, storage.Filter{
		Statuses: []string{models.StatusPublished, models.StatusPublishedUnderReview},
	})
	if err != nil {
		return nil, storageErr("list activities", err)
	}
	return activities, nil
}

// ListByCreator returns one user's activities. The creator (and any admin)
// sees all of them including unpublished submissions; everyone else gets
// only the publicly visible subset.
func (s *ActivityService) ListByCreator(ctx context.Context, actor Actor, creatorUserID string) ([]models.Activity, error) {
	filter := storage.Filter{CreatorUserID: creatorUserID}
	if !actor.IsAdmin && !(actor.Authenticated && actor.UserID == creatorUserID) {
		filter.Statuses = []string{models.StatusPublished, models.StatusPublishedUnderReview}
	}

	activities, err := s.store.Find(ctx, filter)
	if err != nil {
		return nil, storageErr("list activities", err)
	}
	return activities, nil
}

// PendingReview returns the admin review queue: every activity in either
// under-review state.
func (s *ActivityService) PendingReview(ctx context.Context, actor Actor) ([]models.Activity, error) {
	if !CanModerate(actor) {
		return nil, ErrForbidden
	}

	activities, err := s.store.Find(ctx, storage.Filter{
		Statuses: []string{models.StatusUnpublishedUnderReview, models.StatusPublishedUnderReview},
	})
	if err != nil {
		return nil, storageErr("list activities", err)
	}
	return activities, nil
}

// Approve publishes an activity that is under review and notifies the
// creator and the admins. Approving an already-published activity is a
// no-op returning the unchanged activity.
func (s *ActivityService) Approve(ctx context.Context, actor Actor, id string) (*models.Activity, error) {
	if !CanModerate(actor) {
		return nil, ErrForbidden
	}

	activity, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, storageErr("find activity", err)
	}
	if activity == nil {
		return nil, ErrNotFound
	}
	if activity.Status == models.StatusPublished {
		return activity, nil
	}

	updated, err := s.store.UpdateFields(ctx, id, map[string]interface{}{
		"status": models.StatusPublished,
	})
	if err != nil {
		return nil, storageErr("update activity", err)
	}
	if updated == nil {
		return nil, ErrNotFound
	}

	body := ActivityDigestHTML("Your activity has been approved and is now published", []models.Activity{*updated})
	notify(s.notifier, "Activity approved: "+updated.Title, body, s.creatorRecipient(ctx, updated))
	notify(s.notifier, "Activity approved: "+updated.Title,
		ActivityDigestHTML("An activity was approved", []models.Activity{*updated}),
		s.adminRecipients(ctx))

	return updated, nil
}

// Reject deletes an activity that is under review and sends the creator the
// admin's feedback. A published activity cannot be rejected.
func (s *ActivityService) Reject(ctx context.Context, actor Actor, id string, feedback string) error {
	if !CanModerate(actor) {
		return ErrForbidden
	}

	activity, err := s.store.FindByID(ctx, id)
	if err != nil {
		return storageErr("find activity", err)
	}
	if activity == nil {
		return ErrNotFound
	}
	if activity.Status == models.StatusPublished {
		return &ValidationError{Field: "status", Message: "A published activity cannot be rejected"}
	}

	if err := s.store.DeleteByID(ctx, id); err != nil {
		return storageErr("delete activity", err)
	}

	notify(s.notifier, "Your activity was not approved: "+activity.Title,
		RejectionHTML(*activity, feedback),
		s.creatorRecipient(ctx, activity))

	return nil
}

// Edit updates title/body/date/leader. An admin's edit publishes the result;
// a creator may edit only while the activity is publicly visible, and the
// result goes back under review (still visible) until re-approved.
func (s *ActivityService) Edit(ctx context.Context, actor Actor, id string, in EditActivityInput) (*models.Activity, error) {
	activity, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, storageErr("find activity", err)
	}
	if activity == nil {
		return nil, ErrNotFound
	}
	if !CanEdit(actor, activity) {
		return nil, ErrForbidden
	}

	fields := map[string]interface{}{}
	if title := strings.TrimSpace(in.Title); title != "" {
		fields["title"] = title
	}
	if body := strings.TrimSpace(in.Body); body != "" {
		fields["body"] = body
	}
	if !in.Date.IsZero() {
		fields["date"] = in.Date
		fields["expire_at"] = in.Date.Add(activityExpiry)
	}
	if in.LeaderUsername != "" || strings.TrimSpace(in.LeaderName) != "" {
		leaderUserID, leaderName, err := s.resolveLeader(ctx, in.LeaderUsername, strings.TrimSpace(in.LeaderName))
		if err != nil {
			return nil, err
		}
		fields["leader_name"] = leaderName
		fields["leader_user_id"] = leaderUserID
	}

	// Non-admin edits always land back under review.
	if actor.IsAdmin {
		fields["status"] = models.StatusPublished
	} else {
		fields["status"] = models.StatusPublishedUnderReview
	}

	updated, err := s.store.UpdateFields(ctx, id, fields)
	if err != nil {
		return nil, storageErr("update activity", err)
	}
	if updated == nil {
		return nil, ErrNotFound
	}

	if !actor.IsAdmin {
		notify(s.notifier, "Activity edited and awaiting review: "+updated.Title,
			ActivityDigestHTML("An edited activity is awaiting review", []models.Activity{*updated}),
			s.adminRecipients(ctx))
	}

	return updated, nil
}

// Delete removes an activity and, with it, every RSVP it holds.
func (s *ActivityService) Delete(ctx context.Context, actor Actor, id string) error {
	activity, err := s.store.FindByID(ctx, id)
	if err != nil {
		return storageErr("find activity", err)
	}
	if activity == nil {
		return ErrNotFound
	}
	if !CanDelete(actor, activity) {
		return ErrForbidden
	}

	if err := s.store.DeleteByID(ctx, id); err != nil {
		return storageErr("delete activity", err)
	}
	return nil
}

// resolveLeader turns an optional leader username into a user reference.
// When a username is given it must resolve; the resolved user's name fills
// in a blank display name. With no username, the display name is required.
func (s *ActivityService) resolveLeader(ctx context.Context, username, leaderName string) (leaderUserID, displayName string, err error) {
	if username == "" {
		if leaderName == "" {
			return "", "", &ValidationError{Field: "leader_name", Message: "Leader name is required"}
		}
		return "", leaderName, nil
	}

	user, err := s.users.UserByUsername(ctx, username)
	if err != nil {
		return "", "", storageErr("resolve leader", err)
	}
	if user == nil {
		return "", "", ErrInvalidReference
	}

	if leaderName == "" {
		leaderName = user.Name
	}
	return user.ID.String(), leaderName, nil
}

// creatorRecipient resolves the creator's email, or nothing when the user
// is gone or has no email on file.
func (s *ActivityService) creatorRecipient(ctx context.Context, activity *models.Activity) []string {
	user, err := s.users.UserByID(ctx, activity.CreatorUserID)
	if err != nil {
		log.Printf("WARNING: failed to resolve creator %s: %v", activity.CreatorUserID, err)
		return nil
	}
	if user == nil || user.Email == "" {
		return nil
	}
	return []string{user.Email}
}

// adminRecipients returns the emails of every admin user, falling back to
// the configured ADMIN_EMAILS list when none has an email on file.
func (s *ActivityService) adminRecipients(ctx context.Context) []string {
	emails, err := s.users.AdminEmails(ctx)
	if err != nil {
		log.Printf("WARNING: failed to load admin emails: %v", err)
	}
	if len(emails) == 0 {
		return s.fallbackAdminEmails
	}
	return emails
}

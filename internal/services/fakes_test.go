package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/sagehill-community/activities-backend/internal/models"
	"github.com/sagehill-community/activities-backend/internal/storage"
)

type sentEmail struct {
	Subject    string
	Body       string
	Recipients []string
}

// recordingNotifier captures outbound email instead of sending it.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentEmail
	err  error
}

func (n *recordingNotifier) Send(subject, htmlBody string, recipients []string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, sentEmail{Subject: subject, Body: htmlBody, Recipients: recipients})
	return nil
}

func (n *recordingNotifier) sentTo(email string) []sentEmail {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []sentEmail
	for _, s := range n.sent {
		for _, r := range s.Recipients {
			if r == email {
				out = append(out, s)
			}
		}
	}
	return out
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

// fakeResolver resolves users from fixed maps, like the Postgres-backed
// resolver but without a database.
type fakeResolver struct {
	users  map[string]*models.User // by id
	admins []string
}

func (f *fakeResolver) UserByID(ctx context.Context, id string) (*models.User, error) {
	return f.users[id], nil
}

func (f *fakeResolver) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeResolver) AdminEmails(ctx context.Context) ([]string, error) {
	return f.admins, nil
}

// testEnv wires the services against the in-memory store with two fixed
// users: an admin and a regular member.
type testEnv struct {
	store      *storage.MemoryActivityStore
	notifier   *recordingNotifier
	resolver   *fakeResolver
	activities *ActivityService
	rsvps      *RSVPService

	admin  Actor
	member Actor

	adminUser  *models.User
	memberUser *models.User
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	adminUser := &models.User{
		ID:       uuid.New(),
		Name:     "Ada Admin",
		Username: "ada",
		Email:    "ada@example.com",
		Phone:    "555-0100",
		IsAdmin:  true,
	}
	memberUser := &models.User{
		ID:       uuid.New(),
		Name:     "Morgan Member",
		Username: "morgan",
		Email:    "morgan@example.com",
		Phone:    "555-0101",
	}

	resolver := &fakeResolver{
		users: map[string]*models.User{
			adminUser.ID.String():  adminUser,
			memberUser.ID.String(): memberUser,
		},
		admins: []string{adminUser.Email},
	}

	store := storage.NewMemoryActivityStore()
	notifier := &recordingNotifier{}

	return &testEnv{
		store:      store,
		notifier:   notifier,
		resolver:   resolver,
		activities: NewActivityService(store, resolver, notifier, nil),
		rsvps:      NewRSVPService(store, notifier),
		admin: Actor{
			Authenticated: true,
			UserID:        adminUser.ID.String(),
			IsAdmin:       true,
			Email:         adminUser.Email,
		},
		member: Actor{
			Authenticated: true,
			UserID:        memberUser.ID.String(),
			Email:         memberUser.Email,
		},
		adminUser:  adminUser,
		memberUser: memberUser,
	}
}

func validActivityInput(title string) CreateActivityInput {
	return CreateActivityInput{
		Title:      title,
		Body:       "An afternoon get-together.",
		Date:       time.Now().Add(48 * time.Hour),
		LeaderName: "Pat Leader",
	}
}

func (e *testEnv) createAs(t *testing.T, actor Actor, title string) *models.Activity {
	t.Helper()
	activity, err := e.activities.Create(context.Background(), actor, validActivityInput(title))
	if err != nil {
		t.Fatalf("Create(%q) error = %v", title, err)
	}
	return activity
}

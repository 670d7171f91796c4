package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagehill-community/activities-backend/internal/config"
	"github.com/sagehill-community/activities-backend/internal/middleware"
	"github.com/sagehill-community/activities-backend/internal/models"
	"github.com/sagehill-community/activities-backend/internal/services"
	"github.com/sagehill-community/activities-backend/internal/storage"
)

// stubResolver satisfies the user lookup without a database; the handler
// tests never exercise leader references or admin email resolution.
type stubResolver struct{}

func (stubResolver) UserByID(ctx context.Context, id string) (*models.User, error)             { return nil, nil }
func (stubResolver) UserByUsername(ctx context.Context, username string) (*models.User, error) { return nil, nil }
func (stubResolver) AdminEmails(ctx context.Context) ([]string, error)                         { return nil, nil }

type discardNotifier struct{}

func (discardNotifier) Send(subject, htmlBody string, recipients []string) error { return nil }

var (
	testAdmin  = services.Actor{Authenticated: true, UserID: "admin-1", IsAdmin: true, Email: "ada@example.com"}
	testMember = services.Actor{Authenticated: true, UserID: "member-1", Email: "morgan@example.com"}
)

// newTestServer wires the handler package against the in-memory store and a
// router whose middleware trusts the X-Test-Actor header instead of Redis
// sessions.
func newTestServer(t *testing.T) (*httptest.Server, *storage.MemoryActivityStore) {
	t.Helper()

	store := storage.NewMemoryActivityStore()
	activitySvc := services.NewActivityService(store, stubResolver{}, discardNotifier{}, nil)
	rsvpSvc := services.NewRSVPService(store, discardNotifier{})

	Init(&config.Config{}, activitySvc, rsvpSvc, nil, discardNotifier{})

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			actor := services.Anonymous
			switch req.Header.Get("X-Test-Actor") {
			case "admin":
				actor = testAdmin
			case "member":
				actor = testMember
			}
			next.ServeHTTP(w, req.WithContext(middleware.WithActor(req.Context(), actor)))
		})
	})

	r.Get("/api/activities", ListActivities)
	r.Post("/api/activities", CreateActivity)
	r.Get("/api/activities/{id}", GetActivity)
	r.Put("/api/activities/{id}", UpdateActivity)
	r.Delete("/api/activities/{id}", DeleteActivity)
	r.Post("/api/activities/{id}/rsvps", AddRSVP)
	r.Delete("/api/activities/{id}/rsvps", CancelRSVP)
	r.Get("/api/activities/{id}/rsvps", ListRSVPs)
	r.Post("/api/sign-up", BatchSignUp)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, store
}

func doJSON(t *testing.T, srv *httptest.Server, method, path, actor string, payload interface{}) (*http.Response, Response) {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	req, err := http.NewRequest(method, srv.URL+path, &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if actor != "" {
		req.Header.Set("X-Test-Actor", actor)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var envelope Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return resp, envelope
}

func activityPayload(title string) map[string]interface{} {
	return map[string]interface{}{
		"title":       title,
		"body":        "An afternoon get-together.",
		"date":        time.Now().Add(48 * time.Hour).Format(time.RFC3339),
		"leader_name": "Pat Leader",
	}
}

func createActivity(t *testing.T, srv *httptest.Server, actor, title string) string {
	t.Helper()
	resp, envelope := doJSON(t, srv, http.MethodPost, "/api/activities", actor, activityPayload(title))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.True(t, envelope.Success)
	data := envelope.Data.(map[string]interface{})
	return data["id"].(string)
}

func TestCreateActivityEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	t.Run("admin publishes immediately", func(t *testing.T) {
		resp, envelope := doJSON(t, srv, http.MethodPost, "/api/activities", "admin", activityPayload("Trail Cleanup"))
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.Equal(t, "Your activity is published", envelope.Message)
		data := envelope.Data.(map[string]interface{})
		assert.Equal(t, "published", data["status"])
	})

	t.Run("member submission goes under review", func(t *testing.T) {
		resp, envelope := doJSON(t, srv, http.MethodPost, "/api/activities", "member", activityPayload("Book Swap"))
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.Equal(t, "Your activity has been submitted for review", envelope.Message)
		data := envelope.Data.(map[string]interface{})
		assert.Equal(t, "unpublished_under_review", data["status"])
	})

	t.Run("anonymous is refused", func(t *testing.T) {
		resp, envelope := doJSON(t, srv, http.MethodPost, "/api/activities", "", activityPayload("Sneaky"))
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.False(t, envelope.Success)
	})

	t.Run("validation failure", func(t *testing.T) {
		payload := activityPayload("")
		resp, envelope := doJSON(t, srv, http.MethodPost, "/api/activities", "admin", payload)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Title is required", envelope.Message)
	})
}

func TestActivityVisibilityEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)
	publishedID := createActivity(t, srv, "admin", "Trail Cleanup")
	pendingID := createActivity(t, srv, "member", "Book Swap")

	t.Run("public listing excludes unpublished", func(t *testing.T) {
		resp, envelope := doJSON(t, srv, http.MethodGet, "/api/activities", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		items := envelope.Data.([]interface{})
		require.Len(t, items, 1)
		assert.Equal(t, "Trail Cleanup", items[0].(map[string]interface{})["title"])
	})

	t.Run("anonymous fetch of unpublished reads as missing", func(t *testing.T) {
		resp, _ := doJSON(t, srv, http.MethodGet, "/api/activities/"+pendingID, "", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("creator may fetch their unpublished submission", func(t *testing.T) {
		resp, envelope := doJSON(t, srv, http.MethodGet, "/api/activities/"+pendingID, "member", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.True(t, envelope.Success)
	})

	t.Run("published is visible to everyone", func(t *testing.T) {
		resp, _ := doJSON(t, srv, http.MethodGet, "/api/activities/"+publishedID, "", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("stranger cannot edit", func(t *testing.T) {
		resp, _ := doJSON(t, srv, http.MethodPut, "/api/activities/"+publishedID, "member",
			map[string]interface{}{"title": "Hijacked"})
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("missing id", func(t *testing.T) {
		resp, _ := doJSON(t, srv, http.MethodGet, "/api/activities/000000000000000000000000", "", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestRSVPEndpoints(t *testing.T) {
	srv, store := newTestServer(t)
	id := createActivity(t, srv, "admin", "Trail Cleanup")

	rsvp := map[string]interface{}{"name": "Riley Fox", "email": "riley@example.com", "phone": "555-0199"}

	t.Run("sign up", func(t *testing.T) {
		resp, envelope := doJSON(t, srv, http.MethodPost, fmt.Sprintf("/api/activities/%s/rsvps", id), "", rsvp)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.Equal(t, "You are signed up!", envelope.Message)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		resp, envelope := doJSON(t, srv, http.MethodPost, fmt.Sprintf("/api/activities/%s/rsvps", id), "", rsvp)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.False(t, envelope.Success)
	})

	t.Run("attendee list is restricted", func(t *testing.T) {
		resp, _ := doJSON(t, srv, http.MethodGet, fmt.Sprintf("/api/activities/%s/rsvps", id), "", nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		resp, envelope := doJSON(t, srv, http.MethodGet, fmt.Sprintf("/api/activities/%s/rsvps", id), "admin", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Len(t, envelope.Data.([]interface{}), 1)
	})

	t.Run("cancel is idempotent to the caller", func(t *testing.T) {
		resp, envelope := doJSON(t, srv, http.MethodDelete, fmt.Sprintf("/api/activities/%s/rsvps", id), "",
			map[string]interface{}{"email": "riley@example.com"})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "Your RSVP has been canceled", envelope.Message)

		resp, envelope = doJSON(t, srv, http.MethodDelete, fmt.Sprintf("/api/activities/%s/rsvps", id), "",
			map[string]interface{}{"email": "riley@example.com"})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.True(t, envelope.Success)
		assert.Equal(t, "No RSVP with that email was found", envelope.Message)

		stored, err := store.FindByID(context.Background(), id)
		require.NoError(t, err)
		assert.Empty(t, stored.RSVPs)
	})
}

func TestBatchSignUpEndpoint(t *testing.T) {
	srv, store := newTestServer(t)
	first := createActivity(t, srv, "admin", "Trail Cleanup")
	second := createActivity(t, srv, "admin", "Book Swap")

	// Occupy the email on the first activity.
	_, envelope := doJSON(t, srv, http.MethodPost, fmt.Sprintf("/api/activities/%s/rsvps", first), "",
		map[string]interface{}{"name": "Riley Fox", "email": "riley@example.com", "phone": "555-0199"})
	require.True(t, envelope.Success)

	resp, envelope := doJSON(t, srv, http.MethodPost, "/api/sign-up", "", map[string]interface{}{
		"name":         "Riley Fox",
		"email":        "riley@example.com",
		"phone":        "555-0199",
		"activity_ids": []string{first, second},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, envelope.Success)

	data := envelope.Data.(map[string]interface{})
	joined := data["joined"].([]interface{})
	failures := data["failures"].(map[string]interface{})
	require.Len(t, joined, 1)
	assert.Equal(t, "Book Swap", joined[0].(map[string]interface{})["title"])
	assert.Contains(t, failures, first)

	stored, err := store.FindByID(context.Background(), second)
	require.NoError(t, err)
	assert.Len(t, stored.RSVPs, 1)
}

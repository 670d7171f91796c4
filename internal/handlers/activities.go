package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sagehill-community/activities-backend/internal/middleware"
	"github.com/sagehill-community/activities-backend/internal/services"
)

// ListActivities is the public listing used by the landing and sign-up
// pages: published and published-under-review only, newest first.
func ListActivities(w http.ResponseWriter, r *http.Request) {
	activities, err := activitySvc.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, activities)
}

// GetActivity returns one activity, subject to the visibility rules.
func GetActivity(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())
	activity, err := activitySvc.Get(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, activity)
}

// CreateActivity submits a new activity. Admin submissions publish
// immediately; everyone else's go to the review queue.
func CreateActivity(w http.ResponseWriter, r *http.Request) {
	var req services.CreateActivityInput
	if !decodeBody(w, r, &req) {
		return
	}

	actor := middleware.ActorFromContext(r.Context())
	activity, err := activitySvc.Create(r.Context(), actor, req)
	if err != nil {
		writeError(w, err)
		return
	}

	message := "Your activity is published"
	if !actor.IsAdmin {
		message = "Your activity has been submitted for review"
	}
	writeJSON(w, http.StatusCreated, Response{Success: true, Message: message, Data: activity})
}

// UpdateActivity edits title/body/date/leader.
func UpdateActivity(w http.ResponseWriter, r *http.Request) {
	var req services.EditActivityInput
	if !decodeBody(w, r, &req) {
		return
	}

	actor := middleware.ActorFromContext(r.Context())
	activity, err := activitySvc.Edit(r.Context(), actor, chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Message: "Activity updated", Data: activity})
}

// DeleteActivity removes an activity (admin or creator).
func DeleteActivity(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())
	if err := activitySvc.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Message: "Activity deleted"})
}

// MyActivities lists the logged-in user's own activities, including those
// still unpublished.
func MyActivities(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())
	if !actor.Authenticated {
		writeJSON(w, http.StatusUnauthorized, Response{Success: false, Message: "Not logged in"})
		return
	}

	activities, err := activitySvc.ListByCreator(r.Context(), actor, actor.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, activities)
}

// UserActivities lists another user's activities; non-owners see only the
// publicly visible ones.
func UserActivities(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())
	activities, err := activitySvc.ListByCreator(r.Context(), actor, chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, activities)
}

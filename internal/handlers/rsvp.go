package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sagehill-community/activities-backend/internal/middleware"
	"github.com/sagehill-community/activities-backend/internal/services"
)

type CancelRSVPRequest struct {
	Email string `json:"email"`
}

type BatchSignUpRequest struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone"`

	// ActivityIDs is optional; when empty the visitor's cart is used.
	ActivityIDs []string `json:"activity_ids,omitempty"`
}

// AddRSVP signs one person up for one activity.
func AddRSVP(w http.ResponseWriter, r *http.Request) {
	var req services.RSVPInput
	if !decodeBody(w, r, &req) {
		return
	}

	activity, err := rsvpSvc.AddRsvp(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, Response{Success: true, Message: "You are signed up!", Data: activity})
}

// CancelRSVP removes the RSVP matching the given email. A missing RSVP is
// reported as a success with a different message, matching the generic
// confirmation the site has always shown.
func CancelRSVP(w http.ResponseWriter, r *http.Request) {
	var req CancelRSVPRequest
	if !decodeBody(w, r, &req) {
		return
	}

	err := rsvpSvc.CancelRsvp(r.Context(), chi.URLParam(r, "id"), req.Email)
	if errors.Is(err, services.ErrRSVPNotFound) {
		writeJSON(w, http.StatusOK, Response{Success: true, Message: "No RSVP with that email was found"})
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Message: "Your RSVP has been canceled"})
}

// ListRSVPs returns the attendee list (admin, creator, or leader only).
func ListRSVPs(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())
	rsvps, err := rsvpSvc.ListRsvps(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, rsvps)
}

// BatchSignUp signs one person up for several activities at once, taken
// from the request or from the visitor's cart. Each activity is attempted
// independently; the cart is cleared only when every attempt succeeded.
func BatchSignUp(w http.ResponseWriter, r *http.Request) {
	var req BatchSignUpRequest
	if !decodeBody(w, r, &req) {
		return
	}

	session := middleware.CartSession(r)
	ids := req.ActivityIDs
	if len(ids) == 0 && session != "" {
		items, err := services.GetCart(r.Context(), session)
		if err != nil {
			writeError(w, err)
			return
		}
		for _, item := range items {
			ids = append(ids, item.ActivityID)
		}
	}

	result, err := rsvpSvc.BatchSignUp(r.Context(), ids, services.RSVPInput{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	failures := map[string]string{}
	for id, outcome := range result.Outcomes {
		if outcome != nil {
			failures[id] = outcome.Error()
		}
	}

	if session != "" && len(failures) == 0 {
		if err := services.ClearCart(r.Context(), session); err != nil {
			writeError(w, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "You are successfully signed up!",
		Data: map[string]interface{}{
			"joined":   result.Joined,
			"failures": failures,
		},
	})
}

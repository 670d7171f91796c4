package handlers

import (
	"net/http"

	"github.com/sagehill-community/activities-backend/internal/middleware"
	"github.com/sagehill-community/activities-backend/internal/services"
)

type CartAddRequest struct {
	ActivityID string `json:"id"`
	Title      string `json:"title"`
}

type CartRemoveRequest struct {
	ActivityID string `json:"id"`
}

func requireCartSession(w http.ResponseWriter, r *http.Request) (string, bool) {
	session := middleware.CartSession(r)
	if session == "" {
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Message: "No session; supply X-Cart-Session or log in"})
		return "", false
	}
	return session, true
}

// GetCart returns the visitor's sign-up cart.
func GetCart(w http.ResponseWriter, r *http.Request) {
	session, ok := requireCartSession(w, r)
	if !ok {
		return
	}

	items, err := services.GetCart(r.Context(), session)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, items)
}

// AddToCart adds an activity to the cart; re-adding is a silent success.
func AddToCart(w http.ResponseWriter, r *http.Request) {
	session, ok := requireCartSession(w, r)
	if !ok {
		return
	}

	var req CartAddRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ActivityID == "" {
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Message: "Activity id is required"})
		return
	}

	items, err := services.AddToCart(r.Context(), session, req.ActivityID, req.Title)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Message: "Added to your sign-up cart", Data: items})
}

// RemoveFromCart removes an activity from the cart; removing an absent one
// is reported as already-absent, not an error.
func RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	session, ok := requireCartSession(w, r)
	if !ok {
		return
	}

	var req CartRemoveRequest
	if !decodeBody(w, r, &req) {
		return
	}

	items, removed, err := services.RemoveFromCart(r.Context(), session, req.ActivityID)
	if err != nil {
		writeError(w, err)
		return
	}

	message := "Removed from your sign-up cart"
	if !removed {
		message = "That activity was not in your sign-up cart"
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Message: message, Data: items})
}

package handlers

import (
	"net/http"

	"github.com/sagehill-community/activities-backend/internal/middleware"
	"github.com/sagehill-community/activities-backend/internal/services"
)

type RegisterRequest struct {
	Name      string `json:"name"`
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
	Signature string `json:"signature"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register handles account creation. Email is optional but strongly
// recommended (it is how approval and RSVP mail reaches the user).
func Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.Password != req.Password2 {
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Message: "Passwords do not match"})
		return
	}

	user, err := userSvc.Register(r.Context(), services.RegisterInput{
		Name:      req.Name,
		Username:  req.Username,
		Email:     req.Email,
		Phone:     req.Phone,
		Password:  req.Password,
		Signature: req.Signature,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "You are now registered and can log in",
		Data:    user,
	})
}

// Login verifies credentials and opens a Redis-backed session. The token
// doubles as the sign-up cart key.
func Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.Username == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Message: "Username and password are required"})
		return
	}

	user, err := userSvc.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	token, err := services.CreateSession(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Login successful",
		Data: map[string]interface{}{
			"user":  user,
			"token": token,
		},
	})
}

// Logout invalidates the session; the session's cart is destroyed with it.
func Logout(w http.ResponseWriter, r *http.Request) {
	token := middleware.SessionToken(r)
	if err := services.InvalidateSession(r.Context(), token); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Message: "You are logged out"})
}

// Me returns the logged-in user's account.
func Me(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())
	if !actor.Authenticated {
		writeJSON(w, http.StatusUnauthorized, Response{Success: false, Message: "Not logged in"})
		return
	}

	user, err := userSvc.UserByID(r.Context(), actor.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	if user == nil {
		writeJSON(w, http.StatusUnauthorized, Response{Success: false, Message: "Not logged in"})
		return
	}
	writeData(w, user)
}

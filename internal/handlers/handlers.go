package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sagehill-community/activities-backend/internal/config"
	"github.com/sagehill-community/activities-backend/internal/services"
)

// Shared service instances, wired from main. Mirrors how the upload service
// is initialized once and used by package-level handler funcs.
var (
	activitySvc *services.ActivityService
	rsvpSvc     *services.RSVPService
	userSvc     *services.UserService
	notifier    services.Notifier
	adminExtras []string
)

// Init wires the handler package's services. Must be called before any
// route is served.
func Init(cfg *config.Config, activities *services.ActivityService, rsvps *services.RSVPService, users *services.UserService, n services.Notifier) {
	activitySvc = activities
	rsvpSvc = rsvps
	userSvc = users
	notifier = n
	adminExtras = cfg.AdminEmails
}

// Response is the JSON envelope every endpoint answers with.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

func writeData(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, Response{Success: true, Data: data})
}

// writeError maps the domain error taxonomy onto HTTP statuses. Anything
// unrecognized (storage failures included) is a 500 with a generic message.
func writeError(w http.ResponseWriter, err error) {
	var validation *services.ValidationError
	switch {
	case errors.Is(err, services.ErrNotFound):
		writeJSON(w, http.StatusNotFound, Response{Success: false, Message: "Not found"})
	case errors.Is(err, services.ErrForbidden):
		writeJSON(w, http.StatusForbidden, Response{Success: false, Message: "You do not have permission to do that"})
	case errors.Is(err, services.ErrDuplicateRSVP):
		writeJSON(w, http.StatusConflict, Response{Success: false, Message: err.Error()})
	case errors.Is(err, services.ErrInvalidReference):
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Message: err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, Response{Success: false, Message: err.Error()})
	case errors.As(err, &validation):
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Message: validation.Message})
	default:
		writeJSON(w, http.StatusInternalServerError, Response{Success: false, Message: "We're sorry. Something went wrong."})
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Message: "Invalid request body"})
		return false
	}
	return true
}

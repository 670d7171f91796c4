package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sagehill-community/activities-backend/internal/middleware"
	"github.com/sagehill-community/activities-backend/internal/services"
)

type RejectRequest struct {
	Feedback string `json:"feedback"`
}

// PendingActivities returns the admin review queue.
func PendingActivities(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())
	activities, err := activitySvc.PendingReview(r.Context(), actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, activities)
}

// ApproveActivity publishes an activity under review.
func ApproveActivity(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())
	activity, err := activitySvc.Approve(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Message: "Activity approved", Data: activity})
}

// RejectActivity deletes an activity under review and mails the creator the
// reviewer's feedback.
func RejectActivity(w http.ResponseWriter, r *http.Request) {
	var req RejectRequest
	if !decodeBody(w, r, &req) {
		return
	}

	actor := middleware.ActorFromContext(r.Context())
	if err := activitySvc.Reject(r.Context(), actor, chi.URLParam(r, "id"), req.Feedback); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Message: "Activity rejected"})
}

type QuestionRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Question string `json:"question"`
}

type AnswerRequest struct {
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Answer  string `json:"answer"`
}

// SubmitQuestion forwards a visitor's question to the admins by email.
func SubmitQuestion(w http.ResponseWriter, r *http.Request) {
	var req QuestionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Question = strings.TrimSpace(req.Question)
	if req.Name == "" || req.Email == "" || req.Question == "" {
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Message: "Name, email, and question are required"})
		return
	}

	recipients, err := userSvc.AdminEmails(r.Context())
	if err != nil || len(recipients) == 0 {
		recipients = adminExtras
	}
	if len(recipients) == 0 {
		writeJSON(w, http.StatusServiceUnavailable, Response{Success: false, Message: "Questions cannot be delivered right now"})
		return
	}

	if err := notifier.Send("New question from "+req.Name, services.QuestionHTML(req.Name, req.Email, req.Question), recipients); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Message: "Your question has been sent"})
}

// AnswerQuestion mails an admin's answer back to the asker.
func AnswerQuestion(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())
	if !actor.IsAdmin {
		writeError(w, services.ErrForbidden)
		return
	}

	var req AnswerRequest
	if !decodeBody(w, r, &req) {
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	req.Answer = strings.TrimSpace(req.Answer)
	if req.Email == "" || req.Answer == "" {
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Message: "Email and answer are required"})
		return
	}

	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		subject = "An answer to your question"
	}

	if err := notifier.Send(subject, services.AnswerHTML(req.Answer), []string{req.Email}); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Message: "Answer sent"})
}

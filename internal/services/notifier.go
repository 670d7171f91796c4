package services

import (
	"fmt"
	"html"
	"log"
	"strings"
	"time"

	"github.com/sagehill-community/activities-backend/internal/models"
)

// Notifier is the outbound email port. Delivery is best-effort: callers log
// failures and never roll back a state transition because an email bounced.
type Notifier interface {
	Send(subject, htmlBody string, recipients []string) error
}

// notify is the shared fire-and-forget call site: the result is logged and
// otherwise ignored.
func notify(n Notifier, subject, htmlBody string, recipients []string) {
	if n == nil || len(recipients) == 0 {
		return
	}
	if err := n.Send(subject, htmlBody, recipients); err != nil {
		log.Printf("WARNING: failed to send %q notification: %v", subject, err)
	}
}

// formatEmailDate renders a timestamp the way the notification emails show
// it, e.g. "January 2, 2006 at 3:04 PM".
func formatEmailDate(t time.Time) string {
	return t.Format("January 2, 2006 at 3:04 PM")
}

// ActivityDigestHTML builds the HTML body shared by every activity email: a
// heading followed by a numbered summary of each activity (title, date,
// leader, description).
func ActivityDigestHTML(heading string, activities []models.Activity) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h2>%s</h2>", html.EscapeString(heading))
	for i, activity := range activities {
		fmt.Fprintf(&b, `<h3>%d. <b>%s</b></h3>
<p><b>Occurs at:</b> %s</p>
<p><b>Leader:</b> %s</p>
<p><b>Description:</b> %s</p>`,
			i+1,
			html.EscapeString(activity.Title),
			formatEmailDate(activity.Date),
			html.EscapeString(activity.LeaderName),
			html.EscapeString(activity.Body))
	}
	return b.String()
}

// RejectionHTML builds the email sent to a creator whose activity was
// rejected, with the admin's feedback first.
func RejectionHTML(activity models.Activity, feedback string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h2>Your activity %q was not approved</h2>", activity.Title)
	fmt.Fprintf(&b, "<p><b>Feedback from the review team:</b> %s</p>", html.EscapeString(feedback))
	b.WriteString(ActivityDigestHTML("Submitted activity", []models.Activity{activity}))
	return b.String()
}

// AnswerHTML builds the reply an admin sends back to a question's asker.
func AnswerHTML(answer string) string {
	return fmt.Sprintf(`<h2>An answer from the review team</h2>
<p>%s</p>`, html.EscapeString(answer))
}

// QuestionHTML builds the email forwarded to admins when a visitor submits
// a question.
func QuestionHTML(name, email, question string) string {
	return fmt.Sprintf(`<h2>New question</h2>
<p><b>From:</b> %s (%s)</p>
<p>%s</p>`,
		html.EscapeString(name),
		html.EscapeString(email),
		html.EscapeString(question))
}

package services

import (
	"github.com/sagehill-community/activities-backend/internal/models"
)

// Actor identifies who is performing an operation. Every lifecycle and RSVP
// call takes one; the zero value is an anonymous visitor. Authorization is
// decided only here, never ad hoc at call sites.
type Actor struct {
	Authenticated bool
	UserID        string
	IsAdmin       bool
	Email         string
}

// Anonymous is the actor for unauthenticated requests.
var Anonymous = Actor{}

func (a Actor) isCreator(act *models.Activity) bool {
	return a.Authenticated && a.UserID != "" && a.UserID == act.CreatorUserID
}

func (a Actor) isLeader(act *models.Activity) bool {
	return a.Authenticated && a.UserID != "" && a.UserID == act.LeaderUserID
}

// PubliclyVisible reports whether an activity in the given status appears in
// public listings and is viewable by anyone. Activities that are published
// but back under review stay visible; unpublished ones never are.
func PubliclyVisible(status string) bool {
	return status == models.StatusPublished || status == models.StatusPublishedUnderReview
}

// CanView: published and published-under-review activities are visible to
// everyone; unpublished ones only to an admin, the creator, or the leader.
func CanView(a Actor, act *models.Activity) bool {
	if PubliclyVisible(act.Status) {
		return true
	}
	return a.IsAdmin || a.isCreator(act) || a.isLeader(act)
}

// CanEdit: admins may always edit. The creator may edit only while the
// activity is publicly visible; an unpublished submission is back in the
// admins' queue and closed to its author.
func CanEdit(a Actor, act *models.Activity) bool {
	if a.IsAdmin {
		return true
	}
	return a.isCreator(act) && PubliclyVisible(act.Status)
}

// CanDelete: admin or creator, in any state.
func CanDelete(a Actor, act *models.Activity) bool {
	return a.IsAdmin || a.isCreator(act)
}

// CanModerate: approve and reject are admin-only.
func CanModerate(a Actor) bool {
	return a.IsAdmin
}

// CanViewRSVPs: the attendee list is restricted to an admin, the creator,
// or the leader.
func CanViewRSVPs(a Actor, act *models.Activity) bool {
	return a.IsAdmin || a.isCreator(act) || a.isLeader(act)
}

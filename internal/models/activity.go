package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Activity lifecycle states. An activity created by a regular user starts
// unpublished and invisible; once an admin approves it, it is published.
// Edits by a non-admin to an already-published activity put it back under
// review while keeping it publicly visible.
const (
	StatusUnpublishedUnderReview = "unpublished_under_review"
	StatusPublishedUnderReview   = "published_under_review"
	StatusPublished              = "published"
)

// RSVP is a single sign-up attached to an activity. Email is optional; when
// blank, a "<name> (no email)" placeholder is stored so entries without an
// email never collide with each other.
type RSVP struct {
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
	Phone string `bson:"phone" json:"phone"`
}

type Activity struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`

	Title string    `bson:"title" json:"title"`
	Body  string    `bson:"body" json:"body"`
	Date  time.Time `bson:"date" json:"date"`

	// LeaderName is the display name shown as point of contact. LeaderUserID
	// optionally links it to a registered user (weak reference, lookup only).
	LeaderName   string `bson:"leader_name" json:"leader_name"`
	LeaderUserID string `bson:"leader_user_id,omitempty" json:"leader_user_id,omitempty"`

	// CreatorUserID is set at creation and never changes.
	CreatorUserID string `bson:"creator_user_id" json:"creator_user_id"`

	// Status is mutated only via lifecycle transitions.
	Status string `bson:"status" json:"status"`

	// RSVPs in submission order. At most one entry per distinct non-empty
	// email (exact, case-sensitive match).
	RSVPs []RSVP `bson:"rsvps" json:"rsvps"`

	// ExpireAt is date + 1 day. A TTL index on this field removes stale
	// activities; nothing else reads it.
	ExpireAt time.Time `bson:"expire_at" json:"expire_at"`
}

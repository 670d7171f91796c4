package models

// CartItem is one entry in a visitor's session-scoped sign-up cart: an
// activity the visitor intends to RSVP to in one batch. The cart is a UX
// buffer only, never an authorization gate.
type CartItem struct {
	ActivityID string `json:"id"`
	Title      string `json:"title"`
}

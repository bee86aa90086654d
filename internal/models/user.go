package models

// User is a customer account. The password is stored and compared in
// plaintext to stay behaviorally identical to the original demo; see
// DESIGN.md before reusing this anywhere real.
type User struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
}

package domain

import "time"

// Profile holds the user-editable display fields stored alongside the
// identity record. Created on first sign-in; edits are never overwritten by
// later sign-ins.
type Profile struct {
	UserID    string    `json:"user_id" firestore:"userId"`
	Name      string    `json:"name" firestore:"name"`
	Surname   string    `json:"surname" firestore:"surname"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}

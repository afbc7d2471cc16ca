package domain

import "time"

// FCMToken is one device's push registration. A user may hold several, one
// per signed-in device.
type FCMToken struct {
	Token     string    `json:"token" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"index;not null"`
	CreatedAt time.Time `json:"created_at"`
}

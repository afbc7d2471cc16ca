package domain

import "time"

// Palette is the fixed set of board colors offered by the app. Boards created
// through the API must use one of these.
var Palette = []string{
	"#0366d6", // blue
	"#28a745", // green
	"#d73a49", // red
	"#f66a0a", // orange
	"#6f42c1", // purple
	"#e36209", // amber
	"#005cc5", // navy
	"#22863a", // forest
}

// Board is a named, colored grouping of tasks owned by exactly one user.
type Board struct {
	ID         string    `json:"id" firestore:"-"`
	Name       string    `json:"name" firestore:"name"`
	Color      string    `json:"color" firestore:"color"`
	CoverImage string    `json:"cover_image,omitempty" firestore:"coverImage,omitempty"`
	UserID     string    `json:"user_id" firestore:"userId"`
	CreatedAt  time.Time `json:"created_at" firestore:"createdAt"`
}

// ValidColor reports whether c is part of the palette.
func ValidColor(c string) bool {
	for _, p := range Palette {
		if p == c {
			return true
		}
	}
	return false
}

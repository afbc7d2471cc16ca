package repository

import authdomain "taskboard-backend/internal/auth/domain"

// UserRepository defines the interface for identity data access.
type UserRepository interface {
	Create(user *authdomain.User) error
	FindByEmail(email string) (*authdomain.User, error)
	FindByID(id string) (*authdomain.User, error)
	FindByGithubUID(githubUID string) (*authdomain.User, error)
	Update(user *authdomain.User) error

	SaveRefreshToken(token *authdomain.RefreshToken) error
	FindRefreshToken(token string) (*authdomain.RefreshToken, error)
	DeleteRefreshToken(token string) error
	DeleteRefreshTokensByUser(userID string) error
}

// FCMTokenRepository defines the interface for device push tokens.
type FCMTokenRepository interface {
	Save(token *authdomain.FCMToken) error
	GetTokensByUserID(userID string) ([]*authdomain.FCMToken, error)
	DeleteToken(token string) error
}

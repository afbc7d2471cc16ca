package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	authdomain "taskboard-backend/internal/auth/domain"
	authdto "taskboard-backend/internal/auth/dto"
	"taskboard-backend/internal/auth/repository"
	"taskboard-backend/internal/session"
	"taskboard-backend/pkg/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// authUsecase implements AuthUsecase.
type authUsecase struct {
	userRepo repository.UserRepository
	fcmRepo  repository.FCMTokenRepository
	sessions *session.Manager
	github   GithubProfileFetcher
	config   *config.Config
}

func NewAuthUsecase(userRepo repository.UserRepository, fcmRepo repository.FCMTokenRepository, sessions *session.Manager, githubClient GithubProfileFetcher, cfg *config.Config) AuthUsecase {
	return &authUsecase{
		userRepo: userRepo,
		fcmRepo:  fcmRepo,
		sessions: sessions,
		github:   githubClient,
		config:   cfg,
	}
}

func (u *authUsecase) Login(ctx context.Context, req *authdto.LoginRequest) (*authdto.TokenResponse, error) {
	user, err := u.userRepo.FindByEmail(req.Email)
	if err != nil {
		return nil, err
	}

	if user == nil {
		return nil, errors.New("invalid email or password")
	}

	if user.Provider != "email" {
		return nil, errors.New("please use GitHub sign-in for this account")
	}

	if !repository.CheckPasswordHash(req.Password, user.Password) {
		return nil, errors.New("invalid email or password")
	}

	return u.establishSession(ctx, user)
}

func (u *authUsecase) Register(ctx context.Context, req *authdto.RegisterRequest) (*authdto.TokenResponse, error) {
	existing, err := u.userRepo.FindByEmail(req.Email)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		return nil, errors.New("email already registered")
	}

	hashedPassword, err := repository.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &authdomain.User{
		Email:    req.Email,
		Password: hashedPassword,
		Name:     req.Name,
		Provider: "email",
	}

	if err := u.userRepo.Create(user); err != nil {
		return nil, err
	}

	return u.establishSession(ctx, user)
}

func (u *authUsecase) GithubSignIn(ctx context.Context, currentUserID, accessToken string) (*authdto.TokenResponse, error) {
	ghUser, err := u.github.GetUser(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch github account: %w", err)
	}
	githubUID := strconv.FormatInt(ghUser.ID, 10)

	linked, err := u.userRepo.FindByGithubUID(githubUID)
	if err != nil {
		return nil, err
	}

	if currentUserID != "" {
		// Link the credential to the active account.
		if linked != nil && linked.ID != currentUserID {
			return nil, ErrCredentialInUse
		}
		user, err := u.userRepo.FindByID(currentUserID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, errors.New("user not found")
		}
		if user.GithubUID == githubUID {
			// Already linked to this account; nothing to do.
			return &authdto.TokenResponse{User: user}, nil
		}
		user.GithubUID = githubUID
		if err := u.userRepo.Update(user); err != nil {
			return nil, err
		}
		return &authdto.TokenResponse{User: user}, nil
	}

	// No active principal: sign in, implicitly registering on first contact.
	user := linked
	if user == nil {
		email := ghUser.Email
		if email == "" {
			email = ghUser.Login + "@users.noreply.github.com"
		}
		name := ghUser.Name
		if name == "" {
			name = ghUser.Login
		}
		user = &authdomain.User{
			Email:     email,
			Name:      name,
			AvatarURL: ghUser.AvatarURL,
			Provider:  "github",
			GithubUID: githubUID,
		}
		if err := u.userRepo.Create(user); err != nil {
			return nil, err
		}
	}

	return u.establishSession(ctx, user)
}

func (u *authUsecase) RefreshToken(ctx context.Context, refreshToken string) (*authdto.TokenResponse, error) {
	token, err := jwt.Parse(refreshToken, func(token *jwt.Token) (interface{}, error) {
		return []byte(u.config.JWTSecret), nil
	})

	if err != nil || !token.Valid {
		return nil, errors.New("invalid refresh token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	storedToken, err := u.userRepo.FindRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	if storedToken == nil || storedToken.ExpiresAt.Before(time.Now()) {
		return nil, errors.New("refresh token expired")
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	if user == nil {
		return nil, errors.New("user not found")
	}

	// Through establishSession, not generateTokens: after a restart this is
	// the first the session manager hears of the principal, and without an
	// active session every subscription the client opens is flushed on
	// registration.
	return u.establishSession(ctx, user)
}

func (u *authUsecase) Logout(refreshToken string) error {
	stored, err := u.userRepo.FindRefreshToken(refreshToken)
	if err != nil {
		return err
	}
	if stored != nil {
		// Flush live subscriptions before the credentials disappear.
		u.sessions.SignOut(stored.UserID)
	}
	return u.userRepo.DeleteRefreshToken(refreshToken)
}

func (u *authUsecase) RegisterFCMToken(userID, token string) error {
	return u.fcmRepo.Save(&authdomain.FCMToken{Token: token, UserID: userID})
}

func (u *authUsecase) UnregisterFCMToken(token string) error {
	return u.fcmRepo.DeleteToken(token)
}

// establishSession issues the token pair and opens the server-side session,
// which also ensures a profile record exists for the principal.
func (u *authUsecase) establishSession(ctx context.Context, user *authdomain.User) (*authdto.TokenResponse, error) {
	resp, err := u.generateTokens(user)
	if err != nil {
		return nil, err
	}
	u.sessions.SignIn(ctx, session.Principal{ID: user.ID, Name: user.Name, Email: user.Email})
	return resp, nil
}

func (u *authUsecase) generateTokens(user *authdomain.User) (*authdto.TokenResponse, error) {
	accessToken, err := u.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, err := u.generateRefreshToken(user)
	if err != nil {
		return nil, err
	}

	refreshTokenEntity := &authdomain.RefreshToken{
		Token:     refreshToken,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(u.config.JWTRefreshExpiry),
	}
	if err := u.userRepo.SaveRefreshToken(refreshTokenEntity); err != nil {
		return nil, err
	}

	return &authdto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

func (u *authUsecase) generateAccessToken(user *authdomain.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     time.Now().Add(u.config.JWTAccessExpiry).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(u.config.JWTSecret))
}

func (u *authUsecase) generateRefreshToken(user *authdomain.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"token_id": uuid.New().String(),
		"exp":      time.Now().Add(u.config.JWTRefreshExpiry).Unix(),
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(u.config.JWTSecret))
}

func (u *authUsecase) ValidateToken(ctx context.Context, tokenString string) (*authdomain.User, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(u.config.JWTSecret), nil
	})

	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}

	// Access tokens outlive the in-memory session registry across restarts.
	// Re-activate so the principal's live subscriptions are not cancelled as
	// stale the moment they register.
	if !u.sessions.IsActive(user.ID) {
		u.sessions.SignIn(ctx, session.Principal{ID: user.ID, Name: user.Name, Email: user.Email})
	}
	return user, nil
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"equiprent-backend/internal/domain"
	"equiprent-backend/internal/logger"
	"equiprent-backend/internal/repository"
	"equiprent-backend/internal/security"

	fbauth "firebase.google.com/go/v4/auth"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email is already registered")
)

type authService struct {
	userRepo     repository.UserRepository
	tokenManager security.TokenManager
	// fbAuth is nil when Firebase is not configured; clients then only get
	// the password login.
	fbAuth *fbauth.Client
}

func NewAuthService(userRepo repository.UserRepository, tokenManager security.TokenManager, fbAuth *fbauth.Client) AuthService {
	return &authService{
		userRepo:     userRepo,
		tokenManager: tokenManager,
		fbAuth:       fbAuth,
	}
}

func (s *authService) Signup(ctx context.Context, email, password string) (*domain.User, string, string, error) {
	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, "", "", ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", "", fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{Email: email, PasswordHash: string(hash)}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", "", fmt.Errorf("create user: %w", err)
	}
	logger.Info("User signed up", "user_id", user.ID)

	access, refresh, err := s.issueTokens(user)
	if err != nil {
		return nil, "", "", err
	}
	return user, access, refresh, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", "", ErrInvalidCredentials
		}
		return "", "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", "", ErrInvalidCredentials
	}
	return s.issueTokens(user)
}

// FirebaseLogin resolves a Firebase ID token to a local user, creating the
// user row on first sight so upstream-authenticated clients need no separate
// signup, then issues the local token pair.
func (s *authService) FirebaseLogin(ctx context.Context, idToken string) (*domain.User, string, string, error) {
	if s.fbAuth == nil {
		return nil, "", "", errors.New("firebase authentication is not configured")
	}
	token, err := s.fbAuth.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, "", "", fmt.Errorf("verify firebase token: %w", err)
	}

	user, err := s.userRepo.GetByFirebaseUID(ctx, token.UID)
	if errors.Is(err, sql.ErrNoRows) {
		email, _ := token.Claims["email"].(string)
		user = &domain.User{Email: email, FirebaseUID: token.UID}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, "", "", fmt.Errorf("create user from firebase identity: %w", err)
		}
		logger.Info("User provisioned from firebase", "user_id", user.ID)
	} else if err != nil {
		return nil, "", "", err
	}

	access, refresh, err := s.issueTokens(user)
	if err != nil {
		return nil, "", "", err
	}
	return user, access, refresh, nil
}

func (s *authService) RefreshToken(ctx context.Context, refresh string) (string, string, error) {
	claims, err := s.tokenManager.ValidateToken(refresh)
	if err != nil {
		return "", "", err
	}
	if claims.Type != security.TokenTypeRefresh {
		return "", "", security.ErrWrongTokenType
	}
	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return "", "", err
	}
	return s.issueTokens(user)
}

func (s *authService) issueTokens(user *domain.User) (string, string, error) {
	access, err := s.tokenManager.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return "", "", err
	}
	refresh, err := s.tokenManager.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

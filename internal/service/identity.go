package service

import (
	"context"
	"sync"

	"equiprent-backend/internal/domain"
	"equiprent-backend/internal/repository"
)

// SessionIdentity adapts the auth and profile layers to a single client
// session. It starts unauthenticated; once a login or token verification
// resolves a user, SetUser flips it to ready and the booking workflow's auth
// step unblocks.
type SessionIdentity struct {
	mu     sync.RWMutex
	userID string

	userRepo   repository.UserRepository
	profileSvc ProfileService
}

func NewSessionIdentity(userRepo repository.UserRepository, profileSvc ProfileService) *SessionIdentity {
	return &SessionIdentity{
		userRepo:   userRepo,
		profileSvc: profileSvc,
	}
}

// SetUser binds the session to an authenticated user id. Passing an empty id
// clears the binding (logout).
func (s *SessionIdentity) SetUser(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = userID
}

func (s *SessionIdentity) AuthReady(ctx context.Context) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID != ""
}

func (s *SessionIdentity) CurrentUser(ctx context.Context) (*domain.User, error) {
	s.mu.RLock()
	id := s.userID
	s.mu.RUnlock()
	if id == "" {
		return nil, nil
	}
	return s.userRepo.GetByID(ctx, id)
}

func (s *SessionIdentity) CurrentProfile(ctx context.Context) (*domain.Profile, error) {
	s.mu.RLock()
	id := s.userID
	s.mu.RUnlock()
	if id == "" {
		return nil, nil
	}
	return s.profileSvc.GetProfile(ctx, id)
}

func (s *SessionIdentity) UpdateProfile(ctx context.Context, profile *domain.Profile) error {
	s.mu.RLock()
	id := s.userID
	s.mu.RUnlock()
	if profile.ID == "" {
		profile.ID = id
	}
	_, err := s.profileSvc.UpdateProfile(ctx, profile)
	return err
}

package service

import (
	"context"
	"sync"
	"time"

	"equiprent-backend/internal/domain"
	"equiprent-backend/internal/logger"
	"equiprent-backend/internal/repository"
)

// ProfileCache is a TTL cache for profile lookups. It is explicit state
// injected into the service; every mutation path calls Invalidate so a stale
// entry can never outlive an update.
type ProfileCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]profileCacheEntry
}

type profileCacheEntry struct {
	value     *domain.Profile
	expiresAt time.Time
}

func NewProfileCache(ttl time.Duration) *ProfileCache {
	return &ProfileCache{
		ttl:     ttl,
		entries: make(map[string]profileCacheEntry),
	}
}

func (c *ProfileCache) Get(key string) (*domain.Profile, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok || time.Now().After(entry.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return entry.value, true
}

func (c *ProfileCache) Set(key string, value *domain.Profile) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = profileCacheEntry{value: value, expiresAt: time.Now().Add(c.ttl)}
}

func (c *ProfileCache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

type profileService struct {
	profileRepo repository.ProfileRepository
	cache       *ProfileCache
}

func NewProfileService(profileRepo repository.ProfileRepository, cache *ProfileCache) ProfileService {
	return &profileService{profileRepo: profileRepo, cache: cache}
}

func (s *profileService) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	if cached, ok := s.cache.Get(userID); ok {
		return cached, nil
	}
	profile, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(userID, profile)
	return profile, nil
}

func (s *profileService) UpdateProfile(ctx context.Context, profile *domain.Profile) (*domain.Profile, error) {
	s.cache.Invalidate(profile.ID)
	if _, err := s.profileRepo.GetByID(ctx, profile.ID); err != nil {
		// First write for this user; the auth flow creates users before
		// profiles exist.
		if err := s.profileRepo.Create(ctx, profile); err != nil {
			return nil, err
		}
		logger.Info("Profile created", "user_id", profile.ID)
		return profile, nil
	}
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}
	logger.Info("Profile updated", "user_id", profile.ID, "booking_complete", profile.IsBookingComplete())
	return profile, nil
}

func (s *profileService) IsBookingComplete(ctx context.Context, userID string) (bool, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return false, err
	}
	return profile.IsBookingComplete(), nil
}

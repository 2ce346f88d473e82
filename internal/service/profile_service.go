package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"recipebook/internal/cache"
	"recipebook/internal/errors"
	"recipebook/internal/model"
	"recipebook/internal/repository"
)

// Writes clear the cached row before and after touching the table; a Get
// racing the write may otherwise cache the old row for the full TTL.
const profileCacheTTL = 5 * time.Minute

// Default profile row written by EnsureDefault and Reset.
const (
	DefaultProfileName  = "John Doe"
	DefaultProfileEmail = "johndoe@example.com"
)

// UpdateProfileInput carries the overwritable profile fields. Nil fields are
// left unchanged; values are not validated.
type UpdateProfileInput struct {
	Name  *string
	Email *string
}

// ProfileService exposes operations on the deployment's single profile row.
type ProfileService interface {
	Get(ctx context.Context) (*model.User, error)
	Update(ctx context.Context, input UpdateProfileInput) (*model.User, error)
	SetImage(ctx context.Context, imageURL string) error
	EnsureDefault(ctx context.Context) error
	Reset(ctx context.Context) error
}

type profileService struct {
	repo      repository.UserRepository
	cache     *cache.Client
	profileID uint
	now       func() time.Time
}

// NewProfileService builds a ProfileService bound to profileID. cache may be nil.
func NewProfileService(repo repository.UserRepository, cache *cache.Client, profileID uint) ProfileService {
	return &profileService{repo: repo, cache: cache, profileID: profileID, now: time.Now}
}

func (s *profileService) cacheKey() string {
	return fmt.Sprintf("profile:%d", s.profileID)
}

func (s *profileService) Get(ctx context.Context) (*model.User, error) {
	var cached model.User
	if s.cache.GetJSON(ctx, s.cacheKey(), &cached) {
		return &cached, nil
	}

	user, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.SetJSON(ctx, s.cacheKey(), user, profileCacheTTL)
	return user, nil
}

func (s *profileService) Update(ctx context.Context, input UpdateProfileInput) (*model.User, error) {
	fields := map[string]interface{}{"updated_at": s.now()}
	if input.Name != nil {
		fields["name"] = *input.Name
	}
	if input.Email != nil {
		fields["email"] = *input.Email
	}
	_ = s.cache.Delete(ctx, s.cacheKey())
	if _, err := s.repo.UpdateFields(ctx, s.profileID, fields); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey())

	// MySQL counts only changed rows, so a missing row is detected by the re-read.
	return s.load(ctx)
}

func (s *profileService) SetImage(ctx context.Context, imageURL string) error {
	_ = s.cache.Delete(ctx, s.cacheKey())
	updated, err := s.repo.UpdateFields(ctx, s.profileID, map[string]interface{}{
		"profile_image_url": imageURL,
		"updated_at":        s.now(),
	})
	if err != nil {
		return fmt.Errorf("set profile image: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey())

	if updated == 0 {
		_, err := s.load(ctx)
		return err
	}
	return nil
}

// EnsureDefault creates the default profile row when it is missing.
func (s *profileService) EnsureDefault(ctx context.Context) error {
	user := &model.User{ID: s.profileID, Name: DefaultProfileName, Email: DefaultProfileEmail}
	if err := s.repo.FirstOrCreate(ctx, user); err != nil {
		return fmt.Errorf("ensure default profile: %w", err)
	}
	return nil
}

// Reset removes every user row and writes the default profile.
func (s *profileService) Reset(ctx context.Context) error {
	_ = s.cache.Delete(ctx, s.cacheKey())
	if err := s.repo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("clear users: %w", err)
	}
	user := &model.User{ID: s.profileID, Name: DefaultProfileName, Email: DefaultProfileEmail}
	if err := s.repo.Create(ctx, user); err != nil {
		return fmt.Errorf("create default profile: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey())
	return nil
}

func (s *profileService) load(ctx context.Context) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, s.profileID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrProfileNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return user, nil
}

package memory

import (
	"context"
	"sync"
	"time"

	"github.com/devfolio/blog-api/internal/domain"
)

// AboutRepository is an in-memory singleton about-profile store.
type AboutRepository struct {
	mu      sync.RWMutex
	profile *domain.AboutProfile
}

func NewAboutRepository() *AboutRepository {
	return &AboutRepository{}
}

func (r *AboutRepository) Get(_ context.Context) (*domain.AboutProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.profile == nil {
		return nil, domain.ErrNotFound
	}
	clone := *r.profile
	return &clone, nil
}

func (r *AboutRepository) Save(_ context.Context, profile *domain.AboutProfile) (*domain.AboutProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	profile.SingletonKey = domain.AboutSingletonKey
	profile.UpdatedAt = now
	if r.profile == nil {
		profile.CreatedAt = now
	} else {
		profile.CreatedAt = r.profile.CreatedAt
	}
	clone := *profile
	r.profile = &clone
	out := clone
	return &out, nil
}

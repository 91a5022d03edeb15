package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/devfolio/blog-api/internal/domain"
	"github.com/devfolio/blog-api/internal/repository"
	"github.com/devfolio/blog-api/internal/storage"
)

// AboutService manages the singleton "about me" profile and its resume file.
type AboutService struct {
	about repository.AboutRepository
	files storage.Uploader
	log   *zap.SugaredLogger
}

func NewAboutService(about repository.AboutRepository, files storage.Uploader, log *zap.SugaredLogger) *AboutService {
	return &AboutService{about: about, files: files, log: log}
}

type AboutInput struct {
	FullName   string
	Headline   string
	Summary    string
	Location   string
	Email      string
	Phone      string
	Experience string
	Education  string
	Skills     []string
	SkillsSet  bool
}

func (s *AboutService) Get(ctx context.Context) (*domain.AboutProfile, error) {
	profile, err := s.about.Get(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NewNotFoundError("About profile not found")
	}
	return profile, err
}

// Upsert merges the payload over the existing profile. With enforceRequired
// set, every profile field must be present and non-blank (initial creation);
// otherwise absent fields keep their stored values.
func (s *AboutService) Upsert(ctx context.Context, input AboutInput, updatedBy primitive.ObjectID, enforceRequired bool) (*domain.AboutProfile, error) {
	profile, err := s.about.Get(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		profile = &domain.AboutProfile{}
	} else if err != nil {
		return nil, err
	}

	fields := []struct {
		name  string
		value string
		dst   *string
	}{
		{"fullName", input.FullName, &profile.FullName},
		{"headline", input.Headline, &profile.Headline},
		{"summary", input.Summary, &profile.Summary},
		{"location", input.Location, &profile.Location},
		{"email", input.Email, &profile.Email},
		{"phone", input.Phone, &profile.Phone},
		{"experience", input.Experience, &profile.Experience},
		{"education", input.Education, &profile.Education},
	}
	for _, f := range fields {
		trimmed := strings.TrimSpace(f.value)
		if enforceRequired && trimmed == "" {
			return nil, domain.NewValidationError(f.name + " is required")
		}
		if trimmed != "" {
			*f.dst = trimmed
		}
	}

	if profile.Email != "" {
		profile.Email = strings.ToLower(profile.Email)
		if !emailPattern.MatchString(profile.Email) {
			return nil, domain.NewValidationError("Please provide a valid email address")
		}
	}

	if input.SkillsSet {
		profile.Skills = normalizeSkills(input.Skills)
	}
	profile.UpdatedBy = updatedBy

	return s.about.Save(ctx, profile)
}

// UpdateResume uploads a new resume PDF and removes the previous object.
func (s *AboutService) UpdateResume(ctx context.Context, data []byte, contentType string, updatedBy primitive.ObjectID) (*domain.AboutProfile, error) {
	if len(data) == 0 {
		return nil, domain.NewValidationError("Resume file is required")
	}
	if !strings.EqualFold(contentType, "application/pdf") {
		return nil, domain.NewValidationError("Only PDF resume uploads are allowed")
	}

	profile, err := s.about.Get(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NewValidationError("Create about profile before uploading resume")
	}
	if err != nil {
		return nil, err
	}

	key := "resumes/" + uuid.NewString() + ".pdf"
	fileURL, err := s.files.Upload(ctx, key, "application/pdf", data)
	if err != nil {
		s.log.Errorw("resume upload failed", "error", err)
		return nil, domain.NewInternalError("Failed to upload resume")
	}

	if profile.ResumeKey != "" {
		if err := s.files.Delete(ctx, profile.ResumeKey); err != nil {
			s.log.Warnw("failed to delete previous resume object", "key", profile.ResumeKey, "error", err)
		}
	}

	profile.ResumeURL = fileURL
	profile.ResumeKey = key
	profile.UpdatedBy = updatedBy
	return s.about.Save(ctx, profile)
}

func (s *AboutService) DeleteResume(ctx context.Context, updatedBy primitive.ObjectID) (*domain.AboutProfile, error) {
	profile, err := s.about.Get(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NewNotFoundError("About profile not found")
	}
	if err != nil {
		return nil, err
	}
	if profile.ResumeURL == "" {
		return nil, domain.NewNotFoundError("No resume uploaded")
	}

	if profile.ResumeKey != "" {
		if err := s.files.Delete(ctx, profile.ResumeKey); err != nil {
			s.log.Warnw("failed to delete resume object", "key", profile.ResumeKey, "error", err)
		}
	}

	profile.ResumeURL = ""
	profile.ResumeKey = ""
	profile.UpdatedBy = updatedBy
	return s.about.Save(ctx, profile)
}

// ResumeURL returns the public URL for preview/download redirects.
func (s *AboutService) ResumeURL(ctx context.Context) (string, error) {
	profile, err := s.about.Get(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return "", domain.NewNotFoundError("About profile not found")
	}
	if err != nil {
		return "", err
	}
	if profile.ResumeURL == "" {
		return "", domain.NewNotFoundError("No resume uploaded")
	}
	return profile.ResumeURL, nil
}

func normalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	for _, skill := range skills {
		if trimmed := strings.TrimSpace(skill); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

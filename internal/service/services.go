package service

import (
	"go.uber.org/zap"

	"github.com/devfolio/blog-api/internal/config"
	"github.com/devfolio/blog-api/internal/repository"
	"github.com/devfolio/blog-api/internal/storage"
	"github.com/devfolio/blog-api/internal/token"
)

type Services struct {
	Auth  *AuthService
	About *AboutService
}

func NewServices(repos *repository.Repositories, files storage.Uploader, cfg *config.Config, log *zap.SugaredLogger) *Services {
	tokens := token.NewManager(
		cfg.AccessTokenSecret,
		cfg.RefreshTokenSecret,
		cfg.AccessTokenExpiry,
		cfg.RefreshTokenExpiry,
	)
	return &Services{
		Auth:  NewAuthService(repos.User, tokens, log),
		About: NewAboutService(repos.About, files, log),
	}
}

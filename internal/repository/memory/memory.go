// Package memory provides in-memory repository implementations behind the
// same contracts as the MongoDB ones. They back the hermetic test suite and
// are usable for single-instance development without a database.
package memory

import "github.com/devfolio/blog-api/internal/repository"

func NewRepositories() *repository.Repositories {
	return &repository.Repositories{
		User:  NewUserRepository(),
		About: NewAboutRepository(),
	}
}

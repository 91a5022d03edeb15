package testutil

import (
	"context"
	"fmt"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/devfolio/blog-api/internal/api"
	"github.com/devfolio/blog-api/internal/config"
	"github.com/devfolio/blog-api/internal/ratelimit"
	"github.com/devfolio/blog-api/internal/repository"
	"github.com/devfolio/blog-api/internal/repository/memory"
	"github.com/devfolio/blog-api/internal/service"
)

// TestConfig returns a configuration suitable for testing
func TestConfig() *config.Config {
	return &config.Config{
		Port:               "0",
		Environment:        "test",
		AccessTokenSecret:  "test-access-secret-key-for-testing-only",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenSecret: "test-refresh-secret-key-for-testing-only",
		RefreshTokenExpiry: 7 * 24 * time.Hour,
		OwnerEmail:         "owner@example.com",
		RateLimitMax:       10000,
		RateLimitWindow:    time.Minute,
		ResumeMaxBytes:     5 * 1024 * 1024,
	}
}

// TestLogger returns a no-op sugared logger
func TestLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

// FakeUploader records uploads and deletes in memory
type FakeUploader struct {
	mu       sync.Mutex
	Uploaded map[string][]byte
	Deleted  []string
}

func NewFakeUploader() *FakeUploader {
	return &FakeUploader{Uploaded: make(map[string][]byte)}
}

func (f *FakeUploader) Upload(_ context.Context, key, _ string, data []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Uploaded[key] = data
	return "https://cdn.test.local/" + key, nil
}

func (f *FakeUploader) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Deleted = append(f.Deleted, key)
	delete(f.Uploaded, key)
	return nil
}

// TestServer holds all components for integration testing
type TestServer struct {
	Server   *httptest.Server
	Repos    *repository.Repositories
	Services *service.Services
	Uploader *FakeUploader
	Config   *config.Config
}

// NewTestServer creates a complete test server backed by in-memory stores
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	cfg := TestConfig()
	repos := memory.NewRepositories()
	uploader := NewFakeUploader()
	logger := TestLogger()

	services := service.NewServices(repos, uploader, cfg, logger)
	router := api.NewRouter(services, ratelimit.NewMemoryStore(), cfg, logger)

	server := httptest.NewServer(router)

	ts := &TestServer{
		Server:   server,
		Repos:    repos,
		Services: services,
		Uploader: uploader,
		Config:   cfg,
	}

	t.Cleanup(func() {
		server.Close()
	})

	return ts
}

// BaseURL returns the test server's base URL
func (ts *TestServer) BaseURL() string {
	return ts.Server.URL
}

// APIURL returns the full API URL for a given path
func (ts *TestServer) APIURL(path string) string {
	return fmt.Sprintf("%s/api/v1%s", ts.Server.URL, path)
}

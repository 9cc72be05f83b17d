package server

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/internal/models"
)

type userRepoStub struct {
	createFn        func(context.Context, *models.User) error
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	listFn          func(context.Context, int, int) ([]*models.User, error)
	updateFn        func(context.Context, *models.User) error
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn:        func(_ context.Context, _ *models.User) error { return nil },
		getByIDFn:       func(_ context.Context, _ uint) (*models.User, error) { return &models.User{}, nil },
		getByEmailFn:    func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByUsernameFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		listFn:          func(_ context.Context, _, _ int) ([]*models.User, error) { return nil, nil },
		updateFn:        func(_ context.Context, _ *models.User) error { return nil },
	}
}

// profileApp mounts UpdateMyProfile behind a middleware that fixes the
// authenticated user, the way the auth layer would.
func profileApp(srv *Server, userID uint) *fiber.App {
	app := fiber.New()
	app.Put("/api/users/me", func(c *fiber.Ctx) error {
		c.Locals("userID", userID)
		return c.Next()
	}, srv.UpdateMyProfile)
	return app
}

func putProfile(t *testing.T, app *fiber.App, body string) int {
	t.Helper()
	req := httptest.NewRequest("PUT", "/api/users/me", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	return resp.StatusCode
}

func TestUpdateMyProfile_UsernameOnlyPreservesBioAndAvatar(t *testing.T) {
	repo := noopUserRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return &models.User{
			Username:  "alice",
			Bio:       "my bio",
			AvatarURL: "https://img.example/alice.png",
		}, nil
	}
	var saved *models.User
	repo.updateFn = func(_ context.Context, user *models.User) error {
		saved = user
		return nil
	}
	srv := &Server{userRepo: repo}

	status := putProfile(t, profileApp(srv, 7), `{"username":"alice2"}`)

	assert.Equal(t, fiber.StatusOK, status)
	require.NotNil(t, saved)
	assert.Equal(t, "alice2", saved.Username)
	assert.Equal(t, "my bio", saved.Bio)
	assert.Equal(t, "https://img.example/alice.png", saved.AvatarURL)
}

func TestUpdateMyProfile_ExplicitEmptyBioClearsIt(t *testing.T) {
	repo := noopUserRepo()
	repo.getByIDFn = func(_ context.Context, _ uint) (*models.User, error) {
		return &models.User{Username: "alice", Bio: "my bio"}, nil
	}
	var saved *models.User
	repo.updateFn = func(_ context.Context, user *models.User) error {
		saved = user
		return nil
	}
	srv := &Server{userRepo: repo}

	status := putProfile(t, profileApp(srv, 7), `{"bio":""}`)

	assert.Equal(t, fiber.StatusOK, status)
	require.NotNil(t, saved)
	assert.Equal(t, "", saved.Bio)
	assert.Equal(t, "alice", saved.Username)
}

func TestUpdateMyProfile_BioOnlyLeavesUsernameUntouched(t *testing.T) {
	repo := noopUserRepo()
	repo.getByIDFn = func(_ context.Context, _ uint) (*models.User, error) {
		return &models.User{Username: "alice", AvatarURL: "https://img.example/alice.png"}, nil
	}
	repo.getByUsernameFn = func(_ context.Context, _ string) (*models.User, error) {
		t.Fatal("username lookup should not run when username is absent")
		return nil, nil
	}
	var saved *models.User
	repo.updateFn = func(_ context.Context, user *models.User) error {
		saved = user
		return nil
	}
	srv := &Server{userRepo: repo}

	status := putProfile(t, profileApp(srv, 7), `{"bio":"new bio"}`)

	assert.Equal(t, fiber.StatusOK, status)
	require.NotNil(t, saved)
	assert.Equal(t, "alice", saved.Username)
	assert.Equal(t, "new bio", saved.Bio)
	assert.Equal(t, "https://img.example/alice.png", saved.AvatarURL)
}

func TestUpdateMyProfile_TakenUsernameIsConflict(t *testing.T) {
	repo := noopUserRepo()
	repo.getByIDFn = func(_ context.Context, _ uint) (*models.User, error) {
		return &models.User{Username: "alice"}, nil
	}
	repo.getByUsernameFn = func(_ context.Context, username string) (*models.User, error) {
		return &models.User{Username: username}, nil
	}
	srv := &Server{userRepo: repo}

	status := putProfile(t, profileApp(srv, 7), `{"username":"bob"}`)

	assert.Equal(t, fiber.StatusConflict, status)
}

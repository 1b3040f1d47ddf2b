package service

import (
	"context"
	"testing"

	"mesalivre/internal/config"
	"mesalivre/internal/dto"
	"mesalivre/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// ── In-memory UserRepository ─────────────────────────────────────────────────

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username && u.Active {
			return u, nil
		}
	}
	return nil, errNotFound
}

func (r *fakeUserRepo) FindByID(_ context.Context, tenantID, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok || u.TenantID != tenantID {
		return nil, errNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) List(_ context.Context, tenantID uuid.UUID, includeInactive bool) ([]model.User, error) {
	var out []model.User
	for _, u := range r.users {
		if u.TenantID == tenantID && (includeInactive || u.Active) {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *model.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) SetActive(_ context.Context, tenantID, id uuid.UUID, active bool) error {
	u, ok := r.users[id]
	if !ok || u.TenantID != tenantID {
		return errNotFound
	}
	u.Active = active
	return nil
}

func newAuthFixture(t *testing.T) (AuthService, *fakeUserRepo, uuid.UUID) {
	t.Helper()
	repo := newFakeUserRepo()
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpirationHours: 1, JWTRefreshHours: 24}
	tenantID := uuid.New()

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret123"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), &model.User{
		TenantID:     tenantID,
		Username:     "ana",
		Name:         "Ana",
		PasswordHash: string(hash),
		Role:         "cashier",
		Active:       true,
	}))
	return NewAuthService(repo, cfg), repo, tenantID
}

func TestLogin(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	resp, err := svc.Login(ctx, dto.LoginRequest{Username: "ana", Password: "s3cret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 3600, resp.ExpiresIn)
}

func TestLoginBadCredentials(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, dto.LoginRequest{Username: "ana", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, dto.LoginRequest{Username: "nobody", Password: "s3cret123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshRoundTrip(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	login, err := svc.Login(ctx, dto.LoginRequest{Username: "ana", Password: "s3cret123"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
}

func TestRefreshRejectsGarbage(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	_, err := svc.Refresh(context.Background(), "not-a-token")
	assert.Error(t, err)
}

func TestRefreshRejectsDeactivatedUser(t *testing.T) {
	svc, repo, tenantID := newAuthFixture(t)
	ctx := context.Background()

	login, err := svc.Login(ctx, dto.LoginRequest{Username: "ana", Password: "s3cret123"})
	require.NoError(t, err)

	var userID uuid.UUID
	for id := range repo.users {
		userID = id
	}
	require.NoError(t, repo.SetActive(ctx, tenantID, userID, false))

	_, err = svc.Refresh(ctx, login.RefreshToken)
	assert.Error(t, err)
}

func TestCreateUserHashesPassword(t *testing.T) {
	svc, repo, tenantID := newAuthFixture(t)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, tenantID, dto.CreateUserRequest{
		Username: "bia", Name: "Bia", Password: "anotherpass", Role: "waiter",
	})
	require.NoError(t, err)
	assert.Equal(t, "waiter", created.Role)

	stored, err := repo.FindByUsername(ctx, "bia")
	require.NoError(t, err)
	assert.NotEqual(t, "anotherpass", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("anotherpass")))
}

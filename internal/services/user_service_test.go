package services

import (
	"context"
	"testing"
	"time"

	"election-service/internal/models"
	"election-service/internal/repositories/sqlstore"
	"election-service/internal/testutil"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

func newUserService(t *testing.T) (*UserService, *gorm.DB, *memStorage) {
	t.Helper()
	db := testutil.NewTestDB(t)
	storage := newMemStorage()
	svc := NewUserService(sqlstore.NewUserRepository(db), sqlstore.NewPartyRepository(db), storage, testSecret, time.Hour)
	return svc, db, storage
}

func registerReq(email string) *models.RegisterRequest {
	return &models.RegisterRequest{
		Name:     "Priya",
		Email:    email,
		Password: "secret123",
		DOB:      "1995-08-20",
	}
}

func TestUserServiceRegisterAndLogin(t *testing.T) {
	svc, _, storage := newUserService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, registerReq("Priya@Example.com"), fileHeader("me.jpg"))
	require.NoError(t, err)
	assert.Equal(t, models.RoleVoter, resp.Role)
	assert.Equal(t, "priya@example.com", resp.Email)
	assert.Len(t, storage.files, 1)

	token, err := jwt.Parse(resp.Token, func(*jwt.Token) (interface{}, error) { return []byte(testSecret), nil })
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, float64(resp.ID), claims["user_id"])
	assert.Equal(t, "voter", claims["role"])

	_, err = svc.Register(ctx, registerReq("priya@example.com"), nil)
	assert.ErrorIs(t, err, ErrUserAlreadyExists)

	login, err := svc.Login(ctx, &models.LoginRequest{Email: "priya@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, resp.ID, login.ID)

	_, err = svc.Login(ctx, &models.LoginRequest{Email: "priya@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, &models.LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserServiceRegisterRoles(t *testing.T) {
	svc, _, _ := newUserService(t)
	ctx := context.Background()

	req := registerReq("cand@example.com")
	req.Role = "candidate"
	resp, err := svc.Register(ctx, req, nil)
	require.NoError(t, err)
	assert.Equal(t, models.RoleCandidate, resp.Role)

	req = registerReq("boss@example.com")
	req.Role = "admin"
	_, err = svc.Register(ctx, req, nil)
	assert.ErrorIs(t, err, ErrAdminSelfRegistration)

	req = registerReq("odd@example.com")
	req.Role = "observer"
	_, err = svc.Register(ctx, req, nil)
	assert.ErrorIs(t, err, models.ErrInvalidRole)

	req = registerReq("date@example.com")
	req.DOB = "20/08/1995"
	_, err = svc.Register(ctx, req, nil)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestUserServiceProfile(t *testing.T) {
	svc, db, storage := newUserService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, registerReq("me@example.com"), fileHeader("me.png"))
	require.NoError(t, err)
	other, err := svc.Register(ctx, registerReq("other@example.com"), nil)
	require.NoError(t, err)

	name := "Priya K"
	updated, err := svc.UpdateProfile(ctx, resp.ID, &models.UpdateProfileRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Priya K", updated.Name)

	taken := other.Email
	_, err = svc.UpdateProfile(ctx, resp.ID, &models.UpdateProfileRequest{Email: &taken})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)

	missing := uint(999)
	_, err = svc.UpdateProfile(ctx, resp.ID, &models.UpdateProfileRequest{PartyID: &missing})
	assert.ErrorIs(t, err, ErrPartyNotFound)

	party := testutil.CreateParty(t, db, "Lotus")
	updated, err = svc.UpdateProfile(ctx, resp.ID, &models.UpdateProfileRequest{PartyID: &party.ID})
	require.NoError(t, err)

	profile, err := svc.GetProfile(ctx, resp.ID)
	require.NoError(t, err)
	require.NotNil(t, profile.PartyID)
	assert.Equal(t, party.ID, *profile.PartyID)

	require.NoError(t, svc.DeleteProfile(ctx, resp.ID))
	assert.Empty(t, storage.files)
	_, err = svc.GetProfile(ctx, resp.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserServiceListUsersComputesAge(t *testing.T) {
	svc, _, _ := newUserService(t)
	svc.now = func() time.Time { return time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC) }

	_, err := svc.Register(context.Background(), registerReq("age@example.com"), nil)
	require.NoError(t, err)

	users, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, 31, users[0].Age)
}

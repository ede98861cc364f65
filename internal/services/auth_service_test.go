package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cargolink_backend/internal/auth"
	"cargolink_backend/internal/config"
	"cargolink_backend/internal/models"
	"cargolink_backend/internal/repositories"
	"cargolink_backend/internal/services/dto"
)

func newAuthService(t *testing.T) (AuthService, repositories.UserRepository) {
	t.Helper()
	config.AppConfig = newTestConfig()
	config.AppConfig.JWT.Secret = "test-secret"
	config.AppConfig.JWT.TTL = 60

	db := newTestDB(t)
	userRepo := repositories.NewUserRepository(db)
	return NewAuthService(userRepo), userRepo
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newAuthService(t)

	resp, err := svc.Register(&dto.RegisterRequest{
		Email:    "carrier@test.com",
		Password: "password123",
		Name:     "Гиорги",
		Role:     string(models.UserRoleCarrier),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "carrier@test.com", resp.User.Email)

	login, err := svc.Login(&dto.LoginRequest{Email: "carrier@test.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, login.AccessToken)
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	svc, _ := newAuthService(t)

	cases := []struct {
		password string
		wantErr  error
	}{
		{"short1", auth.ErrPasswordTooShort},
		{"onlyletters", auth.ErrPasswordTooSimple},
		{"12345678", auth.ErrPasswordTooSimple},
		{strings.Repeat("a", 72) + "1", auth.ErrPasswordTooLong},
	}
	for _, tc := range cases {
		_, err := svc.Register(&dto.RegisterRequest{
			Email:    "weak@test.com",
			Password: tc.password,
			Name:     "Нино",
			Role:     string(models.UserRoleShipper),
		})
		assert.ErrorIs(t, err, tc.wantErr, "пароль %q", tc.password)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Register(&dto.RegisterRequest{
		Email:    "dup@test.com",
		Password: "password123",
		Role:     string(models.UserRoleShipper),
	})
	require.NoError(t, err)

	_, err = svc.Register(&dto.RegisterRequest{
		Email:    "dup@test.com",
		Password: "password123",
		Role:     string(models.UserRoleShipper),
	})
	assert.ErrorIs(t, err, repositories.ErrUserAlreadyExists)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Register(&dto.RegisterRequest{
		Email:    "user@test.com",
		Password: "password123",
		Role:     string(models.UserRoleShipper),
	})
	require.NoError(t, err)

	_, err = svc.Login(&dto.LoginRequest{Email: "user@test.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(&dto.LoginRequest{Email: "missing@test.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials, "Несуществующий email неотличим от неверного пароля")
}

func TestLoginBlockedUser(t *testing.T) {
	svc, userRepo := newAuthService(t)

	resp, err := svc.Register(&dto.RegisterRequest{
		Email:    "blocked@test.com",
		Password: "password123",
		Role:     string(models.UserRoleCarrier),
	})
	require.NoError(t, err)

	user, err := userRepo.FindByID(resp.User.ID)
	require.NoError(t, err)
	user.Status = models.UserStatusBlocked
	require.NoError(t, userRepo.Update(user))

	_, err = svc.Login(&dto.LoginRequest{Email: "blocked@test.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

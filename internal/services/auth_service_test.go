package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/doclocker/internal/config"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/dto"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/models"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/store/memstore"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuth(t *testing.T) *AuthService {
	t.Helper()
	st := memstore.New()
	cfg := &config.Config{JWTSecret: "test-secret", JWTAccessExpiry: 15 * time.Minute, JWTRefreshExpiry: time.Hour}
	s := NewAuthService(st.Users, st.RefreshTokens, cfg)
	s.now = func() time.Time { return time.Date(2024, 11, 1, 9, 30, 0, 0, time.UTC) }
	return s
}

func studentRequest() *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Email:       "asha@example.com",
		Password:    "correct-horse",
		FirstName:   "Asha",
		LastName:    "Rao",
		Role:        "student",
		DateOfBirth: "2002-05-14",
		StudentID:   "S-42",
	}
}

func TestAuth_RegisterIssuesTokens(t *testing.T) {
	s := newAuth(t)

	resp, err := s.Register(context.Background(), studentRequest())
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "STUDENT20241101093000", resp.User.UserCode)
	assert.Equal(t, "S-42", resp.User.StudentID)
	assert.NotEqual(t, "correct-horse", resp.User.Password)

	tok, err := jwt.Parse(resp.AccessToken, func(*jwt.Token) (interface{}, error) { return []byte("test-secret"), nil },
		jwt.WithTimeFunc(s.now))
	require.NoError(t, err)
	claims := tok.Claims.(jwt.MapClaims)
	assert.Equal(t, resp.User.ID.String(), claims["sub"])
	assert.Equal(t, "student", claims["role"])
}

func TestAuth_InstituteDropsStudentID(t *testing.T) {
	s := newAuth(t)
	req := studentRequest()
	req.Role = "institute"

	u, err := s.CreateUser(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, u.StudentID)
	assert.Equal(t, "INSTITUTE20241101093000", u.UserCode)
}

func TestAuth_DuplicateEmail(t *testing.T) {
	s := newAuth(t)
	_, err := s.CreateUser(context.Background(), studentRequest())
	require.NoError(t, err)

	again := studentRequest()
	again.Email = "ASHA@example.com"
	_, err = s.CreateUser(context.Background(), again)
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestAuth_CreateValidation(t *testing.T) {
	cases := []struct {
		name   string
		field  string
		mutate func(*dto.RegisterRequest)
	}{
		{"bad email", "email", func(r *dto.RegisterRequest) { r.Email = "not-an-email" }},
		{"short password", "password", func(r *dto.RegisterRequest) { r.Password = "short" }},
		{"long password", "password", func(r *dto.RegisterRequest) { r.Password = strings.Repeat("a", 80) }},
		{"blank first name", "first_name", func(r *dto.RegisterRequest) { r.FirstName = " " }},
		{"missing last name", "last_name", func(r *dto.RegisterRequest) { r.LastName = "" }},
		{"unknown role", "role", func(r *dto.RegisterRequest) { r.Role = "admin" }},
		{"bad date of birth", "date_of_birth", func(r *dto.RegisterRequest) { r.DateOfBirth = "14/05/2002" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := studentRequest()
			tc.mutate(req)
			_, err := newAuth(t).CreateUser(context.Background(), req)
			require.ErrorIs(t, err, ErrValidation)

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.field, ve.Field)
		})
	}
}

func TestAuth_CreateAcceptsMaxLengthPassword(t *testing.T) {
	req := studentRequest()
	req.Password = strings.Repeat("a", 72)
	_, err := newAuth(t).CreateUser(context.Background(), req)
	require.NoError(t, err)
}

func TestAuth_Login(t *testing.T) {
	s := newAuth(t)
	_, err := s.CreateUser(context.Background(), studentRequest())
	require.NoError(t, err)

	resp, err := s.Login(context.Background(), &dto.LoginRequest{Email: "asha@example.com", Password: "correct-horse", Role: "student"})
	require.NoError(t, err)
	assert.Equal(t, "Login successful", resp.Message)

	_, err = s.Login(context.Background(), &dto.LoginRequest{Email: "asha@example.com", Password: "wrong-password", Role: "student"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = s.Login(context.Background(), &dto.LoginRequest{Email: "asha@example.com", Password: "correct-horse", Role: "institute"})
	assert.ErrorIs(t, err, ErrInvalidCredentials, "role is part of the credentials")

	_, err = s.Login(context.Background(), &dto.LoginRequest{Email: "nobody@example.com", Password: "correct-horse", Role: "student"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuth_RefreshRotatesAndLogoutRevokes(t *testing.T) {
	s := newAuth(t)
	resp, err := s.Register(context.Background(), studentRequest())
	require.NoError(t, err)

	rotated, err := s.Refresh(context.Background(), &dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, resp.RefreshToken, rotated.RefreshToken)

	_, err = s.Refresh(context.Background(), &dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidToken, "a rotated token cannot be reused")

	require.NoError(t, s.Logout(context.Background(), &dto.LogoutRequest{RefreshToken: rotated.RefreshToken}))
	_, err = s.Refresh(context.Background(), &dto.RefreshRequest{RefreshToken: rotated.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuth_RefreshExpired(t *testing.T) {
	s := newAuth(t)
	resp, err := s.Register(context.Background(), studentRequest())
	require.NoError(t, err)

	later := s.now().Add(2 * time.Hour)
	s.now = func() time.Time { return later }

	_, err = s.Refresh(context.Background(), &dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuth_ListUsersInCreationOrder(t *testing.T) {
	s := newAuth(t)
	first := studentRequest()
	second := studentRequest()
	second.Email = "ravi@example.com"
	second.Role = string(models.RoleInstitute)

	_, err := s.CreateUser(context.Background(), first)
	require.NoError(t, err)
	_, err = s.CreateUser(context.Background(), second)
	require.NoError(t, err)

	users, err := s.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "asha@example.com", users[0].Email)
	assert.Equal(t, "ravi@example.com", users[1].Email)
}

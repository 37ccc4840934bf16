package services

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/doclocker/internal/config"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/dto"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/models"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/store"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 8
	// bcrypt rejects longer inputs.
	maxPasswordBytes = 72
)

type AuthService struct {
	users  store.Users
	tokens store.RefreshTokens
	cfg    *config.Config
	now    func() time.Time
}

func NewAuthService(users store.Users, tokens store.RefreshTokens, cfg *config.Config) *AuthService {
	return &AuthService{users: users, tokens: tokens, cfg: cfg, now: time.Now}
}

// CreateUser validates the profile, hashes the password and stores the user.
func (s *AuthService) CreateUser(ctx context.Context, req *dto.RegisterRequest) (*models.User, error) {
	email := strings.TrimSpace(req.Email)
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, invalid("email", "must be a valid email address")
	}
	if len(req.Password) < minPasswordLength {
		return nil, invalid("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}
	if len(req.Password) > maxPasswordBytes {
		return nil, invalid("password", fmt.Sprintf("must be at most %d bytes", maxPasswordBytes))
	}
	if strings.TrimSpace(req.FirstName) == "" {
		return nil, invalid("first_name", "is required")
	}
	if strings.TrimSpace(req.LastName) == "" {
		return nil, invalid("last_name", "is required")
	}
	role := models.Role(strings.ToLower(req.Role))
	if !role.Valid() {
		return nil, invalid("role", "must be student or institute")
	}

	var dob *time.Time
	if req.DateOfBirth != "" {
		t, err := time.Parse(time.DateOnly, req.DateOfBirth)
		if err != nil {
			return nil, invalid("date_of_birth", "must be YYYY-MM-DD")
		}
		dob = &t
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now().UTC()
	user := &models.User{
		ID:           uuid.New(),
		UserCode:     req.UserCode,
		Email:        email,
		Password:     string(hash),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Role:         role,
		MobileNumber: req.MobileNumber,
		DateOfBirth:  dob,
		Gender:       req.Gender,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if user.UserCode == "" {
		user.UserCode = strings.ToUpper(string(role)) + now.Format("20060102150405")
	}
	if role == models.RoleStudent {
		user.StudentID = req.StudentID
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	user, err := s.CreateUser(ctx, req)
	if err != nil {
		return nil, err
	}
	resp, err := s.generateTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}
	resp.Message = "Registration successful"
	return resp, nil
}

// FindByCredentials looks up an active user by email and role.
func (s *AuthService) FindByCredentials(ctx context.Context, email string, role models.Role) (*models.User, error) {
	user, err := s.users.FindActive(ctx, strings.TrimSpace(email), role)
	if err != nil {
		return nil, notFound("find user", err)
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	role := models.Role(strings.ToLower(req.Role))
	if !role.Valid() {
		return nil, invalid("role", "must be student or institute")
	}

	user, err := s.FindByCredentials(ctx, req.Email, role)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	resp, err := s.generateTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}
	resp.Message = "Login successful"
	return resp, nil
}

func (s *AuthService) Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.AuthResponse, error) {
	tokenHash := hashToken(req.RefreshToken)

	stored, err := s.tokens.GetActiveByHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to look up refresh token: %w", err)
	}

	if err := s.tokens.Revoke(ctx, tokenHash); err != nil {
		return nil, fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	if s.now().After(stored.ExpiresAt) {
		return nil, ErrInvalidToken
	}

	user, err := s.users.GetByID(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !user.IsActive {
		return nil, ErrInvalidToken
	}

	resp, err := s.generateTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}
	resp.Message = "Token refreshed"
	return resp, nil
}

func (s *AuthService) Logout(ctx context.Context, req *dto.LogoutRequest) error {
	if err := s.tokens.Revoke(ctx, hashToken(req.RefreshToken)); err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}
	return nil
}

func (s *AuthService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, notFound("get user", err)
	}
	return user, nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *AuthService) generateTokenPair(ctx context.Context, user *models.User) (*dto.AuthResponse, error) {
	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.generateRefreshToken(ctx, user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		Success:      true,
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *AuthService) generateAccessToken(user *models.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"role":  string(user.Role),
		"iat":   now.Unix(),
		"exp":   now.Add(s.cfg.JWTAccessExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

func (s *AuthService) generateRefreshToken(ctx context.Context, user *models.User) (string, error) {
	rawToken, err := generateRefreshToken()
	if err != nil {
		return "", err
	}

	now := s.now()
	record := models.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: hashToken(rawToken),
		ExpiresAt: now.Add(s.cfg.JWTRefreshExpiry),
		CreatedAt: now,
	}
	if err := s.tokens.Create(ctx, &record); err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return rawToken, nil
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h)
}

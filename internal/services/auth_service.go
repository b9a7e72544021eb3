package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"unimarket/internal/config"
	"unimarket/internal/domain/user"
	"unimarket/internal/repository"
	apperrors "unimarket/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	userRepo  repository.UserRepository
	jwtSecret []byte
	accessTTL time.Duration
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: []byte(cfg.JWTSecret),
		accessTTL: time.Duration(cfg.JWTExpiryMin) * time.Minute,
	}
}

type RegisterInput struct {
	Email        string
	Password     string
	DisplayName  string
	UniversityID *uuid.UUID
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthResponse struct {
	AccessToken string   `json:"access_token"`
	ExpiresIn   int64    `json:"expires_in"`
	User        UserInfo `json:"user"`
}

// UserInfo is the public profile shape exposed to other users.
type UserInfo struct {
	ID           string  `json:"id"`
	DisplayName  string  `json:"display_name"`
	Email        string  `json:"email,omitempty"`
	AvatarURL    *string `json:"avatar_url,omitempty"`
	UniversityID *string `json:"university_id,omitempty"`
}

type AccessClaims struct {
	UserID string `json:"sub"`
	jwt.RegisteredClaims
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (AuthResponse, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		return AuthResponse{}, fmt.Errorf("%w: valid email is required", apperrors.ErrInvalidInput)
	}
	if len(in.Password) < 8 {
		return AuthResponse{}, fmt.Errorf("%w: password must be at least 8 characters", apperrors.ErrInvalidInput)
	}
	if strings.TrimSpace(in.DisplayName) == "" {
		return AuthResponse{}, fmt.Errorf("%w: display name is required", apperrors.ErrInvalidInput)
	}

	if _, err := s.userRepo.GetByEmail(ctx, in.Email); err == nil {
		return AuthResponse{}, fmt.Errorf("%w: email already registered", apperrors.ErrAlreadyExists)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return AuthResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResponse{}, err
	}

	u := &user.User{
		ID:           uuid.New(),
		Email:        in.Email,
		PasswordHash: string(hash),
		DisplayName:  strings.TrimSpace(in.DisplayName),
		UniversityID: in.UniversityID,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		return AuthResponse{}, err
	}

	return s.issueToken(*u)
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return AuthResponse{}, apperrors.ErrUnauthorized
		}
		return AuthResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return AuthResponse{}, apperrors.ErrUnauthorized
	}

	return s.issueToken(u)
}

// ParseAccessToken verifies a bearer token and returns its claims.
func (s *AuthService) ParseAccessToken(token string) (AccessClaims, error) {
	var claims AccessClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !parsed.Valid {
		return AccessClaims{}, apperrors.ErrUnauthorized
	}
	return claims, nil
}

// VerifyToken resolves a bearer token to a user id. Used by both the HTTP
// auth middleware and the websocket handshake.
func (s *AuthService) VerifyToken(token string) (uuid.UUID, error) {
	claims, err := s.ParseAccessToken(token)
	if err != nil {
		return uuid.Nil, err
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, apperrors.ErrUnauthorized
	}
	return userID, nil
}

func (s *AuthService) GetProfile(ctx context.Context, userID uuid.UUID) (user.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *AuthService) issueToken(u user.User) (AuthResponse, error) {
	now := time.Now()
	claims := AccessClaims{
		UserID: u.ID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return AuthResponse{}, err
	}
	return AuthResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.accessTTL.Seconds()),
		User:        PublicUserInfo(u),
	}, nil
}

// PublicUserInfo maps a user row to its public profile fields.
func PublicUserInfo(u user.User) UserInfo {
	info := UserInfo{
		ID:          u.ID.String(),
		DisplayName: u.DisplayName,
		Email:       u.Email,
		AvatarURL:   u.AvatarURL,
	}
	if u.UniversityID != nil {
		id := u.UniversityID.String()
		info.UniversityID = &id
	}
	return info
}

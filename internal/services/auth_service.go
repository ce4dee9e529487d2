package services

import (
	"context"
	"errors"
	"time"
	"unicode"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"bakehouse/internal/auth"
	"bakehouse/internal/models"
	"bakehouse/internal/store"
)

const bcryptCost = 12

type AuthService struct {
	users      *store.UserStore
	sessions   auth.SessionStore
	sessionTTL time.Duration
}

func NewAuthService(users *store.UserStore, sessions auth.SessionStore, sessionTTL time.Duration) *AuthService {
	return &AuthService{users: users, sessions: sessions, sessionTTL: sessionTTL}
}

func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	if !strongPassword(req.Password) {
		return nil, ErrWeakPassword
	}

	taken, err := s.users.EmailTaken(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Phone:        req.Phone,
		Role:         models.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"user_id": user.ID, "email": user.Email}).Info("User registered")
	return user, nil
}

// Login verifies credentials and mints a session token.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.User, string, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.sessions.Create(ctx, user.ID, s.sessionTTL)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Revoke(ctx, token)
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID int, req models.UpdateProfileRequest) error {
	fields := map[string]interface{}{}
	if req.Phone != nil {
		fields["phone"] = *req.Phone
	}
	if req.Address != nil {
		fields["address"] = *req.Address
	}
	if req.City != nil {
		fields["city"] = *req.City
	}
	if req.PostalCode != nil {
		fields["postal_code"] = *req.PostalCode
	}
	if len(fields) == 0 {
		return nil
	}

	err := s.users.UpdateProfile(ctx, userID, fields)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}
	return err
}

func (s *AuthService) RedeemPoints(ctx context.Context, userID, points int) (int, error) {
	if err := s.users.DeductPoints(ctx, userID, points); err != nil {
		return 0, err
	}
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return 0, err
	}
	return user.Points, nil
}

// strongPassword requires at least 8 characters with an upper-case letter,
// a lower-case letter and a digit.
func strongPassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"storefront-service/internal/apperr"
	"storefront-service/internal/entity"
)

const sessionTTL = 24 * time.Hour

type JwtCustomClaims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

type UserService struct {
	users  UserStore
	rdb    *redis.Client
	secret []byte
}

func NewUserService(users UserStore, rdb *redis.Client, secret []byte) *UserService {
	return &UserService{users: users, rdb: rdb, secret: secret}
}

// Register creates a user with a bcrypt-hashed password and returns it with
// a signed session token.
func (s *UserService) Register(ctx context.Context, name, email, password, phone string) (*entity.User, string, error) {
	if email == "" || password == "" {
		return nil, "", fmt.Errorf("email and password required")
	}

	if existing, err := s.users.GetUserByEmail(ctx, email); err == nil && existing != nil {
		return nil, "", apperr.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &entity.User{
		ID:       uuid.NewString(),
		Name:     name,
		Email:    email,
		Password: string(hash),
		Phone:    phone,
		Role:     entity.RoleCustomer,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		logger.Error().Err(err).Msg("Error creating user")
		return nil, "", err
	}

	token, err := s.issueToken(ctx, user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login verifies credentials and issues a session token.
func (s *UserService) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, "", apperr.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", apperr.ErrInvalidCredentials
	}

	token, err := s.issueToken(ctx, user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// ValidateSession checks the redis session registry for the user.
func (s *UserService) ValidateSession(ctx context.Context, userID, token string) error {
	stored, err := s.rdb.Get(ctx, sessionKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return fmt.Errorf("session not found")
		}
		return err
	}
	if stored != token {
		return fmt.Errorf("session mismatch")
	}
	return nil
}

func (s *UserService) Logout(ctx context.Context, userID string) error {
	return s.rdb.Del(ctx, sessionKey(userID)).Err()
}

func (s *UserService) issueToken(ctx context.Context, user *entity.User) (string, error) {
	claims := &JwtCustomClaims{
		Name:  user.Name,
		Email: user.Email,
		Phone: user.Phone,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(sessionTTL)),
		},
	}

	tkn := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tkn.SignedString(s.secret)
	if err != nil {
		return "", err
	}

	// Session registry keyed by user id, same lifetime as the token.
	if err := s.rdb.Set(ctx, sessionKey(user.ID), signed, sessionTTL).Err(); err != nil {
		return "", err
	}

	return signed, nil
}

func sessionKey(userID string) string {
	return fmt.Sprintf("session:%s", userID)
}

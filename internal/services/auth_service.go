package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mkruglov/go-task-api/internal/auth"
	"github.com/mkruglov/go-task-api/internal/models"
	"github.com/mkruglov/go-task-api/internal/storage"
)

type authServiceImpl struct {
	logger zerolog.Logger
	users  storage.UserStore
	hasher auth.PasswordHasher
	tokens auth.TokenManager
}

func NewAuthService(
	logger zerolog.Logger,
	users storage.UserStore,
	hasher auth.PasswordHasher,
	tokens auth.TokenManager,
) AuthService {
	return &authServiceImpl{
		logger: logger,
		users:  users,
		hasher: hasher,
		tokens: tokens,
	}
}

func (s *authServiceImpl) Signup(ctx context.Context, params SignupParams) error {
	now := time.Now()
	user := models.User{
		Email:     params.Email,
		IsActive:  true,
		IsAdmin:   false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	userUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate user uuid")
		return err
	}
	user.ID = userUUID.String()

	passwordHash, err := s.hasher.Hash(params.Password)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to hash password")
		return err
	}
	user.Password = passwordHash

	err = s.users.CreateUser(ctx, &user)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			s.logger.Error().
				Str("email", user.Email).
				Msg("user with this email already exists")
			return ErrUserAlreadyExists
		}

		s.logger.Error().
			Err(err).
			Msg("failed to create user")
		return err
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Msg("signed up user")
	return nil
}

func (s *authServiceImpl) Login(ctx context.Context, params LoginParams) (*LoginResult, error) {
	user, err := s.users.GetUserByEmail(ctx, params.Email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Error().
				Str("email", params.Email).
				Msg("user not found")
			return nil, ErrInvalidCredentials
		}

		s.logger.Error().
			Err(err).
			Str("email", params.Email).
			Msg("failed to select user by email")
		return nil, err
	}
	s.logger.Debug().
		Str("user_id", user.ID).
		Msg("selected user")

	match, err := s.hasher.Verify(params.Password, user.Password)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to compare password")
		return nil, err
	} else if !match {
		s.logger.Error().Msg("passwords do not match")
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to issue token")
		return nil, err
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Msg("logged in")
	return &LoginResult{
		UserID:         user.ID,
		Token:          token,
		TokenExpiresAt: expiresAt,
	}, nil
}

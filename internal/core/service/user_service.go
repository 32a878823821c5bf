package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/user-service/internal/api/metrics"
	"github.com/99minutos/user-service/internal/core/domain"
	"github.com/99minutos/user-service/internal/core/ports"
)

type UserService struct {
	repo       ports.UserRepository
	logger     zerolog.Logger
	hashCost   int
	generateID func() string
}

func NewUserService(repo ports.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{
		repo:       repo,
		logger:     logger.With().Str("component", "user_service").Logger(),
		hashCost:   bcrypt.DefaultCost,
		generateID: uuid.NewString,
	}
}

// Create stores a new user under a freshly generated id. Any id supplied by the
// caller is discarded.
func (s *UserService) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, fmt.Errorf("%w: user is required", domain.ErrInvalidArgument)
	}

	u := user.Clone()
	u.ID = s.generateID()
	if err := s.hashPassword(u); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, u)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", u.ID).Msg("failed to create user")
		return nil, err
	}

	metrics.UsersCreatedTotal.Inc()
	s.logger.Info().Str("user_id", created.ID).Msg("user created")
	return created, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		s.logger.Debug().Str("user_id", id).Msg("user not found")
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.repo.GetAll(ctx)
}

// Update replaces the user keyed by id. The lookup and the replace are two
// round trips; a concurrent delete between them surfaces as nil.
func (s *UserService) Update(ctx context.Context, id string, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, fmt.Errorf("%w: user is required", domain.ErrInvalidArgument)
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		s.logger.Warn().Str("user_id", id).Msg("update target not found")
		return nil, nil
	}

	u := user.Clone()
	u.ID = id
	if err := s.hashPassword(u); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, id, u)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", id).Msg("failed to update user")
		return nil, err
	}
	if updated == nil {
		s.logger.Warn().Str("user_id", id).Msg("user vanished before update")
		return nil, nil
	}

	s.logger.Info().Str("user_id", id).Msg("user updated")
	return updated, nil
}

func (s *UserService) Delete(ctx context.Context, id string) (bool, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	if existing == nil {
		s.logger.Warn().Str("user_id", id).Msg("delete target not found")
		return false, nil
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", id).Msg("failed to delete user")
		return true, err
	}
	if !deleted {
		s.logger.Error().Str("user_id", id).Msg("store removed nothing for an existing user")
		return true, fmt.Errorf("delete user %s: %w", id, domain.ErrDeleteFailed)
	}

	metrics.UsersDeletedTotal.Inc()
	s.logger.Info().Str("user_id", id).Msg("user deleted")
	return true, nil
}

func (s *UserService) hashPassword(u *domain.User) error {
	if u.Password == "" {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), s.hashCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return fmt.Errorf("%w: password exceeds 72 bytes", domain.ErrInvalidArgument)
	}
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.Password = string(hash)
	return nil
}

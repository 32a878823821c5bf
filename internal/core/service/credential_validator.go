package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/user-service/internal/api/metrics"
	"github.com/99minutos/user-service/internal/core/domain"
	"github.com/99minutos/user-service/internal/core/ports"
)

// LoginLimiter abstracts the failed-attempt counter (Redis).
type LoginLimiter interface {
	Blocked(ctx context.Context, username string) (bool, error)
	RecordFailure(ctx context.Context, username string) error
	Reset(ctx context.Context, username string) error
}

// dummyHash is compared against when no username matched so both rejection
// paths cost one bcrypt comparison.
var dummyHash = sync.OnceValue(func() []byte {
	h, _ := bcrypt.GenerateFromPassword([]byte("no-such-user"), bcrypt.DefaultCost)
	return h
})

type credentialValidator struct {
	repo    ports.UserRepository
	limiter LoginLimiter
	log     zerolog.Logger
}

// NewCredentialValidator returns a CredentialValidator scanning repo. limiter
// may be nil to disable throttling.
func NewCredentialValidator(repo ports.UserRepository, limiter LoginLimiter, log zerolog.Logger) ports.CredentialValidator {
	return &credentialValidator{
		repo:    repo,
		limiter: limiter,
		log:     log.With().Str("component", "credential_validator").Logger(),
	}
}

// Validate scans a full snapshot of users in store order and returns the role
// of the first record whose username matches exactly and whose password
// verifies. The scan is O(n) per attempt since usernames carry no index
// guarantee.
func (v *credentialValidator) Validate(ctx context.Context, username, password string) (*domain.Role, error) {
	if username == "" || password == "" {
		metrics.CredentialValidationsTotal.WithLabelValues("rejected").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	// 1. Throttle check. Limiter failures never block a login.
	if v.limiter != nil {
		blocked, err := v.limiter.Blocked(ctx, username)
		if err != nil {
			v.log.Warn().Err(err).Str("username", username).Msg("login limiter check failed, validating anyway")
		} else if blocked {
			metrics.CredentialValidationsTotal.WithLabelValues("throttled").Inc()
			v.log.Warn().Str("username", username).Msg("login throttled")
			return nil, domain.ErrTooManyAttempts
		}
	}

	// 2. Snapshot.
	users, err := v.repo.GetAll(ctx)
	if err != nil {
		metrics.CredentialValidationsTotal.WithLabelValues("error").Inc()
		v.log.Error().Err(err).Str("username", username).Msg("failed to load users for validation")
		return nil, err
	}

	// 3. Linear scan, first match wins.
	usernameSeen := false
	for i := range users {
		u := &users[i]
		if u.Username != username {
			continue
		}
		usernameSeen = true
		if v.passwordMatches(u, password) {
			v.reset(ctx, username)
			metrics.CredentialValidationsTotal.WithLabelValues("accepted").Inc()
			v.log.Info().Str("username", username).Str("user_id", u.ID).Msg("user validated")
			return u.Clone().Role, nil
		}
	}
	if !usernameSeen {
		_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
	}

	v.recordFailure(ctx, username)
	metrics.CredentialValidationsTotal.WithLabelValues("rejected").Inc()
	v.log.Warn().Str("username", username).Msg("invalid username or password")
	return nil, domain.ErrInvalidCredentials
}

// passwordMatches verifies password against the stored bcrypt hash. A stored
// value that is not a bcrypt hash never matches.
func (v *credentialValidator) passwordMatches(u *domain.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}

func (v *credentialValidator) recordFailure(ctx context.Context, username string) {
	if v.limiter == nil {
		return
	}
	if err := v.limiter.RecordFailure(ctx, username); err != nil {
		v.log.Warn().Err(err).Str("username", username).Msg("failed to record login failure")
	}
}

func (v *credentialValidator) reset(ctx context.Context, username string) {
	if v.limiter == nil {
		return
	}
	if err := v.limiter.Reset(ctx, username); err != nil {
		v.log.Warn().Err(err).Str("username", username).Msg("failed to reset login failures")
	}
}

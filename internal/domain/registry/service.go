package registry

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/avolkov/doorkeeper/pkg/errors"
)

// Service exposes the registration workflow.
type Service interface {
	Register(ctx context.Context, creds Credentials) (Record, error)
}

type service struct {
	cfg     Config
	store   Store
	logger  *slog.Logger
	allowed map[string]struct{}
}

// NewService constructs a Service instance.
func NewService(cfg Config, store Store, logger *slog.Logger) Service {
	var allowed map[string]struct{}
	if len(cfg.AllowedEmails) > 0 {
		allowed = make(map[string]struct{}, len(cfg.AllowedEmails))
		for _, email := range cfg.AllowedEmails {
			normalized, err := normalizeEmail(email)
			if err != nil {
				continue
			}
			allowed[normalized] = struct{}{}
		}
	}
	return &service{
		cfg:     cfg,
		store:   store,
		logger:  logger.With("component", "registry.service"),
		allowed: allowed,
	}
}

// Register runs the sequential registration guards: validate credentials,
// check the allow-list, reject duplicates, hash, write, then re-read to
// confirm the write landed before reporting success.
func (s *service) Register(ctx context.Context, creds Credentials) (Record, error) {
	email, err := normalizeEmail(creds.Email)
	if err != nil {
		return Record{}, apperrors.Wrap(CodeInvalidCredentials, "invalid email address", err)
	}
	if strings.TrimSpace(creds.Password) == "" {
		return Record{}, apperrors.Wrap(CodeInvalidCredentials, "password cannot be empty", nil)
	}
	if s.allowed != nil {
		if _, ok := s.allowed[email]; !ok {
			return Record{}, apperrors.Wrap(CodeNotEligible, "email not eligible for registration", nil)
		}
	}
	_, exists, err := s.store.Get(ctx, email)
	if err != nil {
		return Record{}, apperrors.Wrap(CodeStoreError, "failed to check existing registration", err)
	}
	if exists {
		return Record{}, apperrors.Wrap(CodeAlreadyRegistered, "email already registered", nil)
	}
	hash, err := s.hashPassword(creds.Password)
	if err != nil {
		return Record{}, apperrors.Wrap(CodeStoreError, "failed to hash password", err)
	}
	if err := s.store.Put(ctx, email, hash); err != nil {
		return Record{}, apperrors.Wrap(CodeStoreError, "failed to store registration", err)
	}
	stored, found, err := s.store.Get(ctx, email)
	if err != nil {
		return Record{}, apperrors.Wrap(CodeVerifyFailed, "failed to verify registration", err)
	}
	if !found || stored != hash {
		return Record{}, apperrors.Wrap(CodeVerifyFailed, "stored registration does not match", nil)
	}
	s.logger.Info("user registered", "email", email)
	return Record{Email: email, PasswordHash: hash}, nil
}

func (s *service) hashPassword(password string) (string, error) {
	cost := s.cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.TrimSpace(strings.ToLower(raw))
	if email == "" {
		return "", errors.New("email cannot be empty")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return "", err
	}
	// ParseAddress also accepts the name-addr form ("Bob <bob@example.com>").
	// The store is keyed by the bare address, so anything beyond it would
	// register a second key for the same mailbox.
	if addr.Address != email {
		return "", errors.New("email must be a bare address")
	}
	return email, nil
}

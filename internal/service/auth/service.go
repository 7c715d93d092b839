package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"parcelbee/internal/apperr"
	"parcelbee/internal/domain"
	"parcelbee/internal/logx"
)

// Authentication failures. All of them wrap apperr.ErrUnauthorized.
var (
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", apperr.ErrUnauthorized)
	ErrInvalidToken       = fmt.Errorf("%w: invalid or expired token", apperr.ErrUnauthorized)
	ErrUserNotFound       = fmt.Errorf("%w: user not found", apperr.ErrUnauthorized)
)

// MaxPasswordBytes is the longest password bcrypt can hash.
const MaxPasswordBytes = 72

// RegisterInput is the sign-up form.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
	Phone    *string
}

// Session is a user together with a freshly issued token.
type Session struct {
	User  domain.User
	Token string
}

// Service registers and authenticates users.
type Service struct {
	users    userRepository
	tokens   *Tokens
	hashCost int
	logger   logx.Logger
}

// NewService creates a new auth service. A zero hashCost means bcrypt.DefaultCost.
func NewService(users userRepository, tokens *Tokens, hashCost int, logger logx.Logger) *Service {
	if hashCost == 0 {
		hashCost = bcrypt.DefaultCost
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Service{users: users, tokens: tokens, hashCost: hashCost, logger: logger}
}

// Register creates a customer or partner account and signs it in.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = NormalizeEmail(in.Email)

	switch {
	case in.Name == "":
		return nil, apperr.Invalid("name is required")
	case in.Email == "":
		return nil, apperr.Invalid("email is required")
	case in.Password == "":
		return nil, apperr.Invalid("password is required")
	case len(in.Password) > MaxPasswordBytes:
		return nil, apperr.Invalid("password is too long")
	case strings.TrimSpace(in.Role) == "":
		return nil, apperr.Invalid("role is required")
	}

	role, err := domain.ParseRole(in.Role)
	if err != nil || !role.SelfRegistrable() {
		return nil, apperr.Invalid("Role must be customer or partner")
	}

	existing, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Invalid("Email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &domain.User{
		Email:        in.Email,
		Name:         in.Name,
		Phone:        in.Phone,
		Role:         role,
		IsActive:     true,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return nil, apperr.Invalid("Email already registered")
		}
		return nil, err
	}

	token, err := s.tokens.Issue(*u)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		logx.String("event", "user_registered"),
		logx.Int64("user_id", u.ID),
		logx.String("role", u.Role.String()),
	)
	return &Session{User: *u, Token: token}, nil
}

// Login verifies credentials and issues a token.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperr.Invalid("Email and password required")
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil || !u.IsActive {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("login rejected",
			logx.String("event", "login_rejected"),
			logx.Int64("user_id", u.ID),
		)
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(*u)
	if err != nil {
		return nil, err
	}
	return &Session{User: *u, Token: token}, nil
}

// Authenticate resolves a bearer token to the principal of an active user.
func (s *Service) Authenticate(ctx context.Context, token string) (domain.Principal, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return domain.Principal{}, ErrInvalidToken
	}

	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return domain.Principal{}, err
	}
	if u == nil || !u.IsActive {
		return domain.Principal{}, ErrUserNotFound
	}
	return u.Principal(), nil
}

// NormalizeEmail trims the address and lowercases its domain part.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + "@" + strings.ToLower(email[at+1:])
}

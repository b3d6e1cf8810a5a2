package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frahmantamala/leave-management/internal"
)

type ServiceAPI interface {
	Authenticate(ctx context.Context, dto LoginDTO) (*LoginResponse, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*AuthTokens, error)
	Authorize(ctx context.Context, accessToken string) (*internal.Caller, error)
}

type RepositoryAPI interface {
	GetPasswordForEmail(ctx context.Context, email string) (passwordHash string, employeeID string, err error)
}

// CallerLookup resolves a token subject against the live org directory, so
// role changes and deletions take effect before the token expires.
type CallerLookup interface {
	LookupCaller(ctx context.Context, employeeID string) (*internal.Caller, error)
}

type Service struct {
	repo     RepositoryAPI
	callers  CallerLookup
	tokens   TokenGeneratorAPI
	password *BcryptHasher
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, callers CallerLookup, tokens TokenGeneratorAPI, hasher *BcryptHasher, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		callers:  callers,
		tokens:   tokens,
		password: hasher,
		logger:   logger,
	}
}

// Authenticate validates credentials and returns tokens
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (*LoginResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	storedHash, employeeID, err := s.repo.GetPasswordForEmail(ctx, dto.Email)
	if err != nil {
		if errors.Is(err, internal.ErrEmployeeNotFound) {
			s.logger.Warn("login for unknown email")
			return nil, internal.ErrInvalidCredentials
		}
		s.logger.Error("failed to load credentials", "error", err)
		return nil, err
	}

	if storedHash == "" || !s.password.ComparePassword(storedHash, dto.Password) {
		s.logger.Warn("login with wrong password", "employee_id", employeeID)
		return nil, internal.ErrInvalidCredentials
	}

	caller, err := s.callers.LookupCaller(ctx, employeeID)
	if err != nil {
		return nil, internal.ErrInvalidCredentials
	}

	tokens, err := s.issue(caller)
	if err != nil {
		return nil, err
	}

	s.logger.Info("employee logged in", "employee_id", caller.EmployeeID, "role", caller.Role)
	return &LoginResponse{AuthTokens: *tokens, Employee: caller}, nil
}

// RefreshTokens validates refresh token and returns new tokens
func (s *Service) RefreshTokens(ctx context.Context, refreshToken string) (*AuthTokens, error) {
	claims, err := s.tokens.ValidateToken(refreshToken, TokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	caller, err := s.callers.LookupCaller(ctx, claims.EmployeeID)
	if err != nil {
		return nil, internal.ErrInvalidToken
	}
	return s.issue(caller)
}

// Authorize turns an access token into the caller identity.
func (s *Service) Authorize(ctx context.Context, accessToken string) (*internal.Caller, error) {
	claims, err := s.tokens.ValidateToken(accessToken, TokenTypeAccess)
	if err != nil {
		return nil, err
	}

	caller, err := s.callers.LookupCaller(ctx, claims.EmployeeID)
	if err != nil {
		s.logger.Warn("token subject no longer exists", "employee_id", claims.EmployeeID)
		return nil, internal.ErrInvalidToken
	}
	return caller, nil
}

func (s *Service) issue(caller *internal.Caller) (*AuthTokens, error) {
	accessToken, err := s.tokens.GenerateAccessToken(caller)
	if err != nil {
		return nil, internal.NewInternalError("failed to issue access token", err)
	}
	refreshToken, err := s.tokens.GenerateRefreshToken(caller)
	if err != nil {
		return nil, internal.NewInternalError("failed to issue refresh token", err)
	}

	return &AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.tokens.AccessTTL().Seconds()),
	}, nil
}

package auth

import (
	"context"
	"strings"

	"github.com/vidtube/backend/internal/errs"
	"github.com/vidtube/backend/pkg/models"
)

// UserStore is the credential-store surface the session flow needs.
type UserStore interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByUsernameOrEmail(ctx context.Context, identifier string) (*models.User, error)
	SetRefreshToken(ctx context.Context, userID, token string) error
	// SwapRefreshToken replaces the stored refresh token only if it still
	// equals old, reporting whether the swap happened. This is the
	// compare-and-swap that closes the concurrent-refresh race.
	SwapRefreshToken(ctx context.Context, userID, old, new string) (bool, error)
	ClearRefreshToken(ctx context.Context, userID string) error
}

// Session is the result of a successful login or refresh.
type Session struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	User         *models.User `json:"user,omitempty"`
}

// Service orchestrates login, refresh and logout over the credential store
// and the token service.
type Service struct {
	users  UserStore
	tokens *TokenService
}

// NewService creates a session service.
func NewService(users UserStore, tokens *TokenService) *Service {
	return &Service{users: users, tokens: tokens}
}

// Login authenticates identifier (username or email, case-insensitive) and
// password, persists a fresh refresh token on the user record and returns
// both tokens plus the sanitized user.
func (s *Service) Login(ctx context.Context, identifier, password string) (*Session, error) {
	identifier = strings.ToLower(strings.TrimSpace(identifier))
	if identifier == "" || password == "" {
		return nil, errs.InvalidArgument("username or email and password are required")
	}

	user, err := s.users.GetUserByUsernameOrEmail(ctx, identifier)
	if err != nil {
		if errs.KindOf(err) == errs.KindNotFound {
			return nil, errs.NotFound("user does not exist")
		}
		return nil, err
	}

	if !CheckPassword(user.PasswordHash, password) {
		return nil, errs.Unauthorized("invalid user credentials")
	}

	accessToken, err := s.tokens.IssueAccessToken(user)
	if err != nil {
		return nil, errs.Internal("failed to generate tokens", err)
	}
	refreshToken, err := s.tokens.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, errs.Internal("failed to generate tokens", err)
	}

	// Single point of rotation on login: any previously issued refresh
	// token stops working here.
	if err := s.users.SetRefreshToken(ctx, user.ID, refreshToken); err != nil {
		return nil, errs.Internal("failed to persist refresh token", err)
	}

	return &Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user.Sanitize(),
	}, nil
}

// Refresh exchanges a valid refresh token for a new access/refresh pair,
// rotating the stored token. A token that no longer matches the stored value
// (logout or a concurrent refresh won the race) is rejected even though its
// signature verifies.
func (s *Service) Refresh(ctx context.Context, incoming string) (*Session, error) {
	if incoming == "" {
		return nil, errs.Unauthorized("refresh token required")
	}

	claims, err := s.tokens.VerifyRefreshToken(incoming)
	if err != nil {
		return nil, errs.Unauthorized("invalid refresh token")
	}

	user, err := s.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errs.KindOf(err) == errs.KindNotFound {
			return nil, errs.Unauthorized("invalid refresh token")
		}
		return nil, err
	}

	if user.RefreshToken == "" || user.RefreshToken != incoming {
		return nil, errs.Unauthorized("refresh token is expired or used")
	}

	accessToken, err := s.tokens.IssueAccessToken(user)
	if err != nil {
		return nil, errs.Internal("failed to generate tokens", err)
	}
	refreshToken, err := s.tokens.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, errs.Internal("failed to generate tokens", err)
	}

	swapped, err := s.users.SwapRefreshToken(ctx, user.ID, incoming, refreshToken)
	if err != nil {
		return nil, errs.Internal("failed to persist refresh token", err)
	}
	if !swapped {
		return nil, errs.Unauthorized("refresh token is expired or used")
	}

	return &Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user.Sanitize(),
	}, nil
}

// Logout clears the stored refresh token unconditionally. Calling it for a
// user who is already logged out is a no-op.
func (s *Service) Logout(ctx context.Context, userID string) error {
	if err := s.users.ClearRefreshToken(ctx, userID); err != nil {
		return errs.Internal("failed to clear refresh token", err)
	}
	return nil
}

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/config"
	"github.com/vidtube/backend/pkg/models"
)

var (
	// ErrTokenExpired marks a well-formed, correctly signed token whose
	// lifetime has elapsed. Callers may react by attempting a refresh.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid marks every other verification failure.
	ErrTokenInvalid = errors.New("token invalid")
)

// AccessClaims is the claim set carried by short-lived access tokens.
type AccessClaims struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	jwt.RegisteredClaims
}

// RefreshClaims is the minimal claim set carried by refresh tokens.
type RefreshClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies the two token families. Secrets and TTLs
// come from the process-wide configuration, fixed at startup.
type TokenService struct {
	accessSecret  []byte
	accessTTL     time.Duration
	refreshSecret []byte
	refreshTTL    time.Duration
	now           func() time.Time
}

// NewTokenService creates a token service from auth configuration.
func NewTokenService(cfg config.AuthConfig) *TokenService {
	return &TokenService{
		accessSecret:  []byte(cfg.AccessTokenSecret),
		accessTTL:     cfg.AccessTokenTTL,
		refreshSecret: []byte(cfg.RefreshTokenSecret),
		refreshTTL:    cfg.RefreshTokenTTL,
		now:           time.Now,
	}
}

// IssueAccessToken signs a short-lived access token for the user.
func (s *TokenService) IssueAccessToken(user *models.User) (string, error) {
	now := s.now()
	claims := AccessClaims{
		UserID:   user.ID,
		Email:    user.Email,
		Username: user.Username,
		FullName: user.FullName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.accessSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

// IssueRefreshToken signs a long-lived refresh token for the user id. The
// jti claim makes every issued token distinct, so rotation can tell two
// tokens for the same user apart even when issued within the same second.
func (s *TokenService) IssueRefreshToken(userID string) (string, error) {
	now := s.now()
	claims := RefreshClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.refreshTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.refreshSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return signed, nil
}

// VerifyAccessToken validates signature and lifetime of an access token and
// returns its claims. Expiry and every other failure are distinguishable via
// ErrTokenExpired / ErrTokenInvalid.
func (s *TokenService) VerifyAccessToken(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := s.verify(tokenString, claims, s.accessSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

// VerifyRefreshToken validates signature and lifetime of a refresh token.
func (s *TokenService) VerifyRefreshToken(tokenString string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := s.verify(tokenString, claims, s.refreshSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

func (s *TokenService) verify(tokenString string, claims jwt.Claims, secret []byte) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}, jwt.WithTimeFunc(s.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrTokenExpired
		}
		return ErrTokenInvalid
	}
	if !token.Valid {
		return ErrTokenInvalid
	}
	return nil
}

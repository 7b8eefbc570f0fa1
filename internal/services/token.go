package services

import (
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/yungbote/mycoach-backend/internal/pkg/errors"
	"github.com/yungbote/mycoach-backend/internal/pkg/logger"
)

// TokenService exchanges the deployment's static API token for short-lived
// JWTs and verifies bearer tokens of either kind.
type TokenService interface {
	Exchange(apiToken string) (accessToken string, expiresIn int, err error)
	VerifyBearer(token string) error
	AccessTTL() time.Duration
}

type tokenService struct {
	log          *logger.Logger
	apiToken     string
	jwtSecretKey string
	accessTTL    time.Duration
}

type tokenClaims struct {
	jwt.RegisteredClaims
}

func NewTokenService(baseLog *logger.Logger, apiToken, jwtSecretKey string, accessTTL time.Duration) (TokenService, error) {
	if apiToken == "" {
		return nil, fmt.Errorf("missing API_TOKEN")
	}
	if jwtSecretKey == "" {
		return nil, fmt.Errorf("missing JWT_SECRET_KEY")
	}
	if accessTTL <= 0 {
		accessTTL = time.Hour
	}
	return &tokenService{
		log:          baseLog.With("service", "TokenService"),
		apiToken:     apiToken,
		jwtSecretKey: jwtSecretKey,
		accessTTL:    accessTTL,
	}, nil
}

func (ts *tokenService) AccessTTL() time.Duration { return ts.accessTTL }

func (ts *tokenService) Exchange(apiToken string) (string, int, error) {
	if subtle.ConstantTimeCompare([]byte(apiToken), []byte(ts.apiToken)) != 1 {
		return "", 0, fmt.Errorf("invalid api token: %w", apperrors.ErrUnauthorized)
	}

	now := time.Now()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "mycoach",
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(ts.jwtSecretKey))
	if err != nil {
		return "", 0, fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, int(ts.accessTTL.Seconds()), nil
}

// VerifyBearer accepts either the raw API token or a JWT minted by Exchange.
func (ts *tokenService) VerifyBearer(token string) error {
	if token == "" {
		return fmt.Errorf("missing bearer token: %w", apperrors.ErrUnauthorized)
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(ts.apiToken)) == 1 {
		return nil
	}

	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(ts.jwtSecretKey), nil
	})
	if err != nil || !parsed.Valid {
		return fmt.Errorf("invalid or expired token: %w", apperrors.ErrUnauthorized)
	}
	return nil
}

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"go.uber.org/zap"

	"github.com/mamadbah2/ricemill/internal/config"
	"github.com/mamadbah2/ricemill/internal/domain/models"
	"github.com/mamadbah2/ricemill/pkg/clients/googleauth"
)

// ErrUnauthorized indicates a session token that could not be validated.
var ErrUnauthorized = errors.New("unauthorized")

// Claims is the session token payload.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.StandardClaims
}

// Service exchanges Google sign-ins for app session tokens and validates them.
type Service struct {
	verifier googleauth.Verifier
	secret   []byte
	lifespan time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewService wires a new auth service instance.
func NewService(verifier googleauth.Verifier, cfg config.AuthConfig, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		verifier: verifier,
		secret:   []byte(cfg.JWTSecret),
		lifespan: time.Duration(cfg.TokenHours) * time.Hour,
		logger:   logger,
		now:      time.Now,
	}
}

// Login verifies the Google ID token and issues an app session token for the
// asserted identity.
func (s *Service) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	identity, err := s.verifier.VerifyIDToken(ctx, req.IDToken)
	if err != nil {
		return nil, fmt.Errorf("verify google sign-in: %w", err)
	}

	issuedAt := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Email: identity.Email,
		Name:  identity.Name,
		StandardClaims: jwt.StandardClaims{
			Subject:   identity.Subject,
			ExpiresAt: issuedAt.Add(s.lifespan).Unix(),
			IssuedAt:  issuedAt.Unix(),
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}

	s.logger.Info("user signed in", zap.String("email", identity.Email))

	return &models.LoginResponse{
		Token: signed,
		Email: identity.Email,
		Name:  identity.Name,
	}, nil
}

// Validate parses the session token and returns its claims.
func (s *Service) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrUnauthorized
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrUnauthorized
	}

	return claims, nil
}

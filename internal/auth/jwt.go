package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/kardexcare/service-api/internal/config"
	"github.com/kardexcare/service-api/internal/domain"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Claims is the JWT payload shared with the web frontend's auth layer
type Claims struct {
	Email      string   `json:"email"`
	Name       string   `json:"name"`
	Role       string   `json:"role"`
	ZoneIDs    []string `json:"zoneIds,omitempty"`
	CustomerID string   `json:"customerId,omitempty"`
	jwt.RegisteredClaims
}

// JWTValidator validates HS256 tokens signed with the shared secret
type JWTValidator struct {
	secret   []byte
	tokenTTL time.Duration
}

// NewJWTValidator creates a new JWT validator
func NewJWTValidator(cfg *config.AuthConfig) *JWTValidator {
	return &JWTValidator{
		secret:   []byte(cfg.Secret),
		tokenTTL: cfg.TokenTTLDuration(),
	}
}

// ValidateToken validates a token string and returns the user context
func (v *JWTValidator) ValidateToken(tokenString string) (*UserContext, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	role := domain.UserRole(claims.Role)
	if !role.IsValid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidToken, claims.Role)
	}

	userCtx := &UserContext{
		DisplayName: claims.Name,
		Email:       claims.Email,
		Role:        role,
	}

	if claims.Subject != "" {
		if uid, err := uuid.Parse(claims.Subject); err == nil {
			userCtx.UserID = uid
		}
	}
	if userCtx.UserID == uuid.Nil {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	for _, zid := range claims.ZoneIDs {
		if id, err := uuid.Parse(zid); err == nil {
			userCtx.ZoneIDs = append(userCtx.ZoneIDs, id)
		}
	}

	if claims.CustomerID != "" {
		if id, err := uuid.Parse(claims.CustomerID); err == nil {
			userCtx.CustomerID = &id
		}
	}

	return userCtx, nil
}

// IssueToken signs a token for the given user. Used by CLI tooling and tests;
// interactive sessions get their tokens from the frontend's auth layer.
func (v *JWTValidator) IssueToken(user *domain.User, zoneIDs []uuid.UUID) (string, error) {
	now := time.Now()

	claims := &Claims{
		Email: user.Email,
		Name:  user.Name,
		Role:  string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(v.tokenTTL)),
		},
	}
	for _, id := range zoneIDs {
		claims.ZoneIDs = append(claims.ZoneIDs, id.String())
	}
	if user.CustomerID != nil {
		claims.CustomerID = user.CustomerID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

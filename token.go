package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// SessionClaims are the claims minted for demo-mode session tokens.
// Network-mode tokens come from the portal API and stay opaque.
type SessionClaims struct {
	jwt.RegisteredClaims
	UID  string `json:"uid,omitempty"`
	Role Role   `json:"role,omitempty"`
}

// TokenMinter signs and validates HS256 session tokens
type TokenMinter struct {
	signingKey []byte
	issuer     string
	expiration int // hours
	logger     Logger
}

func NewTokenMinter(signingKey []byte, issuer string, expirationHours int) *TokenMinter {
	if expirationHours <= 0 {
		expirationHours = 24
	}
	return &TokenMinter{
		signingKey: signingKey,
		issuer:     issuer,
		expiration: expirationHours,
		logger:     defLogger{},
	}
}

func (t *TokenMinter) WithLogger(logger Logger) *TokenMinter {
	if logger != nil {
		t.logger = logger
	}
	return t
}

// Mint issues a signed token for the identity
func (t *TokenMinter) Mint(identity *Identity) (string, error) {
	if identity == nil {
		return "", goerrors.New("identity must not be nil", goerrors.CategoryInternal)
	}

	now := time.Now()
	claims := &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    t.issuer,
			Subject:   identity.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(t.expiration) * time.Hour)),
		},
		UID:  identity.ID,
		Role: identity.Role,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.signingKey)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to sign session token")
	}

	return signed, nil
}

// Validate parses a token string and returns its claims
func (t *TokenMinter) Validate(raw string) (*SessionClaims, error) {
	opts := make([]jwt.ParserOption, 0, 1)
	if t.issuer != "" {
		opts = append(opts, jwt.WithIssuer(t.issuer))
	}

	token, err := jwt.ParseWithClaims(raw, &SessionClaims{}, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			t.logger.Error("unexpected signing method", "alg", tok.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", tok.Header["alg"])
		}
		return t.signingKey, nil
	}, opts...)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryAuth, "invalid session token").
			WithCode(goerrors.CodeUnauthorized)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, goerrors.New("invalid session token claims", goerrors.CategoryAuth).
			WithCode(goerrors.CodeUnauthorized)
	}

	return claims, nil
}

package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/course-tracker/internal/domain"
)

// DefaultSessionTTL is the validity window of a session token.
const DefaultSessionTTL = 7 * 24 * time.Hour

var (
	// ErrInvalidSignature covers tampered, malformed and foreign-secret tokens.
	ErrInvalidSignature = errors.New("session token signature invalid")
	// ErrExpired is returned for a well-signed token at or past its expiry.
	ErrExpired = errors.New("session token expired")
	// ErrEmptySecret rejects codec construction without a signing secret.
	ErrEmptySecret = errors.New("session signing secret is empty")
	// ErrInvalidValidity rejects a zero or negative token lifetime.
	ErrInvalidValidity = errors.New("session validity must be positive")
)

// Principal is the identity carried by a verified session token.
type Principal struct {
	UserID string
	Email  string
	Role   domain.Role
}

// Claims describes the JWT payload.
type Claims struct {
	UserID string      `json:"userId"`
	Email  string      `json:"email"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies session tokens with HS256.
type TokenCodec struct {
	secret []byte
	now    func() time.Time
}

// CodecOption customizes a TokenCodec.
type CodecOption func(*TokenCodec)

// WithClock overrides the time source used for issuing and verifying.
func WithClock(now func() time.Time) CodecOption {
	return func(tc *TokenCodec) {
		tc.now = now
	}
}

// NewTokenCodec builds a codec. An empty secret is refused.
func NewTokenCodec(secret string, opts ...CodecOption) (*TokenCodec, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	tc := &TokenCodec{secret: []byte(secret), now: time.Now}
	for _, opt := range opts {
		opt(tc)
	}
	return tc, nil
}

// Issue signs the principal's claims. The expiry is now+validity rounded up to
// the next whole second, since JWT dates carry seconds only; the token is never
// valid for less than validity.
func (tc *TokenCodec) Issue(p Principal, validity time.Duration) (string, time.Time, error) {
	if !p.Role.Valid() {
		return "", time.Time{}, errors.New("principal role is not set")
	}
	if validity <= 0 {
		return "", time.Time{}, ErrInvalidValidity
	}
	now := tc.now()
	expiresAt := now.Add(validity)
	if whole := expiresAt.Truncate(time.Second); !whole.Equal(expiresAt) {
		expiresAt = whole.Add(time.Second)
	}
	claims := &Claims{
		UserID: p.UserID,
		Email:  p.Email,
		Role:   p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.UserID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now.Truncate(time.Second)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(tc.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, claims.ExpiresAt.Time, nil
}

// Verify checks signature then expiry and returns the embedded principal.
func (tc *TokenCodec) Verify(tokenStr string) (Principal, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return tc.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithStrictDecoding(),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(tc.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Principal{}, ErrExpired
		}
		return Principal{}, ErrInvalidSignature
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.UserID == "" || !claims.Role.Valid() {
		return Principal{}, ErrInvalidSignature
	}
	return Principal{UserID: claims.UserID, Email: claims.Email, Role: claims.Role}, nil
}

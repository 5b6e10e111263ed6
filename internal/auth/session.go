package auth

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CookieName carries the session token.
const CookieName = "auth-token"

// RejectionRecorder receives the reason a presented session was not accepted.
type RejectionRecorder interface {
	RecordSessionRejection(reason string)
}

// Rejection reasons reported to the RejectionRecorder.
const (
	ReasonMissing          = "missing"
	ReasonInvalidSignature = "invalid_signature"
	ReasonExpired          = "expired"
)

// SessionManager stores the session token in an HTTP-only cookie.
type SessionManager struct {
	codec       *TokenCodec
	ttl         time.Duration
	forceSecure bool
	logger      *zap.Logger
	recorder    RejectionRecorder
}

// SessionOptions tunes cookie behaviour.
type SessionOptions struct {
	TTL         time.Duration
	ForceSecure bool
	Logger      *zap.Logger
	Recorder    RejectionRecorder
}

// NewSessionManager constructs a manager around codec.
func NewSessionManager(codec *TokenCodec, opts SessionOptions) *SessionManager {
	if opts.TTL <= 0 {
		opts.TTL = DefaultSessionTTL
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &SessionManager{
		codec:       codec,
		ttl:         opts.TTL,
		forceSecure: opts.ForceSecure,
		logger:      opts.Logger,
		recorder:    opts.Recorder,
	}
}

// StartSession issues a token for p and attaches it to the response.
func (m *SessionManager) StartSession(c *fiber.Ctx, p Principal) error {
	token, expiresAt, err := m.codec.Issue(p, m.ttl)
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.ttl / time.Second),
		Expires:  expiresAt,
		HTTPOnly: true,
		Secure:   m.forceSecure || c.Secure(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return nil
}

// CurrentSession returns the principal for the request's cookie.
// Missing, malformed and expired tokens are all reported as absent.
func (m *SessionManager) CurrentSession(c *fiber.Ctx) (Principal, bool) {
	token := c.Cookies(CookieName)
	if token == "" {
		return Principal{}, false
	}
	p, err := m.codec.Verify(token)
	if err != nil {
		m.reject(c, err)
		return Principal{}, false
	}
	return p, true
}

// EndSession expires the session cookie on the client.
func (m *SessionManager) EndSession(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   m.forceSecure || c.Secure(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (m *SessionManager) reject(c *fiber.Ctx, err error) {
	reason := rejectionReason(err)
	m.logger.Debug("session rejected",
		zap.String("reason", reason),
		zap.String("path", c.Path()))
	if m.recorder != nil {
		m.recorder.RecordSessionRejection(reason)
	}
}

func rejectionReason(err error) string {
	switch {
	case err == nil:
		return ReasonMissing
	case errors.Is(err, ErrExpired):
		return ReasonExpired
	default:
		return ReasonInvalidSignature
	}
}

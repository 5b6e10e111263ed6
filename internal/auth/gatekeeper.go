package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// GatekeeperConfig lists which paths require some valid session.
type GatekeeperConfig struct {
	// Protected path prefixes. A prefix matches itself and anything below it.
	Protected []string
	// Exempt paths win over Protected. Entries ending in "/" match as prefixes,
	// others match exactly.
	Exempt    []string
	LoginPath string
	Logger    *zap.Logger
	Recorder  RejectionRecorder
}

// DefaultGatekeeperConfig protects the dashboard and exempts login, API and static assets.
func DefaultGatekeeperConfig() GatekeeperConfig {
	return GatekeeperConfig{
		Protected: []string{"/dashboard"},
		Exempt:    []string{"/login", "/api/", "/static/"},
		LoginPath: "/login",
	}
}

// Gatekeeper redirects page navigation without a valid session to the login page.
// It proves only that some session exists; role checks happen in page handlers.
type Gatekeeper struct {
	codec *TokenCodec
	cfg   GatekeeperConfig
}

// NewGatekeeper builds the edge check over codec.
func NewGatekeeper(codec *TokenCodec, cfg GatekeeperConfig) *Gatekeeper {
	if cfg.LoginPath == "" {
		cfg.LoginPath = "/login"
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Gatekeeper{codec: codec, cfg: cfg}
}

// Handle is fiber middleware.
func (g *Gatekeeper) Handle(c *fiber.Ctx) error {
	path := c.Path()
	if g.exempt(path) || !g.protected(path) {
		return c.Next()
	}

	token := c.Cookies(CookieName)
	if token == "" {
		return g.deny(c, nil)
	}
	if _, err := g.codec.Verify(token); err != nil {
		return g.deny(c, err)
	}
	return c.Next()
}

func (g *Gatekeeper) deny(c *fiber.Ctx, err error) error {
	reason := rejectionReason(err)
	g.cfg.Logger.Debug("gatekeeper redirect",
		zap.String("path", c.Path()),
		zap.String("reason", reason))
	if g.cfg.Recorder != nil {
		g.cfg.Recorder.RecordSessionRejection(reason)
	}
	return c.Redirect(g.cfg.LoginPath, fiber.StatusTemporaryRedirect)
}

func (g *Gatekeeper) exempt(path string) bool {
	for _, e := range g.cfg.Exempt {
		if strings.HasSuffix(e, "/") {
			if strings.HasPrefix(path, e) {
				return true
			}
			continue
		}
		if path == e {
			return true
		}
	}
	return false
}

func (g *Gatekeeper) protected(path string) bool {
	for _, prefix := range g.cfg.Protected {
		prefix = strings.TrimSuffix(prefix, "/")
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

package auth

import (
	"strings"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/course-tracker/internal/domain"
)

var baseTime = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

type fakeClock struct{ now time.Time }

func (f *fakeClock) Now() time.Time { return f.now }

func newTestCodec(t *testing.T, secret string) (*TokenCodec, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: baseTime}
	codec, err := NewTokenCodec(secret, WithClock(clock.Now))
	require.NoError(t, err)
	return codec, clock
}

func TestTokenRoundTrip(t *testing.T) {
	principals := []Principal{
		{UserID: "u-1", Email: "manager@edtech.com", Role: domain.RoleManager},
		{UserID: "u-2", Email: "employee@edtech.com", Role: domain.RoleEmployee},
		{UserID: "6f1c", Email: "", Role: domain.RoleEmployee},
	}
	windows := []time.Duration{time.Second, time.Hour, DefaultSessionTTL}

	for _, p := range principals {
		for _, w := range windows {
			codec, clock := newTestCodec(t, "secret")
			token, exp, err := codec.Issue(p, w)
			require.NoError(t, err)
			assert.Equal(t, baseTime.Add(w), exp)

			clock.now = baseTime.Add(w - time.Second)
			got, err := codec.Verify(token)
			require.NoError(t, err, "window %s", w)
			assert.Equal(t, p, got)
		}
	}
}

func TestTokenExpiry(t *testing.T) {
	codec, clock := newTestCodec(t, "secret")
	token, _, err := codec.Issue(Principal{UserID: "u-1", Role: domain.RoleEmployee}, time.Hour)
	require.NoError(t, err)

	t.Run("at expiry", func(t *testing.T) {
		clock.now = baseTime.Add(time.Hour)
		_, err := codec.Verify(token)
		assert.ErrorIs(t, err, ErrExpired)
	})

	t.Run("after expiry", func(t *testing.T) {
		clock.now = baseTime.Add(8 * 24 * time.Hour)
		_, err := codec.Verify(token)
		assert.ErrorIs(t, err, ErrExpired)
	})
}

func TestTokenTampering(t *testing.T) {
	codec, _ := newTestCodec(t, "secret")
	token, _, err := codec.Issue(Principal{UserID: "u-1", Email: "e@x.io", Role: domain.RoleEmployee}, time.Hour)
	require.NoError(t, err)
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	flip := func(s string, i int) string {
		b := []byte(s)
		if b[i] == 'A' {
			b[i] = 'B'
		} else {
			b[i] = 'A'
		}
		return string(b)
	}

	for seg := 0; seg < 3; seg++ {
		for i := 0; i < len(parts[seg]); i++ {
			altered := append([]string{}, parts...)
			altered[seg] = flip(altered[seg], i)
			_, err := codec.Verify(strings.Join(altered, "."))
			assert.ErrorIs(t, err, ErrInvalidSignature, "segment %d index %d", seg, i)
		}
	}
}

func TestTokenRejectsEveryAlternateFinalSignatureChar(t *testing.T) {
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"
	codec, _ := newTestCodec(t, "secret")
	token, _, err := codec.Issue(Principal{UserID: "u-1", Email: "e@x.io", Role: domain.RoleManager}, time.Hour)
	require.NoError(t, err)

	last := token[len(token)-1]
	for i := 0; i < len(alphabet); i++ {
		if alphabet[i] == last {
			continue
		}
		altered := token[:len(token)-1] + string(alphabet[i])
		_, err := codec.Verify(altered)
		assert.ErrorIs(t, err, ErrInvalidSignature, "final char %q", alphabet[i])
	}
}

func TestTokenSubSecondClock(t *testing.T) {
	clock := &fakeClock{now: baseTime.Add(900 * time.Millisecond)}
	codec, err := NewTokenCodec("secret", WithClock(clock.Now))
	require.NoError(t, err)

	p := Principal{UserID: "u-1", Role: domain.RoleEmployee}
	token, exp, err := codec.Issue(p, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, baseTime.Add(time.Hour+time.Second), exp)

	clock.now = baseTime.Add(time.Hour + 900*time.Millisecond - time.Nanosecond)
	got, err := codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	clock.now = exp
	_, err = codec.Verify(token)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestIssueRejectsNonPositiveValidity(t *testing.T) {
	codec, _ := newTestCodec(t, "secret")
	for _, validity := range []time.Duration{0, -time.Second} {
		_, _, err := codec.Issue(Principal{UserID: "u-1", Role: domain.RoleEmployee}, validity)
		assert.ErrorIs(t, err, ErrInvalidValidity)
	}
}

func TestTokenRejectsForeignSecretAndGarbage(t *testing.T) {
	codec, _ := newTestCodec(t, "secret")
	other, _ := newTestCodec(t, "other-secret")

	token, _, err := other.Issue(Principal{UserID: "u-1", Role: domain.RoleManager}, time.Hour)
	require.NoError(t, err)

	_, err = codec.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	for _, garbage := range []string{"", "abc", "a.b.c", token + "x"} {
		_, err := codec.Verify(garbage)
		assert.ErrorIs(t, err, ErrInvalidSignature, garbage)
	}
}

func TestTokenRejectsUnsignedAndWrongAlgorithm(t *testing.T) {
	codec, _ := newTestCodec(t, "secret")
	claims := &Claims{
		UserID: "u-1",
		Role:   domain.RoleManager,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(baseTime.Add(time.Hour)),
		},
	}

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = codec.Verify(unsigned)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = codec.Verify(hs512)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestTokenRequiresExpiryAndRole(t *testing.T) {
	codec, _ := newTestCodec(t, "secret")

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": "u-1", "email": "e@x.io", "role": "manager",
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = codec.Verify(noExp)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	badRole, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": "u-1", "role": "admin", "exp": baseTime.Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = codec.Verify(badRole)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestNewTokenCodecRequiresSecret(t *testing.T) {
	_, err := NewTokenCodec("")
	assert.ErrorIs(t, err, ErrEmptySecret)
}

func TestIssueRejectsUnsetRole(t *testing.T) {
	codec, _ := newTestCodec(t, "secret")
	_, _, err := codec.Issue(Principal{UserID: "u-1"}, time.Hour)
	assert.Error(t, err)
}

package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// SessionCookieName is the cookie holding the admin session token.
const SessionCookieName = "admin-token"

type identityCtxKey struct{}

func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey{}, identity)
}

func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(identityCtxKey{}).(*Identity)
	if !ok || identity == nil {
		return nil, false
	}
	return identity, true
}

// ParseCookieHeader splits a raw Cookie header on "; " and every pair on its
// first "=", so values keep any further "=" (base64 padding and such).
func ParseCookieHeader(raw string) map[string]string {
	cookies := make(map[string]string)
	if raw == "" {
		return cookies
	}
	for _, pair := range strings.Split(raw, "; ") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		cookies[key] = value
	}
	return cookies
}

// NormalizeCookies produces the single cookie map the session logic works on.
// An already parsed map holding the session cookie wins; otherwise the raw header is parsed.
func NormalizeCookies(parsed map[string]string, rawHeader string) map[string]string {
	if parsed[SessionCookieName] != "" {
		return parsed
	}
	return ParseCookieHeader(rawHeader)
}

// CookiesFromRequest normalizes the cookies of r.
func CookiesFromRequest(r *http.Request) map[string]string {
	parsed := make(map[string]string)
	for _, c := range r.Cookies() {
		parsed[c.Name] = c.Value
	}
	return NormalizeCookies(parsed, strings.Join(r.Header.Values("Cookie"), "; "))
}

type TokenVerifier interface {
	Verify(token string) (*Identity, bool)
}

// SessionExtractor resolves the admin identity of a request from its session cookie.
type SessionExtractor struct {
	tokens TokenVerifier
	log    logrus.Ext1FieldLogger
}

func NewSessionExtractor(tokens TokenVerifier, logger logrus.Ext1FieldLogger) *SessionExtractor {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &SessionExtractor{
		tokens: tokens,
		log:    logger,
	}
}

// Resolve returns the identity of the request, or nil when there is none.
// It never panics.
func (e *SessionExtractor) Resolve(r *http.Request) (identity *Identity) {
	defer func() {
		if rec := recover(); rec != nil {
			e.log.Errorf("resolve session identity panic: %v", rec)
			identity = nil
		}
	}()
	return e.ResolveCookies(CookiesFromRequest(r))
}

// ResolveCookies returns the identity held by the session cookie in cookies, or nil.
func (e *SessionExtractor) ResolveCookies(cookies map[string]string) (identity *Identity) {
	defer func() {
		if rec := recover(); rec != nil {
			e.log.Errorf("resolve session cookies panic: %v", rec)
			identity = nil
		}
	}()

	token := cookies[SessionCookieName]
	if token == "" {
		e.log.Trace("no admin session cookie")
		return nil
	}

	identity, ok := e.tokens.Verify(token)
	if !ok || identity == nil || identity.ID == "" {
		e.log.WithField("token", TruncateToken(token)).Debug("admin session token rejected")
		return nil
	}

	return identity
}

// IdentityFor prefers the identity the session middleware put in the request
// context and resolves it from the cookies otherwise.
func (e *SessionExtractor) IdentityFor(r *http.Request) *Identity {
	if identity, ok := IdentityFromContext(r.Context()); ok {
		return identity
	}
	return e.Resolve(r)
}

// NewSessionCookie builds the login cookie for token.
func NewSessionCookie(token string, ttl time.Duration, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ExpiredSessionCookie clears the session cookie (Max-Age=0). Attributes match
// NewSessionCookie so browsers treat it as the same cookie.
func ExpiredSessionCookie(secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

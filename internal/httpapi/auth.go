package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"otter.camp/lingot/internal/globaltime"
	"otter.camp/lingot/internal/model"
	"otter.camp/lingot/internal/store"
)

const principalContextKey = "lingot.principal"

// sessionTouchInterval bounds how often a request updates the session's
// last-seen timestamp. Requests inside the window skip the write.
const sessionTouchInterval = 5 * time.Minute

// principal is the authenticated caller attached to the request context.
type principal struct {
	User    *model.User
	Session *model.Session
}

func currentPrincipal(c echo.Context) *principal {
	p, _ := c.Get(principalContextKey).(*principal)
	return p
}

// requireAuth rejects requests without a valid, unexpired session cookie.
func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, err := s.authenticate(c)
		if err != nil {
			clearSessionCookie(c, s.opts.SessionCookieName, s.opts.SessionCookieSecure)
			return fail(c, http.StatusUnauthorized, "Authentication required", nil)
		}
		c.Set(principalContextKey, p)
		return next(c)
	}
}

// authenticate resolves the session cookie into a principal. Expired sessions
// are deleted on sight.
func (s *Server) authenticate(c echo.Context) (*principal, error) {
	sessionID := sessionIDFromCookie(c, s.opts.SessionCookieName)
	if sessionID == "" {
		return nil, fmt.Errorf("no session cookie")
	}

	ctx := c.Request().Context()
	session, err := s.stores.Sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("lookup session: %w", err)
	}

	now := globaltime.UTC()
	if !session.ExpiresAt.After(now) {
		if err := s.stores.Sessions.DeleteSession(ctx, sessionID); err != nil {
			s.logger.Warn().Err(err).Msg("delete expired session failed")
		}
		return nil, fmt.Errorf("session expired")
	}

	user, err := s.stores.Users.GetUserByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("lookup session user: %w", err)
	}

	if now.Sub(session.LastSeenAt) >= sessionTouchInterval {
		if err := s.stores.Sessions.TouchSession(ctx, sessionID, now); err != nil && !store.IsNotFound(err) {
			s.logger.Warn().Err(err).Msg("touch session failed")
		}
	}

	return &principal{User: user, Session: session}, nil
}

func sessionIDFromCookie(c echo.Context, name string) string {
	cookie, err := c.Cookie(name)
	if err != nil || cookie == nil {
		return ""
	}
	value := strings.TrimSpace(cookie.Value)
	if !isUUID(value) {
		return ""
	}
	return value
}

func isUUID(value string) bool {
	_, err := uuid.Parse(value)
	return err == nil
}

func setSessionCookie(c echo.Context, name, sessionID string, expiresAt time.Time, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    sessionID,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(c echo.Context, name string, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

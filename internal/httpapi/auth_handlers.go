package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"otter.camp/lingot/internal/auth"
	"otter.camp/lingot/internal/globaltime"
	"otter.camp/lingot/internal/model"
	"otter.camp/lingot/internal/settings"
	"otter.camp/lingot/internal/store"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

type userSummary struct {
	ID          string `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}

// loginState bundles the settings singleton with the derived login view.
type loginState struct {
	Settings *model.AppSettings
	View     settings.LoginView
}

func (s *Server) loadLoginState(ctx context.Context) (*loginState, error) {
	appSettings, err := s.stores.AppSettings.GetAppSettings(ctx)
	if err != nil && !store.IsNotFound(err) {
		return nil, err
	}

	count, err := s.stores.Users.CountUsers(ctx)
	if err != nil {
		return nil, err
	}

	return &loginState{
		Settings: appSettings,
		View:     settings.BuildLoginView(appSettings, count),
	}, nil
}

// handleLoginView tells the client what the login screen should show. The
// user list is only included when the view asks for a user select.
func (s *Server) handleLoginView(c echo.Context) error {
	ctx := c.Request().Context()

	state, err := s.loadLoginState(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("load login state failed")
		return internalError(c, "Failed to load login view")
	}

	resp := map[string]any{"view": state.View}
	if state.View.ShowUserSelect {
		users, err := s.stores.Users.ListUsers(ctx)
		if err != nil {
			s.logger.Error().Err(err).Msg("list users for login view failed")
			return internalError(c, "Failed to load login view")
		}
		summaries := make([]userSummary, 0, len(users))
		for _, user := range users {
			summaries = append(summaries, userSummary{
				ID:          user.ID.String(),
				Username:    user.Username,
				DisplayName: user.DisplayName,
			})
		}
		resp["users"] = summaries
	}

	return success(c, resp)
}

func (s *Server) handleLogin(c echo.Context) error {
	var req loginRequest
	if err := decodeJSONBody(c, &req); err != nil {
		return fail(c, http.StatusBadRequest, err.Error(), nil)
	}

	ctx := c.Request().Context()
	state, err := s.loadLoginState(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("load login state failed")
		return internalError(c, "Failed to log in")
	}
	if !state.View.IsConfigured {
		return fail(c, http.StatusForbidden, "Application is not configured yet", nil)
	}

	user, err := s.resolveLoginUser(ctx, state, req)
	if err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return err
		}
		if store.IsNotFound(err) {
			return fail(c, http.StatusUnauthorized, "Invalid username or password", nil)
		}
		s.logger.Error().Err(err).Msg("resolve login user failed")
		return internalError(c, "Failed to log in")
	}

	if state.View.ShowPasswordField && !auth.VerifyPassword(req.Password, user.PasswordHash) {
		return fail(c, http.StatusUnauthorized, "Invalid username or password", nil)
	}

	now := globaltime.UTC()
	expiresAt := now.Add(s.opts.SessionTTL)
	sessionID, err := s.stores.Sessions.CreateSession(ctx, user.ID, expiresAt, now)
	if err != nil {
		s.logger.Error().Err(err).Msg("create session failed")
		return internalError(c, "Failed to log in")
	}

	if err := s.stores.Users.SetUserLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Warn().Err(err).Str("user_id", user.ID.String()).Msg("record last login failed")
	}

	setSessionCookie(c, s.opts.SessionCookieName, sessionID, expiresAt, s.opts.SessionCookieSecure)

	return success(c, map[string]any{
		"user":       user,
		"expires_at": expiresAt,
	})
}

// resolveLoginUser picks the account the login request is for. A missing
// account gets the same message as a wrong password so usernames cannot be
// probed.
func (s *Server) resolveLoginUser(ctx context.Context, state *loginState, req loginRequest) (*model.User, error) {
	username := auth.NormalizeUsername(req.Username)

	if username == "" && state.View.AutoLogin {
		user, err := s.stores.Users.FirstUser(ctx)
		if err != nil {
			return nil, err
		}
		return user, nil
	}

	if username == "" {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "username is required")
	}

	user, err := s.stores.Users.GetUserByUsername(ctx, username)
	if store.IsNotFound(err) {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Invalid username or password")
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Server) handleLogout(c echo.Context) error {
	if sessionID := sessionIDFromCookie(c, s.opts.SessionCookieName); sessionID != "" {
		if err := s.stores.Sessions.DeleteSession(c.Request().Context(), sessionID); err != nil {
			s.logger.Warn().Err(err).Msg("delete session on logout failed")
		}
	}
	clearSessionCookie(c, s.opts.SessionCookieName, s.opts.SessionCookieSecure)
	return success(c, map[string]any{"logged_out": true})
}

func (s *Server) handleMe(c echo.Context) error {
	p := currentPrincipal(c)
	return success(c, map[string]any{
		"user":       p.User,
		"expires_at": p.Session.ExpiresAt,
	})
}

func (s *Server) handleRegister(c echo.Context) error {
	var req registerRequest
	if err := decodeJSONBody(c, &req); err != nil {
		return fail(c, http.StatusBadRequest, err.Error(), nil)
	}

	ctx := c.Request().Context()
	state, err := s.loadLoginState(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("load login state failed")
		return internalError(c, "Failed to register")
	}
	if !state.View.IsConfigured {
		return fail(c, http.StatusForbidden, "Application is not configured yet", nil)
	}
	if !state.View.ShowRegistration {
		return fail(c, http.StatusForbidden, "Registration is disabled", nil)
	}

	fieldErrors := map[string]string{}
	if err := auth.ValidateUsername(req.Username); err != nil {
		fieldErrors["username"] = err.Error()
	}

	passwordHash := ""
	if state.View.ShowPasswordField {
		if err := auth.ValidatePassword(req.Password); err != nil {
			fieldErrors["password"] = err.Error()
		} else if passwordHash, err = auth.HashPassword(req.Password); err != nil {
			s.logger.Error().Err(err).Msg("hash password failed")
			return internalError(c, "Failed to register")
		}
	}
	if len(fieldErrors) > 0 {
		return failValidation(c, fieldErrors)
	}

	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		displayName = auth.NormalizeUsername(req.Username)
	}

	user, err := s.stores.Users.CreateUser(ctx, model.User{
		Username:     auth.NormalizeUsername(req.Username),
		DisplayName:  displayName,
		PasswordHash: passwordHash,
	})
	if errors.Is(err, store.ErrExists) {
		return fail(c, http.StatusConflict, "Username is already taken", nil)
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("create user failed")
		return internalError(c, "Failed to register")
	}

	return successWithStatus(c, http.StatusCreated, map[string]any{"user": user})
}

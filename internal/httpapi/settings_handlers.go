package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"otter.camp/lingot/internal/model"
	"otter.camp/lingot/internal/store"
)

type appSettingsRequest struct {
	MultiuserMode          bool `json:"multiuser_mode"`
	PasswordlessLogin      bool `json:"passwordless_login"`
	ShowUsersOnLoginScreen bool `json:"show_users_on_login_screen"`
}

func (s *Server) handleGetAppSettings(c echo.Context) error {
	appSettings, err := s.stores.AppSettings.GetAppSettings(c.Request().Context())
	if store.IsNotFound(err) {
		return failNotFound(c, "Application is not configured yet")
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("load app settings failed")
		return internalError(c, "Failed to load settings")
	}
	return success(c, appSettings)
}

// handlePutAppSettings writes the settings singleton. The first write is the
// first-run configuration and needs no session; every later write does.
func (s *Server) handlePutAppSettings(c echo.Context) error {
	ctx := c.Request().Context()

	_, err := s.stores.AppSettings.GetAppSettings(ctx)
	configured := err == nil
	if err != nil && !store.IsNotFound(err) {
		s.logger.Error().Err(err).Msg("load app settings failed")
		return internalError(c, "Failed to save settings")
	}

	if configured {
		if _, authErr := s.authenticate(c); authErr != nil {
			return fail(c, http.StatusUnauthorized, "Authentication required", nil)
		}
	}

	var req appSettingsRequest
	if err := decodeJSONBody(c, &req); err != nil {
		return fail(c, http.StatusBadRequest, err.Error(), nil)
	}

	saved, err := s.stores.AppSettings.SaveAppSettings(ctx, model.AppSettings{
		MultiuserMode:          req.MultiuserMode,
		PasswordlessLogin:      req.PasswordlessLogin,
		ShowUsersOnLoginScreen: req.ShowUsersOnLoginScreen,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("save app settings failed")
		return internalError(c, "Failed to save settings")
	}

	status := http.StatusOK
	if !configured {
		status = http.StatusCreated
	}
	return successWithStatus(c, status, saved)
}

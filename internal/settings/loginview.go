// Package settings derives the login-screen behavior from the AppSettings
// singleton. The decision table lives here and nowhere else.
package settings

import "otter.camp/lingot/internal/model"

// LoginView describes what the login screen shows and whether the client
// should skip it entirely.
type LoginView struct {
	// IsConfigured is false until first-run configuration stores AppSettings.
	IsConfigured bool `json:"is_configured"`
	// ShowLogin is false when the client should auto-login instead of
	// rendering a login form.
	ShowLogin         bool `json:"show_login"`
	ShowLogout        bool `json:"show_logout"`
	ShowRegistration  bool `json:"show_registration"`
	ShowPasswordField bool `json:"show_password_field"`
	ShowUserSelect    bool `json:"show_user_select"`
	// AutoLogin means single-user passwordless mode with an existing user:
	// the client logs in as that user without interaction.
	AutoLogin bool `json:"auto_login"`
}

// BuildLoginView computes the login screen state.
//
//	multiuser  passwordless  show_users  behavior
//	false      false         false       single-user login, password required
//	false      true          any         auto-login sole user, no login screen
//	true       false         false       pick identity, enter password
//	true       true          any         pick identity from list, no password
//	false      any           any         no user yet: registration force-enabled
func BuildLoginView(appSettings *model.AppSettings, userCount int64) LoginView {
	if appSettings == nil {
		return LoginView{}
	}

	view := LoginView{
		IsConfigured:      true,
		ShowLogin:         true,
		ShowLogout:        true,
		ShowRegistration:  appSettings.MultiuserMode,
		ShowPasswordField: !appSettings.PasswordlessLogin,
		ShowUserSelect:    appSettings.ShowUsersOnLoginScreen,
	}

	if appSettings.MultiuserMode && appSettings.PasswordlessLogin {
		// Identity is the only credential left, so always offer the list.
		view.ShowUserSelect = true
	}

	if appSettings.PasswordlessLogin && !appSettings.MultiuserMode {
		// The sole user is logged in automatically; no login screen at all.
		view.ShowLogin = false
		view.ShowLogout = false
		view.ShowUserSelect = false
		view.AutoLogin = userCount > 0
	}

	if !appSettings.MultiuserMode && userCount == 0 {
		// Single-user install without its user yet: the registration form
		// must be reachable no matter what was configured.
		view.ShowRegistration = true
	}

	return view
}

package httpapi

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"otter.camp/lingot/internal/model"
)

func TestHandlePutAppSettingsFirstRunNeedsNoSession(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)

	_, c, rec := newJSONContext(
		http.MethodPut,
		"/api/v1/app-settings",
		`{"multiuser_mode":true,"passwordless_login":false,"show_users_on_login_screen":true}`,
	)
	if err := server.handlePutAppSettings(c); err != nil {
		t.Fatalf("handlePutAppSettings returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("unexpected status: got %d want %d, body %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	saved := decodeJSend(t, rec)["data"].(map[string]any)
	if saved["multiuser_mode"] != true || saved["show_users_on_login_screen"] != true {
		t.Fatalf("unexpected saved settings: %#v", saved)
	}
}

func TestHandlePutAppSettingsRequiresSessionOnceConfigured(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)
	configure(t, server, model.AppSettings{MultiuserMode: true})

	_, c, rec := newJSONContext(
		http.MethodPut,
		"/api/v1/app-settings",
		`{"multiuser_mode":false}`,
	)
	if err := server.handlePutAppSettings(c); err != nil {
		t.Fatalf("handlePutAppSettings returned error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusUnauthorized)
	}

	// The singleton must be untouched.
	current, err := server.stores.AppSettings.GetAppSettings(c.Request().Context())
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	if !current.MultiuserMode {
		t.Fatalf("settings were overwritten by an unauthenticated request")
	}
}

func TestHandlePutAppSettingsAuthenticatedUpdate(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)
	configure(t, server, model.AppSettings{MultiuserMode: true})
	user := createUser(t, server, "anna", "correct-horse")
	sessionID := loginAs(t, server, user)

	e := echo.New()
	req := httptest.NewRequest(
		http.MethodPut,
		"/api/v1/app-settings",
		bytes.NewBufferString(`{"multiuser_mode":false,"passwordless_login":true}`),
	)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.AddCookie(&http.Cookie{Name: "lingot_session", Value: sessionID})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := server.handlePutAppSettings(c); err != nil {
		t.Fatalf("handlePutAppSettings returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d, body %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	current, err := server.stores.AppSettings.GetAppSettings(c.Request().Context())
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	if current.MultiuserMode || !current.PasswordlessLogin {
		t.Fatalf("unexpected settings after update: %+v", current)
	}
}

func TestHandleGetAppSettings(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)
	configure(t, server, model.AppSettings{PasswordlessLogin: true})
	user := createUser(t, server, "anna", "")

	c, rec := authedContext(t, server, user, http.MethodGet, "/api/v1/app-settings", "")
	if err := server.handleGetAppSettings(c); err != nil {
		t.Fatalf("handleGetAppSettings returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusOK)
	}

	data := decodeJSend(t, rec)["data"].(map[string]any)
	if data["passwordless_login"] != true {
		t.Fatalf("unexpected settings: %#v", data)
	}
}

func TestHandleGetAppSettingsUnconfigured(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)
	user := createUser(t, server, "anna", "correct-horse")

	c, rec := authedContext(t, server, user, http.MethodGet, "/api/v1/app-settings", "")
	if err := server.handleGetAppSettings(c); err != nil {
		t.Fatalf("handleGetAppSettings returned error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusNotFound)
	}
}

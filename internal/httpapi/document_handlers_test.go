package httpapi

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"otter.camp/lingot/internal/ingest"
	"otter.camp/lingot/internal/model"
)

// uploadContext builds an authenticated multipart upload request.
func uploadContext(
	t *testing.T,
	s *Server,
	user *model.User,
	filename string,
	content string,
	fields map[string]string,
) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("write field %s: %v", key, err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	sessionID := loginAs(t, s, user)
	session, err := s.stores.Sessions.GetSession(context.Background(), sessionID)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", &body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(principalContextKey, &principal{User: user, Session: session})
	return c, rec
}

func uploadDocument(t *testing.T, s *Server, user *model.User, displayName, text string) *model.Document {
	t.Helper()

	result, err := s.ingest.UploadDocument(context.Background(), ingest.UploadRequest{
		UserID:       user.ID,
		DisplayName:  displayName,
		LanguageCode: "en",
		Content:      []byte(text),
	})
	if err != nil {
		t.Fatalf("upload document: %v", err)
	}
	return result.Document
}

func TestHandleUploadDocument(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)
	user := createUser(t, server, "anna", "correct-horse")

	c, rec := uploadContext(t, server, user, "practice.txt", "The cat sat.\nThe cat ran.\n", map[string]string{
		"display_name":  "Practice",
		"language_code": "en",
	})
	if err := server.handleUploadDocument(c); err != nil {
		t.Fatalf("handleUploadDocument returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("unexpected status: got %d want %d, body %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	data := decodeJSend(t, rec)["data"].(map[string]any)
	if data["created"] != true {
		t.Fatalf("expected created=true, got %#v", data)
	}
	if data["sentences"] != float64(2) {
		t.Fatalf("expected 2 sentences, got %v", data["sentences"])
	}
}

func TestHandleUploadDocumentDefaultsDisplayNameToFilename(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)
	user := createUser(t, server, "anna", "correct-horse")

	c, rec := uploadContext(t, server, user, "dutch-reader.txt", "De kat zit.\n", map[string]string{
		"language_code": "nl",
	})
	if err := server.handleUploadDocument(c); err != nil {
		t.Fatalf("handleUploadDocument returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("unexpected status: got %d want %d, body %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	data := decodeJSend(t, rec)["data"].(map[string]any)
	doc := data["document"].(map[string]any)
	if doc["display_name"] != "dutch-reader" {
		t.Fatalf("expected display name from filename, got %v", doc["display_name"])
	}
}

func TestHandleUploadDocumentDuplicateReturnsOK(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)
	user := createUser(t, server, "anna", "correct-horse")
	uploadDocument(t, server, user, "Practice", "The cat sat.\n")

	c, rec := uploadContext(t, server, user, "practice.txt", "Completely different text.\n", map[string]string{
		"display_name":  "Practice",
		"language_code": "en",
	})
	if err := server.handleUploadDocument(c); err != nil {
		t.Fatalf("handleUploadDocument returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d, body %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	data := decodeJSend(t, rec)["data"].(map[string]any)
	if data["created"] != false {
		t.Fatalf("expected created=false for re-upload, got %#v", data)
	}
}

func TestHandleUploadDocumentUnsupportedLanguage(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)
	user := createUser(t, server, "anna", "correct-horse")

	c, rec := uploadContext(t, server, user, "practice.txt", "Some text.\n", map[string]string{
		"display_name":  "Practice",
		"language_code": "tlh",
	})
	if err := server.handleUploadDocument(c); err != nil {
		t.Fatalf("handleUploadDocument returned error: %v", err)
	}
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusUnprocessableEntity)
	}
}

func TestHandleUploadDocumentMissingFile(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)
	user := createUser(t, server, "anna", "correct-horse")

	c, rec := authedContext(t, server, user, http.MethodPost, "/api/v1/documents", "{}")
	if err := server.handleUploadDocument(c); err != nil {
		t.Fatalf("handleUploadDocument returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandleListDocuments(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)
	user := createUser(t, server, "anna", "correct-horse")
	other := createUser(t, server, "bob", "another-pass")
	uploadDocument(t, server, user, "Mine", "My text.\n")
	uploadDocument(t, server, other, "Theirs", "Their text.\n")

	c, rec := authedContext(t, server, user, http.MethodGet, "/api/v1/documents", "")
	if err := server.handleListDocuments(c); err != nil {
		t.Fatalf("handleListDocuments returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusOK)
	}

	data := decodeJSend(t, rec)["data"].(map[string]any)
	items := data["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("expected 1 document, got %d", len(items))
	}
	doc := items[0].(map[string]any)
	if doc["display_name"] != "Mine" {
		t.Fatalf("unexpected document: %#v", doc)
	}
}

func TestHandleDocumentDetail(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)
	user := createUser(t, server, "anna", "correct-horse")
	doc := uploadDocument(t, server, user, "Practice", "The cat sat.\nThe cat ran.\n")

	c, rec := authedContext(t, server, user, http.MethodGet, "/api/v1/documents/"+doc.ID.String(), "")
	c.SetParamNames("document_id")
	c.SetParamValues(doc.ID.String())

	if err := server.handleDocumentDetail(c); err != nil {
		t.Fatalf("handleDocumentDetail returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d, body %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	data := decodeJSend(t, rec)["data"].(map[string]any)
	sentences := data["sentences"].([]any)
	if len(sentences) != 2 {
		t.Fatalf("expected 2 sentences, got %d", len(sentences))
	}

	first := sentences[0].(map[string]any)
	if first["order"] != float64(1) {
		t.Fatalf("sentence orders are 1-based, got %v", first["order"])
	}
	if first["text"] != "The cat sat." {
		t.Fatalf("unexpected first sentence: %v", first["text"])
	}

	words := first["words"].([]any)
	if len(words) != 3 {
		t.Fatalf("expected 3 words, got %d", len(words))
	}
	if words[0].(map[string]any)["order"] != float64(0) {
		t.Fatalf("word orders are 0-based, got %v", words[0].(map[string]any)["order"])
	}
}

func TestHandleDocumentDetailHidesOtherUsers(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)
	owner := createUser(t, server, "anna", "correct-horse")
	intruder := createUser(t, server, "bob", "another-pass")
	doc := uploadDocument(t, server, owner, "Private", "Secret text.\n")

	c, rec := authedContext(t, server, intruder, http.MethodGet, "/api/v1/documents/"+doc.ID.String(), "")
	c.SetParamNames("document_id")
	c.SetParamValues(doc.ID.String())

	if err := server.handleDocumentDetail(c); err != nil {
		t.Fatalf("handleDocumentDetail returned error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusNotFound)
	}
}

func TestHandleDeleteDocument(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)
	user := createUser(t, server, "anna", "correct-horse")
	doc := uploadDocument(t, server, user, "Practice", "The cat sat.\n")

	c, rec := authedContext(t, server, user, http.MethodDelete, "/api/v1/documents/"+doc.ID.String(), "")
	c.SetParamNames("document_id")
	c.SetParamValues(doc.ID.String())

	if err := server.handleDeleteDocument(c); err != nil {
		t.Fatalf("handleDeleteDocument returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d, body %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	if _, err := server.stores.Documents.GetDocument(context.Background(), doc.ID); err == nil {
		t.Fatalf("expected document to be deleted")
	}
}

func TestHandleDeleteDocumentInvalidID(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)
	user := createUser(t, server, "anna", "correct-horse")

	c, rec := authedContext(t, server, user, http.MethodDelete, "/api/v1/documents/garbage", "")
	c.SetParamNames("document_id")
	c.SetParamValues("garbage")

	if err := server.handleDeleteDocument(c); err != nil {
		t.Fatalf("handleDeleteDocument returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusBadRequest)
	}
}

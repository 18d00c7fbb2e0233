package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"edubackend/internal/app"
	"edubackend/internal/auth"
	"edubackend/internal/config"
	"edubackend/internal/dispatch"
	"edubackend/internal/domain"
	"edubackend/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testSecret = []byte("router-test-secret")

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	mux := dispatch.NewMux()
	if err := app.NewHandlers(db, testSecret, time.Hour).RegisterAll(mux); err != nil {
		t.Fatalf("registration error: %v", err)
	}

	env := config.Env{CORSOrigins: []string{"http://localhost:3000"}}
	r, err := NewRouter(env, mux, auth.NewJWTResolver(testSecret))
	if err != nil {
		t.Fatalf("router error: %v", err)
	}
	return r, mock
}

func tokenFor(t *testing.T, id domain.ID, role domain.Role) string {
	t.Helper()
	token, err := auth.IssueToken(testSecret, models.User{ID: id, Role: role}, time.Hour)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	return token
}

func doRequest(r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("bad envelope %s: %v", w.Body.String(), err)
	}
	return env
}

func TestHealthIsPublic(t *testing.T) {
	r, _ := newTestServer(t)
	w := doRequest(r, http.MethodGet, "/Health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("got status %d", w.Code)
	}
}

func TestRouterRefusesUnregisteredBindings(t *testing.T) {
	env := config.Env{CORSOrigins: []string{"http://localhost:3000"}}
	// Empty mux: every bound request type is missing its handler.
	_, err := NewRouter(env, dispatch.NewMux(), auth.NewJWTResolver(testSecret))
	if err == nil {
		t.Fatal("router must refuse to start with an empty handler table")
	}
}

func TestAdminAnnouncementsPagedList(t *testing.T) {
	r, mock := newTestServer(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM announcements`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))
	mock.ExpectQuery("FROM announcements ORDER BY id DESC LIMIT").
		WithArgs(2, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "body", "audience", "published", "created_at", "updated_at"}).
			AddRow(5, "Exam week", "Rooms change", "all", true, now, now).
			AddRow(4, "Library hours", "Open late", "all", false, now, now))

	w := doRequest(r, http.MethodGet, "/Admin/Announcements?page=1&pageSize=2", tokenFor(t, 1, domain.RoleAdmin), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("got status %d body %s", w.Code, w.Body.String())
	}

	env := decodeEnvelope(t, w)
	if !env.Success {
		t.Fatalf("expected success, got %s", w.Body.String())
	}

	var page struct {
		Items      []app.AnnouncementDTO `json:"items"`
		TotalCount int                   `json:"totalCount"`
		Page       int                   `json:"page"`
		PageSize   int                   `json:"pageSize"`
	}
	if err := json.Unmarshal(env.Data, &page); err != nil {
		t.Fatalf("bad page payload: %v", err)
	}
	if page.TotalCount != 5 || page.Page != 1 || page.PageSize != 2 {
		t.Fatalf("unexpected paging meta: %+v", page)
	}
	if len(page.Items) != 2 {
		t.Fatalf("items got %d want 2", len(page.Items))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAdminRouteWithoutTokenIs401AndTouchesNothing(t *testing.T) {
	r, mock := newTestServer(t)

	w := doRequest(r, http.MethodGet, "/Admin/Announcements", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("got status %d", w.Code)
	}
	if env := decodeEnvelope(t, w); env.Success {
		t.Fatal("401 response must not be marked success")
	}
	// The handler never ran: no DB expectation was set and none consumed.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("handler touched collaborators: %v", err)
	}
}

func TestAdminRouteWithStudentTokenIs403(t *testing.T) {
	r, mock := newTestServer(t)

	w := doRequest(r, http.MethodGet, "/Admin/Announcements", tokenFor(t, 2, domain.RoleStudent), nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("got status %d", w.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("handler touched collaborators: %v", err)
	}
}

func TestDeleteMissingBadgeIs404(t *testing.T) {
	r, mock := newTestServer(t)

	mock.ExpectExec("DELETE FROM badges WHERE id =").
		WithArgs(int64(77)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	w := doRequest(r, http.MethodDelete, "/Admin/Badges/77", tokenFor(t, 1, domain.RoleAdmin), nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("got status %d body %s", w.Code, w.Body.String())
	}
	env := decodeEnvelope(t, w)
	if env.Success || env.Message == "" {
		t.Fatalf("unexpected envelope: %+v", env)
	}
	// Exactly one delete attempt; sqlmock would flag a second exec.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAnnouncementIDBeyondSafeIntegerRoundTrips(t *testing.T) {
	r, mock := newTestServer(t)
	const bigID = int64(9007199254740993)

	mock.ExpectExec("INSERT INTO announcements").
		WillReturnResult(sqlmock.NewResult(bigID, 1))

	w := doRequest(r, http.MethodPost, "/Admin/Announcements", tokenFor(t, 1, domain.RoleAdmin),
		map[string]any{"title": "Big one", "body": "x", "published": true})
	if w.Code != http.StatusOK {
		t.Fatalf("got status %d body %s", w.Code, w.Body.String())
	}

	env := decodeEnvelope(t, w)
	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("id did not serialize as a string: %s", env.Data)
	}
	if created.ID != "9007199254740993" {
		t.Fatalf("id got %q", created.ID)
	}

	now := time.Now()
	mock.ExpectQuery("FROM announcements WHERE id =").
		WithArgs(bigID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "body", "audience", "published", "created_at", "updated_at"}).
			AddRow(bigID, "Big one", "x", "", true, now, now))

	w = doRequest(r, http.MethodGet, "/Admin/Announcements/9007199254740993", tokenFor(t, 1, domain.RoleAdmin), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("got status %d body %s", w.Code, w.Body.String())
	}
	env = decodeEnvelope(t, w)
	if err := json.Unmarshal(env.Data, &created); err != nil || created.ID != "9007199254740993" {
		t.Fatalf("round trip lost precision: %s", env.Data)
	}
}

func TestMalformedIDParamIs400(t *testing.T) {
	r, mock := newTestServer(t)

	w := doRequest(r, http.MethodGet, "/Admin/Announcements/not-a-number", tokenFor(t, 1, domain.RoleAdmin), nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d", w.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("handler touched collaborators: %v", err)
	}
}

func TestStudentCompletesMissionTwiceIs409(t *testing.T) {
	r, mock := newTestServer(t)
	now := time.Now()
	student := tokenFor(t, 2, domain.RoleStudent)

	mock.ExpectQuery("FROM missions WHERE id =").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "points", "badge_id", "active", "created_by", "created_at"}).
			AddRow(3, "Read a paper", "", 10, 4, true, 7, now))
	mock.ExpectQuery("SELECT id FROM mission_completions WHERE mission_id =").
		WithArgs(int64(3), int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(15))

	w := doRequest(r, http.MethodPost, "/Student/Missions/3/Complete", student, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("got status %d body %s", w.Code, w.Body.String())
	}
	if env := decodeEnvelope(t, w); env.Success {
		t.Fatal("conflict must not be marked success")
	}
}

func TestLoginIssuesUsableToken(t *testing.T) {
	r, mock := newTestServer(t)
	hash, err := auth.HashPassword("correct-horse-9")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	now := time.Now()

	mock.ExpectQuery("FROM users WHERE email =").
		WithArgs("ada@school.edu").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "role", "status", "created_at"}).
			AddRow(7, "Ada W.", "ada@school.edu", hash, "teacher", "active", now))

	w := doRequest(r, http.MethodPost, "/Auth/Login", "", map[string]any{
		"email": "ada@school.edu", "password": "correct-horse-9",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("got status %d body %s", w.Code, w.Body.String())
	}

	env := decodeEnvelope(t, w)
	var data struct {
		Token string      `json:"token"`
		User  app.UserDTO `json:"user"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("bad login payload: %v", err)
	}
	if data.Token == "" || data.User.ID != 7 {
		t.Fatalf("unexpected login payload: %+v", data)
	}

	// The issued token must pass the resolver the router uses.
	actor, err := auth.NewJWTResolver(testSecret)(data.Token)
	if err != nil || !actor.Authenticated || actor.Role != domain.RoleTeacher {
		t.Fatalf("issued token did not resolve: %v %+v", err, actor)
	}
}

func TestLoginWrongPasswordIs401(t *testing.T) {
	r, mock := newTestServer(t)
	hash, _ := auth.HashPassword("right-password")
	now := time.Now()

	mock.ExpectQuery("FROM users WHERE email =").
		WithArgs("ada@school.edu").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "role", "status", "created_at"}).
			AddRow(7, "Ada W.", "ada@school.edu", hash, "teacher", "active", now))

	w := doRequest(r, http.MethodPost, "/Auth/Login", "", map[string]any{
		"email": "ada@school.edu", "password": "wrong-password",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("got status %d", w.Code)
	}
}

func TestCertificateRouteStreamsPDF(t *testing.T) {
	r, mock := newTestServer(t)
	now := time.Now()

	mock.ExpectQuery("FROM cpd_records WHERE id =").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "activity", "hours", "activity_date", "created_at"}).
			AddRow(5, 7, "Curriculum design workshop", 6.5, "2026-03-14", now))
	mock.ExpectQuery("FROM users WHERE id =").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "role", "status", "created_at"}).
			AddRow(7, "Ada W.", "ada@school.edu", "x", "teacher", "active", now))

	w := doRequest(r, http.MethodGet, "/Teacher/CpdRecords/5/Certificate", tokenFor(t, 7, domain.RoleTeacher), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("got status %d body %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("content type got %q", ct)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")) {
		t.Fatalf("body is not a PDF, starts with %q", w.Body.Bytes()[:min(8, w.Body.Len())])
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "cpd-certificate-5.pdf") {
		t.Fatalf("content disposition got %q", cd)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCertificateRouteForOthersRecordIs403Envelope(t *testing.T) {
	r, mock := newTestServer(t)
	now := time.Now()

	mock.ExpectQuery("FROM cpd_records WHERE id =").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "activity", "hours", "activity_date", "created_at"}).
			AddRow(5, 7, "Workshop", 4.0, "2026-01-10", now))

	w := doRequest(r, http.MethodGet, "/Teacher/CpdRecords/5/Certificate", tokenFor(t, 8, domain.RoleTeacher), nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("got status %d body %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "application/json") {
		t.Fatalf("failure should be a JSON envelope, got %q", ct)
	}
	if env := decodeEnvelope(t, w); env.Success {
		t.Fatal("forbidden response marked success")
	}
	// The teacher lookup and the PDF render never ran.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUnknownRouteIs404Envelope(t *testing.T) {
	r, _ := newTestServer(t)
	w := doRequest(r, http.MethodGet, "/Nope", "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("got status %d", w.Code)
	}
	if env := decodeEnvelope(t, w); env.Success {
		t.Fatal("404 must not be marked success")
	}
}

package handler_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	_ "github.com/mattn/go-sqlite3"

	"github.com/iliyamo/lost-pet-registry/internal/config"
	"github.com/iliyamo/lost-pet-registry/internal/handler"
	"github.com/iliyamo/lost-pet-registry/internal/notify"
	"github.com/iliyamo/lost-pet-registry/internal/repository"
	"github.com/iliyamo/lost-pet-registry/internal/router"
	"github.com/iliyamo/lost-pet-registry/internal/search"
	"github.com/iliyamo/lost-pet-registry/internal/service"
)

// fakeIndex implements search.PetIndex with call recording and injectable
// failures, standing in for Redis in handler tests.
type fakeIndex struct {
	mu          sync.Mutex
	upserts     []search.Document
	searchCalls int
	hits        []search.Document
	failUpsert  bool
}

func (f *fakeIndex) Upsert(_ context.Context, doc search.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpsert {
		return errors.New("index unavailable")
	}
	f.upserts = append(f.upserts, doc)
	return nil
}

func (f *fakeIndex) Remove(context.Context, string) error { return nil }

func (f *fakeIndex) SearchNearby(context.Context, float64, float64, float64) ([]search.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchCalls++
	return f.hits, nil
}

// recordUploader counts Upload calls and hands back a canned URL, standing
// in for Cloudinary.
type recordUploader struct {
	mu    sync.Mutex
	calls int
}

func (u *recordUploader) Upload(context.Context, string) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.calls++
	return "https://img.example.test/pet.png", nil
}

func (u *recordUploader) callCount() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.calls
}

// captureMailer records outgoing notifications.
type captureMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

type sentMail struct{ To, Subject, Body string }

func (m *captureMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

type testApp struct {
	e        *echo.Echo
	db       *sql.DB
	index    *fakeIndex
	mailer   *captureMailer
	uploader *recordUploader
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	schema := []string{
		`CREATE TABLE users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			full_name TEXT NOT NULL, phone TEXT, location TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE credentials (
			user_id INTEGER PRIMARY KEY,
			email TEXT NOT NULL UNIQUE, password_hash TEXT NOT NULL
		)`,
		`CREATE TABLE pets (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL, name TEXT NOT NULL,
			location TEXT, lat REAL, lng REAL, image_url TEXT,
			status TEXT NOT NULL DEFAULT 'lost',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE reports (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			pet_id INTEGER NOT NULL,
			reporter_name TEXT NOT NULL, reporter_phone TEXT NOT NULL,
			location TEXT, details TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("schema: %v", err)
		}
	}

	cfg := config.Config{
		Env:          "test",
		JWTSecret:    "test-secret",
		TokenTTLDays: 7,
		BcryptCost:   4,
	}

	idx := &fakeIndex{}
	mailer := &captureMailer{}
	up := &recordUploader{}

	users := repository.NewUserRepo(db)
	pets := repository.NewPetRepo(db)
	reports := repository.NewReportRepo(db)

	var m notify.Mailer = mailer
	e := echo.New()
	router.Register(e, router.Handlers{
		Auth:   handler.NewAuthHandler(cfg, users),
		Pets:   handler.NewPetHandler(pets, search.NewSynchronizer(idx), up),
		Search: handler.NewSearchHandler(idx),
		Report: handler.NewReportHandler(pets, reports, service.NewDispatcher("", m)),
	}, cfg.JWTSecret, nil)

	return &testApp{e: e, db: db, index: idx, mailer: mailer, uploader: up}
}

// doJSON performs a request against the in-process app and decodes the JSON
// response into out (when non-nil).
func (a *testApp) doJSON(t *testing.T, method, path, token string, body interface{}, out interface{}) int {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)

	if out != nil && rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("unmarshal response %q: %v", rec.Body.String(), err)
		}
	}
	return rec.Code
}

// signupAndLogin registers a user and returns a valid bearer token.
func (a *testApp) signupAndLogin(t *testing.T, email string) string {
	t.Helper()

	code := a.doJSON(t, http.MethodPost, "/auth/signup", "", map[string]interface{}{
		"email":    email,
		"password": "password123",
		"fullName": "Test Owner",
	}, nil)
	if code != http.StatusCreated {
		t.Fatalf("signup: expected 201, got %d", code)
	}

	var resp struct {
		Token string `json:"token"`
	}
	code = a.doJSON(t, http.MethodPost, "/auth/login", "", map[string]interface{}{
		"email":    email,
		"password": "password123",
	}, &resp)
	if code != http.StatusOK || resp.Token == "" {
		t.Fatalf("login: expected 200 with token, got %d %q", code, resp.Token)
	}
	return resp.Token
}

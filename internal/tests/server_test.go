package tests

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"

	"github.com/carelink/server/internal/auth"
	"github.com/carelink/server/internal/config"
	"github.com/carelink/server/internal/db"
	"github.com/carelink/server/internal/doctors"
	httphandler "github.com/carelink/server/internal/http"
	"github.com/carelink/server/internal/http/handlers"
	"github.com/carelink/server/internal/messaging"
	"github.com/carelink/server/internal/repo"
	"github.com/carelink/server/internal/validate"
)

func TestMain(m *testing.M) {
	// Set env if unset. Do NOT set DATABASE_URL; E2E tests skip if missing.
	if os.Getenv("JWT_SECRET") == "" {
		os.Setenv("JWT_SECRET", "test-jwt-secret-at-least-32-characters-long")
	}
	if os.Getenv("AUTH_RATE_LIMIT") == "" {
		os.Setenv("AUTH_RATE_LIMIT", "0")
	}

	code := m.Run()
	os.Exit(code)
}

// testServer holds the server and DB for E2E tests
type testServer struct {
	Server *httptest.Server
	DB     *sql.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	if os.Getenv("DATABASE_URL") == "" {
		t.Skip("DATABASE_URL not set; skipping E2E test")
	}

	cfg, err := config.Load()
	require.NoError(t, err, "config load must succeed for E2E test")

	logger := zaptest.NewLogger(t)
	database, err := db.Open(context.Background(), cfg.DatabaseURL, logger)
	require.NoError(t, err, "database open must succeed; check DATABASE_URL and that test DB exists")
	t.Cleanup(func() { database.Close() })

	require.NoError(t, db.Migrate(database), "migrations must run successfully")

	accountRepo := repo.NewAccountRepo(database)
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.TokenTTL)
	authService := auth.NewAuthService(jwtService, auth.NewBcryptHasher(bcrypt.MinCost), accountRepo)
	gate := validate.New(cfg.PhoneLength)

	router := httphandler.NewRouter(httphandler.Handlers{
		Accounts: handlers.NewAccountHandler(authService, gate, logger, cfg.StoreTimeout),
		Doctors:  handlers.NewDoctorHandler(doctors.NewService(repo.NewDoctorRepo(database)), gate, logger, cfg.StoreTimeout),
		Messages: handlers.NewMessageHandler(messaging.NewService(repo.NewMessageRepo(database), accountRepo), gate, logger, cfg.StoreTimeout),
		Health:   handlers.NewHealthHandler(database, logger, cfg.StoreTimeout),
	}, jwtService, cfg.AuthRateLimit, logger)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &testServer{Server: server, DB: database}
}

func (s *testServer) Truncate(t *testing.T) {
	t.Helper()
	require.NoError(t, TruncateTables(context.Background(), s.DB), "truncate tables")
}

// call sends a JSON request and decodes the JSON response into out (when non-nil)
func (s *testServer) call(t *testing.T, method, path, token string, body any, out any) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, s.Server.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.Server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if out != nil && resp.StatusCode < 300 {
		require.NoError(t, json.Unmarshal(raw, out), "body: %s", raw)
	}
	return resp.StatusCode
}

// tokenResponse matches POST /accounts and POST /login responses
type tokenResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	Account   struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
		Phone string `json:"phone"`
	} `json:"account"`
}

type doctorResponse struct {
	ID          string  `json:"id"`
	JobTitle    string  `json:"jobTitle"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	IsAvailable bool    `json:"isAvailable"`
	Distance    float64 `json:"distance"`
}

type messageResponse struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	Sender    string `json:"sender"`
	Receiver  string `json:"receiver"`
	Timestamp int64  `json:"timestamp"`
}

func (s *testServer) register(t *testing.T, name, email, phone string) tokenResponse {
	t.Helper()
	var res tokenResponse
	status := s.call(t, http.MethodPost, "/accounts", "", map[string]string{
		"name": name, "email": email, "phone": phone, "password": "secret-" + name,
	}, &res)
	require.Equal(t, http.StatusOK, status, "register %s", email)
	return res
}

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/carelink/server/internal/errs"
	"github.com/carelink/server/internal/middleware"
	"github.com/carelink/server/internal/model"
	"github.com/carelink/server/internal/repo"
	"github.com/carelink/server/internal/validate"
)

const testTimeout = time.Second

type fakeAccounts struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]model.Account
	err      error
	calls    int
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{accounts: map[uuid.UUID]model.Account{}}
}

func (f *fakeAccounts) Register(ctx context.Context, name, email, phone, password string) (model.Account, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return model.Account{}, "", f.err
	}
	for _, a := range f.accounts {
		if strings.EqualFold(a.Email, email) {
			return model.Account{}, "", &repo.ConstraintError{Constraint: "accounts_email_key", Field: "email", Err: errs.ErrConflict}
		}
	}
	a := model.Account{ID: uuid.New(), Name: name, Email: email, Phone: phone, PasswordHash: "hashed:" + password}
	f.accounts[a.ID] = a
	return a, "token-" + a.ID.String(), nil
}

func (f *fakeAccounts) Login(ctx context.Context, email, password string) (model.Account, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	for _, a := range f.accounts {
		if strings.EqualFold(a.Email, email) && a.PasswordHash == "hashed:"+password {
			return a, "token-" + a.ID.String(), nil
		}
	}
	return model.Account{}, "", errs.ErrInvalidCredentials
}

func (f *fakeAccounts) Account(ctx context.Context, id uuid.UUID) (model.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[id]
	if !ok {
		return model.Account{}, errs.ErrNotFound
	}
	return a, nil
}

type fakeDoctors struct {
	doctors map[uuid.UUID]model.Doctor
	nearby  []model.NearbyDoctor
	lastIn  validate.DoctorInput
	lastMi  int
	err     error
}

func (f *fakeDoctors) Register(ctx context.Context, in validate.DoctorInput) (model.Doctor, error) {
	if f.err != nil {
		return model.Doctor{}, f.err
	}
	f.lastIn = in
	d := model.Doctor{ID: uuid.New(), JobTitle: in.JobTitle, Latitude: in.Latitude, Longitude: in.Longitude,
		IsAvailable: in.IsAvailable, Email: in.Email, Phone: in.Phone}
	if f.doctors == nil {
		f.doctors = map[uuid.UUID]model.Doctor{}
	}
	f.doctors[d.ID] = d
	return d, nil
}

func (f *fakeDoctors) Get(ctx context.Context, id uuid.UUID) (model.Doctor, error) {
	d, ok := f.doctors[id]
	if !ok {
		return model.Doctor{}, errs.ErrNotFound
	}
	return d, nil
}

func (f *fakeDoctors) Nearby(ctx context.Context, lat, lon float64, maxMiles int) ([]model.NearbyDoctor, error) {
	f.lastMi = maxMiles
	return f.nearby, f.err
}

type fakeMessages struct {
	sent      []model.Message
	sendErr   error
	between   []model.Message
	betweenFn func(userID, participant uuid.UUID) ([]model.Message, error)
	partners  []uuid.UUID
	deadline  bool
}

func (f *fakeMessages) Send(ctx context.Context, sender uuid.UUID, content string, receiver uuid.UUID) (model.Message, error) {
	_, f.deadline = ctx.Deadline()
	if f.sendErr != nil {
		return model.Message{}, f.sendErr
	}
	m := model.Message{ID: uuid.New(), Content: content, Sender: sender, Receiver: receiver, Timestamp: 1_700_000_000}
	f.sent = append(f.sent, m)
	return m, nil
}

func (f *fakeMessages) Conversations(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return f.partners, nil
}

func (f *fakeMessages) Between(ctx context.Context, userID, participant uuid.UUID) ([]model.Message, error) {
	if f.betweenFn != nil {
		return f.betweenFn(userID, participant)
	}
	return f.between, nil
}

// serve routes one request through a chi mux so URL params resolve
func serve(t *testing.T, method, pattern, target, body string, h http.HandlerFunc, identity *model.Identity) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	r.MethodFunc(method, pattern, h)

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	if identity != nil {
		req = req.WithContext(middleware.WithIdentity(req.Context(), *identity))
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

func nopLogger() *zap.Logger { return zap.NewNop() }

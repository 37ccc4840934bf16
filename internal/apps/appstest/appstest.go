// Package appstest wires the locker services over memstore for handler tests.
package appstest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/doclocker/internal/apps"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/blob"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/config"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/dto"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/models"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/services"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/signing"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/store"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/store/memstore"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const BaseURL = "http://locker.test"

var signer = func() *signing.RSASigner {
	s, err := signing.GenerateRSASigner(1024)
	if err != nil {
		panic(err)
	}
	return s
}()

type Env struct {
	Config   *config.Config
	Store    *store.Store
	Content  *blob.Local
	Auth     *services.AuthService
	Docs     *services.DocumentService
	Sharing  *services.SharingService
	Consents *services.ConsentService
	Verify   *services.VerificationService
	App      *fiber.App
}

// New builds services over a fresh memstore and an app with /api and the
// JWT-protected /api/p group, with plugin mounted on both.
func New(t *testing.T, plugin func(*Env) apps.Plugin) *Env {
	t.Helper()
	cfg := &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: time.Hour,
		PublicBaseURL:    BaseURL,
	}
	st := memstore.New()
	content, err := blob.NewLocal(t.TempDir(), BaseURL, signing.NewURLSigner([]byte("blob-secret")))
	require.NoError(t, err)

	env := &Env{Config: cfg, Store: st, Content: content}
	env.Auth = services.NewAuthService(st.Users, st.RefreshTokens, cfg)
	env.Docs = services.NewDocumentService(st.Documents, st.Activities, content, nil, time.Minute, 1<<20)
	env.Sharing = services.NewSharingService(st.Documents, st.Shares, st.Activities, env.Docs)
	env.Consents = services.NewConsentService(st.Documents, st.Consents)
	env.Verify = services.NewVerificationService(st.Documents, st.Activities, signer, env.Docs, BaseURL)

	env.App = fiber.New()
	api := env.App.Group("/api")
	if plugin != nil {
		p := plugin(env)
		if pp, ok := p.(apps.PublicPlugin); ok {
			pp.RegisterPublicRoutes(api)
		}
		p.RegisterRoutes(api.Group("/p", middleware.JWTProtected(cfg)))
	}
	return env
}

// User registers a student and returns its id and access token.
func (e *Env) User(t *testing.T, email string) (uuid.UUID, string) {
	t.Helper()
	return e.register(t, email, models.RoleStudent)
}

// Institute registers an institute officer.
func (e *Env) Institute(t *testing.T, email string) (uuid.UUID, string) {
	t.Helper()
	return e.register(t, email, models.RoleInstitute)
}

func (e *Env) register(t *testing.T, email string, role models.Role) (uuid.UUID, string) {
	t.Helper()
	resp, err := e.Auth.Register(t.Context(), &dto.RegisterRequest{
		Email:     email,
		Password:  "secret123",
		FirstName: "Test",
		LastName:  "User",
		Role:      string(role),
	})
	require.NoError(t, err)
	return resp.User.ID, resp.AccessToken
}

// Do sends a JSON request. body may be nil; token may be empty.
func (e *Env) Do(t *testing.T, method, path, token string, body interface{}, headers ...string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := e.App.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// Decode reads resp's JSON body into out.
func Decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

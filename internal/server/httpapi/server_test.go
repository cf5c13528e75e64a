package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/secretkeeper/internal/logging"
	"github.com/dmitrijs2005/secretkeeper/internal/server/auth"
	"github.com/dmitrijs2005/secretkeeper/internal/server/config"
	"github.com/dmitrijs2005/secretkeeper/internal/server/oauth"
	"github.com/dmitrijs2005/secretkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/secretkeeper/internal/server/services"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testFrontend = "http://localhost:5175"

type stubProvider struct {
	identity *oauth.Identity
	err      error
}

func (p *stubProvider) Name() string { return "google" }

func (p *stubProvider) AuthCodeURL(state string) string {
	return "https://accounts.example/auth?state=" + state
}

func (p *stubProvider) Identify(context.Context, string) (*oauth.Identity, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.identity, nil
}

type testEnv struct {
	cfg    *config.Config
	rm     *repomanager.InMemoryRepositoryManager
	server *HTTPServer
}

func newTestEnv(t *testing.T, provider *stubProvider) *testEnv {
	t.Helper()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = "http-test-secret"
	cfg.PasswordHashCost = bcrypt.MinCost
	cfg.FrontendURL = testFrontend

	rm := repomanager.NewInMemoryRepositoryManager()

	var p oauth.Provider
	if provider != nil {
		p = provider
	}

	as := services.NewAuthService(nil, rm, cfg, auth.NewBcryptHasher(cfg.PasswordHashCost), p, logging.Nop())
	ss := services.NewSecretService(nil, rm, cfg)
	es, err := services.NewExportService(context.Background(), cfg, ss, logging.Nop())
	require.NoError(t, err)

	return &testEnv{
		cfg:    cfg,
		rm:     rm,
		server: NewHTTPServer("127.0.0.1:0", logging.Nop(), as, ss, es, cfg.FrontendURL),
	}
}

type result struct {
	status int
	header http.Header
	body   []byte
}

func (r result) decode(t *testing.T) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(r.body, &m), string(r.body))
	return m
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) result {
	t.Helper()

	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = strings.NewReader(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(raw)
		}
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.server.App().Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return result{status: resp.StatusCode, header: resp.Header, body: raw}
}

func (e *testEnv) register(t *testing.T, email, password string) string {
	t.Helper()
	r := e.do(t, http.MethodPost, "/api/register", "", map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusOK, r.status, string(r.body))
	return r.decode(t)["token"].(string)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	env := newTestEnv(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- env.server.Run(ctx) }()

	select {
	case err := <-done:
		t.Fatalf("server exited too early: %v", err)
	case <-time.After(150 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	env := newTestEnv(t, nil)
	env.server.address = "127.0.0.1:99999"

	require.Error(t, env.server.Run(context.Background()))
}

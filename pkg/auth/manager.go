package auth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/Xatter/SmartThingsHomekitBridge-sub000/pkg/persistence"
	"github.com/Xatter/SmartThingsHomekitBridge-sub000/pkg/protolog"
	"github.com/Xatter/SmartThingsHomekitBridge-sub000/pkg/retry"
)

// TokenEndpoint is the cloud's OAuth token endpoint (spec.md §6).
const TokenEndpoint = "https://api.smartthings.com/oauth/token"

// httpStatusError adapts a non-2xx HTTP response into retry.HTTPStatusError
// so the retry policy can classify it.
type httpStatusError struct {
	code int
	body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("token endpoint returned %d: %s", e.code, e.body)
}

func (e *httpStatusError) StatusCode() int { return e.code }

// Manager owns the OAuth token lifecycle: loading, proactive and on-demand
// refresh, and atomic persistence. The token is mutated only here; every
// other component reads it through Manager's accessors.
type Manager struct {
	mu           sync.RWMutex
	token        Token
	clientID     string
	clientSecret string
	httpClient   *http.Client
	store        *persistence.Store
	policy       *retry.Policy
	logger       protolog.Logger
	now          func() time.Time
}

// Config configures a Manager.
type Config struct {
	ClientID     string
	ClientSecret string
	TokenPath    string
	HTTPClient   *http.Client
	Policy       *retry.Policy
	Logger       protolog.Logger
}

// NewManager creates a Manager. Call Load before using it.
func NewManager(cfg Config) *Manager {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	policy := cfg.Policy
	if policy == nil {
		policy = retry.NewPolicy()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = protolog.NoopLogger{}
	}

	return &Manager{
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		httpClient:   httpClient,
		store:        persistence.NewStore(cfg.TokenPath),
		policy:       policy,
		logger:       logger,
		now:          time.Now,
	}
}

// Load reads the token file. A missing file is not an error: the manager
// proceeds without auth. A token that parses but is already expired is
// discarded.
func (m *Manager) Load() error {
	var t Token
	found, err := m.store.Load(&t)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !found {
		m.token = Token{}
		return nil
	}
	if t.IsExpired(m.now()) {
		m.token = Token{}
		return nil
	}
	m.token = t
	return nil
}

// HasAuth reports whether a token is present and not expired.
func (m *Manager) HasAuth() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return !m.token.IsExpired(m.now())
}

// Token returns a copy of the current token.
func (m *Manager) Token() Token {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// AccessToken returns the current access token string, satisfying
// cloudapi.TokenSource.
func (m *Manager) AccessToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token.AccessToken
}

// EnsureValidToken succeeds immediately if HasAuth is true; otherwise it
// attempts a refresh using the stored refresh token, if any.
func (m *Manager) EnsureValidToken(ctx context.Context) error {
	if m.HasAuth() {
		return nil
	}

	m.mu.RLock()
	refreshToken := m.token.RefreshToken
	m.mu.RUnlock()

	if refreshToken == "" {
		return ErrNoRefreshToken
	}

	return m.RefreshToken(ctx)
}

// CheckAndRefreshToken is the proactive variant: it refreshes only when
// expiry is within the proactive window, and otherwise succeeds without
// making a network call.
func (m *Manager) CheckAndRefreshToken(ctx context.Context) error {
	m.mu.RLock()
	needs := m.token.NeedsProactiveRefresh(m.now())
	refreshToken := m.token.RefreshToken
	m.mu.RUnlock()

	if !needs {
		return nil
	}
	if refreshToken == "" {
		return ErrNoRefreshToken
	}
	return m.RefreshToken(ctx)
}

// tokenResponse is the cloud's token endpoint JSON response shape.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
	Scope        string `json:"scope"`
}

// RefreshToken exchanges the stored refresh token for a new access token,
// wrapped in the shared retry policy. A failed refresh is reported but not
// fatal: callers fall back to "no auth".
func (m *Manager) RefreshToken(ctx context.Context) error {
	m.mu.RLock()
	refreshToken := m.token.RefreshToken
	oldRefreshToken := m.token.RefreshToken
	m.mu.RUnlock()

	if refreshToken == "" {
		return ErrNoRefreshToken
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)

	resp, err := retry.DoValue(ctx, m.policy, "auth.refresh", func(ctx context.Context) (*tokenResponse, error) {
		return m.exchangeToken(ctx, form)
	})
	if err != nil {
		m.logger.Log(protolog.Event{Component: protolog.ComponentAuth, Operation: "refresh", Outcome: protolog.OutcomeFailure, Err: err.Error()})
		return err
	}

	newRefresh := resp.RefreshToken
	if newRefresh == "" {
		newRefresh = oldRefreshToken
	}

	newToken := Token{
		AccessToken:  resp.AccessToken,
		RefreshToken: newRefresh,
		ExpiresAt:    m.now().Add(time.Duration(resp.ExpiresIn) * time.Second),
		TokenType:    resp.TokenType,
		Scope:        resp.Scope,
	}

	m.mu.Lock()
	m.token = newToken
	m.mu.Unlock()

	if err := m.Save(); err != nil {
		m.logger.Log(protolog.Event{Component: protolog.ComponentAuth, Operation: "save", Outcome: protolog.OutcomeFailure, Err: err.Error()})
		return err
	}

	m.logger.Log(protolog.Event{Component: protolog.ComponentAuth, Operation: "refresh", Outcome: protolog.OutcomeSuccess})
	return nil
}

// ExchangeAuthorizationCode trades a one-time authorization code obtained
// out-of-band (the consent redirect HTML flow itself is out of scope, per
// spec.md's Non-goals) for an initial access/refresh token pair.
func (m *Manager) ExchangeAuthorizationCode(ctx context.Context, code, redirectURI string) error {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", redirectURI)

	resp, err := retry.DoValue(ctx, m.policy, "auth.exchange", func(ctx context.Context) (*tokenResponse, error) {
		return m.exchangeToken(ctx, form)
	})
	if err != nil {
		m.logger.Log(protolog.Event{Component: protolog.ComponentAuth, Operation: "exchange", Outcome: protolog.OutcomeFailure, Err: err.Error()})
		return err
	}

	newToken := Token{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    m.now().Add(time.Duration(resp.ExpiresIn) * time.Second),
		TokenType:    resp.TokenType,
		Scope:        resp.Scope,
	}

	m.mu.Lock()
	m.token = newToken
	m.mu.Unlock()

	if err := m.Save(); err != nil {
		m.logger.Log(protolog.Event{Component: protolog.ComponentAuth, Operation: "save", Outcome: protolog.OutcomeFailure, Err: err.Error()})
		return err
	}

	m.logger.Log(protolog.Event{Component: protolog.ComponentAuth, Operation: "exchange", Outcome: protolog.OutcomeSuccess})
	return nil
}

func (m *Manager) exchangeToken(ctx context.Context, form url.Values) (*tokenResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, TokenEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(m.clientID, m.clientSecret)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &httpStatusError{code: resp.StatusCode, body: string(body)}
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, err
	}
	return &tr, nil
}

// Save writes the current token to disk atomically.
func (m *Manager) Save() error {
	m.mu.RLock()
	t := m.token
	m.mu.RUnlock()
	return m.store.Save(&t)
}

// Clear discards the in-memory token and removes the persisted file,
// e.g. on logout.
func (m *Manager) Clear() error {
	m.mu.Lock()
	m.token = Token{}
	m.mu.Unlock()
	return m.store.Clear()
}

// basicAuthHeader is exposed for tests that want to assert the Authorization
// header shape without making a real request.
func basicAuthHeader(clientID, clientSecret string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(clientID+":"+clientSecret))
}

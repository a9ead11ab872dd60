// Package oauth implements the Google authorization-code handshake: building
// the consent URL, tracking pending state with PKCE, exchanging the callback
// code for tokens and fetching the user profile.
package oauth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Default Google endpoints; overridable for tests.
const (
	googleAuthURL     = "https://accounts.google.com/o/oauth2/v2/auth"
	googleTokenURL    = "https://oauth2.googleapis.com/token"
	googleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"
)

// ErrInvalidState is returned when a callback presents an unknown or expired
// state value.
var ErrInvalidState = errors.New("invalid or expired oauth state")

// Config holds the provider registration values.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	// Endpoint overrides, used by tests. Empty means Google's endpoints.
	AuthURL     string
	TokenURL    string
	UserInfoURL string

	// StateTTL bounds how long a started flow may take before its state
	// expires. Zero means 10 minutes.
	StateTTL time.Duration
}

// Profile is the subset of the provider's userinfo the application uses.
type Profile struct {
	// Subject is the provider's stable user identifier.
	Subject string `json:"sub"`
	// Email as asserted by the provider.
	Email string `json:"email"`
	// Name is the display name, may be empty.
	Name string `json:"name"`
}

type pendingState struct {
	codeVerifier string
	expiresAt    time.Time
}

// Client drives the handshake against one provider.
type Client struct {
	config Config

	httpClient *http.Client
	clock      func() time.Time

	mu     sync.Mutex
	states map[string]pendingState
}

// New builds a Client for the given registration, filling in Google's
// endpoints where the config leaves them empty.
func New(cfg Config) *Client {
	if cfg.AuthURL == "" {
		cfg.AuthURL = googleAuthURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = googleTokenURL
	}
	if cfg.UserInfoURL == "" {
		cfg.UserInfoURL = googleUserInfoURL
	}
	if cfg.StateTTL <= 0 {
		cfg.StateTTL = 10 * time.Minute
	}
	return &Client{
		config:     cfg,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		clock:      time.Now,
		states:     make(map[string]pendingState),
	}
}

func randomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// computeS256Challenge derives the PKCE code challenge from a verifier.
func computeS256Challenge(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// AuthCodeURL starts a flow: it records a fresh state with its PKCE verifier
// and returns the provider consent URL to redirect the browser to.
func (c *Client) AuthCodeURL() (string, error) {
	state, err := randomToken()
	if err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}
	verifier, err := randomToken()
	if err != nil {
		return "", fmt.Errorf("generate code verifier: %w", err)
	}

	now := c.clock()
	c.mu.Lock()
	for key, pending := range c.states {
		if pending.expiresAt.Before(now) {
			delete(c.states, key)
		}
	}
	c.states[state] = pendingState{codeVerifier: verifier, expiresAt: now.Add(c.config.StateTTL)}
	c.mu.Unlock()

	query := url.Values{}
	query.Set("response_type", "code")
	query.Set("client_id", c.config.ClientID)
	query.Set("redirect_uri", c.config.RedirectURL)
	query.Set("scope", "openid profile email")
	query.Set("state", state)
	query.Set("code_challenge", computeS256Challenge(verifier))
	query.Set("code_challenge_method", "S256")

	authURL, err := url.Parse(c.config.AuthURL)
	if err != nil {
		return "", fmt.Errorf("parse auth url: %w", err)
	}
	authURL.RawQuery = query.Encode()
	return authURL.String(), nil
}

// consumeState validates and removes a pending state, returning its verifier.
// Each state is single-use regardless of outcome.
func (c *Client) consumeState(state string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	pending, ok := c.states[state]
	if !ok {
		return "", ErrInvalidState
	}
	delete(c.states, state)
	if pending.expiresAt.Before(c.clock()) {
		return "", ErrInvalidState
	}
	return pending.codeVerifier, nil
}

// Exchange completes the handshake for a callback: it checks the state,
// trades the code for an access token and fetches the user profile.
func (c *Client) Exchange(ctx context.Context, code, state string) (Profile, error) {
	verifier, err := c.consumeState(state)
	if err != nil {
		return Profile{}, err
	}

	accessToken, err := c.exchangeCode(ctx, code, verifier)
	if err != nil {
		return Profile{}, fmt.Errorf("token exchange: %w", err)
	}

	profile, err := c.fetchProfile(ctx, accessToken)
	if err != nil {
		return Profile{}, fmt.Errorf("fetch profile: %w", err)
	}
	return profile, nil
}

func (c *Client) exchangeCode(ctx context.Context, code, verifier string) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", c.config.RedirectURL)
	form.Set("client_id", c.config.ClientID)
	form.Set("client_secret", c.config.ClientSecret)
	form.Set("code_verifier", verifier)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("provider returned status %d", resp.StatusCode)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}
	if payload.AccessToken == "" {
		return "", errors.New("missing access token")
	}
	return payload.AccessToken, nil
}

func (c *Client) fetchProfile(ctx context.Context, accessToken string) (Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.UserInfoURL, nil)
	if err != nil {
		return Profile{}, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Profile{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Profile{}, fmt.Errorf("provider returned status %d", resp.StatusCode)
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return Profile{}, err
	}
	if profile.Subject == "" || profile.Email == "" {
		return Profile{}, errors.New("incomplete profile")
	}
	return profile, nil
}

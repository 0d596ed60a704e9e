package infra_platform_auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

var (
	ErrSignInFailed = errors.New("sign in failed")
	ErrSignedOut    = errors.New("not signed in")
)

const signedInHintKey = "signed_in_user"

// HintStore persists the last-signed-in display hint. Never a security
// boundary, only a UI convenience across restarts.
type HintStore interface {
	Get(key string) (string, error)
	Set(key string, value string) error
	Delete(key string) error
}

type session struct {
	userID      string
	accessToken string
}

// Client owns the authenticated-user identity: password sign-in against the
// platform, the current session, and state-change notifications.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	hints      HintStore
	logger     *slog.Logger

	mu        sync.RWMutex
	current   *session
	listeners []func(userID string)
}

type ClientOption func(*Client)

func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func New(baseURL string, apiKey string, hints HintStore, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		hints:   hints,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInResponse struct {
	AccessToken string `json:"access_token"`
	User        struct {
		ID string `json:"id"`
	} `json:"user"`
}

// SignIn exchanges credentials for a session and notifies listeners.
func (c *Client) SignIn(ctx context.Context, email string, password string) (string, error) {
	body, err := json.Marshal(signInRequest{Email: email, Password: password})
	if err != nil {
		return "", fmt.Errorf("%w:%w", ErrSignInFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/auth/v1/token?grant_type=password", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w:%w", ErrSignInFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w:%w", ErrSignInFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrSignInFailed, resp.StatusCode)
	}

	var parsed signInResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%w:%w", ErrSignInFailed, err)
	}
	if parsed.User.ID == "" || parsed.AccessToken == "" {
		return "", fmt.Errorf("%w: incomplete session", ErrSignInFailed)
	}

	c.setSession(&session{userID: parsed.User.ID, accessToken: parsed.AccessToken})

	if c.hints != nil {
		if err := c.hints.Set(signedInHintKey, parsed.User.ID); err != nil {
			c.logger.Warn("failed to persist signed-in hint", "error", err)
		}
	}
	return parsed.User.ID, nil
}

// SignOut drops the session and notifies listeners with an empty user id.
func (c *Client) SignOut() {
	c.setSession(nil)
	if c.hints != nil {
		if err := c.hints.Delete(signedInHintKey); err != nil {
			c.logger.Warn("failed to clear signed-in hint", "error", err)
		}
	}
}

// UserID returns the current authenticated identity, if any.
func (c *Client) UserID() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.current == nil {
		return "", false
	}
	return c.current.userID, true
}

// AccessToken implements the REST client's TokenSource.
func (c *Client) AccessToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.current == nil {
		return ""
	}
	return c.current.accessToken
}

// SignedInHint returns the persisted last-signed-in user id. Display only.
func (c *Client) SignedInHint() string {
	if c.hints == nil {
		return ""
	}
	hint, err := c.hints.Get(signedInHintKey)
	if err != nil {
		return ""
	}
	return hint
}

// OnAuthStateChange registers a listener called with the user id on sign-in
// and with "" on sign-out.
func (c *Client) OnAuthStateChange(fn func(userID string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

func (c *Client) setSession(s *session) {
	c.mu.Lock()
	c.current = s
	listeners := make([]func(string), len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.Unlock()

	userID := ""
	if s != nil {
		userID = s.userID
	}
	for _, fn := range listeners {
		fn(userID)
	}
}

package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const sessionCookieName = "sm_token"

// RemoteItem and RemotePlan are the wire shapes of the plans API.
type RemoteItem struct {
	ID    string `json:"id,omitempty"`
	Text  string `json:"text"`
	Done  bool   `json:"done"`
	Order int    `json:"order"`
}

type RemotePlan struct {
	ID        string       `json:"id,omitempty"`
	Title     string       `json:"title"`
	CafeID    *int64       `json:"cafeId"`
	Date      *string      `json:"date"`
	TimeText  *string      `json:"timeText"`
	CreatedAt time.Time    `json:"createdAt,omitempty"`
	Items     []RemoteItem `json:"items"`
}

type User struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// APIError is a non-2xx response decoded into the server's error taxonomy.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %s (%d)", e.Message, e.Status)
	}
	if e.Code != "" {
		return fmt.Sprintf("api: %s (%d)", e.Code, e.Status)
	}
	return fmt.Sprintf("api: status %d", e.Status)
}

// IsUnauthorized reports whether err is a 401 from the server.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// Client talks to the cafeplanner server. The session cookie lives in a
// jar and is optionally persisted to a token file so short-lived CLI runs
// stay signed in.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	tokenPath string
}

func NewClient(baseURL string, tokenPath string) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	c := &Client{
		baseURL:   parsed,
		http:      &http.Client{Jar: jar, Timeout: 15 * time.Second},
		tokenPath: tokenPath,
	}
	c.loadSession()
	return c, nil
}

func (c *Client) Register(ctx context.Context, email, password, name string) (User, error) {
	var user User
	err := c.do(ctx, http.MethodPost, "/api/auth/register", map[string]string{
		"email":    email,
		"password": password,
		"name":     name,
	}, &user)
	if err != nil {
		return User{}, err
	}
	c.saveSession()
	return user, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (User, error) {
	var user User
	err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &user)
	if err != nil {
		return User{}, err
	}
	c.saveSession()
	return user, nil
}

func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
	if c.tokenPath != "" {
		_ = os.Remove(c.tokenPath)
	}
	return err
}

func (c *Client) Me(ctx context.Context) (User, error) {
	var user User
	err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &user)
	return user, err
}

// FetchPlans retrieves the server's current snapshot.
func (c *Client) FetchPlans(ctx context.Context) ([]RemotePlan, error) {
	var plans []RemotePlan
	err := c.do(ctx, http.MethodGet, "/api/plans", nil, &plans)
	return plans, err
}

// SyncPlans sends the full snapshot and returns the reconciled state.
func (c *Client) SyncPlans(ctx context.Context, plans []RemotePlan) ([]RemotePlan, error) {
	if plans == nil {
		plans = []RemotePlan{}
	}
	var out []RemotePlan
	err := c.do(ctx, http.MethodPut, "/api/plans/sync", map[string]interface{}{"plans": plans}, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.JoinPath(path).String(), reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var decoded struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &decoded) == nil {
			apiErr.Code = decoded.Error
			apiErr.Message = decoded.Message
		}
		return apiErr
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode %s %s: %w", method, path, err)
		}
	}
	return nil
}

/* ---------------- session persistence ---------------- */

func (c *Client) loadSession() {
	if c.tokenPath == "" {
		return
	}
	data, err := os.ReadFile(c.tokenPath)
	if err != nil {
		return
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return
	}
	c.http.Jar.SetCookies(c.baseURL, []*http.Cookie{{
		Name:  sessionCookieName,
		Value: token,
	}})
}

func (c *Client) saveSession() {
	if c.tokenPath == "" {
		return
	}
	for _, cookie := range c.http.Jar.Cookies(c.baseURL) {
		if cookie.Name == sessionCookieName {
			_ = os.MkdirAll(filepath.Dir(c.tokenPath), cacheDirPerm)
			_ = os.WriteFile(c.tokenPath, []byte(cookie.Value), cacheFilePerm)
			return
		}
	}
}

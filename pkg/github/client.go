package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	githuboauth "golang.org/x/oauth2/github"
)

const apiBase = "https://api.github.com"

// Client talks to the GitHub REST API v3 on behalf of a linked user. All
// calls are direct pass-throughs; any non-2xx response surfaces as an error.
type Client struct {
	oauth      *oauth2.Config
	httpClient *http.Client
}

func NewClient(clientID, clientSecret, redirectURI string) *Client {
	return &Client{
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Scopes:       []string{"repo"},
			Endpoint:     githuboauth.Endpoint,
		},
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// User is the authenticated GitHub account.
type User struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

type RepoOwner struct {
	Login string `json:"login"`
}

type Repository struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	FullName    string    `json:"full_name"`
	Description string    `json:"description"`
	Private     bool      `json:"private"`
	Owner       RepoOwner `json:"owner"`
}

type Issue struct {
	ID     int64  `json:"id"`
	Number int    `json:"number"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	State  string `json:"state"` // "open" or "closed"
}

// AuthorizeURL builds the interactive authorization URL the device opens in a
// browser. The state parameter round-trips through the redirect.
func (c *Client) AuthorizeURL(state string) string {
	return c.oauth.AuthCodeURL(state)
}

// ExchangeCode trades an authorization code for an access token.
func (c *Client) ExchangeCode(ctx context.Context, code string) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	token, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("github token exchange failed: %w", err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("github token exchange returned an empty token")
	}
	return token.AccessToken, nil
}

// GetUser fetches the account the token belongs to.
func (c *Client) GetUser(ctx context.Context, accessToken string) (*User, error) {
	var user User
	if err := c.doJSON(ctx, http.MethodGet, apiBase+"/user", accessToken, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListRepositories lists repositories the token can access.
func (c *Client) ListRepositories(ctx context.Context, accessToken string) ([]*Repository, error) {
	var repos []*Repository
	if err := c.doJSON(ctx, http.MethodGet, apiBase+"/user/repos", accessToken, nil, &repos); err != nil {
		return nil, err
	}
	return repos, nil
}

// ListIssues lists issues for a repository filtered by state ("open",
// "closed" or "all").
func (c *Client) ListIssues(ctx context.Context, accessToken, owner, repo, state string) ([]*Issue, error) {
	if state == "" {
		state = "open"
	}
	url := fmt.Sprintf("%s/repos/%s/%s/issues?state=%s", apiBase, owner, repo, state)
	var issues []*Issue
	if err := c.doJSON(ctx, http.MethodGet, url, accessToken, nil, &issues); err != nil {
		return nil, err
	}
	return issues, nil
}

// CreateIssue opens a new issue in the repository.
func (c *Client) CreateIssue(ctx context.Context, accessToken, owner, repo, title, body string) (*Issue, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/issues", apiBase, owner, repo)
	payload := map[string]string{"title": title, "body": body}
	var issue Issue
	if err := c.doJSON(ctx, http.MethodPost, url, accessToken, payload, &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}

// CloseIssue marks an issue closed.
func (c *Client) CloseIssue(ctx context.Context, accessToken, owner, repo string, number int) (*Issue, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/issues/%d", apiBase, owner, repo, number)
	payload := map[string]string{"state": "closed"}
	var issue Issue
	if err := c.doJSON(ctx, http.MethodPatch, url, accessToken, payload, &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}

func (c *Client) doJSON(ctx context.Context, method, url, accessToken string, payload, out interface{}) error {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "token "+accessToken)
	req.Header.Set("Accept", "application/vnd.github+json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("github request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("github request failed: status %d, body: %s", resp.StatusCode, string(body))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode github response: %w", err)
		}
	}
	return nil
}

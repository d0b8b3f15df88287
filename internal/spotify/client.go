// Package spotify talks to the Spotify accounts service and Web API: the
// OAuth token lifecycle plus the listening-data reads the analysis needs.
package spotify

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kavya5cloud/RoastMyPlaylist/internal/metrics"
)

const (
	defaultAccountsURL = "https://accounts.spotify.com"
	defaultAPIURL      = "https://api.spotify.com/v1"

	// Spotify rejects audio-feature requests with more than 100 ids.
	audioFeaturesBatchLimit = 100

	fetchLimit      = 50
	defaultTimeRange = "medium_term"
	httpCallTimeout = 10 * time.Second
)

var authScopes = strings.Join([]string{
	"user-read-private",
	"user-read-email",
	"user-top-read",
	"user-read-recently-played",
	"playlist-read-private",
	"playlist-read-collaborative",
}, " ")

// Client calls Spotify with app credentials. URLs are fields so tests can
// point it at a local server.
type Client struct {
	clientID     string
	clientSecret string
	redirectURI  string
	accountsURL  string
	apiURL       string
	http         *http.Client
}

func NewClient(clientID, clientSecret, redirectURI string) *Client {
	return &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURI:  redirectURI,
		accountsURL:  defaultAccountsURL,
		apiURL:       defaultAPIURL,
		http:         &http.Client{Timeout: httpCallTimeout},
	}
}

// TokenGrant is the result of a code exchange or token refresh. RefreshToken
// is empty on refreshes unless Spotify rotates the token.
type TokenGrant struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// Profile is the authenticated user's Spotify profile.
type Profile struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Images      []struct {
		URL string `json:"url"`
	} `json:"images"`
}

// ProfileImage returns the first profile image URL, or "".
func (p *Profile) ProfileImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].URL
}

// AuthorizeURL builds the user-consent URL for the given one-time state.
func (c *Client) AuthorizeURL(state string) string {
	params := url.Values{
		"response_type": {"code"},
		"client_id":     {c.clientID},
		"scope":         {authScopes},
		"redirect_uri":  {c.redirectURI},
		"state":         {state},
	}
	return c.accountsURL + "/authorize?" + params.Encode()
}

// ExchangeCode trades a one-time authorization code for a token pair.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*TokenGrant, error) {
	data := url.Values{
		"grant_type":   {"authorization_code"},
		"code":         {code},
		"redirect_uri": {c.redirectURI},
	}

	grant, status, err := c.postToken(ctx, data)
	if err != nil {
		return nil, &AuthExchangeError{StatusCode: status, Err: err}
	}
	if status != http.StatusOK {
		return nil, &AuthExchangeError{StatusCode: status}
	}
	return grant, nil
}

// Refresh exchanges a refresh token for a new access token.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*TokenGrant, error) {
	data := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
	}

	grant, status, err := c.postToken(ctx, data)
	if err != nil {
		return nil, &TokenRefreshError{Err: err}
	}
	if status != http.StatusOK {
		revoked := status == http.StatusBadRequest || status == http.StatusUnauthorized
		return nil, &TokenRefreshError{
			Revoked: revoked,
			Err:     fmt.Errorf("refresh failed with status %d", status),
		}
	}
	return grant, nil
}

func (c *Client) postToken(ctx context.Context, data url.Values) (*TokenGrant, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.accountsURL+"/api/token", strings.NewReader(data.Encode()))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Basic "+c.basicAuth())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to execute token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode, nil
	}

	var grant TokenGrant
	if err := json.NewDecoder(resp.Body).Decode(&grant); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to decode token response: %w", err)
	}
	return &grant, resp.StatusCode, nil
}

func (c *Client) basicAuth() string {
	return base64.StdEncoding.EncodeToString([]byte(c.clientID + ":" + c.clientSecret))
}

// GetProfile fetches the authenticated user's profile.
func (c *Client) GetProfile(ctx context.Context, accessToken string) (*Profile, error) {
	var profile Profile
	if err := c.getJSON(ctx, accessToken, "/me", "profile", &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Client) getJSON(ctx context.Context, accessToken, path, operation string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", operation, err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.SpotifyRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.SpotifyRequestsTotal.WithLabelValues(operation, "error").Inc()
		return fmt.Errorf("failed to execute %s request: %w", operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.SpotifyRequestsTotal.WithLabelValues(operation, "error").Inc()
		return &UpstreamFetchError{Operation: operation, StatusCode: resp.StatusCode}
	}
	metrics.SpotifyRequestsTotal.WithLabelValues(operation, "success").Inc()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", operation, err)
	}
	return nil
}

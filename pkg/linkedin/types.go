package linkedin

import (
	"fmt"
	"net/http"
)

// Config defines LinkedIn API client settings. AuthBaseURL, APIBaseURL
// and HTTPClient exist so tests can point the client at a fake provider.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	AuthBaseURL  string
	APIBaseURL   string
	HTTPClient   *http.Client
}

// Client talks to the LinkedIn OAuth and REST endpoints.
type Client struct {
	clientID     string
	clientSecret string
	redirectURI  string
	authBaseURL  string
	apiBaseURL   string
	httpClient   *http.Client
}

// UpstreamError is a non-success response from LinkedIn during a step
// that aborts the exchange flow. StatusCode and Body are surfaced to the
// caller unmodified.
type UpstreamError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("linkedin: %s failed: status %d: %s", e.Op, e.StatusCode, e.Body)
}

// Profile is the typed view of a /v2/me response. Optional values are
// empty strings when the provider omits them; Raw retains the full
// payload untouched.
type Profile struct {
	ID        string
	FirstName string
	LastName  string
	Headline  string
	AvatarURL string
	Language  string
	Country   string
	Raw       map[string]any
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

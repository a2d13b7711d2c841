package linkedin

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

const (
	defaultAuthBaseURL = "https://www.linkedin.com"
	defaultAPIBaseURL  = "https://api.linkedin.com"

	// Scope requested on the authorization redirect.
	Scope = "r_liteprofile r_emailaddress"

	requestTimeout = 20 * time.Second

	meProjection = "(id,localizedFirstName,localizedLastName,headline,profilePicture(displayImage~:playableStreams),firstName,lastName,vanityName,primaryLocale)"
)

// ErrNoAccessToken means the token endpoint answered 200 without an
// access_token field.
var ErrNoAccessToken = errors.New("linkedin: no access token in response")

// NewClient instantiates a LinkedIn API client. Credentials are not
// validated here; callers gate on their own configuration checks before
// starting a flow.
func NewClient(cfg Config) *Client {
	authBaseURL := cfg.AuthBaseURL
	if authBaseURL == "" {
		authBaseURL = defaultAuthBaseURL
	}
	apiBaseURL := cfg.APIBaseURL
	if apiBaseURL == "" {
		apiBaseURL = defaultAPIBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: requestTimeout}
	}

	return &Client{
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		redirectURI:  cfg.RedirectURI,
		authBaseURL:  strings.TrimSuffix(authBaseURL, "/"),
		apiBaseURL:   strings.TrimSuffix(apiBaseURL, "/"),
		httpClient:   httpClient,
	}
}

// AuthCodeURL builds the authorization redirect for the given CSRF
// state.
func (c *Client) AuthCodeURL(state string) string {
	conf := &oauth2.Config{
		ClientID:    c.clientID,
		RedirectURL: c.redirectURI,
		Scopes:      strings.Fields(Scope),
		Endpoint: oauth2.Endpoint{
			AuthURL: c.authBaseURL + "/oauth/v2/authorization",
		},
	}
	return conf.AuthCodeURL(state)
}

// ExchangeCode trades an authorization code for an access token. A
// non-200 answer aborts with an UpstreamError carrying the upstream
// status and body.
func (c *Client) ExchangeCode(ctx context.Context, code string) (string, error) {
	form := url.Values{
		"grant_type":    {"authorization_code"},
		"code":          {code},
		"redirect_uri":  {c.redirectURI},
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.authBaseURL+"/oauth/v2/accessToken", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, err := c.do(req, "token exchange")
	if err != nil {
		return "", err
	}

	var tok tokenResponse
	if err := json.Unmarshal(body, &tok); err != nil {
		return "", err
	}
	if tok.AccessToken == "" {
		return "", ErrNoAccessToken
	}
	return tok.AccessToken, nil
}

// Me fetches the member profile with the fixed field projection. A
// non-200 answer aborts the flow; avatar and locale extraction from the
// returned payload is best-effort and never fails.
func (c *Client) Me(ctx context.Context, accessToken string) (*Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.apiBaseURL+"/v2/me?projection="+meProjection, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	body, err := c.do(req, "profile fetch")
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}

	p := &Profile{Raw: raw}
	p.ID, _ = getString(raw, "id")
	p.FirstName, _ = getString(raw, "localizedFirstName")
	p.LastName, _ = getString(raw, "localizedLastName")
	p.Headline, _ = getString(raw, "headline")
	if locale, ok := getMap(raw, "primaryLocale"); ok {
		p.Language, _ = getString(locale, "language")
		p.Country, _ = getString(locale, "country")
	}
	p.AvatarURL = avatarURL(raw)
	return p, nil
}

// Email fetches the member's primary email address. A nil error with an
// empty address means the response did not carry one; callers treat both
// the error and the empty case as a missing email, never as a flow
// failure.
func (c *Client) Email(ctx context.Context, accessToken string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.apiBaseURL+"/v2/emailAddress?q=members&projection=(elements*(handle~))", nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	body, err := c.do(req, "email fetch")
	if err != nil {
		return "", err
	}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return "", err
	}

	elements, ok := getSlice(raw, "elements")
	if !ok || len(elements) == 0 {
		return "", nil
	}
	first, ok := elements[0].(map[string]any)
	if !ok {
		return "", nil
	}
	handle, ok := getMap(first, "handle~")
	if !ok {
		return "", nil
	}
	email, _ := getString(handle, "emailAddress")
	return email, nil
}

func (c *Client) do(req *http.Request, op string) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{Op: op, StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

// avatarURL walks displayImage~ → elements → last → identifiers →
// first → identifier. Any missing key or empty list along the way yields
// an empty string rather than an error.
func avatarURL(me map[string]any) string {
	picture, ok := getMap(me, "profilePicture")
	if !ok {
		return ""
	}
	display, ok := getMap(picture, "displayImage~")
	if !ok {
		return ""
	}
	elements, ok := getSlice(display, "elements")
	if !ok || len(elements) == 0 {
		return ""
	}
	// The last element carries the highest resolution.
	last, ok := elements[len(elements)-1].(map[string]any)
	if !ok {
		return ""
	}
	identifiers, ok := getSlice(last, "identifiers")
	if !ok || len(identifiers) == 0 {
		return ""
	}
	first, ok := identifiers[0].(map[string]any)
	if !ok {
		return ""
	}
	id, _ := getString(first, "identifier")
	return id
}

func getString(m map[string]any, key string) (string, bool) {
	s, ok := m[key].(string)
	return s, ok
}

func getMap(m map[string]any, key string) (map[string]any, bool) {
	sub, ok := m[key].(map[string]any)
	return sub, ok
}

func getSlice(m map[string]any, key string) ([]any, bool) {
	arr, ok := m[key].([]any)
	return arr, ok
}

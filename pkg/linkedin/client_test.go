package linkedin

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func TestAuthCodeURL(t *testing.T) {
	c := NewClient(Config{
		ClientID:    "my-client",
		RedirectURI: "http://localhost:8080/api/auth/linkedin/callback",
	})

	raw := c.AuthCodeURL("state-123")
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("AuthCodeURL produced an unparseable URL: %v", err)
	}

	if u.Host != "www.linkedin.com" || u.Path != "/oauth/v2/authorization" {
		t.Errorf("unexpected endpoint %s%s", u.Host, u.Path)
	}

	q := u.Query()
	if q.Get("response_type") != "code" {
		t.Errorf("response_type = %q", q.Get("response_type"))
	}
	if q.Get("client_id") != "my-client" {
		t.Errorf("client_id = %q", q.Get("client_id"))
	}
	if q.Get("state") != "state-123" {
		t.Errorf("state = %q", q.Get("state"))
	}
	if q.Get("scope") != Scope {
		t.Errorf("scope = %q, want %q", q.Get("scope"), Scope)
	}
}

func TestExchangeCodePostsForm(t *testing.T) {
	var gotForm url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/oauth/v2/accessToken" {
			t.Errorf("token request hit %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("Content-Type = %q", ct)
		}
		r.ParseForm()
		gotForm = r.PostForm
		w.Write([]byte(`{"access_token":"tok-xyz","expires_in":60}`))
	}))
	defer srv.Close()

	c := NewClient(Config{
		ClientID:     "id",
		ClientSecret: "secret",
		RedirectURI:  "http://localhost/cb",
		AuthBaseURL:  srv.URL,
	})

	token, err := c.ExchangeCode(context.Background(), "the-code")
	if err != nil {
		t.Fatalf("ExchangeCode: %v", err)
	}
	if token != "tok-xyz" {
		t.Errorf("token = %q", token)
	}

	want := map[string]string{
		"grant_type":    "authorization_code",
		"code":          "the-code",
		"redirect_uri":  "http://localhost/cb",
		"client_id":     "id",
		"client_secret": "secret",
	}
	for k, v := range want {
		if gotForm.Get(k) != v {
			t.Errorf("form[%s] = %q, want %q", k, gotForm.Get(k), v)
		}
	}
}

func TestExchangeCodeSurfacesUpstreamStatusAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer srv.Close()

	c := NewClient(Config{AuthBaseURL: srv.URL})

	_, err := c.ExchangeCode(context.Background(), "expired")
	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("err = %v, want UpstreamError", err)
	}
	if upstream.StatusCode != http.StatusBadRequest {
		t.Errorf("StatusCode = %d", upstream.StatusCode)
	}
	if !strings.Contains(upstream.Body, "invalid_grant") {
		t.Errorf("Body = %q, want the upstream body preserved", upstream.Body)
	}
}

func TestExchangeCodeMissingAccessToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"expires_in":60}`))
	}))
	defer srv.Close()

	c := NewClient(Config{AuthBaseURL: srv.URL})
	if _, err := c.ExchangeCode(context.Background(), "code"); !errors.Is(err, ErrNoAccessToken) {
		t.Errorf("err = %v, want ErrNoAccessToken", err)
	}
}

func TestMeParsesProfileAndAvatar(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q", got)
		}
		if !strings.Contains(r.URL.RawQuery, "projection=") {
			t.Error("profile request is missing the field projection")
		}
		w.Write([]byte(`{
			"id": "abc",
			"localizedFirstName": "Grace",
			"localizedLastName": "Hopper",
			"primaryLocale": {"language": "en"},
			"profilePicture": {"displayImage~": {"elements": [
				{"identifiers": [{"identifier": "https://img/100.jpg"}]},
				{"identifiers": [{"identifier": "https://img/800.jpg"}, {"identifier": "https://img/alt.jpg"}]}
			]}}
		}`))
	}))
	defer srv.Close()

	c := NewClient(Config{APIBaseURL: srv.URL})
	p, err := c.Me(context.Background(), "tok")
	if err != nil {
		t.Fatalf("Me: %v", err)
	}

	if p.ID != "abc" || p.FirstName != "Grace" || p.LastName != "Hopper" {
		t.Errorf("profile fields = %+v", p)
	}
	if p.Language != "en" || p.Country != "" {
		t.Errorf("locale = %q/%q, want en with no country", p.Language, p.Country)
	}
	if p.AvatarURL != "https://img/800.jpg" {
		t.Errorf("AvatarURL = %q, want the last element's first identifier", p.AvatarURL)
	}
	if p.Raw["id"] != "abc" {
		t.Error("raw payload not retained")
	}
}

func TestMeAvatarAbsentAtEveryLevel(t *testing.T) {
	bodies := map[string]string{
		"no picture":        `{"id":"x"}`,
		"no displayImage":   `{"id":"x","profilePicture":{}}`,
		"no elements":       `{"id":"x","profilePicture":{"displayImage~":{}}}`,
		"empty elements":    `{"id":"x","profilePicture":{"displayImage~":{"elements":[]}}}`,
		"no identifiers":    `{"id":"x","profilePicture":{"displayImage~":{"elements":[{}]}}}`,
		"empty identifiers": `{"id":"x","profilePicture":{"displayImage~":{"elements":[{"identifiers":[]}]}}}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			}))
			defer srv.Close()

			c := NewClient(Config{APIBaseURL: srv.URL})
			p, err := c.Me(context.Background(), "tok")
			if err != nil {
				t.Fatalf("Me must not fail on a malformed picture structure: %v", err)
			}
			if p.AvatarURL != "" {
				t.Errorf("AvatarURL = %q, want empty", p.AvatarURL)
			}
		})
	}
}

func TestEmailParsesAddress(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"elements":[{"handle~":{"emailAddress":"g@example.com"}}]}`))
	}))
	defer srv.Close()

	c := NewClient(Config{APIBaseURL: srv.URL})
	email, err := c.Email(context.Background(), "tok")
	if err != nil {
		t.Fatalf("Email: %v", err)
	}
	if email != "g@example.com" {
		t.Errorf("email = %q", email)
	}
}

func TestEmailStructuralMismatchYieldsEmpty(t *testing.T) {
	bodies := []string{
		`{}`,
		`{"elements":[]}`,
		`{"elements":[{}]}`,
		`{"elements":[{"handle~":{}}]}`,
		`{"elements":["not-an-object"]}`,
	}

	for _, body := range bodies {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		}))

		c := NewClient(Config{APIBaseURL: srv.URL})
		email, err := c.Email(context.Background(), "tok")
		srv.Close()

		if err != nil {
			t.Errorf("Email(%s) err = %v, want nil on structural mismatch", body, err)
		}
		if email != "" {
			t.Errorf("Email(%s) = %q, want empty", body, email)
		}
	}
}

func TestEmailNon200IsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(Config{APIBaseURL: srv.URL})
	if _, err := c.Email(context.Background(), "tok"); err == nil {
		t.Error("Email on a 403 returned nil error; callers rely on it to log the degradation")
	}
}

package services

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jobnexus/jobnexus-api/internal/auth"
	"github.com/jobnexus/jobnexus-api/internal/config"
	"github.com/jobnexus/jobnexus-api/internal/models"
	"github.com/jobnexus/jobnexus-api/internal/store"
	"github.com/jobnexus/jobnexus-api/pkg/linkedin"
)

const profileCollection = "linkedinprofile"

// ProfileService runs the LinkedIn identity exchange: login URL
// issuance, the callback's token → profile → email sequence, and stored
// profile lookup.
type ProfileService struct {
	store  store.Store
	states auth.StateStore
	client *linkedin.Client
	creds  config.LinkedIn
	log    *zap.SugaredLogger
	now    func() time.Time
}

func NewProfileService(st store.Store, states auth.StateStore, client *linkedin.Client, creds config.LinkedIn, log *zap.SugaredLogger) *ProfileService {
	return &ProfileService{
		store:  st,
		states: states,
		client: client,
		creds:  creds,
		log:    log,
		now:    time.Now,
	}
}

// Login issues a fresh single-use CSRF state and returns the provider
// authorization URL built around it.
func (s *ProfileService) Login(ctx context.Context) (authURL, state string, err error) {
	if !s.creds.LoginConfigured() {
		return "", "", ErrNotConfigured
	}

	state, err = s.states.Issue(ctx)
	if err != nil {
		return "", "", err
	}
	return s.client.AuthCodeURL(state), state, nil
}

// Callback exchanges the authorization code and persists the normalized
// profile. Steps run strictly in sequence; token and profile failures
// abort the flow, email and avatar failures degrade to absent fields.
func (s *ProfileService) Callback(ctx context.Context, code, state string) (*models.LinkedInProfile, error) {
	if !s.creds.CallbackConfigured() {
		return nil, ErrNotConfigured
	}

	ok, err := s.states.Consume(ctx, state)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrBadState
	}

	if s.store == nil {
		return nil, ErrStoreUnavailable
	}

	token, err := s.client.ExchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}

	me, err := s.client.Me(ctx, token)
	if err != nil {
		return nil, err
	}

	email, err := s.client.Email(ctx, token)
	if err != nil {
		// Non-fatal: the profile is stored without an email.
		s.log.Warnw("email fetch failed", "err", err)
		email = ""
	}
	if me.AvatarURL == "" {
		s.log.Debugw("no avatar in profile response", "linkedin_id", me.ID)
	}

	profile := &models.LinkedInProfile{
		LinkedInID: me.ID,
		FirstName:  me.FirstName,
		LastName:   me.LastName,
		FullName:   joinName(me.FirstName, me.LastName),
		Email:      email,
		Headline:   me.Headline,
		AvatarURL:  me.AvatarURL,
		Locale:     joinLocale(me.Language, me.Country),
		Raw:        map[string]any{"me": me.Raw},
	}

	now := s.now().UTC()
	set := profile.Doc()
	set["updated_at"] = now
	err = s.store.Upsert(ctx, profileCollection,
		store.Filter{Conds: []store.Cond{store.Eq("linkedin_id", profile.LinkedInID)}},
		set,
		store.Document{"created_at": now},
	)
	if err != nil {
		return nil, err
	}

	profile.CreatedAt = models.Stamp(now)
	profile.UpdatedAt = models.Stamp(now)
	return profile, nil
}

// Get returns the stored profile document for a LinkedIn id, with the
// store key normalized to "id".
func (s *ProfileService) Get(ctx context.Context, linkedinID string) (store.Document, error) {
	if s.store == nil {
		return nil, ErrStoreUnavailable
	}

	doc, err := s.store.FindOne(ctx, profileCollection,
		store.Filter{Conds: []store.Cond{store.Eq("linkedin_id", linkedinID)}})
	if err == store.ErrNoDocument {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if id, ok := doc["_id"]; ok {
		doc["id"] = id
		delete(doc, "_id")
	}
	return doc, nil
}

// joinName space-joins the present name parts; both absent yields "".
func joinName(first, last string) string {
	parts := []string{}
	if first != "" {
		parts = append(parts, first)
	}
	if last != "" {
		parts = append(parts, last)
	}
	return strings.Join(parts, " ")
}

// joinLocale renders "lang_COUNTRY", "lang", or "".
func joinLocale(language, country string) string {
	if language == "" && country == "" {
		return ""
	}
	if country == "" {
		return language
	}
	return language + "_" + country
}

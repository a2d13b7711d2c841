package models

import (
	"time"

	"github.com/jobnexus/jobnexus-api/internal/store"
)

// Job is a catalog listing. The match score is supplied by callers (or
// the seed set) and treated as an opaque sortable integer.
type Job struct {
	Title    string   `json:"title"`
	Company  string   `json:"company"`
	Location string   `json:"location"`
	Tags     []string `json:"tags"`
	Match    int      `json:"match"`
}

func (j Job) Doc() store.Document {
	return store.Document{
		"title":    j.Title,
		"company":  j.Company,
		"location": j.Location,
		"tags":     j.Tags,
		"match":    j.Match,
	}
}

// SampleJobs is inserted once, the first time the job collection is
// observed empty.
var SampleJobs = []Job{
	{
		Title:    "Senior Frontend Engineer",
		Company:  "LinkedIn",
		Location: "Remote • US",
		Tags:     []string{"React", "TypeScript", "Accessibility"},
		Match:    92,
	},
	{
		Title:    "Data Scientist, NLP",
		Company:  "Indeed",
		Location: "Austin, TX",
		Tags:     []string{"Python", "NLP", "HuggingFace"},
		Match:    88,
	},
	{
		Title:    "DevOps Engineer",
		Company:  "Seek (AU)",
		Location: "Sydney, AU",
		Tags:     []string{"AWS", "Kubernetes", "Terraform"},
		Match:    84,
	},
	{
		Title:    "Full‑stack Developer",
		Company:  "Naukri (IN)",
		Location: "Bengaluru, IN",
		Tags:     []string{"Node.js", "MongoDB", "Next.js"},
		Match:    90,
	},
	{
		Title:    "AI Product Manager",
		Company:  "Glassdoor",
		Location: "San Francisco, CA",
		Tags:     []string{"Product", "AI", "Strategy"},
		Match:    86,
	},
}

// LinkedInProfile is the normalized record built from the provider's
// profile and email responses. Raw keeps the full upstream payload for
// forward compatibility; its shape is not interpreted here.
type LinkedInProfile struct {
	LinkedInID string         `json:"linkedin_id"`
	FirstName  string         `json:"first_name,omitempty"`
	LastName   string         `json:"last_name,omitempty"`
	FullName   string         `json:"full_name,omitempty"`
	Email      string         `json:"email,omitempty"`
	Headline   string         `json:"headline,omitempty"`
	AvatarURL  string         `json:"avatar_url,omitempty"`
	Locale     string         `json:"locale"`
	Raw        map[string]any `json:"raw,omitempty"`
	CreatedAt  string         `json:"created_at,omitempty"`
	UpdatedAt  string         `json:"updated_at,omitempty"`
}

// Doc returns the field values written on every upsert. All fields are
// included, present or not: the stored record is a full overwrite, never
// a merge with previous values.
func (p LinkedInProfile) Doc() store.Document {
	return store.Document{
		"linkedin_id": p.LinkedInID,
		"first_name":  p.FirstName,
		"last_name":   p.LastName,
		"full_name":   p.FullName,
		"email":       p.Email,
		"headline":    p.Headline,
		"avatar_url":  p.AvatarURL,
		"locale":      p.Locale,
		"raw":         p.Raw,
	}
}

// Stamp renders upsert timestamps the way the API reports them.
func Stamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

package dtos

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jobnexus/jobnexus-api/internal/store"
)

// JobCreateRequest carries a new job listing. Unknown JSON keys are not
// rejected: they land in Extra and are written to the store as-is.
type JobCreateRequest struct {
	Title    string
	Company  string
	Location string
	Tags     []string
	Match    int
	Extra    map[string]any

	missing []string
}

var jobFields = []string{"title", "company", "location", "tags", "match"}

func (r *JobCreateRequest) UnmarshalJSON(data []byte) error {
	type fields struct {
		Title    string   `json:"title"`
		Company  string   `json:"company"`
		Location string   `json:"location"`
		Tags     []string `json:"tags"`
		Match    int      `json:"match"`
	}

	var known fields
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.Title = known.Title
	r.Company = known.Company
	r.Location = known.Location
	r.Tags = known.Tags
	r.Match = known.Match

	r.missing = nil
	for _, f := range jobFields {
		if _, ok := raw[f]; !ok {
			r.missing = append(r.missing, f)
		}
		delete(raw, f)
	}
	r.Extra = raw
	return nil
}

// Validate reports the structurally required fields absent from the
// payload. A match of 0 is valid; only a missing key fails.
func (r *JobCreateRequest) Validate() error {
	if len(r.missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(r.missing, ", "))
	}
	return nil
}

func (r *JobCreateRequest) Doc() store.Document {
	doc := store.Document{
		"title":    r.Title,
		"company":  r.Company,
		"location": r.Location,
		"tags":     r.Tags,
		"match":    r.Match,
	}
	for k, v := range r.Extra {
		doc[k] = v
	}
	return doc
}

package services_test

import (
	"context"
	"encoding/json"
	"testing"

	"go.uber.org/zap"

	"github.com/jobnexus/jobnexus-api/internal/dtos"
	"github.com/jobnexus/jobnexus-api/internal/models"
	"github.com/jobnexus/jobnexus-api/internal/services"
	"github.com/jobnexus/jobnexus-api/internal/store"
)

func newJobService() (*services.JobService, *store.Memory) {
	mem := store.NewMemory()
	return services.NewJobService(mem, zap.NewNop().Sugar()), mem
}

func TestListSeedsEmptyCollectionOnce(t *testing.T) {
	svc, mem := newJobService()
	ctx := context.Background()

	items, err := svc.List(ctx, "", "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != len(models.SampleJobs) {
		t.Fatalf("first List returned %d items, want %d seeded", len(items), len(models.SampleJobs))
	}

	// A second call on a non-empty collection must not re-seed.
	if _, err := svc.List(ctx, "", ""); err != nil {
		t.Fatalf("List: %v", err)
	}
	n, _ := mem.Count(ctx, "job", store.Filter{})
	if n != int64(len(models.SampleJobs)) {
		t.Errorf("collection holds %d docs after second List, want %d", n, len(models.SampleJobs))
	}
}

func TestListSortsByMatchDescending(t *testing.T) {
	svc, _ := newJobService()

	items, err := svc.List(context.Background(), "", "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for i := 1; i < len(items); i++ {
		prev, cur := items[i-1]["match"].(int), items[i]["match"].(int)
		if prev < cur {
			t.Errorf("items[%d].match=%d before items[%d].match=%d, want descending", i-1, prev, i, cur)
		}
	}
}

func TestListFreeTextMatchesSubstringAcrossFields(t *testing.T) {
	svc, _ := newJobService()

	items, err := svc.List(context.Background(), "dev", "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	titles := map[string]bool{}
	for _, it := range items {
		titles[it["title"].(string)] = true
	}
	if !titles["DevOps Engineer"] {
		t.Error(`q="dev" should match "DevOps Engineer" case-insensitively`)
	}
	if !titles["Full‑stack Developer"] {
		t.Error(`q="dev" should match "Full‑stack Developer"`)
	}
	if titles["Data Scientist, NLP"] {
		t.Error(`q="dev" should not match "Data Scientist, NLP"`)
	}
}

func TestListTagsRequireSuperset(t *testing.T) {
	svc, _ := newJobService()
	ctx := context.Background()

	items, err := svc.List(ctx, "", "AWS, Kubernetes")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 1 || items[0]["title"] != "DevOps Engineer" {
		t.Errorf("tags=AWS,Kubernetes returned %v, want only the DevOps job", items)
	}

	// A record carrying just one of the requested tags is excluded.
	items, err = svc.List(ctx, "", "AWS,React")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("tags=AWS,React returned %d items, want 0", len(items))
	}

	// Empty tokens are dropped; an all-empty list applies no filter.
	items, err = svc.List(ctx, "", " , ,")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != len(models.SampleJobs) {
		t.Errorf("blank tags filter returned %d items, want all %d", len(items), len(models.SampleJobs))
	}
}

func TestListCombinesQueryAndTags(t *testing.T) {
	svc, _ := newJobService()

	items, err := svc.List(context.Background(), "linkedin", "React")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 1 || items[0]["company"] != "LinkedIn" {
		t.Errorf("q=linkedin&tags=React returned %v, want the LinkedIn job only", items)
	}
}

func TestListSurfacesStoreIDUnderID(t *testing.T) {
	svc, _ := newJobService()

	items, err := svc.List(context.Background(), "", "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for _, it := range items {
		if _, ok := it["_id"]; ok {
			t.Error("raw _id leaked into a listed job")
		}
		if id, ok := it["id"].(string); !ok || id == "" {
			t.Errorf("listed job carries no normalized id: %v", it)
		}
	}
}

func TestCreatePassesExtraFieldsThrough(t *testing.T) {
	svc, mem := newJobService()
	ctx := context.Background()

	var req dtos.JobCreateRequest
	payload := `{"title":"Backend Engineer","company":"Acme","location":"Remote","tags":["Go"],"match":77,"salary":"120k","remote_ok":true}`
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		t.Fatalf("unmarshal request: %v", err)
	}
	if err := req.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	id, err := svc.Create(ctx, &req)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id == "" {
		t.Fatal("Create returned an empty id")
	}

	doc, err := mem.FindOne(ctx, "job", store.Filter{Conds: []store.Cond{store.Eq("title", "Backend Engineer")}})
	if err != nil {
		t.Fatalf("FindOne: %v", err)
	}
	if doc["salary"] != "120k" {
		t.Errorf("salary = %v, want the extra field passed through", doc["salary"])
	}
	if doc["remote_ok"] != true {
		t.Errorf("remote_ok = %v, want true", doc["remote_ok"])
	}
}

func TestCreateRejectsMissingRequiredFields(t *testing.T) {
	var req dtos.JobCreateRequest
	if err := json.Unmarshal([]byte(`{"title":"No Company"}`), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if err := req.Validate(); err == nil {
		t.Error("Validate accepted a payload missing company/location/tags/match")
	}
}

func TestCreateAcceptsZeroMatch(t *testing.T) {
	var req dtos.JobCreateRequest
	payload := `{"title":"t","company":"c","location":"l","tags":[],"match":0}`
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if err := req.Validate(); err != nil {
		t.Errorf("Validate rejected match=0: %v", err)
	}
}

func TestListWithoutStore(t *testing.T) {
	svc := services.NewJobService(nil, zap.NewNop().Sugar())
	if _, err := svc.List(context.Background(), "", ""); err != services.ErrStoreUnavailable {
		t.Errorf("List with nil store err = %v, want ErrStoreUnavailable", err)
	}
}

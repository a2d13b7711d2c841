package services

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/jobnexus/jobnexus-api/internal/dtos"
	"github.com/jobnexus/jobnexus-api/internal/models"
	"github.com/jobnexus/jobnexus-api/internal/store"
)

const jobCollection = "job"

type JobService struct {
	store store.Store
	log   *zap.SugaredLogger
}

func NewJobService(st store.Store, log *zap.SugaredLogger) *JobService {
	return &JobService{store: st, log: log}
}

// List returns the jobs matching the optional free-text query and
// comma-separated tags filter, sorted by match score descending. Ties
// keep the store's retrieval order, which is not defined across store
// implementations. Each returned document carries its store id under
// "id".
func (s *JobService) List(ctx context.Context, q, tags string) ([]store.Document, error) {
	if s.store == nil {
		return nil, ErrStoreUnavailable
	}
	if err := s.ensureSeedData(ctx); err != nil {
		return nil, err
	}

	var f store.Filter

	if q != "" {
		f.Any = []store.Cond{
			store.Substr("title", q),
			store.Substr("company", q),
			store.Substr("location", q),
		}
	}

	if tagList := splitTags(tags); len(tagList) > 0 {
		f.Conds = append(f.Conds, store.ContainsAll("tags", tagList))
	}

	docs, err := s.store.Query(ctx, jobCollection, f)
	if err != nil {
		return nil, err
	}

	for _, d := range docs {
		if id, ok := d["_id"]; ok {
			d["id"] = id
			delete(d, "_id")
		}
	}

	sort.SliceStable(docs, func(i, j int) bool {
		return matchScore(docs[i]) > matchScore(docs[j])
	})

	return docs, nil
}

// Create inserts the job unconditionally and returns the assigned id.
func (s *JobService) Create(ctx context.Context, req *dtos.JobCreateRequest) (string, error) {
	if s.store == nil {
		return "", ErrStoreUnavailable
	}
	return s.store.Insert(ctx, jobCollection, req.Doc())
}

// ensureSeedData inserts the sample set when the collection is empty.
// The count-then-insert is not atomic: two concurrent first requests can
// both observe zero and both seed. Accepted as-is; the store offers no
// single insert-if-empty operation and seed rows have no natural key to
// hang a unique index on.
func (s *JobService) ensureSeedData(ctx context.Context) error {
	n, err := s.store.Count(ctx, jobCollection, store.Filter{})
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	s.log.Infow("seeding sample jobs", "count", len(models.SampleJobs))
	for _, job := range models.SampleJobs {
		if _, err := s.store.Insert(ctx, jobCollection, job.Doc()); err != nil {
			return err
		}
	}
	return nil
}

// splitTags splits on comma, trims whitespace and drops empty tokens.
func splitTags(tags string) []string {
	if tags == "" {
		return nil
	}
	var out []string
	for _, t := range strings.Split(tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func matchScore(d store.Document) int64 {
	switch v := d["match"].(type) {
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case int64:
		return v
	case float64:
		return int64(v)
	default:
		return 0
	}
}

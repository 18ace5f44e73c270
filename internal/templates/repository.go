// Package templates holds the response template library and its outcome statistics.
package templates

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/freedom_case_2/replydraft/internal/models"
)

var ErrNotFound = errors.New("template not found")

// Repository is the template store contract shared by the in-memory and
// Postgres implementations. List returns templates in a stable listing order.
type Repository interface {
	List(ctx context.Context, category string) ([]models.ResponseTemplate, error)
	Add(ctx context.Context, t models.NewTemplate) (models.ResponseTemplate, error)
	RecordOutcome(ctx context.Context, id string, success bool) (models.ResponseTemplate, error)
}

// Pinger is implemented by repositories backed by an external store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Stats packs (successes, attempts) into one word so both halves change in a
// single atomic add: successes in the high 32 bits, attempts in the low 32.
type Stats struct {
	v atomic.Uint64
}

const successUnit = uint64(1) << 32

func (s *Stats) Record(success bool) (successes, attempts uint32) {
	delta := uint64(1)
	if success {
		delta += successUnit
	}
	return unpack(s.v.Add(delta))
}

func (s *Stats) Load() (successes, attempts uint32) {
	return unpack(s.v.Load())
}

func (s *Stats) store(successes, attempts uint32) {
	s.v.Store(uint64(successes)<<32 | uint64(attempts))
}

func unpack(v uint64) (uint32, uint32) {
	return uint32(v >> 32), uint32(v)
}

// SuccessRate is successes/attempts as a percentage, 0 before any attempt.
func SuccessRate(successes, attempts uint32) float64 {
	if attempts == 0 {
		return 0
	}
	return models.ClampFloat(float64(successes) * 100 / float64(attempts))
}

type entry struct {
	tpl     models.ResponseTemplate
	stats   Stats
	updated atomic.Int64
}

func (e *entry) snapshot() models.ResponseTemplate {
	t := e.tpl
	successes, attempts := e.stats.Load()
	t.SuccessRate = SuccessRate(successes, attempts)
	t.UsageCount = int(attempts)
	t.LastUpdated = time.Unix(0, e.updated.Load()).UTC()
	t.Variables = append([]models.TemplateVariable(nil), e.tpl.Variables...)
	t.ContextTags = append([]string(nil), e.tpl.ContextTags...)
	return t
}

// MemoryRepository keeps templates in insertion order. The mutex guards the
// slice and index only; outcome updates go through each entry's Stats.
type MemoryRepository struct {
	mu      sync.RWMutex
	entries []*entry
	byID    map[string]*entry
	now     func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byID: map[string]*entry{}, now: time.Now}
}

func (r *MemoryRepository) List(ctx context.Context, category string) ([]models.ResponseTemplate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.ResponseTemplate, 0, len(r.entries))
	for _, e := range r.entries {
		if category != "" && e.tpl.Category != category {
			continue
		}
		out = append(out, e.snapshot())
	}
	return out, nil
}

func (r *MemoryRepository) Add(ctx context.Context, t models.NewTemplate) (models.ResponseTemplate, error) {
	return r.Seed(ctx, t, 0, 0)
}

// Seed adds a template carrying historic statistics, as imported from a
// template library file.
func (r *MemoryRepository) Seed(ctx context.Context, t models.NewTemplate, successes, attempts int) (models.ResponseTemplate, error) {
	if successes < 0 || attempts < 0 || successes > attempts || uint64(attempts) > math.MaxUint32 {
		return models.ResponseTemplate{}, errors.New("invalid template statistics")
	}
	e := &entry{tpl: fromNew(uuid.NewString(), t)}
	e.stats.store(uint32(successes), uint32(attempts))
	e.updated.Store(r.now().UnixNano())

	r.mu.Lock()
	r.entries = append(r.entries, e)
	r.byID[e.tpl.ID] = e
	r.mu.Unlock()
	return e.snapshot(), nil
}

func (r *MemoryRepository) RecordOutcome(ctx context.Context, id string, success bool) (models.ResponseTemplate, error) {
	r.mu.RLock()
	e, ok := r.byID[id]
	r.mu.RUnlock()
	if !ok {
		return models.ResponseTemplate{}, ErrNotFound
	}
	e.stats.Record(success)
	e.updated.Store(r.now().UnixNano())
	return e.snapshot(), nil
}

func fromNew(id string, t models.NewTemplate) models.ResponseTemplate {
	tags := make([]string, 0, len(t.ContextTags))
	for _, tag := range t.ContextTags {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return models.ResponseTemplate{
		ID:          id,
		Title:       t.Title,
		Category:    t.Category,
		Priority:    t.Priority,
		Language:    t.Language,
		Body:        t.Body,
		Variables:   append([]models.TemplateVariable(nil), t.Variables...),
		Tone:        t.Tone,
		ContextTags: tags,
	}
}

package templates

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freedom_case_2/replydraft/internal/models"
)

func newTemplate(title, category string) models.NewTemplate {
	return models.NewTemplate{
		Title:    title,
		Category: category,
		Language: "fr",
		Body:     "Bonjour {{customerName}}",
		Tone:     models.ToneFormal,
		Variables: []models.TemplateVariable{
			{Name: "customerName", Required: true},
		},
		ContextTags: []string{"new_ticket", " "},
	}
}

func TestAddAssignsDerivedFields(t *testing.T) {
	repo := NewMemoryRepository()
	tpl, err := repo.Add(context.Background(), newTemplate("ack", models.ResponseAcknowledgment))
	require.NoError(t, err)

	assert.NotEmpty(t, tpl.ID)
	assert.Zero(t, tpl.SuccessRate)
	assert.Zero(t, tpl.UsageCount)
	assert.Equal(t, []string{"new_ticket"}, tpl.ContextTags)
	assert.False(t, tpl.LastUpdated.IsZero())
}

func TestListFiltersByCategoryInInsertionOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	a, _ := repo.Add(ctx, newTemplate("a", models.ResponseAcknowledgment))
	_, _ = repo.Add(ctx, newTemplate("b", models.ResponseSolution))
	c, _ := repo.Add(ctx, newTemplate("c", models.ResponseAcknowledgment))

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	acks, err := repo.List(ctx, models.ResponseAcknowledgment)
	require.NoError(t, err)
	require.Len(t, acks, 2)
	assert.Equal(t, a.ID, acks[0].ID)
	assert.Equal(t, c.ID, acks[1].ID)
}

func TestRecordOutcomeRunningAverage(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	tpl, _ := repo.Add(ctx, newTemplate("ack", models.ResponseAcknowledgment))

	got, err := repo.RecordOutcome(ctx, tpl.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 100.0, got.SuccessRate)
	assert.Equal(t, 1, got.UsageCount)

	got, err = repo.RecordOutcome(ctx, tpl.ID, false)
	require.NoError(t, err)
	assert.Equal(t, 50.0, got.SuccessRate)
	assert.Equal(t, 2, got.UsageCount)
}

func TestRecordOutcomeUnknownTemplate(t *testing.T) {
	_, err := NewMemoryRepository().RecordOutcome(context.Background(), "missing", true)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecordOutcomeConcurrent(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	tpl, _ := repo.Add(ctx, newTemplate("ack", models.ResponseAcknowledgment))

	const workers, perWorker = 16, 250
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				_, _ = repo.RecordOutcome(ctx, tpl.ID, (w+i)%2 == 0)
			}
		}(w)
	}
	wg.Wait()

	list, _ := repo.List(ctx, "")
	require.Len(t, list, 1)
	assert.Equal(t, workers*perWorker, list[0].UsageCount)
	assert.Equal(t, 50.0, list[0].SuccessRate)
}

func TestSnapshotIsolation(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	tpl, _ := repo.Add(ctx, newTemplate("ack", models.ResponseAcknowledgment))

	before, _ := repo.List(ctx, "")
	_, _ = repo.RecordOutcome(ctx, tpl.ID, true)
	before[0].Variables[0].Name = "mutated"

	after, _ := repo.List(ctx, "")
	assert.Equal(t, 0, before[0].UsageCount, "earlier snapshot is not updated in place")
	assert.Equal(t, 1, after[0].UsageCount)
	assert.Equal(t, "customerName", after[0].Variables[0].Name)
}

func TestStatsPacking(t *testing.T) {
	var s Stats
	s.store(3, 7)
	succ, att := s.Record(true)
	assert.Equal(t, uint32(4), succ)
	assert.Equal(t, uint32(8), att)
	succ, att = s.Record(false)
	assert.Equal(t, uint32(4), succ)
	assert.Equal(t, uint32(9), att)
	assert.InDelta(t, 44.44, SuccessRate(succ, att), 0.01)
	assert.Zero(t, SuccessRate(0, 0))
}

func TestSeedRejectsInvalidStatistics(t *testing.T) {
	repo := NewMemoryRepository()
	for _, c := range [][2]int{{-1, 0}, {2, 1}, {0, -1}} {
		_, err := repo.Seed(context.Background(), newTemplate("ack", models.ResponseAcknowledgment), c[0], c[1])
		assert.Error(t, err, "successes=%d attempts=%d", c[0], c[1])
	}
	tpl, err := repo.Seed(context.Background(), newTemplate("ack", models.ResponseAcknowledgment), 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 100.0, tpl.SuccessRate)
}

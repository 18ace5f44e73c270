package db

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freedom_case_2/replydraft/internal/models"
	"github.com/freedom_case_2/replydraft/internal/templates"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	s, err := New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	require.NoError(t, s.EnsureSchema(ctx))
	_, err = s.Pool.Exec(ctx, `TRUNCATE response_templates`)
	require.NoError(t, err)
	return s
}

func sample(category string) models.NewTemplate {
	return models.NewTemplate{
		Title:       "Accusé de réception",
		Category:    category,
		Language:    "fr",
		Body:        "Bonjour {{customerName}}",
		Tone:        models.ToneFormal,
		Variables:   []models.TemplateVariable{{Name: "customerName", Required: true}},
		ContextTags: []string{"new_ticket"},
	}
}

var _ templates.Repository = (*Store)(nil)
var _ templates.Seeder = (*Store)(nil)
var _ templates.BulkSeeder = (*Store)(nil)

func TestStoreRoundTrip(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	a, err := s.Add(ctx, sample(models.ResponseAcknowledgment))
	require.NoError(t, err)
	_, err = s.Seed(ctx, sample(models.ResponseSolution), 3, 4)
	require.NoError(t, err)

	acks, err := s.List(ctx, models.ResponseAcknowledgment)
	require.NoError(t, err)
	require.Len(t, acks, 1)
	assert.Equal(t, a.ID, acks[0].ID)
	assert.Equal(t, "customerName", acks[0].Variables[0].Name)

	sol, err := s.List(ctx, models.ResponseSolution)
	require.NoError(t, err)
	require.Len(t, sol, 1)
	assert.Equal(t, 75.0, sol[0].SuccessRate)
}

func TestStoreRecordOutcome(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	a, err := s.Add(ctx, sample(models.ResponseAcknowledgment))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = s.RecordOutcome(ctx, a.ID, i%2 == 0)
		}(i)
	}
	wg.Wait()

	list, err := s.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 20, list[0].UsageCount)
	assert.Equal(t, 50.0, list[0].SuccessRate)

	_, err = s.RecordOutcome(ctx, "missing", true)
	assert.ErrorIs(t, err, templates.ErrNotFound)
}

func TestStoreSeedLibraryIsAtomic(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	lib := templates.Library{Templates: []templates.LibraryEntry{
		{NewTemplate: sample(models.ResponseAcknowledgment), SuccessCount: 1, UsageCount: 2},
		{NewTemplate: sample(models.ResponseProgress), SuccessCount: 5, UsageCount: 2},
	}}
	_, err := templates.Import(ctx, s, lib)
	require.Error(t, err)

	list, err := s.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, list)

	lib.Templates[1].SuccessCount = 2
	n, err := templates.Import(ctx, s, lib)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

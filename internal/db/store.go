package db

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/freedom_case_2/replydraft/internal/models"
	"github.com/freedom_case_2/replydraft/internal/templates"
)

//go:embed schema.sql
var schemaSQL string

// Store is the Postgres-backed template repository.
type Store struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Store{Pool: pool}, nil
}

func (s *Store) Close() {
	s.Pool.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.Pool.Ping(ctx)
}

func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.Pool.Exec(ctx, schemaSQL)
	return err
}

func (s *Store) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

const templateColumns = `id, title, category, priority, language, body, variables, tone, context_tags, success_count, usage_count, last_updated`

func (s *Store) List(ctx context.Context, category string) ([]models.ResponseTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM response_templates`
	var args []any
	if category != "" {
		args = append(args, category)
		query += " WHERE category = $1"
	}
	query += " ORDER BY seq ASC"

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.ResponseTemplate{}
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) Add(ctx context.Context, t models.NewTemplate) (models.ResponseTemplate, error) {
	return s.Seed(ctx, t, 0, 0)
}

// Seed inserts a template carrying historic outcome counts.
func (s *Store) Seed(ctx context.Context, t models.NewTemplate, successes, attempts int) (models.ResponseTemplate, error) {
	return seed(ctx, s.Pool, t, successes, attempts)
}

// SeedLibrary imports every library entry in one transaction: either the
// whole file lands or nothing does.
func (s *Store) SeedLibrary(ctx context.Context, lib templates.Library) (int, error) {
	err := s.WithTx(ctx, func(tx pgx.Tx) error {
		for _, e := range lib.Templates {
			if _, err := seed(ctx, tx, e.NewTemplate, e.SuccessCount, e.UsageCount); err != nil {
				return fmt.Errorf("import %q: %w", e.Title, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(lib.Templates), nil
}

type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func seed(ctx context.Context, q queryRower, t models.NewTemplate, successes, attempts int) (models.ResponseTemplate, error) {
	if successes < 0 || successes > attempts {
		return models.ResponseTemplate{}, errors.New("invalid template statistics")
	}
	vars, err := json.Marshal(nonNilVariables(t.Variables))
	if err != nil {
		return models.ResponseTemplate{}, err
	}
	row := q.QueryRow(ctx, `
		INSERT INTO response_templates (id, title, category, priority, language, body, variables, tone, context_tags, success_count, usage_count, last_updated)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,NOW())
		RETURNING `+templateColumns,
		uuid.NewString(), t.Title, t.Category, t.Priority, t.Language, t.Body, vars, t.Tone, cleanTags(t.ContextTags), successes, attempts)
	return scanTemplate(row)
}

// RecordOutcome updates both counters in one statement so concurrent outcomes
// are never lost.
func (s *Store) RecordOutcome(ctx context.Context, id string, success bool) (models.ResponseTemplate, error) {
	inc := 0
	if success {
		inc = 1
	}
	row := s.Pool.QueryRow(ctx, `
		UPDATE response_templates
		SET success_count = success_count + $1, usage_count = usage_count + 1, last_updated = NOW()
		WHERE id = $2
		RETURNING `+templateColumns, inc, id)
	t, err := scanTemplate(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.ResponseTemplate{}, templates.ErrNotFound
	}
	return t, err
}

func scanTemplate(row pgx.Row) (models.ResponseTemplate, error) {
	var (
		t         models.ResponseTemplate
		vars      []byte
		successes int
		attempts  int
		updated   time.Time
	)
	if err := row.Scan(&t.ID, &t.Title, &t.Category, &t.Priority, &t.Language, &t.Body, &vars, &t.Tone, &t.ContextTags, &successes, &attempts, &updated); err != nil {
		return models.ResponseTemplate{}, err
	}
	if len(vars) > 0 {
		if err := json.Unmarshal(vars, &t.Variables); err != nil {
			return models.ResponseTemplate{}, fmt.Errorf("decode variables of %s: %w", t.ID, err)
		}
	}
	t.UsageCount = attempts
	t.SuccessRate = templates.SuccessRate(uint32(successes), uint32(attempts))
	t.LastUpdated = updated.UTC()
	return t, nil
}

func nonNilVariables(v []models.TemplateVariable) []models.TemplateVariable {
	if v == nil {
		return []models.TemplateVariable{}
	}
	return v
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

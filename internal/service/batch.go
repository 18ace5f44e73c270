package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/freedom_case_2/replydraft/internal/models"
)

// GenerateBatch runs independent requests in parallel, at most concurrency at
// a time. Results keep the request order; a failed item never stops the
// others.
func (s *Pipeline) GenerateBatch(ctx context.Context, items []models.GenerateRequest, concurrency int) []models.BatchItemResult {
	if concurrency <= 0 {
		concurrency = 1
	}
	results := make([]models.BatchItemResult, len(items))

	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			results[i] = s.generateOne(ctx, i, item)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (s *Pipeline) generateOne(ctx context.Context, index int, req models.GenerateRequest) models.BatchItemResult {
	if err := ctx.Err(); err != nil {
		return models.BatchItemResult{Index: index, Error: err.Error()}
	}
	resp, err := s.GenerateResponse(ctx, req.Ticket, req.Personalization, req.ResponseType)
	if err != nil {
		return models.BatchItemResult{Index: index, Error: err.Error()}
	}
	out := &models.GenerateResult{GeneratedResponse: resp}
	if req.WithQuality {
		q := s.Score(resp.Content, req.Ticket, req.Personalization)
		out.Quality = &q
	}
	return models.BatchItemResult{Index: index, Response: out}
}

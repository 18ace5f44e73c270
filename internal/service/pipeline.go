package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/freedom_case_2/replydraft/internal/ai"
	"github.com/freedom_case_2/replydraft/internal/events"
	"github.com/freedom_case_2/replydraft/internal/metrics"
	"github.com/freedom_case_2/replydraft/internal/models"
	"github.com/freedom_case_2/replydraft/internal/templates"
)

const (
	PathTemplate = "template"
	PathScratch  = "scratch"
)

// Pipeline turns a ticket and its personalization data into a draft reply.
// Every generative stage is fail-soft; only template store faults surface, as
// a PipelineError.
type Pipeline struct {
	Templates templates.Repository
	AI        ai.Capability
	Events    events.Publisher
	Quality   QualityScorer
	MaxTokens int
	Logger    zerolog.Logger
}

func (s *Pipeline) GenerateResponse(ctx context.Context, ticket models.TicketContext, p models.PersonalizationData, responseType string) (models.GeneratedResponse, error) {
	start := time.Now()
	log := s.loggerFor(ctx).With().Str("ticket_id", ticket.ID).Str("response_type", responseType).Logger()

	sel, err := Selector{Templates: s.Templates}.Select(ctx, ticket, responseType, p)
	if err != nil && ctx.Err() != nil {
		// Cancelled callers get the fixed fallback draft rather than a store fault.
		s.fallback(log, StageSelect, err, "")
		sel, err = SelectionResult{ReasonCode: ReasonNoCandidates}, nil
	}
	if err != nil {
		metrics.PipelineFailuresTotal.WithLabelValues(StageSelect).Inc()
		return models.GeneratedResponse{}, &PipelineError{Stage: StageSelect, Message: "template repository unavailable", Cause: err}
	}

	var (
		draft   Draft
		tone    string
		vars    = map[string]string{}
		usedID  *string
		path    = PathScratch
		fromTpl bool
	)
	if sel.Template != nil {
		draft, tone, vars, err = s.fromTemplate(ctx, log, *sel.Template, ticket, p)
		if err == nil {
			fromTpl = true
			id := sel.Template.ID
			usedID, path = &id, PathTemplate
		} else {
			s.fallback(log, StageRender, err, sel.Template.ID)
			vars = map[string]string{}
		}
	}
	if !fromTpl {
		draft, err = s.augmenter().GenerateFromScratch(ctx, ticket, p)
		if err != nil {
			s.fallback(log, StageScratch, err, "")
		}
		tone = OptimalTone(p.CustomerPreferences.CommunicationStyle)
	}

	enhanced, err := s.augmenter().Enhance(ctx, draft, ticket, p)
	if err != nil {
		s.fallback(log, StageEnhance, err, "")
	}

	suggestions, err := SuggestionGenerator{AI: s.AI, MaxTokens: s.MaxTokens}.Generate(ctx, enhanced.Content, ticket)
	if err != nil {
		s.fallback(log, StageSuggest, err, "")
	}

	resp := models.GeneratedResponse{
		ID:                   uuid.NewString(),
		TicketID:             ticket.ID,
		Content:              enhanced.Content,
		Tone:                 tone,
		Confidence:           models.Clamp(enhanced.Confidence),
		TemplateUsed:         usedID,
		Variables:            vars,
		PersonalizationLevel: models.Clamp(enhanced.PersonalizationLevel),
		EstimatedReadTime:    EstimatedReadTime(enhanced.Content),
		Language:             p.CustomerPreferences.Language,
		Suggestions:          suggestions,
		CreatedAt:            time.Now().UTC(),
	}

	metrics.ResponsesGeneratedTotal.WithLabelValues(path, responseType).Inc()
	s.publishResponse(ctx, log, resp)

	ev := log.Info().
		Str("path", path).
		Int("confidence", resp.Confidence).
		Int("personalization", resp.PersonalizationLevel).
		Dur("latency", time.Since(start))
	if usedID != nil {
		ev = ev.Str("template_id", *usedID)
	}
	ev.Msg("draft generated")
	return resp, nil
}

// fromTemplate resolves and renders tpl, then adapts its tone. The returned
// error only reports an unusable template; a failed tone rewrite is logged and
// the rendered text kept.
func (s *Pipeline) fromTemplate(ctx context.Context, log zerolog.Logger, tpl models.ResponseTemplate, ticket models.TicketContext, p models.PersonalizationData) (Draft, string, map[string]string, error) {
	resolved, err := ResolveAll(tpl, ticket, p)
	if err != nil {
		return Draft{}, "", nil, err
	}
	vars := valueMap(resolved)
	content, err := Render(tpl.ID, tpl.Body, vars)
	if err != nil {
		return Draft{}, "", nil, err
	}

	adapted, err := ToneAdapter{AI: s.AI, MaxTokens: s.MaxTokens}.Adapt(ctx, content, tpl.Tone, p.CustomerPreferences.CommunicationStyle)
	if err != nil {
		s.fallback(log, StageTone, err, tpl.ID)
	}
	return Draft{
		Content:              adapted.Content,
		Confidence:           TemplateConfidence,
		PersonalizationLevel: PersonalizationLevel(resolved),
	}, adapted.Tone, vars, nil
}

// RecordOutcome feeds agent feedback on a template-based draft back into the
// template statistics.
func (s *Pipeline) RecordOutcome(ctx context.Context, templateID string, success bool) (models.ResponseTemplate, error) {
	tpl, err := s.Templates.RecordOutcome(ctx, templateID, success)
	if err != nil {
		return models.ResponseTemplate{}, err
	}
	result := "failure"
	if success {
		result = "success"
	}
	metrics.TemplateOutcomesTotal.WithLabelValues(result).Inc()
	if s.Events != nil {
		ev := events.OutcomeEvent{
			TemplateID:  tpl.ID,
			Success:     success,
			SuccessRate: tpl.SuccessRate,
			UsageCount:  tpl.UsageCount,
			RecordedAt:  time.Now().UTC(),
		}
		if err := s.Events.PublishOutcome(ctx, ev); err != nil {
			log := s.loggerFor(ctx)
			log.Warn().Err(err).Str("template_id", tpl.ID).Msg("outcome event not published")
		}
	}
	return tpl, nil
}

// Score runs the quality heuristics over content.
func (s *Pipeline) Score(content string, ticket models.TicketContext, p models.PersonalizationData) models.ResponseQualityMetrics {
	return s.Quality.Score(content, ticket, p)
}

// loggerFor prefers the request-scoped logger carried by ctx.
func (s *Pipeline) loggerFor(ctx context.Context) zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return *l
	}
	return s.Logger
}

func (s *Pipeline) augmenter() Augmenter {
	return Augmenter{AI: s.AI, MaxTokens: s.MaxTokens}
}

func (s *Pipeline) fallback(log zerolog.Logger, stage string, err error, templateID string) {
	metrics.StageFallbacksTotal.WithLabelValues(stage).Inc()
	ev := log.Warn().Err(err).Str("stage", stage)
	if templateID != "" {
		ev = ev.Str("template_id", templateID)
	}
	var renderErr *RenderError
	switch {
	case errors.As(err, &renderErr), errors.Is(err, ErrMissingRequired):
		ev.Msg("template unusable, drafting from scratch")
	default:
		ev.Msg("generative stage fell back")
	}
}

func (s *Pipeline) publishResponse(ctx context.Context, log zerolog.Logger, resp models.GeneratedResponse) {
	if s.Events == nil {
		return
	}
	if err := s.Events.PublishResponse(ctx, resp); err != nil {
		log.Warn().Err(err).Msg("draft event not published")
	}
}

// EstimatedReadTime is the reading time in seconds at 200 words per minute,
// rounded up.
func EstimatedReadTime(content string) int {
	words := len(strings.Fields(content))
	return (words*60 + 199) / 200
}

package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/freedom_case_2/replydraft/internal/ai"
	"github.com/freedom_case_2/replydraft/internal/models"
	"github.com/freedom_case_2/replydraft/internal/prompts"
	"github.com/freedom_case_2/replydraft/internal/schemas"
)

const maxSuggestions = 3

type SuggestionGenerator struct {
	AI        ai.Capability
	MaxTokens int
}

// Generate always returns a non-nil slice; it is empty whenever an error is
// returned.
func (g SuggestionGenerator) Generate(ctx context.Context, content string, t models.TicketContext) ([]models.ResponseSuggestion, error) {
	user := prompts.Format(prompts.MustGet(promptFile, "suggest_user"), map[string]string{
		"TicketID": t.ID,
		"Type":     orDash(t.Type),
		"Content":  content,
	})
	out, err := g.AI.Complete(ctx, []ai.Message{
		ai.System(prompts.MustGet(promptFile, "suggest_system")),
		ai.User(user),
	}, 0.2, g.MaxTokens)
	if err != nil {
		return []models.ResponseSuggestion{}, &GenerativeError{Stage: StageSuggest, Reason: "call failed", Cause: err}
	}
	suggestions, err := ParseSuggestions(out)
	if err != nil {
		return []models.ResponseSuggestion{}, &GenerativeError{Stage: StageSuggest, Reason: "malformed output", Cause: err}
	}
	return suggestions, nil
}

type rawSuggestion struct {
	Type      string `json:"type"`
	Message   string `json:"message"`
	Priority  string `json:"priority"`
	AutoApply *bool  `json:"autoApply"`
}

// ParseSuggestions validates raw model output against the suggestions schema
// and normalizes each entry.
func ParseSuggestions(raw string) ([]models.ResponseSuggestion, error) {
	payload := []byte(ai.CleanJSONBlock(raw))
	if err := schemas.Validate(schemas.Suggestions, payload); err != nil {
		return nil, &MalformedOutputError{Message: "suggestions do not match schema", Cause: err}
	}
	var items []rawSuggestion
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, &MalformedOutputError{Message: "suggestions are not a JSON array", Cause: err}
	}

	out := make([]models.ResponseSuggestion, 0, min(len(items), maxSuggestions))
	for _, it := range items {
		if len(out) == maxSuggestions {
			break
		}
		msg := strings.TrimSpace(it.Message)
		if msg == "" {
			continue
		}
		s := models.ResponseSuggestion{
			Type:     normalizeEnum(it.Type, models.SuggestionImprovement, models.SuggestionImprovement, models.SuggestionAlternative, models.SuggestionAdditionalInfo),
			Message:  msg,
			Priority: normalizeEnum(it.Priority, models.PriorityMedium, models.PriorityLow, models.PriorityMedium, models.PriorityHigh),
		}
		if it.AutoApply != nil {
			s.AutoApply = *it.AutoApply
		}
		out = append(out, s)
	}
	return out, nil
}

func normalizeEnum(value, fallback string, allowed ...string) string {
	v := strings.ToLower(strings.TrimSpace(value))
	for _, a := range allowed {
		if v == a {
			return a
		}
	}
	return fallback
}

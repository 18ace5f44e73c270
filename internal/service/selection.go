package service

import (
	"context"
	"strings"

	"github.com/freedom_case_2/replydraft/internal/models"
	"github.com/freedom_case_2/replydraft/internal/templates"
)

const (
	ReasonNoCandidates = "NO_CANDIDATES"
	ReasonSelected     = "SELECTED"
)

const (
	successWeight = 0.3
	tagBonus      = 20.0
	toneBonus     = 15.0
	languageBonus = 10.0
)

// CandidateScore is the per-template breakdown of one selection pass.
type CandidateScore struct {
	TemplateID    string  `json:"template_id"`
	Title         string  `json:"title"`
	Total         float64 `json:"total"`
	SuccessPart   float64 `json:"success_part"`
	TagMatch      bool    `json:"tag_match"`
	ToneMatch     bool    `json:"tone_match"`
	LanguageMatch bool    `json:"language_match"`
}

type SelectionResult struct {
	Template    *models.ResponseTemplate `json:"template,omitempty"`
	OptimalTone string                   `json:"optimal_tone"`
	Candidates  []CandidateScore         `json:"candidates"`
	ReasonCode  string                   `json:"reason_code"`
}

type Selector struct {
	Templates templates.Repository
}

// Select lists the candidates for responseType once and scores that snapshot.
// A nil Template with ReasonNoCandidates is not an error.
func (s Selector) Select(ctx context.Context, ticket models.TicketContext, responseType string, p models.PersonalizationData) (SelectionResult, error) {
	category := responseType
	if responseType == models.ResponseCustom {
		category = ""
	}
	list, err := s.Templates.List(ctx, category)
	if err != nil {
		return SelectionResult{}, err
	}
	return ScoreCandidates(list, ticket, responseType, p), nil
}

// ScoreCandidates picks the highest scoring template among those eligible for
// responseType. Ties keep the earliest template in list order.
func ScoreCandidates(list []models.ResponseTemplate, ticket models.TicketContext, responseType string, p models.PersonalizationData) SelectionResult {
	optimal := OptimalTone(p.CustomerPreferences.CommunicationStyle)
	result := SelectionResult{OptimalTone: optimal, Candidates: []CandidateScore{}}

	best := -1
	var bestScore float64
	for i, t := range list {
		if responseType != models.ResponseCustom && t.Category != responseType {
			continue
		}
		cs := scoreTemplate(t, ticket, optimal, p.CustomerPreferences.Language)
		result.Candidates = append(result.Candidates, cs)
		if best < 0 || cs.Total > bestScore {
			best, bestScore = i, cs.Total
		}
	}

	if best < 0 {
		result.ReasonCode = ReasonNoCandidates
		return result
	}
	picked := list[best]
	result.Template = &picked
	result.ReasonCode = ReasonSelected
	return result
}

func scoreTemplate(t models.ResponseTemplate, ticket models.TicketContext, optimalTone, language string) CandidateScore {
	cs := CandidateScore{
		TemplateID:    t.ID,
		Title:         t.Title,
		SuccessPart:   successWeight * models.ClampFloat(t.SuccessRate),
		TagMatch:      hasTag(t.ContextTags, ticket.Type),
		ToneMatch:     t.Tone == optimalTone,
		LanguageMatch: language != "" && strings.EqualFold(strings.TrimSpace(t.Language), strings.TrimSpace(language)),
	}
	cs.Total = cs.SuccessPart
	if cs.TagMatch {
		cs.Total += tagBonus
	}
	if cs.ToneMatch {
		cs.Total += toneBonus
	}
	if cs.LanguageMatch {
		cs.Total += languageBonus
	}
	return cs
}

// OptimalTone maps a customer's communication style to the template tone that
// suits it best.
func OptimalTone(style string) string {
	switch strings.ToLower(strings.TrimSpace(style)) {
	case models.StyleFormal:
		return models.ToneFormal
	case models.StyleCasual:
		return models.ToneFriendly
	case models.StyleTechnical:
		return models.ToneTechnical
	default:
		return models.ToneFriendly
	}
}

func hasTag(tags []string, target string) bool {
	target = strings.TrimSpace(target)
	if target == "" {
		return false
	}
	for _, tag := range tags {
		if strings.EqualFold(strings.TrimSpace(tag), target) {
			return true
		}
	}
	return false
}

package service

import (
	"context"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/freedom_case_2/replydraft/internal/ai"
	"github.com/freedom_case_2/replydraft/internal/models"
	"github.com/freedom_case_2/replydraft/internal/prompts"
)

const (
	TemplateConfidence      = 85
	ScratchConfidence       = 70
	ScratchPersonalization  = 60
	FallbackConfidence      = 50
	FallbackPersonalization = 50
)

var fallbackTexts = map[string]string{
	"fr": "Bonjour,\n\nNous avons bien reçu votre demande et nous la traitons actuellement. Nous revenons vers vous dans les meilleurs délais.\n\nCordialement,\nL'équipe support",
	"en": "Hello,\n\nWe have received your request and are processing it. We will get back to you as soon as possible.\n\nKind regards,\nThe support team",
}

// FallbackText is the fixed reply used when no draft could be generated.
func FallbackText(language string) string {
	if t, ok := fallbackTexts[strings.ToLower(strings.TrimSpace(language))]; ok {
		return t
	}
	return fallbackTexts["fr"]
}

// Draft is the intermediate text handed between pipeline stages.
type Draft struct {
	Content              string
	Confidence           int
	PersonalizationLevel int
}

type Augmenter struct {
	AI        ai.Capability
	MaxTokens int
}

// Enhance asks for a more natural, more detailed version of d. Completions
// shorter than 80% of the draft are rejected; on rejection or failure d comes
// back unchanged with a GenerativeError.
func (a Augmenter) Enhance(ctx context.Context, d Draft, t models.TicketContext, p models.PersonalizationData) (Draft, error) {
	user := prompts.Format(prompts.MustGet(promptFile, "enhance_user"), map[string]string{
		"HistoryCount":   strconv.Itoa(len(p.InteractionHistory)),
		"Style":          orDash(p.CustomerPreferences.CommunicationStyle),
		"TechnicalLevel": orDash(p.CustomerPreferences.TechnicalLevel),
		"Description":    orDash(t.Description),
		"Draft":          d.Content,
	})
	out, err := a.AI.Complete(ctx, []ai.Message{
		ai.System(prompts.MustGet(promptFile, "enhance_system")),
		ai.User(user),
	}, 0.7, a.MaxTokens)
	if err != nil {
		return d, &GenerativeError{Stage: StageEnhance, Reason: "call failed", Cause: err}
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return d, &GenerativeError{Stage: StageEnhance, Reason: "empty output", Cause: ai.ErrEmptyCompletion}
	}
	if !longEnough(out, d.Content) {
		return d, &GenerativeError{Stage: StageEnhance, Reason: "output too short"}
	}
	return Draft{
		Content:              out,
		Confidence:           min(95, d.Confidence+10),
		PersonalizationLevel: min(100, d.PersonalizationLevel+5),
	}, nil
}

// GenerateFromScratch drafts a full reply when no template matched. It always
// returns usable text: on failure the fixed fallback comes back with the error.
func (a Augmenter) GenerateFromScratch(ctx context.Context, t models.TicketContext, p models.PersonalizationData) (Draft, error) {
	fallback := Draft{
		Content:              FallbackText(p.CustomerPreferences.Language),
		Confidence:           FallbackConfidence,
		PersonalizationLevel: FallbackPersonalization,
	}
	description := strings.TrimSpace(t.Description)
	if description == "" {
		description = orDash(t.Title)
	}
	user := prompts.Format(prompts.MustGet(promptFile, "scratch_user"), map[string]string{
		"TicketID":         t.ID,
		"Category":         orDash(t.Category),
		"Priority":         orDash(t.Priority),
		"Type":             orDash(t.Type),
		"Symptoms":         orDash(strings.Join(t.Symptoms, ", ")),
		"PreviousAttempts": strconv.Itoa(t.PreviousAttempts),
		"CustomerName":     orDash(p.CustomerName),
		"Style":            orDash(p.CustomerPreferences.CommunicationStyle),
		"TechnicalLevel":   orDash(p.CustomerPreferences.TechnicalLevel),
		"Language":         orDash(p.CustomerPreferences.Language),
		"AgentName":        orDash(p.AgentProfile.Name),
		"Description":      description,
	})
	out, err := a.AI.Complete(ctx, []ai.Message{
		ai.System(prompts.MustGet(promptFile, "scratch_system")),
		ai.User(user),
	}, 0.7, a.MaxTokens)
	if err != nil {
		return fallback, &GenerativeError{Stage: StageScratch, Reason: "call failed", Cause: err}
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return fallback, &GenerativeError{Stage: StageScratch, Reason: "empty output", Cause: ai.ErrEmptyCompletion}
	}
	return Draft{Content: out, Confidence: ScratchConfidence, PersonalizationLevel: ScratchPersonalization}, nil
}

func longEnough(candidate, original string) bool {
	return utf8.RuneCountInString(candidate)*5 >= utf8.RuneCountInString(original)*4
}

func orDash(s string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return "-"
}

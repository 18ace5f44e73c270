package service

import (
	"context"
	"strings"

	"github.com/freedom_case_2/replydraft/internal/ai"
	"github.com/freedom_case_2/replydraft/internal/models"
	"github.com/freedom_case_2/replydraft/internal/prompts"
)

const promptFile = "drafting.json"

var styleHints = map[string]string{
	models.StyleFormal:    "vouvoiement, formules de politesse complètes",
	models.StyleCasual:    "ton chaleureux et direct, phrases courtes",
	models.StyleTechnical: "précis et factuel, vocabulaire technique assumé",
}

type ToneResult struct {
	Content string
	Tone    string
}

// ToneAdapter rewrites text into the customer's preferred style.
type ToneAdapter struct {
	AI        ai.Capability
	MaxTokens int
}

// Adapt returns the input unchanged when the tone already matches, when no
// style is known, or alongside a GenerativeError when the rewrite fails.
func (a ToneAdapter) Adapt(ctx context.Context, content, currentTone, preferredStyle string) (ToneResult, error) {
	unchanged := ToneResult{Content: content, Tone: currentTone}
	preferredStyle = strings.TrimSpace(preferredStyle)
	if preferredStyle == "" || currentTone == preferredStyle {
		return unchanged, nil
	}

	user := prompts.Format(prompts.MustGet(promptFile, "tone_user"), map[string]string{
		"Style":     preferredStyle,
		"StyleHint": styleHints[preferredStyle],
		"Content":   content,
	})
	out, err := a.AI.Complete(ctx, []ai.Message{
		ai.System(prompts.MustGet(promptFile, "tone_system")),
		ai.User(user),
	}, 0.3, a.MaxTokens)
	if err != nil {
		return unchanged, &GenerativeError{Stage: StageTone, Reason: "call failed", Cause: err}
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return unchanged, &GenerativeError{Stage: StageTone, Reason: "empty output", Cause: ai.ErrEmptyCompletion}
	}
	return ToneResult{Content: out, Tone: preferredStyle}, nil
}

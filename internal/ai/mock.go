package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/freedom_case_2/replydraft/internal/utils"
)

// MockCapability answers deterministically from the prompt, for local runs
// without a provider. Requests whose system prompt asks for JSON get a
// suggestion array back; everything else is echoed with a short preamble.
type MockCapability struct {
	ModelVersion string
}

func (m MockCapability) Complete(ctx context.Context, messages []Message, temperature float64, maxTokens int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var system, user string
	for _, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			system = msg.Content
		case RoleUser:
			user = msg.Content
		}
	}

	if strings.Contains(strings.ToLower(system), "json") {
		priorities := []string{"low", "medium", "high"}
		out := []map[string]any{
			{"type": "improvement", "message": "Préciser le délai de la prochaine mise à jour.", "priority": priorities[utils.Bucket(user, len(priorities))], "autoApply": false},
			{"type": "additional_info", "message": "Ajouter un lien vers la page de statut du service.", "priority": "low", "autoApply": false},
		}
		b, _ := json.Marshal(out)
		return string(b), nil
	}

	body := lastBlock(user)
	if body == "" {
		return "", ErrEmptyCompletion
	}
	return fmt.Sprintf("%s\n\n(%s #%d)", body, m.version(), utils.Bucket(user, 1000)), nil
}

func (m MockCapability) version() string {
	if m.ModelVersion == "" {
		return "mock-v1"
	}
	return m.ModelVersion
}

// lastBlock returns the text after the final "---" separator line, which is
// where the prompt library places the draft or ticket description.
func lastBlock(prompt string) string {
	prompt = strings.TrimSpace(prompt)
	if idx := strings.LastIndex(prompt, "\n---\n"); idx >= 0 {
		return strings.TrimSpace(prompt[idx+5:])
	}
	return prompt
}

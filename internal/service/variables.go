package service

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/freedom_case_2/replydraft/internal/models"
)

// Where a resolved value came from.
const (
	SourceContext     = "context"
	SourceDefault     = "default"
	SourcePlaceholder = "placeholder"
)

type Resolution struct {
	Value  string
	Source string
}

// resolver returns a value and whether it was taken from the request context.
// A non-empty value with fromContext=false is a generic fallback.
type resolver func(t models.TicketContext, p models.PersonalizationData) (value string, fromContext bool)

var resolvers = map[string]resolver{
	"customerName": func(_ models.TicketContext, p models.PersonalizationData) (string, bool) {
		return orGeneric(p.CustomerName, "Madame, Monsieur")
	},
	"customerId": func(_ models.TicketContext, p models.PersonalizationData) (string, bool) {
		return orGeneric(p.CustomerID, "")
	},
	"ticketId":     ticketID,
	"ticketNumber": ticketID,
	"subject": func(t models.TicketContext, _ models.PersonalizationData) (string, bool) {
		if s := strings.TrimSpace(t.Title); s != "" {
			return s, true
		}
		return orGeneric(truncateRunes(strings.TrimSpace(t.Description), 50), "votre demande")
	},
	"agentName": func(_ models.TicketContext, p models.PersonalizationData) (string, bool) {
		return orGeneric(p.AgentProfile.Name, "L'équipe support")
	},
	"responseTime": func(t models.TicketContext, _ models.PersonalizationData) (string, bool) {
		if IsHighestSeverity(t.Priority) {
			return "1 heure", true
		}
		return "24 heures", strings.TrimSpace(t.Priority) != ""
	},
	"faultType": func(t models.TicketContext, _ models.PersonalizationData) (string, bool) {
		return orGeneric(t.Type, "incident")
	},
	"priority": func(t models.TicketContext, _ models.PersonalizationData) (string, bool) {
		return orGeneric(t.Priority, "normale")
	},
	"category": func(t models.TicketContext, _ models.PersonalizationData) (string, bool) {
		return orGeneric(t.Category, "")
	},
	"symptoms": func(t models.TicketContext, _ models.PersonalizationData) (string, bool) {
		return orGeneric(strings.Join(t.Symptoms, ", "), "les symptômes signalés")
	},
	"previousAttempts": func(t models.TicketContext, _ models.PersonalizationData) (string, bool) {
		return strconv.Itoa(t.PreviousAttempts), t.PreviousAttempts > 0
	},
	"diagnosticSteps": func(t models.TicketContext, _ models.PersonalizationData) (string, bool) {
		if len(t.Symptoms) > 0 {
			return fmt.Sprintf("Nous analysons les symptômes signalés (%s) : vérification de la configuration, des journaux et de la connectivité.", strings.Join(t.Symptoms, ", ")), true
		}
		return "Nous procédons à un diagnostic complet : vérification de la configuration, des journaux et de la connectivité.", false
	},
	"resolutionSteps": func(models.TicketContext, models.PersonalizationData) (string, bool) {
		return "1. Redémarrez l'équipement concerné.\n2. Vérifiez que la configuration correspond à celle communiquée par nos équipes.\n3. Testez de nouveau le service.", false
	},
	"escalationReason": func(t models.TicketContext, _ models.PersonalizationData) (string, bool) {
		if t.PreviousAttempts > 0 {
			return fmt.Sprintf("Après %d tentatives de résolution, votre dossier nécessite l'intervention d'une équipe spécialisée.", t.PreviousAttempts), true
		}
		return "Votre dossier nécessite l'intervention d'une équipe spécialisée.", false
	},
	"escalationTeam": func(models.TicketContext, models.PersonalizationData) (string, bool) {
		return "notre équipe d'expertise de niveau 2", false
	},
	"nextSteps": func(models.TicketContext, models.PersonalizationData) (string, bool) {
		return "Nous reviendrons vers vous dès que nous aurons de nouvelles informations.", false
	},
}

func ticketID(t models.TicketContext, _ models.PersonalizationData) (string, bool) {
	return orGeneric(t.ID, "")
}

func orGeneric(v, generic string) (string, bool) {
	if v = strings.TrimSpace(v); v != "" {
		return v, true
	}
	return generic, false
}

// HasResolver reports whether name is computed from the request context.
func HasResolver(name string) bool {
	_, ok := resolvers[name]
	return ok
}

// ResolveVariable computes one value. Context wins over the declared default,
// which wins over the resolver's generic fallback; anything else renders as
// [name].
func ResolveVariable(v models.TemplateVariable, t models.TicketContext, p models.PersonalizationData) Resolution {
	var generic string
	if r, ok := resolvers[v.Name]; ok {
		value, fromContext := r(t, p)
		if fromContext {
			return Resolution{Value: value, Source: SourceContext}
		}
		generic = value
	}
	if v.Default != nil && *v.Default != "" {
		return Resolution{Value: *v.Default, Source: SourceDefault}
	}
	if generic != "" {
		return Resolution{Value: generic, Source: SourceDefault}
	}
	return Resolution{Value: placeholder(v.Name), Source: SourcePlaceholder}
}

// ResolveAll resolves every declared variable of tpl. A required variable that
// only resolves to its placeholder yields ErrMissingRequired.
func ResolveAll(tpl models.ResponseTemplate, t models.TicketContext, p models.PersonalizationData) (map[string]Resolution, error) {
	out := make(map[string]Resolution, len(tpl.Variables))
	for _, v := range tpl.Variables {
		r := ResolveVariable(v, t, p)
		if v.Required && r.Source == SourcePlaceholder {
			return nil, fmt.Errorf("%w: %s", ErrMissingRequired, v.Name)
		}
		out[v.Name] = r
	}
	return out, nil
}

var tokenPattern = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_.\-]+)\s*\}\}`)

// Render substitutes every {{name}} occurrence. Tokens with no value become
// [name], except those a resolver exists for: they are left in place and
// reported as a RenderError.
func Render(templateID, body string, values map[string]string) (string, error) {
	var leftover []string
	seen := map[string]bool{}
	out := tokenPattern.ReplaceAllStringFunc(body, func(token string) string {
		name := tokenPattern.FindStringSubmatch(token)[1]
		if v, ok := values[name]; ok {
			return v
		}
		if HasResolver(name) {
			if !seen[name] {
				seen[name] = true
				leftover = append(leftover, name)
			}
			return token
		}
		return placeholder(name)
	})
	if len(leftover) > 0 {
		return out, &RenderError{TemplateID: templateID, Tokens: leftover}
	}
	return out, nil
}

// Weighted credit for personalization: identity variables count more than
// descriptive ones.
var personalizationWeights = map[string]int{
	"customerName": 3,
	"customerId":   3,
	"agentName":    2,
	"ticketId":     2,
	"ticketNumber": 2,
	"subject":      2,
}

// PersonalizationLevel is the weighted share of variables resolved from
// context, in [0,100]. A template without variables scores 0.
func PersonalizationLevel(resolved map[string]Resolution) int {
	var earned, possible int
	for name, r := range resolved {
		w, ok := personalizationWeights[name]
		if !ok {
			w = 1
		}
		possible += w
		if r.Source == SourceContext {
			earned += w
		}
	}
	if possible == 0 {
		return 0
	}
	return models.Clamp(int(math.Round(100 * float64(earned) / float64(possible))))
}

// IsHighestSeverity matches CRITIQUE and CRITICAL regardless of case and
// accents.
func IsHighestSeverity(priority string) bool {
	p := strings.ToUpper(stripAccents(strings.TrimSpace(priority)))
	return p == "CRITIQUE" || p == "CRITICAL"
}

func stripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func placeholder(name string) string {
	return "[" + name + "]"
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}

func valueMap(resolved map[string]Resolution) map[string]string {
	out := make(map[string]string, len(resolved))
	for k, r := range resolved {
		out[k] = r.Value
	}
	return out
}

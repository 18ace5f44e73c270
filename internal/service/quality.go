package service

import (
	"math"
	"strings"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/freedom_case_2/replydraft/internal/metrics"
	"github.com/freedom_case_2/replydraft/internal/models"
)

// Word stems counted as empathetic, French and English.
var empathyStems = []string{
	"compren", "désolé", "navré", "excus", "regrett", "merci", "remerci", "patience",
	"understand", "sorry", "apolog", "thank", "appreciat",
}

var (
	referenceMarkers = []string{"ticket", "demande n°", "référence", "dossier", "request", "case"}
	nextStepMarkers  = []string{"prochaine étape", "prochaines étapes", "nous allons", "nous reviendrons", "nous revenons", "next step", "we will", "we'll"}
	contactMarkers   = []string{"n'hésitez pas", "contactez", "contacter", "disponible", "joignable", "feel free", "contact us", "reach us", "available"}
	closingMarkers   = []string{"cordialement", "bien à vous", "salutations", "merci", "best regards", "kind regards", "regards", "sincerely", "thank you", "thanks"}
	formalSignOffs   = []string{"cordialement", "bien à vous", "salutations", "sincères", "sincerely", "kind regards", "best regards"}
)

// QualityScorer computes heuristic quality metrics. Scores are informative:
// drafts under WarnThreshold are logged and counted, never blocked.
type QualityScorer struct {
	WarnThreshold int
	Logger        zerolog.Logger
}

func (q QualityScorer) Score(content string, t models.TicketContext, p models.PersonalizationData) models.ResponseQualityMetrics {
	m := ScoreQuality(content, t, p)
	metrics.QualityOverallScore.Observe(float64(m.OverallScore))
	if m.OverallScore < q.WarnThreshold {
		metrics.LowQualityDraftsTotal.Inc()
		q.Logger.Warn().
			Str("ticket_id", t.ID).
			Int("overall", m.OverallScore).
			Int("threshold", q.WarnThreshold).
			Msg("draft scored below quality threshold")
	}
	return m
}

// ScoreQuality is deterministic for a given input.
func ScoreQuality(content string, t models.TicketContext, p models.PersonalizationData) models.ResponseQualityMetrics {
	lower := normalizeText(content)
	m := models.ResponseQualityMetrics{
		Clarity:           clarity(content),
		Empathy:           empathy(lower),
		TechnicalAccuracy: technicalAccuracy(lower, t.Type),
		Completeness:      completeness(lower, t.ID),
		Appropriateness:   appropriateness(lower, p.CustomerPreferences.CommunicationStyle),
	}
	sum := m.Clarity + m.Empathy + m.TechnicalAccuracy + m.Completeness + m.Appropriateness
	m.OverallScore = models.Clamp(int(math.Round(float64(sum) / 5)))
	return m
}

func clarity(content string) int {
	words := len(strings.Fields(content))
	sentences := 0
	for _, s := range strings.FieldsFunc(content, func(r rune) bool { return r == '.' || r == '!' || r == '?' }) {
		if strings.TrimSpace(s) != "" {
			sentences++
		}
	}
	if sentences == 0 {
		sentences = 1
	}
	avg := float64(words) / float64(sentences)
	switch {
	case avg < 15:
		return 90
	case avg < 20:
		return 80
	case avg < 25:
		return 70
	default:
		return 60
	}
}

func empathy(lower string) int {
	hits := 0
	for _, w := range strings.FieldsFunc(lower, func(r rune) bool { return !unicode.IsLetter(r) }) {
		for _, stem := range empathyStems {
			if strings.HasPrefix(w, stem) {
				hits++
				break
			}
		}
	}
	return min(100, 20*hits)
}

func technicalAccuracy(lower, faultType string) int {
	ft := strings.ToLower(strings.TrimSpace(faultType))
	if ft != "" && strings.Contains(lower, ft) {
		return 85
	}
	return 70
}

func completeness(lower, ticketID string) int {
	score := 0
	id := strings.ToLower(strings.TrimSpace(ticketID))
	if (id != "" && strings.Contains(lower, id)) || containsAny(lower, referenceMarkers) {
		score += 25
	}
	if containsAny(lower, nextStepMarkers) {
		score += 25
	}
	if containsAny(lower, contactMarkers) {
		score += 25
	}
	if containsAny(lower, closingMarkers) {
		score += 25
	}
	return min(100, score)
}

func appropriateness(lower, style string) int {
	switch strings.ToLower(strings.TrimSpace(style)) {
	case models.StyleFormal:
		if containsAny(lower, formalSignOffs) {
			return 90
		}
	case models.StyleCasual:
		if !containsAny(lower, formalSignOffs) {
			return 85
		}
	case models.StyleTechnical:
		if strings.Contains(lower, "technique") {
			return 88
		}
	}
	return 75
}

func normalizeText(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), "’", "'")
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

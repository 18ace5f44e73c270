package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/freedom_case_2/replydraft/internal/ai"
	"github.com/freedom_case_2/replydraft/internal/events"
	"github.com/freedom_case_2/replydraft/internal/models"
	"github.com/freedom_case_2/replydraft/internal/templates"
)

var errProviderDown = errors.New("provider down")

// failingAI fails every call.
type failingAI struct {
	calls atomic.Int32
}

func (f *failingAI) Complete(context.Context, []ai.Message, float64, int) (string, error) {
	f.calls.Add(1)
	return "", errProviderDown
}

// replyAI answers every call with the same text.
type replyAI struct {
	reply string
	calls atomic.Int32
	last  []ai.Message
	mu    sync.Mutex
}

func (r *replyAI) Complete(_ context.Context, msgs []ai.Message, _ float64, _ int) (string, error) {
	r.calls.Add(1)
	r.mu.Lock()
	r.last = msgs
	r.mu.Unlock()
	return r.reply, nil
}

type brokenRepo struct {
	templates.Repository
	failCategory string
}

func (b brokenRepo) List(ctx context.Context, category string) ([]models.ResponseTemplate, error) {
	if b.failCategory == "" || b.failCategory == category {
		return nil, errors.New("connection refused")
	}
	return b.Repository.List(ctx, category)
}

type recordingPublisher struct {
	mu        sync.Mutex
	responses []models.GeneratedResponse
	outcomes  []events.OutcomeEvent
}

func (p *recordingPublisher) PublishResponse(_ context.Context, r models.GeneratedResponse) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.responses = append(p.responses, r)
	return nil
}

func (p *recordingPublisher) PublishOutcome(_ context.Context, ev events.OutcomeEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.outcomes = append(p.outcomes, ev)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func strPtr(s string) *string { return &s }

func scenarioTicket() models.TicketContext {
	return models.TicketContext{
		ID:          "T-2024-001",
		Title:       "Perte de connexion internet",
		Category:    "incident",
		Priority:    "CRITIQUE",
		Type:        "RÉSEAU",
		Description: "Plus aucun accès internet sur le site principal depuis ce matin.",
		Symptoms:    []string{"pas de synchronisation", "voyant rouge"},
	}
}

func scenarioPersonalization() models.PersonalizationData {
	return models.PersonalizationData{
		CustomerID:   "C-17",
		CustomerName: "Marie Dupont",
		CustomerPreferences: models.CustomerPreferences{
			Language:           "fr",
			CommunicationStyle: models.StyleFormal,
			TechnicalLevel:     "intermédiaire",
		},
		AgentProfile: models.AgentProfile{ID: "A-3", Name: "Julien Martin"},
	}
}

func ackTemplate() models.NewTemplate {
	return models.NewTemplate{
		Title:    "Accusé de réception",
		Category: models.ResponseAcknowledgment,
		Language: "fr",
		Tone:     models.ToneFormal,
		Body: "Bonjour {{customerName}},\n\nNous avons bien reçu votre demande n°{{ticketId}} concernant « {{subject}} ».\n" +
			"Un technicien prendra en charge votre dossier dans un délai de {{responseTime}} et nous reviendrons vers vous dès le diagnostic posé.\n" +
			"N'hésitez pas à nous contacter pour toute information complémentaire.\n\nCordialement,\n{{agentName}}",
		Variables: []models.TemplateVariable{
			{Name: "customerName", Required: true},
			{Name: "ticketId", Required: true},
			{Name: "subject", Required: true},
			{Name: "responseTime", Required: true},
			{Name: "agentName", Default: strPtr("L'équipe support")},
		},
		ContextTags: []string{"new_ticket"},
	}
}

func newPipeline(repo templates.Repository, capability ai.Capability) (*Pipeline, *recordingPublisher) {
	pub := &recordingPublisher{}
	return &Pipeline{
		Templates: repo,
		AI:        capability,
		Events:    pub,
		Quality:   QualityScorer{WarnThreshold: 60, Logger: zerolog.Nop()},
		MaxTokens: 512,
		Logger:    zerolog.Nop(),
	}, pub
}

package models

import "time"

const (
	ResponseAcknowledgment = "acknowledgment"
	ResponseProgress       = "progress"
	ResponseSolution       = "solution"
	ResponseEscalation     = "escalation"
	ResponseCustom         = "custom"
)

// IsResponseType reports whether s names a response category.
func IsResponseType(s string) bool {
	switch s {
	case ResponseAcknowledgment, ResponseProgress, ResponseSolution, ResponseEscalation, ResponseCustom:
		return true
	}
	return false
}

const (
	StyleFormal    = "formal"
	StyleCasual    = "casual"
	StyleTechnical = "technical"

	ToneFormal    = "formal"
	ToneFriendly  = "friendly"
	ToneTechnical = "technical"
)

type TemplateVariable struct {
	Name        string   `json:"name" yaml:"name" validate:"required"`
	Type        string   `json:"type" yaml:"type"`
	Required    bool     `json:"required" yaml:"required"`
	Description string   `json:"description" yaml:"description"`
	Default     *string  `json:"default,omitempty" yaml:"default,omitempty"`
	Options     []string `json:"options,omitempty" yaml:"options,omitempty"`
}

type ResponseTemplate struct {
	ID          string             `json:"id"`
	Title       string             `json:"title" validate:"required"`
	Category    string             `json:"category" validate:"required,oneof=acknowledgment progress solution escalation custom"`
	Priority    string             `json:"priority"`
	Language    string             `json:"language" validate:"required"`
	Body        string             `json:"template" validate:"required"`
	Variables   []TemplateVariable `json:"variables" validate:"dive"`
	Tone        string             `json:"tone" validate:"required"`
	ContextTags []string           `json:"context_tags"`
	SuccessRate float64            `json:"success_rate"`
	UsageCount  int                `json:"usage_count"`
	LastUpdated time.Time          `json:"last_updated"`
}

// NewTemplate is a template before the repository assigns the derived fields.
type NewTemplate struct {
	Title       string             `json:"title" yaml:"title" validate:"required"`
	Category    string             `json:"category" yaml:"category" validate:"required,oneof=acknowledgment progress solution escalation custom"`
	Priority    string             `json:"priority" yaml:"priority"`
	Language    string             `json:"language" yaml:"language" validate:"required"`
	Body        string             `json:"template" yaml:"template" validate:"required"`
	Variables   []TemplateVariable `json:"variables" yaml:"variables" validate:"dive"`
	Tone        string             `json:"tone" yaml:"tone" validate:"required"`
	ContextTags []string           `json:"context_tags" yaml:"context_tags"`
}

type CustomerInteraction struct {
	Type           string    `json:"type"`
	Date           time.Time `json:"date"`
	Subject        string    `json:"subject"`
	Sentiment      string    `json:"sentiment"`
	ResolutionTime float64   `json:"resolution_time"`
	Satisfaction   *float64  `json:"satisfaction,omitempty"`
}

type CustomerPreferences struct {
	Language           string `json:"language"`
	CommunicationStyle string `json:"communication_style" validate:"omitempty,oneof=formal casual technical"`
	PreferredContact   string `json:"preferred_contact"`
	Timezone           string `json:"timezone"`
	TechnicalLevel     string `json:"technical_level"`
}

type TicketContext struct {
	ID               string   `json:"id" validate:"required"`
	Title            string   `json:"title,omitempty"`
	Category         string   `json:"category"`
	Priority         string   `json:"priority"`
	Type             string   `json:"type"`
	Description      string   `json:"description"`
	Symptoms         []string `json:"symptoms"`
	Urgency          string   `json:"urgency"`
	Impact           string   `json:"impact"`
	PreviousAttempts int      `json:"previous_attempts" validate:"gte=0"`
}

type AgentProfile struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	Expertise           []string `json:"expertise"`
	CommunicationStyle  string   `json:"communication_style"`
	AverageResponseTime float64  `json:"average_response_time"`
	Satisfaction        float64  `json:"satisfaction"`
}

type PersonalizationData struct {
	CustomerID          string                `json:"customer_id"`
	CustomerName        string                `json:"customer_name,omitempty"`
	InteractionHistory  []CustomerInteraction `json:"interaction_history"`
	CustomerPreferences CustomerPreferences   `json:"customer_preferences"`
	TicketContext       TicketContext         `json:"ticket_context" validate:"-"`
	AgentProfile        AgentProfile          `json:"agent_profile"`
}

const (
	SuggestionImprovement    = "improvement"
	SuggestionAlternative    = "alternative"
	SuggestionAdditionalInfo = "additional_info"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

type ResponseSuggestion struct {
	Type      string `json:"type"`
	Message   string `json:"message"`
	Priority  string `json:"priority"`
	AutoApply bool   `json:"auto_apply"`
}

type GeneratedResponse struct {
	ID                   string               `json:"id"`
	TicketID             string               `json:"ticket_id"`
	Content              string               `json:"content"`
	Tone                 string               `json:"tone"`
	Confidence           int                  `json:"confidence"`
	TemplateUsed         *string              `json:"template_used,omitempty"`
	Variables            map[string]string    `json:"variables"`
	PersonalizationLevel int                  `json:"personalization_level"`
	EstimatedReadTime    int                  `json:"estimated_read_time"`
	Language             string               `json:"language"`
	Suggestions          []ResponseSuggestion `json:"suggestions"`
	CreatedAt            time.Time            `json:"created_at"`
}

type ResponseQualityMetrics struct {
	Clarity           int `json:"clarity"`
	Empathy           int `json:"empathy"`
	TechnicalAccuracy int `json:"technical_accuracy"`
	Completeness      int `json:"completeness"`
	Appropriateness   int `json:"appropriateness"`
	OverallScore      int `json:"overall_score"`
}

// Clamp bounds v into [0,100].
func Clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func ClampFloat(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

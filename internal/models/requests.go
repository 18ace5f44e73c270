package models

// GenerateRequest asks the pipeline for one draft.
type GenerateRequest struct {
	Ticket          TicketContext       `json:"ticket"`
	Personalization PersonalizationData `json:"personalization"`
	ResponseType    string              `json:"response_type" validate:"required,oneof=acknowledgment progress solution escalation custom"`
	WithQuality     bool                `json:"with_quality"`
}

type GenerateResult struct {
	GeneratedResponse
	Quality *ResponseQualityMetrics `json:"quality,omitempty"`
}

type BatchRequest struct {
	Items []GenerateRequest `json:"items" validate:"required,min=1,max=50,dive"`
}

// BatchItemResult holds either a draft or the reason the item failed.
type BatchItemResult struct {
	Index    int             `json:"index"`
	Response *GenerateResult `json:"response,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// ScoreRequest scores arbitrary text; ticket and personalization are optional.
type ScoreRequest struct {
	Content         string               `json:"content" validate:"required"`
	Ticket          *TicketContext       `json:"ticket"`
	Personalization *PersonalizationData `json:"personalization"`
}

type OutcomeRequest struct {
	Success *bool `json:"success" validate:"required"`
}

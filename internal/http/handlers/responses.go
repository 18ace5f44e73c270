package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/freedom_case_2/replydraft/internal/models"
	"github.com/freedom_case_2/replydraft/internal/service"
)

// @Summary Generate a draft reply
// @Description Selects a template (or drafts from scratch), personalizes it and returns suggestions
// @Tags responses
// @Accept json
// @Produce json
// @Param request body models.GenerateRequest true "Ticket, personalization and response type"
// @Success 200 {object} models.GenerateResult
// @Failure 400 {object} map[string]any
// @Failure 503 {object} map[string]any
// @Router /api/responses/generate [post]
func (h *Handler) Generate(c *gin.Context) {
	var req models.GenerateRequest
	if !h.bind(c, &req) {
		return
	}

	resp, err := h.Pipeline.GenerateResponse(c.Request.Context(), req.Ticket, req.Personalization, req.ResponseType)
	if err != nil {
		h.writePipelineError(c, err)
		return
	}
	out := models.GenerateResult{GeneratedResponse: resp}
	if req.WithQuality {
		q := h.Pipeline.Score(resp.Content, req.Ticket, req.Personalization)
		out.Quality = &q
	}
	c.JSON(http.StatusOK, out)
}

// @Summary Generate drafts in parallel
// @Tags responses
// @Accept json
// @Produce json
// @Param request body models.BatchRequest true "Up to 50 generate requests"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Router /api/responses/batch [post]
func (h *Handler) Batch(c *gin.Context) {
	var req models.BatchRequest
	if !h.bind(c, &req) {
		return
	}
	results := h.Pipeline.GenerateBatch(c.Request.Context(), req.Items, h.BatchConcurrency)
	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
	}
	c.JSON(http.StatusOK, gin.H{"items": results, "failed": failed})
}

// @Summary Score a reply
// @Description Heuristic clarity, empathy, accuracy, completeness and appropriateness scores
// @Tags responses
// @Accept json
// @Produce json
// @Param request body models.ScoreRequest true "Text to score"
// @Success 200 {object} models.ResponseQualityMetrics
// @Failure 400 {object} map[string]any
// @Router /api/responses/score [post]
func (h *Handler) Score(c *gin.Context) {
	var req models.ScoreRequest
	if !h.bind(c, &req) {
		return
	}
	var (
		ticket models.TicketContext
		p      models.PersonalizationData
	)
	if req.Ticket != nil {
		ticket = *req.Ticket
	}
	if req.Personalization != nil {
		p = *req.Personalization
	}
	c.JSON(http.StatusOK, h.Pipeline.Score(req.Content, ticket, p))
}

// @Summary Debug template selection
// @Description Per-candidate score breakdown for a generate request, without generating
// @Tags debug
// @Accept json
// @Produce json
// @Param request body models.GenerateRequest true "Ticket, personalization and response type"
// @Success 200 {object} service.SelectionResult
// @Router /api/debug/selection [post]
func (h *Handler) DebugSelection(c *gin.Context) {
	var req models.GenerateRequest
	if !h.bind(c, &req) {
		return
	}
	res, err := service.Selector{Templates: h.Templates}.Select(c.Request.Context(), req.Ticket, req.ResponseType, req.Personalization)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list templates", err.Error())
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) writePipelineError(c *gin.Context, err error) {
	var pipeErr *service.PipelineError
	if errors.As(err, &pipeErr) {
		h.Logger.Error().Err(err).Str("stage", pipeErr.Stage).Msg("draft unavailable")
		writeError(c, http.StatusServiceUnavailable, "DRAFT_UNAVAILABLE", "Draft unavailable, reply manually", pipeErr.Stage)
		return
	}
	h.Logger.Error().Err(err).Msg("generation failed")
	writeError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Generation failed", err.Error())
}

package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/freedom_case_2/replydraft/internal/models"
	"github.com/freedom_case_2/replydraft/internal/templates"
)

// @Summary List templates
// @Tags templates
// @Produce json
// @Param category query string false "Category filter"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Router /api/templates [get]
func (h *Handler) ListTemplates(c *gin.Context) {
	category := strings.ToLower(strings.TrimSpace(c.Query("category")))
	if category != "" && !models.IsResponseType(category) {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Unknown category", category)
		return
	}
	items, err := h.Templates.List(c.Request.Context(), category)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list templates", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// @Summary Add a template
// @Tags templates
// @Accept json
// @Produce json
// @Param template body models.NewTemplate true "Template"
// @Success 201 {object} models.ResponseTemplate
// @Failure 400 {object} map[string]any
// @Router /api/templates [post]
func (h *Handler) AddTemplate(c *gin.Context) {
	var req models.NewTemplate
	if !h.bind(c, &req) {
		return
	}
	tpl, err := h.Templates.Add(c.Request.Context(), req)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to add template", err.Error())
		return
	}
	h.Logger.Info().Str("template_id", tpl.ID).Str("category", tpl.Category).Msg("template added")
	c.JSON(http.StatusCreated, tpl)
}

// @Summary Record a template outcome
// @Description Reports whether a draft built from the template was accepted
// @Tags templates
// @Accept json
// @Produce json
// @Param id path string true "Template ID"
// @Param request body models.OutcomeRequest true "Outcome"
// @Success 200 {object} models.ResponseTemplate
// @Failure 404 {object} map[string]any
// @Router /api/templates/{id}/outcome [post]
func (h *Handler) RecordOutcome(c *gin.Context) {
	var req models.OutcomeRequest
	if !h.bind(c, &req) {
		return
	}
	tpl, err := h.Pipeline.RecordOutcome(c.Request.Context(), c.Param("id"), *req.Success)
	if err != nil {
		if errors.Is(err, templates.ErrNotFound) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Template not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to record outcome", err.Error())
		return
	}
	c.JSON(http.StatusOK, tpl)
}

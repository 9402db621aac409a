package handler

import (
	"net/http"

	"descontamina/internal/catalog"
	"descontamina/internal/view"

	"go.uber.org/zap"
)

// PageHandler serves the static pages of the site
type PageHandler struct {
	renderer *view.Renderer
	survey   view.SurveyPage
	schedule view.SchedulePage
	logger   *zap.Logger
}

// NewPageHandler creates a new page handler; the survey layout is computed once
func NewPageHandler(renderer *view.Renderer, cat *catalog.Catalog, submitURL, calLink string, logger *zap.Logger) *PageHandler {
	return &PageHandler{
		renderer: renderer,
		survey:   view.NewSurveyPage(cat, submitURL),
		schedule: view.SchedulePage{CalLink: calLink},
		logger:   logger,
	}
}

// Landing handles GET /
func (h *PageHandler) Landing(w http.ResponseWriter, r *http.Request) {
	renderPage(w, h.renderer, h.logger, http.StatusOK, view.PageLanding, nil)
}

// Survey handles GET /diagnostico
func (h *PageHandler) Survey(w http.ResponseWriter, r *http.Request) {
	renderPage(w, h.renderer, h.logger, http.StatusOK, view.PageSurvey, h.survey)
}

// Schedule handles GET /agenda
func (h *PageHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	renderPage(w, h.renderer, h.logger, http.StatusOK, view.PageSchedule, h.schedule)
}

// NotFound renders the error page for unknown routes
func (h *PageHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	renderError(w, h.renderer, h.logger, http.StatusNotFound, "Página não encontrada.")
}

func renderPage(w http.ResponseWriter, renderer *view.Renderer, logger *zap.Logger, status int, page string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := renderer.Render(w, page, data); err != nil {
		logger.Error("failed to render page", zap.String("page", page), zap.Error(err))
	}
}

func renderError(w http.ResponseWriter, renderer *view.Renderer, logger *zap.Logger, status int, message string) {
	renderPage(w, renderer, logger, status, view.PageError, view.ErrorPage{Status: status, Message: message})
}

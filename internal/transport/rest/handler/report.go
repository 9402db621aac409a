package handler

import (
	"errors"
	"net/http"

	"descontamina/internal/service"
	"descontamina/internal/view"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// ReportHandler serves the rendered diagnosis report
type ReportHandler struct {
	reports  *service.ReportService
	renderer *view.Renderer
	logger   *zap.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(reports *service.ReportService, renderer *view.Renderer, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{reports: reports, renderer: renderer, logger: logger}
}

// Get handles GET /relatorio/{ref}
// @Summary Render a diagnosis report
// @Produce html
// @Param ref path string true "report reference"
// @Success 200 {string} string "HTML page"
// @Failure 404 {string} string "HTML page"
// @Failure 500 {string} string "HTML page"
// @Failure 503 {string} string "HTML page"
// @Router /relatorio/{ref} [get]
func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	ref := mux.Vars(r)["ref"]

	report, err := h.reports.View(r.Context(), ref)
	if err != nil {
		status, message := reportErrorStatus(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("report unavailable", zap.String("ref", ref), zap.Error(err))
		}
		renderError(w, h.renderer, h.logger, status, message)
		return
	}

	renderPage(w, h.renderer, h.logger, http.StatusOK, view.PageReport, report)
}

func reportErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, "Serviço de relatório temporariamente indisponível."
	case errors.Is(err, service.ErrReportNotFound):
		return http.StatusNotFound, "Relatório não encontrado."
	default:
		return http.StatusInternalServerError, "Não foi possível carregar o relatório."
	}
}

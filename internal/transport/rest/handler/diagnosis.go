package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"descontamina/internal/service"

	"go.uber.org/zap"
)

const maxPayloadBytes = 64 << 10

// ReportURLFunc builds the absolute report address for a reference
type ReportURLFunc func(r *http.Request, ref string) (string, error)

// DiagnosisHandler accepts survey submissions
type DiagnosisHandler struct {
	submissions *service.SubmissionService
	reportURL   ReportURLFunc
	logger      *zap.Logger
}

// NewDiagnosisHandler creates a new diagnosis handler
func NewDiagnosisHandler(submissions *service.SubmissionService, reportURL ReportURLFunc, logger *zap.Logger) *DiagnosisHandler {
	return &DiagnosisHandler{submissions: submissions, reportURL: reportURL, logger: logger}
}

// Submit handles POST /api/submit_diagnosis
// @Summary Submit a diagnosis
// @Description Stores the survey answers and returns the report address
// @Accept json
// @Produce json
// @Param payload body object true "identity, SWOT and q-<dimension>-<n> scores"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 429 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/submit_diagnosis [post]
func (h *DiagnosisHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var payload map[string]any
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPayloadBytes))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil || payload == nil {
		writeError(w, http.StatusBadRequest, "Dados inválidos")
		return
	}

	ref, err := h.submissions.Submit(r.Context(), payload)
	switch {
	case errors.Is(err, service.ErrValidation):
		writeError(w, http.StatusBadRequest, "Dados inválidos")
		return
	case err != nil:
		h.logger.Error("submission failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Não foi possível salvar os dados")
		return
	}

	url, err := h.reportURL(r, ref)
	if err != nil {
		h.logger.Error("failed to build report url", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Não foi possível salvar os dados")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "success", "report_url": url})
}
